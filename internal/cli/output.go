package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// statusMark renders an installed/missing marker.
func statusMark(ok bool) string {
	if ok {
		return okStyle.Render("installed")
	}
	return dimStyle.Render("not installed")
}
