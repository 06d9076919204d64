package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zhengda-lu/scanmenu/internal/menu"
)

type menuJSON struct {
	Version  string         `json:"version"`
	Language string         `json:"language"`
	Items    []menuItemJSON `json:"items"`
}

type menuItemJSON struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Tip   string `json:"tip"`
	Icon  string `json:"icon"`
}

func buildMenuJSON(items []menu.Item, lang string) menuJSON {
	out := menuJSON{Version: version, Language: lang, Items: make([]menuItemJSON, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, menuItemJSON{
			Name:  it.Name,
			Label: it.Label,
			Tip:   it.Tip,
			Icon:  it.Icon,
		})
	}
	return out
}

type integrationStatusJSON struct {
	Target    string   `json:"target"`
	Installed bool     `json:"installed"`
	Files     []string `json:"files"`
}

type configWarningJSON struct {
	Field      string `json:"field,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
