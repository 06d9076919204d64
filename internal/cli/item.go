package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zhengda-lu/scanmenu/internal/menu"
	"github.com/zhengda-lu/scanmenu/internal/selection"
)

var itemPaths bool

var itemCmd = &cobra.Command{
	Use:         "item [URI...]",
	Short:       "Scan the selected file (file manager item trigger)",
	Long:        "Scan the single selected file or directory. Nothing happens unless exactly one entry is selected.",
	Annotations: map[string]string{hostAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := entriesFromArgs(args, itemPaths)
		if err != nil {
			log.Warn().Err(err).Msg("ignoring selection")
			return nil
		}
		activateFirst(buildAdapter().FileItems(sel), sel)
		return nil
	},
}

var backgroundPaths bool

var backgroundCmd = &cobra.Command{
	Use:         "background URI",
	Short:       "Scan the browsed directory (file manager background trigger)",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{hostAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := entriesFromArgs(args, backgroundPaths)
		if err != nil {
			log.Warn().Err(err).Msg("ignoring directory")
			return nil
		}
		activateFirst(buildAdapter().BackgroundItems(sel[0]), sel)
		return nil
	},
}

// activateFirst activates the first offered item, if any.
func activateFirst(items []menu.Item, sel selection.Selection) {
	if len(items) == 0 {
		log.Info().Int("selected", len(sel)).Msg("no menu item offered, nothing to scan")
		return
	}
	items[0].Activate()
}

func init() {
	itemCmd.Flags().BoolVar(&itemPaths, "path", false, "Arguments are filesystem paths instead of file:// URIs")
	backgroundCmd.Flags().BoolVar(&backgroundPaths, "path", false, "Argument is a filesystem path instead of a file:// URI")
}
