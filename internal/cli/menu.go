package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zhengda-lu/scanmenu/internal/menu"
	"github.com/zhengda-lu/scanmenu/internal/selection"
	"github.com/zhengda-lu/scanmenu/internal/utils"
)

var (
	menuBackground bool
	menuPaths      bool
)

var menuCmd = &cobra.Command{
	Use:   "menu [URI...]",
	Short: "Show the menu items a selection would be offered",
	Long:  "Show the context-menu items the file manager would display for the given selection, without launching anything.",
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := entriesFromArgs(args, menuPaths)
		if err != nil {
			return err
		}

		a := buildAdapter()
		var items []menu.Item
		if menuBackground {
			if len(sel) != 1 {
				return fmt.Errorf("--background takes exactly one directory, got %d", len(sel))
			}
			if menuPaths {
				if p, _ := selection.Decode(sel[0].URI); !utils.DirExists(p) {
					return fmt.Errorf("%s is not a directory", args[0])
				}
			}
			items = a.BackgroundItems(sel[0])
		} else {
			items = a.FileItems(sel)
		}

		if jsonFlag {
			return printJSON(buildMenuJSON(items, buildTranslator().Language().String()))
		}
		printMenuItems(os.Stdout, items, len(sel))
		return nil
	},
}

func printMenuItems(w io.Writer, items []menu.Item, selected int) {
	if len(items) == 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("No menu items offered for %d selected entries.", selected)))
		return
	}
	for _, it := range items {
		fmt.Fprintf(w, "%s  %s\n", labelStyle.Render(it.Label), dimStyle.Render("("+it.Name+")"))
		fmt.Fprintf(w, "  %s\n", it.Tip)
		fmt.Fprintf(w, "  icon: %s\n", it.Icon)
	}
}

func init() {
	menuCmd.Flags().BoolVar(&menuBackground, "background", false, "Show the directory background item instead")
	menuCmd.Flags().BoolVar(&menuPaths, "path", false, "Arguments are filesystem paths instead of file:// URIs")
}
