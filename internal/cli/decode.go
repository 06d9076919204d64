package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zhengda-lu/scanmenu/internal/launcher"
	"github.com/zhengda-lu/scanmenu/internal/selection"
	"github.com/zhengda-lu/scanmenu/internal/utils"
)

var decodeCmd = &cobra.Command{
	Use:   "decode URI...",
	Short: "Show the path and shell argument a file URI decodes to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := decodeAll(args)
		if jsonFlag {
			return printJSON(results)
		}
		printDecoded(os.Stdout, results, utils.ExpandHome(appConfig.Scanner.Binary), appConfig.Scanner.Args)

		for _, r := range results {
			if r.Error != "" {
				return fmt.Errorf("%d of %d uris could not be decoded", countFailed(results), len(results))
			}
		}
		return nil
	},
}

type decodeJSON struct {
	URI    string `json:"uri"`
	Path   string `json:"path,omitempty"`
	Quoted string `json:"quoted,omitempty"`
	Error  string `json:"error,omitempty"`
}

func decodeAll(uris []string) []decodeJSON {
	results := make([]decodeJSON, 0, len(uris))
	for _, uri := range uris {
		arg, err := selection.Parse(uri)
		if err != nil {
			results = append(results, decodeJSON{URI: uri, Error: err.Error()})
			continue
		}
		results = append(results, decodeJSON{URI: uri, Path: arg.Path, Quoted: arg.Quoted})
	}
	return results
}

func countFailed(results []decodeJSON) int {
	n := 0
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	return n
}

func printDecoded(w io.Writer, results []decodeJSON, binary string, args []string) {
	for _, r := range results {
		fmt.Fprintln(w, titleStyle.Render(r.URI))
		if r.Error != "" {
			fmt.Fprintf(w, "  %s\n", errStyle.Render(r.Error))
			continue
		}
		fmt.Fprintf(w, "  path:    %s\n", r.Path)
		fmt.Fprintf(w, "  quoted:  %s\n", r.Quoted)
		fmt.Fprintf(w, "  command: %s\n", dimStyle.Render(launcher.CommandLine(binary, args, r.Quoted)))
	}
}
