package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zhengda-lu/scanmenu/internal/integration"
	"github.com/zhengda-lu/scanmenu/internal/utils"
)

var (
	integrationTargets []string
	integrationBinary  string
	integrationDataDir string
	integrationPrint   bool
)

var integrationCmd = &cobra.Command{
	Use:   "integration",
	Short: "Manage file manager menu entries",
	Long:  "Install, remove, or inspect the context-menu definitions scanmenu registers with Nautilus, Nemo and Dolphin.",
}

var integrationInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install menu entries for the configured file managers",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		binary, err := resolveBinary()
		if err != nil {
			return err
		}
		opts := integration.Options{
			Binary:     binary,
			Icon:       appConfig.Icon,
			Translator: buildTranslator(),
		}

		for _, target := range selectedTargets() {
			if integrationPrint {
				files, err := integration.Generate(target, dataDir, opts)
				if err != nil {
					return err
				}
				printGenerated(os.Stdout, files)
				continue
			}

			written, err := integration.Install(target, dataDir, opts)
			if err != nil {
				return fmt.Errorf("failed to install %s integration: %w", target, err)
			}
			log.Debug().Str("target", target).Strs("files", written).Msg("installed integration")
			if !jsonFlag {
				fmt.Printf("%s %s\n", labelStyle.Render(target), statusMark(true))
				for _, p := range written {
					fmt.Printf("  %s\n", dimStyle.Render(p))
				}
			}
		}

		if jsonFlag && !integrationPrint {
			return printIntegrationStatus(dataDir)
		}
		return nil
	},
}

var integrationUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove menu entries installed by scanmenu",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		for _, target := range selectedTargets() {
			if err := integration.Uninstall(target, dataDir); err != nil {
				return fmt.Errorf("failed to uninstall %s integration: %w", target, err)
			}
			if !jsonFlag {
				fmt.Printf("%s %s\n", labelStyle.Render(target), statusMark(false))
			}
		}
		if jsonFlag {
			return printIntegrationStatus(dataDir)
		}
		return nil
	},
}

var integrationStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which file manager menu entries are installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		return printIntegrationStatus(dataDir)
	},
}

func printIntegrationStatus(dataDir string) error {
	statuses := make([]integrationStatusJSON, 0, len(selectedTargets()))
	for _, target := range selectedTargets() {
		installed, err := integration.Status(target, dataDir)
		if err != nil {
			return err
		}
		files, _ := integration.Paths(target, dataDir)
		statuses = append(statuses, integrationStatusJSON{Target: target, Installed: installed, Files: files})
	}

	if jsonFlag {
		return printJSON(statuses)
	}
	for _, s := range statuses {
		fmt.Printf("%-10s %s\n", s.Target, statusMark(s.Installed))
		for _, f := range s.Files {
			fmt.Printf("  %s\n", dimStyle.Render(f))
		}
	}
	return nil
}

func printGenerated(w io.Writer, files []integration.File) {
	for _, f := range files {
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render(f.Path), dimStyle.Render(fmt.Sprintf("(%o)", f.Mode)))
		fmt.Fprintln(w, f.Content)
	}
}

// selectedTargets returns --target if given, else the configured list.
func selectedTargets() []string {
	if len(integrationTargets) > 0 {
		return integrationTargets
	}
	if appConfig != nil && len(appConfig.Integrations) > 0 {
		return appConfig.Integrations
	}
	return integration.Targets()
}

func resolveDataDir() (string, error) {
	if integrationDataDir != "" {
		return filepath.Abs(utils.ExpandHome(integrationDataDir))
	}
	return utils.DataDir(), nil
}

func resolveBinary() (string, error) {
	if integrationBinary != "" {
		return filepath.Abs(utils.ExpandHome(integrationBinary))
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to determine scanmenu binary path: %w", err)
	}
	return exe, nil
}

func init() {
	for _, c := range []*cobra.Command{integrationInstallCmd, integrationUninstallCmd, integrationStatusCmd} {
		c.Flags().StringSliceVar(&integrationTargets, "target", nil, "File managers to act on (nautilus, nemo, kde)")
		c.Flags().StringVar(&integrationDataDir, "data-dir", "", "Data directory to install into (default $XDG_DATA_HOME or ~/.local/share)")
	}
	integrationInstallCmd.Flags().StringVar(&integrationBinary, "binary", "", "scanmenu binary the entries invoke (default this executable)")
	integrationInstallCmd.Flags().BoolVar(&integrationPrint, "print", false, "Print the generated files instead of writing them")

	integrationCmd.AddCommand(integrationInstallCmd)
	integrationCmd.AddCommand(integrationUninstallCmd)
	integrationCmd.AddCommand(integrationStatusCmd)
}
