package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zhengda-lu/scanmenu/internal/config"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := resolveConfigPath()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}

		_, warnings := config.LoadAndValidate(data)

		if jsonFlag {
			out := make([]configWarningJSON, 0, len(warnings))
			for _, w := range warnings {
				out = append(out, configWarningJSON{Field: w.Field, Message: w.Message, Suggestion: w.Suggestion})
			}
			return printJSON(out)
		}

		if len(warnings) == 0 {
			fmt.Printf("Config OK (%s)\n", cfgPath)
			return nil
		}

		fmt.Printf("Found %d warning(s) in %s:\n", len(warnings), cfgPath)
		for _, w := range warnings {
			if w.Field != "" {
				fmt.Printf("  [%s] %s\n", w.Field, w.Message)
			} else {
				fmt.Printf("  %s\n", w.Message)
			}
			if w.Suggestion != "" {
				fmt.Printf("    suggestion: %s\n", dimStyle.Render(w.Suggestion))
			}
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonFlag {
			return printJSON(appConfig)
		}
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
