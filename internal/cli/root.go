package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zhengda-lu/scanmenu/internal/config"
	"github.com/zhengda-lu/scanmenu/internal/i18n"
	"github.com/zhengda-lu/scanmenu/internal/launcher"
	"github.com/zhengda-lu/scanmenu/internal/menu"
	"github.com/zhengda-lu/scanmenu/internal/notify"
	"github.com/zhengda-lu/scanmenu/internal/selection"
	"github.com/zhengda-lu/scanmenu/internal/utils"
)

// hostAnnotation marks commands a file manager calls directly. They must
// never fail on the host's behalf.
const hostAnnotation = "scanmenu/host"

var (
	jsonFlag    bool
	verboseFlag bool
	configPath  string
	appConfig   *config.Config

	// Set via ldflags at build time.
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "scanmenu",
	Short:   "Scan files for threats from your file manager",
	Long:    "scanmenu adds \"Scan for threats...\" entries to file manager context menus and\nlaunches an external virus scanner (clamtk by default) on the selected file or directory.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Flags().Changed("version") {
			appConfig = config.Default()
			setupLogger(appConfig)
			return nil
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			if cmd.Annotations[hostAnnotation] == "" {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = config.Default()
			setupLogger(cfg)
			log.Warn().Err(err).Msg("using default config")
		}
		appConfig = cfg
		setupLogger(appConfig)

		for _, w := range appConfig.Validate() {
			log.Warn().Str("field", w.Field).Msg(w.Message)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if shell, _ := cmd.Flags().GetString("generate-completion"); shell != "" {
			switch shell {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			default:
				return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
			}
		}
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("scanmenu %s\n", version))
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/scanmenu/config.yaml)")
	rootCmd.Flags().String("generate-completion", "", "Generate shell completion (bash, zsh, fish)")
	rootCmd.Flags().MarkHidden("generate-completion")
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(backgroundCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(integrationCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogger points the global zerolog logger at stderr.
func setupLogger(cfg *config.Config) {
	level := cfg.Level()
	if verboseFlag {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Str("app", "scanmenu").
		Logger()
}

func buildTranslator() *i18n.Catalog {
	return i18n.New(i18n.Detect(appConfig.Locale))
}

func buildAdapter() *menu.Adapter {
	if appConfig == nil {
		appConfig = config.Default()
	}

	inv := launcher.New(utils.ExpandHome(appConfig.Scanner.Binary), appConfig.Scanner.Args, appConfig.Shell)

	var n notify.Notifier = notify.Nop{}
	if appConfig.Notify.Enabled {
		d := notify.NewDesktop("scanmenu", appConfig.Icon)
		d.Timeout = appConfig.NotifyTimeout()
		n = d
	}

	return menu.New(inv,
		menu.WithTranslator(buildTranslator()),
		menu.WithNotifier(n),
		menu.WithLogger(log.Logger),
		menu.WithIcon(appConfig.Icon),
	)
}

// entriesFromArgs turns host arguments into selection entries. With
// asPaths the arguments are filesystem paths rather than file URIs.
func entriesFromArgs(args []string, asPaths bool) (selection.Selection, error) {
	sel := make(selection.Selection, 0, len(args))
	for _, a := range args {
		if !asPaths {
			sel = append(sel, selection.NewEntry(a))
			continue
		}
		abs, err := filepath.Abs(utils.ExpandHome(a))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", a, err)
		}
		sel = append(sel, selection.FromPath(abs))
	}
	return sel, nil
}

// RootCmd returns the root cobra command for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}
