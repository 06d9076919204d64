package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"
	"github.com/zhengda-lu/scanmenu/internal/i18n"
	"github.com/zhengda-lu/scanmenu/internal/integration"
	"github.com/zhengda-lu/scanmenu/internal/utils"
	"gopkg.in/yaml.v3"
)

// Config holds all scanmenu configuration.
type Config struct {
	Scanner      ScannerConfig `yaml:"scanner" json:"scanner"`
	Shell        string        `yaml:"shell" json:"shell"`
	Icon         string        `yaml:"icon" json:"icon"`
	Locale       string        `yaml:"locale" json:"locale"`
	Notify       NotifyConfig  `yaml:"notify" json:"notify"`
	LogLevel     string        `yaml:"log_level" json:"log_level"`
	Integrations []string      `yaml:"integrations" json:"integrations"`
}

// ScannerConfig names the external scanner and any leading arguments.
type ScannerConfig struct {
	Binary string   `yaml:"binary" json:"binary"`
	Args   []string `yaml:"args" json:"args"`
}

// NotifyConfig controls desktop notifications for failed launches.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

// Warning describes a suspicious configuration value.
type Warning struct {
	Field      string
	Message    string
	Suggestion string
}

// Default returns a Config with all default values populated.
func Default() *Config {
	return &Config{
		Scanner: ScannerConfig{
			Binary: "clamtk",
			Args:   []string{},
		},
		Shell:    "/bin/sh",
		Icon:     "clamtk",
		Locale:   "",
		LogLevel: "warn",
		Notify: NotifyConfig{
			Enabled: true,
			Timeout: "5s",
		},
		Integrations: []string{"nautilus", "nemo", "kde"},
	}
}

// DefaultPath returns scanmenu/config.yaml under the XDG config home.
func DefaultPath() (string, error) {
	dir := utils.ConfigDir()
	if dir == "" {
		return "", fmt.Errorf("failed to determine config directory")
	}
	return filepath.Join(dir, "scanmenu", "config.yaml"), nil
}

// Load loads config from the given path. If path is empty, it uses the
// default location. If the file does not exist, it creates it with default
// values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	return LoadFrom(path)
}

// LoadFrom loads and parses config from the given path. Missing fields
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save marshals the config to YAML and writes it to the given path,
// creating parent directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Level returns the configured zerolog level, falling back to warn.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

// NotifyTimeout parses notify.timeout, falling back to five seconds.
func (c *Config) NotifyTimeout() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.Notify.Timeout))
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// Validate reports values that parse but will not behave as intended.
func (c *Config) Validate() []Warning {
	var warnings []Warning

	if strings.TrimSpace(c.Scanner.Binary) == "" {
		warnings = append(warnings, Warning{
			Field:      "scanner.binary",
			Message:    "no scanner binary configured, every launch will fail",
			Suggestion: "clamtk",
		})
	}

	if c.Shell != "" && !filepath.IsAbs(c.Shell) {
		warnings = append(warnings, Warning{
			Field:      "shell",
			Message:    fmt.Sprintf("shell %q is not an absolute path", c.Shell),
			Suggestion: "/bin/sh",
		})
	}

	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel))); err != nil {
			warnings = append(warnings, Warning{
				Field:      "log_level",
				Message:    fmt.Sprintf("unknown log level %q, using warn", c.LogLevel),
				Suggestion: "debug, info, warn or error",
			})
		}
	}

	if c.Locale != "" {
		if _, ok := i18n.ParseLocale(c.Locale); !ok {
			warnings = append(warnings, Warning{
				Field:      "locale",
				Message:    fmt.Sprintf("cannot parse locale %q, falling back to the environment", c.Locale),
				Suggestion: "a POSIX locale such as de_DE.UTF-8",
			})
		}
	}

	if c.Notify.Timeout != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(c.Notify.Timeout)); err != nil || d <= 0 {
			warnings = append(warnings, Warning{
				Field:      "notify.timeout",
				Message:    fmt.Sprintf("invalid timeout %q, using 5s", c.Notify.Timeout),
				Suggestion: "5s",
			})
		}
	}

	known := integration.Targets()
	for _, name := range c.Integrations {
		if !contains(known, name) {
			warnings = append(warnings, Warning{
				Field:      "integrations",
				Message:    fmt.Sprintf("unknown file manager %q", name),
				Suggestion: strings.Join(known, ", "),
			})
		}
	}

	return warnings
}

var knownKeys = []string{"scanner", "shell", "icon", "locale", "notify", "log_level", "integrations"}

// LoadAndValidate parses raw YAML and returns the resulting config together
// with warnings for unknown keys and suspicious values.
func LoadAndValidate(data []byte) (*Config, []Warning) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, []Warning{{Message: fmt.Sprintf("failed to parse config: %v", err)}}
	}

	var warnings []Warning

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err == nil {
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !contains(knownKeys, k) {
				warnings = append(warnings, Warning{
					Field:      k,
					Message:    fmt.Sprintf("unknown key %q is ignored", k),
					Suggestion: closestKey(k),
				})
			}
		}
	}

	return cfg, append(warnings, cfg.Validate()...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// closestKey suggests a known key within two edits of k.
func closestKey(k string) string {
	best, bestDist := "", 3
	for _, known := range knownKeys {
		if d := levenshtein.ComputeDistance(k, known); d < bestDist {
			best, bestDist = known, d
		}
	}
	return best
}
