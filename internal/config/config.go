// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"envforge-cli/internal/cueval"
	"envforge-cli/internal/issue"
	"envforge-cli/internal/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "envforge"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

type (
	// Config is the resolved global configuration.
	Config struct {
		// CondaRoot is an explicit conda installation root. Empty means
		// auto-discover (defaults, then PATH, then the interactive prompt).
		CondaRoot string `mapstructure:"conda_root"`

		// Runner selects the step executor: "native" or "virtual".
		Runner string `mapstructure:"runner"`

		UI UIConfig `mapstructure:"ui"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		ColorScheme string `mapstructure:"color_scheme"`
		Verbose     bool   `mapstructure:"verbose"`
	}

	// LoadOptions controls config resolution.
	LoadOptions struct {
		// ConfigFilePath is an explicit --config value; when set it is used
		// exclusively and missing-file is an error.
		ConfigFilePath string
		// ConfigDirPath overrides the platform config directory (tests).
		ConfigDirPath string
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Runner: "native",
		UI: UIConfig{
			ColorScheme: "auto",
		},
	}
}

// ConfigDir returns the envforge configuration directory using the
// platform's conventions: %APPDATA% on Windows, ~/Library/Application
// Support on macOS, $XDG_CONFIG_HOME (default ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var dir string
	switch runtime.GOOS {
	case platform.Windows:
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		dir = os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(dir, AppName), nil
}

// Load resolves the configuration: defaults, then the config file (explicit
// path or the platform location), merged through Viper. The returned string
// is the path of the file actually loaded, empty when only defaults apply.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("conda_root", defaults.CondaRoot)
	v.SetDefault("runner", defaults.Runner)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewContext().
				Op("load configuration").
				Resource(opts.ConfigFilePath).
				Suggest("Verify the file path is correct").
				Suggest("Run 'envforge config show' to see the effective configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				Err()
		}
		if err := mergeCUEFile(v, opts.ConfigFilePath); err != nil {
			return nil, "", wrapLoadError(err, opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			var err error
			cfgDir, err = ConfigDir()
			if err != nil {
				return nil, "", err
			}
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := mergeCUEFile(v, cuePath); err != nil {
				return nil, "", wrapLoadError(err, cuePath)
			}
			resolvedPath = cuePath
		}
		// No config file means defaults, not an error.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, resolvedPath, nil
}

// mergeCUEFile parses a CUE config file, validates it against the #Config
// schema, and merges it into Viper. Optional fields may be absent, so the
// unified value is validated without requiring concreteness.
func mergeCUEFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueval.DecodeFile[map[string]any](configSchema, data, "#Config", path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func wrapLoadError(err error, path string) error {
	return issue.NewContext().
		Op("load configuration").
		Resource(path).
		Suggest("Check that the file contains valid CUE syntax").
		Suggest("Verify the values match the expected schema (see 'envforge config --help')").
		Wrap(err).
		Err()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
