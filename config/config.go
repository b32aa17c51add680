package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/yaklabco/sheaf/pkg/entry"
	"github.com/yaklabco/sheaf/pkg/env"
)

// Config holds all Sheaf configuration values.
type Config struct {
	// Entries are the glob patterns resolved into bundle entry points.
	Entries []string `mapstructure:"entries"`

	// OutDir is the bundle output directory.
	OutDir string `mapstructure:"out_dir"`

	// Metafile is the path the esbuild metafile is written to.
	// Empty disables metafile emission to disk.
	Metafile string `mapstructure:"metafile"`

	// Verbose enables verbose output.
	Verbose bool `mapstructure:"verbose"`

	// Debug enables debug messages.
	Debug bool `mapstructure:"debug"`

	// IncludeHMR injects the reload helper entry during development runs.
	IncludeHMR bool `mapstructure:"include_hmr"`

	// BasenameEntries uses file basenames as entry names.
	BasenameEntries bool `mapstructure:"basename_entries"`

	// DevelopmentURL is the base URL of the reload server.
	DevelopmentURL string `mapstructure:"development_url"`

	// Minify enables output minification.
	Minify bool `mapstructure:"minify"`

	// SourceMap enables source-map emission.
	SourceMap bool `mapstructure:"source_map"`

	// UpdateCheck configures the release update check.
	UpdateCheck UpdateCheckConfig `mapstructure:"update_check"`

	// configFile is the path to the config file that was loaded (if any).
	configFile string
}

// UpdateCheckConfig holds the update-check settings.
type UpdateCheckConfig struct {
	// Enabled turns the silent post-run update check on or off.
	Enabled bool `mapstructure:"enabled"`

	// Interval is how long a check result is cached.
	Interval time.Duration `mapstructure:"interval"`
}

// ConfigFile returns the path to the configuration file that was loaded,
// or an empty string if no file was loaded.
func (c *Config) ConfigFile() string {
	return c.configFile
}

// globalConfig holds the singleton global configuration.
//
//nolint:gochecknoglobals // singleton pattern requires package-level state
var (
	globalConfig       *Config
	globalConfigLoaded bool
	globalConfigMu     sync.RWMutex
)

// Global returns the global configuration singleton.
// It loads the configuration on first access.
func Global() *Config {
	globalConfigMu.RLock()
	if globalConfigLoaded {
		cfg := globalConfig
		globalConfigMu.RUnlock()
		return cfg
	}
	globalConfigMu.RUnlock()

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	// Double-check after acquiring write lock
	if globalConfigLoaded {
		return globalConfig
	}

	cfg, err := Load(nil)
	if err != nil {
		// Fall back to defaults on error
		cfg = DefaultConfig()
	}
	globalConfig = cfg
	globalConfigLoaded = true
	return globalConfig
}

// SetGlobal sets the global configuration.
// This is primarily useful for testing.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	globalConfigLoaded = true
}

// ResetGlobal resets the global configuration to be reloaded on next access.
// This is primarily useful for testing.
func ResetGlobal() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigLoaded = false
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory to search for project-level config.
	// If empty, the current working directory is used.
	ProjectDir string

	// Stderr is where warnings are written.
	// If nil, os.Stderr is used.
	Stderr io.Writer

	// SkipProjectConfig skips loading project-level configuration.
	SkipProjectConfig bool

	// SkipUserConfig skips loading user-level configuration.
	SkipUserConfig bool

	// SkipEnv skips reading environment variables.
	SkipEnv bool
}

// Load reads configuration from all sources and returns a Config struct.
// Configuration is loaded in the following order (later sources override earlier):
//  1. Defaults
//  2. User config file (~/.config/sheaf/config.yaml)
//  3. Project config file (./sheaf.yaml)
//  4. Environment variables (SHEAF_*)
//
// If opts is nil, default options are used.
func Load(opts *LoadOptions) (*Config, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	viperInstance := viper.New()

	setDefaults(viperInstance)
	viperInstance.SetConfigType("yaml")

	var configFileUsed string

	// Load user config from XDG path (~/.config/sheaf/config.yaml)
	if !opts.SkipUserConfig {
		paths := ResolveXDGPaths()
		viperInstance.SetConfigName(ConfigFileName)
		viperInstance.AddConfigPath(paths.ConfigDir())

		if err := viperInstance.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, fmt.Errorf("failed to read user config file: %w", err)
			}
		} else {
			configFileUsed = viperInstance.ConfigFileUsed()
		}
	}

	// Load project config (./sheaf.yaml) - merges with/overrides user config
	if !opts.SkipProjectConfig {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			var err error
			projectDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		projectConfigPath := filepath.Join(projectDir, ProjectConfigFileName+".yaml")
		if _, err := os.Stat(projectConfigPath); err == nil {
			viperInstance.SetConfigFile(projectConfigPath)
			if err := viperInstance.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read project config file: %w", err)
			}
			configFileUsed = projectConfigPath
		}
	}

	var cfg Config
	if err := viperInstance.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment variables take precedence over config files.
	if !opts.SkipEnv {
		applyEnvironmentOverrides(&cfg)
	}

	cfg.configFile = configFileUsed

	result := cfg.Validate()
	if result.HasWarnings() {
		result.WriteWarnings(opts.Stderr)
	}
	if result.HasErrors() {
		return nil, errors.New(result.ErrorMessage())
	}

	return &cfg, nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func applyEnvironmentOverrides(cfg *Config) {
	parseBool := func(v string) bool {
		b, err := env.ParseBool(v)
		return err == nil && b
	}

	if v := os.Getenv("SHEAF_ENTRIES"); v != "" {
		cfg.Entries = splitList(v)
	}
	if v := os.Getenv("SHEAF_OUT_DIR"); v != "" {
		cfg.OutDir = v
	}
	if v := os.Getenv("SHEAF_METAFILE"); v != "" {
		cfg.Metafile = v
	}
	if v := os.Getenv("SHEAF_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
	if v := os.Getenv("SHEAF_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := os.Getenv("SHEAF_INCLUDE_HMR"); v != "" {
		cfg.IncludeHMR = parseBool(v)
	}
	if v := os.Getenv("SHEAF_DEVELOPMENT_URL"); v != "" {
		cfg.DevelopmentURL = v
	}
	if v := os.Getenv("SHEAF_MINIFY"); v != "" {
		cfg.Minify = parseBool(v)
	}
	if v := os.Getenv("SHEAF_SOURCE_MAP"); v != "" {
		cfg.SourceMap = parseBool(v)
	}
}

// splitList splits a comma- or colon-separated environment value into a
// trimmed list.
func splitList(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ':'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Entries:         append([]string(nil), DefaultEntries...),
		OutDir:          DefaultOutDir,
		Verbose:         DefaultVerbose,
		Debug:           DefaultDebug,
		IncludeHMR:      DefaultIncludeHMR,
		BasenameEntries: DefaultBasenameEntries,
		DevelopmentURL:  entry.DefaultDevelopmentURL,
		Minify:          DefaultMinify,
		SourceMap:       DefaultSourceMap,
		UpdateCheck: UpdateCheckConfig{
			Enabled:  DefaultUpdateCheckEnabled,
			Interval: DefaultUpdateCheckInterval,
		},
	}
}

// WriteDefaultConfig writes a default configuration file to the user's config directory.
func WriteDefaultConfig() (string, error) {
	paths := ResolveXDGPaths()
	configDir := paths.ConfigDir()

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := paths.ConfigFilePath()

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	content := defaultConfigYAML()
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

// defaultConfigYAML returns the default configuration as YAML.
func defaultConfigYAML() string {
	return `# Sheaf Configuration
# See https://github.com/yaklabco/sheaf for documentation

# Glob patterns resolved into bundle entry points.
entries:
  - src/pages/**/*.tsx

# Bundle output directory.
out_dir: dist

# Path the esbuild metafile is written to. Empty disables it.
# metafile: dist/meta.json

# Enable verbose output.
verbose: false

# Enable debug messages.
debug: false

# Inject the reload helper entry during development runs.
include_hmr: true

# Use file basenames as entry names instead of base-relative paths.
basename_entries: false

# Base URL of the development reload server.
development_url: http://localhost:5000

# Minify bundled output.
minify: false

# Emit source maps.
source_map: true
`
}
