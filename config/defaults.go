package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/yaklabco/sheaf/pkg/entry"
)

// Default configuration values.
const (
	// DefaultOutDir is the default bundle output directory.
	DefaultOutDir = "dist"

	// DefaultVerbose is the default verbose setting.
	DefaultVerbose = false

	// DefaultDebug is the default debug setting.
	DefaultDebug = false

	// DefaultIncludeHMR controls whether the reload helper entry is
	// injected during development runs.
	DefaultIncludeHMR = true

	// DefaultBasenameEntries is the default for basename-only entry names.
	DefaultBasenameEntries = false

	// DefaultMinify is the default minification setting.
	DefaultMinify = false

	// DefaultSourceMap is the default source-map setting.
	DefaultSourceMap = true

	// DefaultUpdateCheckEnabled controls whether update checks are enabled by default.
	DefaultUpdateCheckEnabled = true
)

// DefaultUpdateCheckInterval is the default duration between update checks.
var DefaultUpdateCheckInterval = 24 * time.Hour //nolint:gochecknoglobals // default configuration value

// DefaultEntries is the default set of entry glob patterns.
var DefaultEntries = []string{"src/pages/**/*.tsx"} //nolint:gochecknoglobals // default configuration value

// setDefaults configures default values in the viper instance.
func setDefaults(viperInstance *viper.Viper) {
	viperInstance.SetDefault("entries", DefaultEntries)
	viperInstance.SetDefault("out_dir", DefaultOutDir)
	viperInstance.SetDefault("metafile", "")
	viperInstance.SetDefault("verbose", DefaultVerbose)
	viperInstance.SetDefault("debug", DefaultDebug)
	viperInstance.SetDefault("include_hmr", DefaultIncludeHMR)
	viperInstance.SetDefault("basename_entries", DefaultBasenameEntries)
	viperInstance.SetDefault("development_url", entry.DefaultDevelopmentURL)
	viperInstance.SetDefault("minify", DefaultMinify)
	viperInstance.SetDefault("source_map", DefaultSourceMap)
	viperInstance.SetDefault("update_check.enabled", DefaultUpdateCheckEnabled)
	viperInstance.SetDefault("update_check.interval", DefaultUpdateCheckInterval)
}
