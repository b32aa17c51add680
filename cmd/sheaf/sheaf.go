package sheaf

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/yaklabco/sheaf/cmd/sheaf/version"
	"github.com/yaklabco/sheaf/config"
	"github.com/yaklabco/sheaf/pkg/env"
	"github.com/yaklabco/sheaf/pkg/sheaf"
)

const (
	shortDescription = "Sheaf resolves glob patterns into esbuild entry points and " +
		"rebuilds them as sources change. See https://github.com/yaklabco/sheaf"
)

type rootCmdOptions struct {
	runFunc func(params sheaf.RunParams) error
}

type Option func(*rootCmdOptions)

// This is intentionally designed to be unusable from outside this package,
// as it exists purely for testing purposes.
func withRunFunc(fn func(params sheaf.RunParams) error) Option {
	return func(opts *rootCmdOptions) {
		opts.runFunc = fn
	}
}

func NewRootCmd(ctx context.Context, opts ...Option) *cobra.Command {
	rootCmdOpts := &rootCmdOptions{
		runFunc: sheaf.Run,
	}
	for _, opt := range opts {
		opt(rootCmdOpts)
	}

	cfg := config.Global()

	var runParams sheaf.RunParams
	rootCmd := &cobra.Command{
		Use:   "sheaf [flags]",
		Short: shortDescription,
		Example: `	# Build once with the configured entry patterns
	sheaf

	# Build specific patterns
	sheaf -e 'src/pages/**/*.tsx' -e 'src/admin/**/*.tsx'

	# Rebuild on changes
	sheaf --watch

	# Show the resolved entry map
	sheaf --list

	# Write a default user config file
	sheaf --init-config`,
		Version: version.OverallVersionStringColorized(ctx),
		RunE: func(cmd *cobra.Command, _ []string) error {
			runParams.Stdout = os.Stdout
			runParams.Stderr = os.Stderr
			runParams.Version = version.EffectiveVersion(cmd.Context())
			runParams.BaseCtx = cmd.Context() //nolint:fatcontext // intentionally setting context from cmd

			return rootCmdOpts.runFunc(runParams)
		},
	}

	// Flags.
	rootCmd.PersistentFlags().BoolVar(&runParams.BasenameEntries, "basename-entries", cfg.BasenameEntries, "use file basenames as entry names")
	rootCmd.PersistentFlags().BoolVarP(&runParams.Debug, "debug", "d", cfg.Debug, "turn on debug messages")
	rootCmd.PersistentFlags().BoolVar(&runParams.Development, "dev", env.Development(), "treat this as a development run")
	rootCmd.PersistentFlags().StringVar(&runParams.DevelopmentURL, "dev-url", cfg.DevelopmentURL, "base URL of the development reload server")
	rootCmd.PersistentFlags().StringVarP(&runParams.Dir, "dir", "C", "", "project directory to resolve entries from")
	rootCmd.PersistentFlags().StringArrayVarP(&runParams.Entries, "entry", "e", cfg.Entries, "glob pattern resolved into entry points (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&runParams.IncludeHMR, "include-hmr", cfg.IncludeHMR, "inject the reload helper entry during development runs")
	rootCmd.PersistentFlags().BoolVar(&runParams.Incremental, "incremental", false, "skip the build when outputs are newer than all sources")
	rootCmd.PersistentFlags().StringVar(&runParams.Metafile, "metafile", cfg.Metafile, "write the esbuild metafile to the given path")
	rootCmd.PersistentFlags().BoolVar(&runParams.Minify, "minify", cfg.Minify, "minify bundled output")
	rootCmd.PersistentFlags().StringVarP(&runParams.OutDir, "out-dir", "o", cfg.OutDir, "bundle output directory")
	rootCmd.PersistentFlags().BoolVar(&runParams.SourceMap, "sourcemap", cfg.SourceMap, "emit source maps")
	rootCmd.PersistentFlags().DurationVarP(&runParams.Timeout, "timeout", "t", 0, "timeout in duration parsable format (e.g. 5m30s)")
	rootCmd.PersistentFlags().BoolVarP(&runParams.Verbose, "verbose", "v", cfg.Verbose, "print per-entry resolution output")

	// Flags that are actually commands ("pseudo-flags").
	rootCmd.PersistentFlags().BoolVar(&runParams.CheckUpdate, "check-update", false, "check GitHub for a newer release")
	rootCmd.PersistentFlags().BoolVar(&runParams.InitConfig, "init-config", false, "write a default user config file")
	rootCmd.PersistentFlags().BoolVarP(&runParams.List, "list", "l", false, "print the resolved entry table and exit")
	rootCmd.PersistentFlags().BoolVarP(&runParams.Watch, "watch", "w", false, "rebuild on source changes instead of exiting")

	return rootCmd
}

// ExecuteWithFang runs the root Cobra command with Fang-specific options.
// It accepts a context and a root Cobra command as input parameters.
// Returns an error if the command execution fails.
func ExecuteWithFang(ctx context.Context, rootCmd *cobra.Command) error {
	//nolint:wrapcheck // top-level error from cobra, wrapping not needed
	return fang.Execute(
		ctx, rootCmd, fang.WithVersion(rootCmd.Version), fang.WithoutManpage())
}
