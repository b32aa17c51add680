// Package sheaf implements the sheaf CLI behind a plain function surface,
// so the command layer stays a thin cobra shell and other programs can
// embed a run directly.
package sheaf

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/yaklabco/sheaf/config"
	"github.com/yaklabco/sheaf/pkg/prettylog"
	"github.com/yaklabco/sheaf/pkg/update"
)

// RunParams carries everything a sheaf run needs. The command layer fills
// it from flags and configuration; tests fill it directly.
type RunParams struct {
	BaseCtx context.Context // base context for the run, often used for cancellation

	Stdout io.Writer // writer to write stdout messages to
	Stderr io.Writer // writer to write stderr messages to

	Dir     string        // project directory to resolve entries and config from
	Timeout time.Duration // overall run timeout, zero means none

	Entries         []string // glob patterns resolved into entry points
	OutDir          string   // bundle output directory
	Metafile        string   // metafile output path, empty disables it
	BasenameEntries bool     // use file basenames as entry names
	IncludeHMR      bool     // inject the reload helper entry in development
	Development     bool     // treat this as a development run
	DevelopmentURL  string   // base URL of the reload server
	Minify          bool     // minify bundled output
	SourceMap       bool     // emit source maps
	Incremental     bool     // skip the build when outputs are newer than all sources

	Verbose bool // print per-entry resolution output
	Debug   bool // turn on debug messages

	// Pseudo-commands. At most one may be set.
	Watch       bool // rebuild on source changes instead of exiting
	List        bool // print the resolved entry table and exit
	InitConfig  bool // write a default user config file and exit
	CheckUpdate bool // check GitHub for a newer release and exit

	// Version is the running binary version, used by the update check.
	Version string
}

// Run is the entrypoint for running sheaf. It exists external to sheaf's
// main function so other programs can drive a run directly.
func Run(params RunParams) error {
	preprocessRunParams(&params)

	ctx := params.BaseCtx
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	prettylog.Setup(params.Stderr, params.Debug)

	if howManyThingsToDo(params) > 1 {
		return errors.New("only one of --watch, --list, --init-config, or --check-update may be specified")
	}

	if params.InitConfig {
		return writeInitConfig(params)
	}

	if params.CheckUpdate {
		return explicitUpdateCheck(ctx, params)
	}

	session, err := newSession(params)
	if err != nil {
		return err
	}

	if params.List {
		return session.renderEntryList(params.Stdout)
	}

	if params.Watch {
		return session.watch(ctx)
	}

	err = session.buildOnce()
	if err == nil {
		silentUpdateCheck(ctx, params)
	}

	return err
}

func preprocessRunParams(params *RunParams) {
	if params.BaseCtx == nil {
		params.BaseCtx = context.Background()
	}

	if params.Stdout == nil {
		params.Stdout = os.Stdout
	}

	if params.Stderr == nil {
		params.Stderr = os.Stderr
	}
}

func howManyThingsToDo(params RunParams) int {
	count := 0
	for _, b := range []bool{params.Watch, params.List, params.InitConfig, params.CheckUpdate} {
		if b {
			count++
		}
	}

	return count
}

func writeInitConfig(params RunParams) error {
	path, err := config.WriteDefaultConfig()
	if err != nil {
		return err
	}

	_, _ = io.WriteString(params.Stdout, path+" created\n")

	return nil
}

func explicitUpdateCheck(ctx context.Context, params RunParams) error {
	//nolint:wrapcheck // top-level error reported to the user as-is
	return update.ExplicitCheck(ctx, update.Params{
		CurrentVersion: params.Version,
		CacheDir:       config.ResolveXDGPaths().CacheDir(),
		Output:         params.Stdout,
		Config:         config.Global().UpdateCheck,
	})
}

func silentUpdateCheck(ctx context.Context, params RunParams) {
	update.CheckAndNotify(ctx, update.Params{
		CurrentVersion: params.Version,
		CacheDir:       config.ResolveXDGPaths().CacheDir(),
		Output:         params.Stderr,
		Config:         config.Global().UpdateCheck,
	})
}
