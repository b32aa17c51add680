// Package buildcfg assembles esbuild build options: project defaults merged
// with user overrides, plus the resolved entry map flattened into esbuild
// entry points.
package buildcfg

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/yaklabco/sheaf/pkg/entry"
)

// DefaultOutDir is the output directory used when no override is given.
const DefaultOutDir = "dist"

// Build is an assembled build configuration: the options handed to esbuild
// plus the reload helper targets that esbuild itself does not consume
// (esbuild entries are single-file; the helper rides along for the dev
// server).
type Build struct {
	Options api.BuildOptions

	// Reload maps entry names to their reload helper target, for entries
	// that carried one.
	Reload map[string]string
}

// Default returns the project default build options.
func Default() api.BuildOptions {
	return api.BuildOptions{
		Outdir:      DefaultOutDir,
		Bundle:      true,
		Write:       true,
		Format:      api.FormatESModule,
		Splitting:   true,
		TreeShaking: api.TreeShakingTrue,
		JSX:         api.JSXAutomatic,
		Metafile:    true,
		LogLevel:    api.LogLevelWarning,
		ResolveExtensions: []string{
			".ts", ".tsx", ".js", ".jsx", ".mjs", ".json",
		},
		Loader: map[string]api.Loader{
			".css":  api.LoaderCSS,
			".svg":  api.LoaderFile,
			".png":  api.LoaderFile,
			".woff": api.LoaderFile,
		},
	}
}

// Assemble merges the default options with the given overrides (non-zero
// override fields win) and flattens the entry map into esbuild entry
// points. Entry names are emitted in sorted order so the assembled options
// are deterministic.
func Assemble(entries entry.Map, overrides *api.BuildOptions) (Build, error) {
	opts := Default()
	if overrides != nil {
		if err := mergo.Merge(&opts, *overrides, mergo.WithOverride); err != nil {
			return Build{}, fmt.Errorf("merging build options: %w", err)
		}
	}

	reload := make(map[string]string)
	eps := make([]api.EntryPoint, 0, len(entries))
	for _, name := range entries.Names() {
		targets := entries[name]
		eps = append(eps, api.EntryPoint{
			InputPath:  targets.Source(),
			OutputPath: name,
		})
		if len(targets) > 1 {
			reload[name] = targets[1]
		}
	}
	opts.EntryPointsAdvanced = eps

	return Build{Options: opts, Reload: reload}, nil
}
