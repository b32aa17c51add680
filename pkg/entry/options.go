package entry

import (
	"fmt"
	"strings"
)

const (
	// DefaultDevelopmentURL is the reload server base URL used when
	// Options.DevelopmentURL is left empty.
	DefaultDevelopmentURL = "http://localhost:5000"

	// ReloadClientID is the synthetic module identifier for the injected
	// development reload client. The full helper target is this identifier
	// plus a query string pointing at the reload endpoint.
	ReloadClientID = "sheaf/reload-client"

	// reloadTimeoutMS is the client reconnect timeout carried in the helper
	// target's query string.
	reloadTimeoutMS = 20000

	// wildcardChars are the characters that start the variable part of a
	// glob pattern. Everything before the first of these belongs to the
	// pattern's base directory.
	wildcardChars = "*?[]{}"
)

// GlobOptions are pass-through options for the filesystem scan.
type GlobOptions struct {
	// Dir is the working directory that relative patterns are resolved
	// against. Empty means the process working directory.
	Dir string

	// Absolute reports matched paths as absolute paths.
	Absolute bool

	// NoFollow disables following symlinked directories during the scan.
	NoFollow bool

	// FailOnIOErrors turns filesystem errors encountered mid-scan
	// (e.g. permission denied) into scan failures instead of skipping.
	FailOnIOErrors bool
}

// Options control how matched files are turned into entries.
type Options struct {
	// BasenameAsEntryName uses only the final path segment as the entry
	// name instead of the full base-relative path.
	BasenameAsEntryName bool

	// Glob holds pass-through options for the filesystem scan.
	Glob *GlobOptions

	// IncludeHMR appends the development reload helper target to every
	// entry. It only takes effect when Development is also set.
	IncludeHMR bool

	// Development marks this resolution as a development run. Callers
	// default it at the process boundary (see env.Development) so the
	// resolver itself never reads the environment.
	Development bool

	// DevelopmentURL is the base URL of the reload server. Defaults to
	// DefaultDevelopmentURL.
	DevelopmentURL string
}

// developmentURL returns the configured reload server URL or the default.
func (o *Options) developmentURL() string {
	if o == nil || o.DevelopmentURL == "" {
		return DefaultDevelopmentURL
	}
	return o.DevelopmentURL
}

// reloadTarget builds the synthetic helper target appended to entries when
// reload injection is active.
func (o *Options) reloadTarget() string {
	return fmt.Sprintf("%s?path=%s/__reload&timeout=%d&reload=true",
		ReloadClientID, o.developmentURL(), reloadTimeoutMS)
}

// injectReload reports whether the reload helper should be appended.
func (o *Options) injectReload() bool {
	return o != nil && o.IncludeHMR && o.Development
}

// validate checks option shapes. It performs no filesystem access.
func (o *Options) validate() error {
	if o == nil {
		return nil
	}
	if o.Glob != nil && strings.ContainsAny(o.Glob.Dir, wildcardChars) {
		return fmt.Errorf("%w: glob dir %q must not contain wildcards", ErrInvalidOptions, o.Glob.Dir)
	}
	if o.DevelopmentURL != "" && strings.ContainsAny(o.DevelopmentURL, " \t\n") {
		return fmt.Errorf("%w: development URL %q contains whitespace", ErrInvalidOptions, o.DevelopmentURL)
	}
	return nil
}
