// Package ui holds shared terminal styling helpers.
package ui

import (
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/samber/lo"
)

// GetFangScheme returns the same light/dark-aware color scheme fang uses.
func GetFangScheme() fang.ColorScheme {
	// This mirrors fang.mustColorscheme(DefaultColorScheme)
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	return fang.DefaultColorScheme(lipgloss.LightDark(isDark))
}

// UI layout constants.
const (
	defaultMargin  = 2
	defaultPadding = 2
)

// GetBlockStyles generates reusable styles for titles and code block elements.
// Returns two lipgloss.Style objects: one for titles and one for blocks.
func GetBlockStyles() (lipgloss.Style, lipgloss.Style) {
	colorScheme := GetFangScheme()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorScheme.QuotedString).
		Transform(strings.ToUpper).
		Padding(1, 0).
		Margin(0, defaultMargin)

	blockStyle := lipgloss.NewStyle().
		Background(colorScheme.Codeblock).
		Foreground(colorScheme.Base).
		MarginLeft(defaultMargin).
		Padding(1, defaultPadding)
	return titleStyle, blockStyle
}

// noColorTERMs defines terminals that do not support ANSI color output.
// Keep this list small and conservative.
//
//nolint:gochecknoglobals // package-level lookup table
var noColorTERMs = lo.Keyify([]string{
	"dumb",
	"vt100",
	"cygwin",
	"xterm-mono",
})

// ColorEnabled reports whether styled output should be emitted. It respects
// NO_COLOR and the TERM blacklist; further TTY detection is left to
// lipgloss.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	_, blacklisted := noColorTERMs[os.Getenv("TERM")]
	return !blacklisted
}

// EntryStyle returns the style used for entry names in listings.
func EntryStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(GetFangScheme().Program)
}
