package sheaf

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/reflow/wordwrap"

	"github.com/yaklabco/sheaf/pkg/ui"
)

const (
	termWidthFloor    = 20
	fallbackTermWidth = 80
)

// renderEntryList renders the output of `sheaf --list`: the resolved entry
// map as a NAME / SOURCE / TARGETS table.
//
// It lives in the sheaf binary so it can use Charmbracelet styling without
// pulling those dependencies into embedding programs' hot paths.
func (s *session) renderEntryList(out io.Writer) error {
	entries, err := s.resolveEntries()
	if err != nil {
		return err
	}

	cs := ui.GetFangScheme()
	colorEnabled := ui.ColorEnabled()
	const indent = "  "

	titleStyle := lipgloss.NewStyle().Bold(colorEnabled)
	tableHeaderStyle := lipgloss.NewStyle().Bold(colorEnabled)
	nameStyle := lipgloss.NewStyle()
	reloadStyle := lipgloss.NewStyle()

	if colorEnabled {
		titleStyle = titleStyle.Foreground(cs.QuotedString)
		tableHeaderStyle = tableHeaderStyle.Foreground(cs.Base).Faint(true)
		nameStyle = ui.EntryStyle()
		reloadStyle = reloadStyle.Foreground(cs.Flag).Faint(true)
	}

	_, _ = fmt.Fprintln(out, titleStyle.Render("Entries:"))
	_, _ = fmt.Fprintln(out)

	names := entries.Names()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(out, indent+"(no patterns matched)")
		return nil
	}

	type row struct {
		name    string
		source  string
		targets string
	}

	rows := make([]row, 0, len(names)+1)
	rows = append(rows, row{name: "NAME", source: "SOURCE", targets: "TARGETS"})

	for _, name := range names {
		targets := entries[name]
		extra := "-"
		if len(targets) > 1 {
			extra = strings.Join(targets[1:], ", ")
		}
		rows = append(rows, row{
			name:    name,
			source:  targets.Source(),
			targets: extra,
		})
	}

	// Column widths (ANSI-aware via lipgloss.Width).
	maxName, maxSource := 0, 0
	for _, theRow := range rows {
		maxName = max(maxName, lipgloss.Width(theRow.name))
		maxSource = max(maxSource, lipgloss.Width(theRow.source))
	}

	pad := func(text string, width int) string {
		textWidth := lipgloss.Width(text)
		if textWidth >= width {
			return text
		}
		return text + strings.Repeat(" ", width-textWidth)
	}

	h := rows[0]
	headerLine := strings.Join([]string{
		pad(h.name, maxName),
		pad(h.source, maxSource),
		h.targets,
	}, "  ")
	_, _ = fmt.Fprintln(out, indent+tableHeaderStyle.Render(headerLine))

	termWidth := detectTermWidth()
	const gap = 2
	leftOffset := lipgloss.Width(indent) + maxName + gap + maxSource + gap
	targetsWidth := termWidth - leftOffset
	if targetsWidth < termWidthFloor {
		targetsWidth = termWidthFloor
	}

	spaceLeft := strings.Repeat(" ", leftOffset)

	for _, theRow := range rows[1:] {
		wrapped := wordwrap.String(theRow.targets, targetsWidth)
		// Align continuation lines under the start of the targets column.
		wrapped = strings.ReplaceAll(wrapped, "\n", "\n"+spaceLeft)

		line := strings.Join([]string{
			pad(nameStyle.Render(theRow.name), maxName),
			pad(theRow.source, maxSource),
			reloadStyle.Render(wrapped),
		}, strings.Repeat(" ", gap))
		_, _ = fmt.Fprintln(out, indent+line)
	}

	return nil
}

// detectTermWidth returns the terminal width to use for wrapping.
// It prefers the actual stdout size, falls back to $COLUMNS, then 80.
func detectTermWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if v, err := strconv.Atoi(cols); err == nil && v > 0 {
			return v
		}
	}
	return fallbackTermWidth
}
