// Package printer renders heap statistics, collection reports and
// inspection results as text or JSON.
package printer

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/enginegc/gc"
	"github.com/joshuapare/enginegc/gc/inspect"
)

const (
	DefaultTop = 10
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs aligned human-readable text.
	FormatText Format = "text"

	// FormatJSON outputs one JSON document per call.
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("printer: unknown format %q", s)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// Top limits histogram and retainer rows (0 = all).
	// Default: 10
	Top int

	// Grouping prints counts and byte sizes with thousands separators
	// (text format only).
	// Default: true
	Grouping bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:   FormatText,
		Top:      DefaultTop,
		Grouping: true,
	}
}

// Printer writes reports to an io.Writer.
type Printer struct {
	opts   Options
	writer io.Writer
	msg    *message.Printer
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintCycle(h.Collect())
func New(w io.Writer, opts Options) *Printer {
	p := &Printer{opts: opts, writer: w}
	if opts.Grouping {
		p.msg = message.NewPrinter(language.English)
	}
	return p
}

// PrintStats prints a heap statistics snapshot.
func (p *Printer) PrintStats(st gc.Stats) error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(statsJSON(st))
	}
	return p.printStatsText(st)
}

// PrintCycle prints the report of one collection.
func (p *Printer) PrintCycle(st gc.CycleStats) error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(cycleJSON(st))
	}
	return p.printCycleText(st)
}

// PrintHistogram prints per-type rows, truncated to Options.Top.
func (p *Printer) PrintHistogram(rows []inspect.TypeStat) error {
	rows = limit(rows, p.opts.Top)
	if p.opts.Format == FormatJSON {
		return p.writeJSON(map[string]any{"histogram": rows})
	}
	return p.printHistogramText(rows)
}

// PrintRetainers prints the largest retainers, truncated to Options.Top.
func (p *Printer) PrintRetainers(rows []inspect.Retainer) error {
	rows = limit(rows, p.opts.Top)
	if p.opts.Format == FormatJSON {
		return p.writeJSON(map[string]any{"retainers": rows})
	}
	return p.printRetainersText(rows)
}

// PrintPaths prints the paths that keep target alive.
func (p *Printer) PrintPaths(target gc.Ref, snap *inspect.Snapshot, paths []inspect.Path) error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(pathsJSON(target, snap, paths))
	}
	return p.printPathsText(target, snap, paths)
}

// sprintf formats with digit grouping when enabled.
func (p *Printer) sprintf(format string, args ...any) string {
	if p.msg != nil {
		return p.msg.Sprintf(format, args...)
	}
	return fmt.Sprintf(format, args...)
}

func limit[T any](rows []T, top int) []T {
	if top > 0 && len(rows) > top {
		return rows[:top]
	}
	return rows
}
