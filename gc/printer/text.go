package printer

import (
	"fmt"
	"strings"
	"time"

	"github.com/joshuapare/enginegc/gc"
	"github.com/joshuapare/enginegc/gc/inspect"
)

func (p *Printer) printStatsText(st gc.Stats) error {
	var b strings.Builder
	b.WriteString("Heap\n")
	b.WriteString(p.sprintf("  Objects:      %d\n", st.Objects))
	b.WriteString(p.sprintf("  Bytes:        %d\n", st.Bytes))
	b.WriteString(p.sprintf("  Roots:        %d\n", st.Roots))
	b.WriteString(p.sprintf("  Slots:        %d\n", st.Slots))
	b.WriteString(p.sprintf("  Collections:  %d\n", st.Collections))
	b.WriteString(p.sprintf("  Allocs/Frees: %d / %d\n", st.TotalAllocs, st.TotalFrees))
	b.WriteString("Arena\n")
	b.WriteString(fmt.Sprintf("  Backing:      %s\n", st.Arena.Backing))
	b.WriteString(p.sprintf("  Capacity:     %d\n", st.Arena.Capacity))
	b.WriteString(p.sprintf("  In use:       %d (%d blocks, %d free)\n", st.Arena.InUse, st.Arena.Blocks, st.Arena.FreeBlocks))
	b.WriteString(p.sprintf("  Grows:        %d\n", st.Arena.Grows))
	_, err := fmt.Fprint(p.writer, b.String())
	return err
}

func (p *Printer) printCycleText(st gc.CycleStats) error {
	_, err := fmt.Fprint(p.writer, p.sprintf(
		"cycle %d: roots=%d marked=%d passes=%d freed=%d (%d bytes) survivors=%d invalid=%d in %s\n",
		st.Cycle, st.Roots, st.Marked, st.Passes, st.Freed, st.FreedBytes, st.Survivors, st.InvalidRefs,
		st.Duration.Round(time.Microsecond),
	))
	return err
}

func (p *Printer) printHistogramText(rows []inspect.TypeStat) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.writer, "(no objects)")
		return err
	}
	width := len("TYPE")
	for _, r := range rows {
		width = max(width, len(r.Type))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %10s  %10s  %14s\n", width, "TYPE", "COUNT", "LIVE", "BYTES")
	for _, r := range rows {
		b.WriteString(p.sprintf("%-*s  %10d  %10d  %14d\n", width, r.Type, r.Count, r.Live, r.Bytes))
	}
	_, err := fmt.Fprint(p.writer, b.String())
	return err
}

func (p *Printer) printRetainersText(rows []inspect.Retainer) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.writer, "(no reachable objects)")
		return err
	}
	width := len("TYPE")
	for _, r := range rows {
		width = max(width, len(r.Type))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%8s  %-*s  %10s  %14s\n", "REF", width, "TYPE", "SIZE", "RETAINED")
	for _, r := range rows {
		b.WriteString(p.sprintf("%8d  %-*s  %10d  %14d\n", uint32(r.Ref), width, r.Type, r.Size, r.Retained))
	}
	_, err := fmt.Fprint(p.writer, b.String())
	return err
}

func (p *Printer) printPathsText(target gc.Ref, snap *inspect.Snapshot, paths []inspect.Path) error {
	var b strings.Builder
	fmt.Fprintf(&b, "paths to roots for %s\n", describe(snap, target))
	if len(paths) == 0 {
		b.WriteString("  (unreachable)\n")
	}
	for i, path := range paths {
		parts := make([]string, len(path))
		for j, r := range path {
			parts[j] = describe(snap, r)
		}
		fmt.Fprintf(&b, "  %d: %s\n", i+1, strings.Join(parts, " <- "))
	}
	_, err := fmt.Fprint(p.writer, b.String())
	return err
}

// describe renders r as "#ref(type)".
func describe(snap *inspect.Snapshot, r gc.Ref) string {
	if snap != nil {
		if obj, ok := snap.Object(r); ok {
			return fmt.Sprintf("#%d(%s)", uint32(r), obj.Type)
		}
	}
	return fmt.Sprintf("#%d", uint32(r))
}
