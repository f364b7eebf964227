package gc

import "time"

// CycleStats describes one collection.
type CycleStats struct {
	Cycle       uint64        // 1-based collection number
	Roots       int           // registered roots seen by the seed phase
	Marked      int           // objects proven reachable
	Passes      int           // drain passes until the mark list stayed empty
	Freed       int           // objects released by the sweep
	FreedBytes  int64         // bytes released by the sweep
	Survivors   int           // objects kept
	InvalidRefs int           // reported references that named no live object
	Duration    time.Duration // wall time of the whole cycle
}

// Collect runs one full stop-the-world cycle: seed from roots, drain the
// mark list to exhaustion, then sweep. It never fails. Calling it from a
// finalizer or on a closed heap does nothing.
func (h *Heap) Collect() CycleStats {
	if h.closed || h.collecting {
		return CycleStats{}
	}

	start := time.Now()
	h.collecting = true
	h.cycle = CycleStats{Cycle: h.totals.collections + 1}

	h.markRoots()
	h.drain()
	h.sweep()

	h.collecting = false
	h.totals.collections++
	h.cycle.Duration = time.Since(start)
	st := h.cycle

	h.logger.Debug("collect",
		"cycle", st.Cycle,
		"roots", st.Roots,
		"marked", st.Marked,
		"passes", st.Passes,
		"freed", st.Freed,
		"freed_bytes", st.FreedBytes,
		"survivors", st.Survivors,
		"duration", st.Duration,
	)
	if st.InvalidRefs > 0 {
		h.logger.Warn("marking saw invalid references", "cycle", st.Cycle, "count", st.InvalidRefs)
	}
	if h.opts.Verify {
		if err := h.Verify(); err != nil {
			h.logger.Error("heap verification failed", "cycle", st.Cycle, "err", err)
		}
	}
	return st
}
