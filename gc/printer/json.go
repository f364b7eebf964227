package printer

import (
	"encoding/json"

	"github.com/joshuapare/enginegc/gc"
	"github.com/joshuapare/enginegc/gc/inspect"
)

// jsonStats is the JSON form of gc.Stats.
type jsonStats struct {
	Objects     int       `json:"objects"`
	Bytes       int64     `json:"bytes"`
	Roots       int       `json:"roots"`
	Slots       int       `json:"slots"`
	Collections uint64    `json:"collections"`
	TotalAllocs uint64    `json:"total_allocs"`
	TotalFrees  uint64    `json:"total_frees"`
	Arena       jsonArena `json:"arena"`
}

type jsonArena struct {
	Backing    string `json:"backing"`
	Capacity   int64  `json:"capacity"`
	InUse      int64  `json:"in_use"`
	Blocks     int    `json:"blocks"`
	FreeBlocks int    `json:"free_blocks"`
	Grows      int    `json:"grows"`
}

// jsonCycle is the JSON form of gc.CycleStats.
type jsonCycle struct {
	Cycle       uint64 `json:"cycle"`
	Roots       int    `json:"roots"`
	Marked      int    `json:"marked"`
	Passes      int    `json:"passes"`
	Freed       int    `json:"freed"`
	FreedBytes  int64  `json:"freed_bytes"`
	Survivors   int    `json:"survivors"`
	InvalidRefs int    `json:"invalid_refs"`
	DurationNS  int64  `json:"duration_ns"`
}

type jsonPathNode struct {
	Ref  gc.Ref `json:"ref"`
	Type string `json:"type,omitempty"`
}

type jsonPaths struct {
	Target gc.Ref           `json:"target"`
	Paths  [][]jsonPathNode `json:"paths"`
}

func statsJSON(st gc.Stats) jsonStats {
	return jsonStats{
		Objects:     st.Objects,
		Bytes:       st.Bytes,
		Roots:       st.Roots,
		Slots:       st.Slots,
		Collections: st.Collections,
		TotalAllocs: st.TotalAllocs,
		TotalFrees:  st.TotalFrees,
		Arena: jsonArena{
			Backing:    st.Arena.Backing,
			Capacity:   st.Arena.Capacity,
			InUse:      st.Arena.InUse,
			Blocks:     st.Arena.Blocks,
			FreeBlocks: st.Arena.FreeBlocks,
			Grows:      st.Arena.Grows,
		},
	}
}

func cycleJSON(st gc.CycleStats) jsonCycle {
	return jsonCycle{
		Cycle:       st.Cycle,
		Roots:       st.Roots,
		Marked:      st.Marked,
		Passes:      st.Passes,
		Freed:       st.Freed,
		FreedBytes:  st.FreedBytes,
		Survivors:   st.Survivors,
		InvalidRefs: st.InvalidRefs,
		DurationNS:  st.Duration.Nanoseconds(),
	}
}

func pathsJSON(target gc.Ref, snap *inspect.Snapshot, paths []inspect.Path) jsonPaths {
	out := jsonPaths{Target: target, Paths: make([][]jsonPathNode, 0, len(paths))}
	for _, path := range paths {
		nodes := make([]jsonPathNode, len(path))
		for i, r := range path {
			nodes[i] = jsonPathNode{Ref: r}
			if snap != nil {
				if obj, ok := snap.Object(r); ok {
					nodes[i].Type = obj.Type
				}
			}
		}
		out.Paths = append(out.Paths, nodes)
	}
	return out
}

// writeJSON writes v as one indented document followed by a newline.
func (p *Printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
