package inspect

import (
	"slices"

	"github.com/joshuapare/enginegc/gc"
)

// Path is a chain of references from an object back to a root, target
// first and root last.
type Path []gc.Ref

// PathsToRoots finds up to maxPaths shortest paths from r to a root using a
// breadth-first search over reverse edges. A root object yields the single
// path [r]. Unreachable objects yield none.
func (s *Snapshot) PathsToRoots(r gc.Ref, maxPaths int) []Path {
	if maxPaths <= 0 {
		return nil
	}
	if _, ok := s.index[r]; !ok {
		return nil
	}
	rootSet := make(map[gc.Ref]bool, len(s.Roots))
	for _, root := range s.Roots {
		rootSet[root] = true
	}
	if rootSet[r] {
		return []Path{{r}}
	}

	rev := s.reverse()
	var result []Path
	queue := []Path{{r}}
	for len(queue) > 0 && len(result) < maxPaths {
		path := queue[0]
		queue = queue[1:]

		for _, from := range rev[path[len(path)-1]] {
			if slices.Contains(path, from) {
				continue
			}
			next := append(slices.Clip(path), from)
			if rootSet[from] {
				result = append(result, next)
				if len(result) >= maxPaths {
					break
				}
				continue
			}
			queue = append(queue, next)
		}
	}
	return result
}
