package workload

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/joshuapare/enginegc/gc"
)

// Config parameterizes scenario builders.
type Config struct {
	// N is the scenario's size knob (objects, actors or nodes).
	N int

	// Seed drives the random scenario.
	Seed uint64

	// OnFinalize is passed to every actor the scenario creates.
	OnFinalize func(name string)
}

// DefaultConfig returns the configuration used by the CLI when no flags
// are given.
func DefaultConfig() Config {
	return Config{N: 1000, Seed: 1}
}

// Result is what a scenario left on the heap.
type Result struct {
	// Roots are the roots the scenario registered. Releasing all of them
	// makes every object it built garbage.
	Roots []*gc.Root

	// Allocated is the number of objects built.
	Allocated int

	// Expected is the number of objects that survive the next collection
	// while Roots are held.
	Expected int
}

// Release releases every root of the result.
func (r *Result) Release() {
	for _, root := range r.Roots {
		root.Release()
	}
}

// Scenario builds a known object graph.
type Scenario struct {
	Name        string
	Description string
	Build       func(h *gc.Heap, cfg Config) (*Result, error)
}

var scenarios = []Scenario{
	{"alternating", "N packages, every other one rooted", buildAlternating},
	{"chain", "N actors in a parent->child chain, head rooted", buildChain},
	{"cycle", "N actors in a ring with no root", buildCycle},
	{"random", "N mixed objects with random edges and roots (seeded)", buildRandom},
	{"scene", "world actor with N actors, packages and despawned actors", buildScene},
	{"uitree", "rooted UI tree of N nodes plus a detached subtree", buildUITree},
}

// Scenarios returns all scenarios sorted by name.
func Scenarios() []Scenario {
	return slices.Clone(scenarios)
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, error) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("workload: unknown scenario %q", name)
}

func buildChain(h *gc.Heap, cfg Config) (*Result, error) {
	if cfg.N < 1 {
		return &Result{}, nil
	}
	head, err := NewActor(h, "chain-0", cfg.OnFinalize)
	if err != nil {
		return nil, err
	}
	res := &Result{Roots: []*gc.Root{gc.Pin(h, head)}, Allocated: 1}
	prev := head
	for i := 1; i < cfg.N; i++ {
		next, err := NewActor(h, "chain-"+strconv.Itoa(i), cfg.OnFinalize)
		if err != nil {
			return res, err
		}
		Attach(h, prev, next)
		prev = next
		res.Allocated++
	}
	res.Expected = res.Allocated
	return res, nil
}

func buildCycle(h *gc.Heap, cfg Config) (*Result, error) {
	res := &Result{}
	if cfg.N < 1 {
		return res, nil
	}
	// keep the ring pinned while it is being built
	guard := h.NewRoot(gc.Nil)
	defer guard.Release()

	first, err := NewActor(h, "ring-0", cfg.OnFinalize)
	if err != nil {
		return nil, err
	}
	guard.Set(first.Ref())
	res.Allocated = 1
	prev := first
	for i := 1; i < cfg.N; i++ {
		next, err := NewActor(h, "ring-"+strconv.Itoa(i), cfg.OnFinalize)
		if err != nil {
			return res, err
		}
		Attach(h, prev, next)
		prev = next
		res.Allocated++
	}
	// close the ring
	last, _ := prev.Get(h)
	last.Children = append(last.Children, first.Ref())
	return res, nil
}

func buildAlternating(h *gc.Heap, cfg Config) (*Result, error) {
	res := &Result{}
	for i := range cfg.N {
		r, err := NewPackage(h, uint32(i), 0, gc.Nil)
		if err != nil {
			return res, err
		}
		res.Allocated++
		if i%2 == 0 {
			res.Roots = append(res.Roots, h.NewRoot(r))
			res.Expected++
		}
	}
	return res, nil
}

func buildUITree(h *gc.Heap, cfg Config) (*Result, error) {
	res := &Result{}
	if cfg.N < 1 {
		return res, nil
	}
	build := func(n int, widget uint32) (gc.Ref, error) {
		top, err := NewUINode(h, gc.Nil, widget)
		if err != nil {
			return gc.Nil, err
		}
		guard := h.NewRoot(top)
		defer guard.Release()

		// breadth-first fan-out of 4
		nodes := []gc.Ref{top}
		for i := 1; i < n; i++ {
			r, err := NewUINode(h, nodes[(i-1)/4], widget+uint32(i))
			if err != nil {
				return gc.Nil, err
			}
			nodes = append(nodes, r)
		}
		res.Allocated += n
		return top, nil
	}

	top, err := build(cfg.N, 0)
	if err != nil {
		return res, err
	}
	res.Roots = append(res.Roots, h.NewRoot(top))
	res.Expected = cfg.N

	// a closed dialog: same shape, no root
	if _, err := build(max(cfg.N/2, 1), 1<<20); err != nil {
		return res, err
	}
	return res, nil
}

func buildScene(h *gc.Heap, cfg Config) (*Result, error) {
	res := &Result{}
	world, err := NewActor(h, "world", cfg.OnFinalize)
	if err != nil {
		return nil, err
	}
	res.Roots = append(res.Roots, gc.Pin(h, world))
	res.Allocated++
	res.Expected++

	// shared packages: core <- textures <- level
	core, err := NewPackage(h, 1, 4096, gc.Nil)
	if err != nil {
		return res, err
	}
	textures, err := NewPackage(h, 2, 1<<20, core)
	if err != nil {
		return res, err
	}
	level, err := NewPackage(h, 3, 1<<16, textures)
	if err != nil {
		return res, err
	}
	res.Allocated += 3
	w, _ := world.Get(h)
	w.Package = level
	res.Expected += 3

	for i := range cfg.N {
		a, err := NewActor(h, "actor-"+strconv.Itoa(i), cfg.OnFinalize)
		if err != nil {
			return res, err
		}
		res.Allocated++
		Attach(h, world, a)

		// every fifth actor owns a private package
		if i%5 == 0 {
			pkg, err := NewPackage(h, uint32(100+i), 256, core)
			if err != nil {
				return res, err
			}
			res.Allocated++
			v, _ := a.Get(h)
			v.Package = pkg
		}

		// every third actor despawns: it still points at the world, but
		// nothing reachable points at it
		if i%3 == 2 {
			Detach(h, world, a)
			continue
		}
		res.Expected++
		if i%5 == 0 {
			res.Expected++
		}
	}
	return res, nil
}

// randomObject tags how a random-scenario object stores its references.
type randomObject struct {
	ref  gc.Ref
	pkg  bool // package descriptor (two fields) or actor (child list)
	outs []int
}

func buildRandom(h *gc.Heap, cfg Config) (*Result, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9E3779B97F4A7C15))
	res := &Result{}
	if cfg.N < 1 {
		return res, nil
	}

	// pin everything while building so a nested collection cannot free a
	// half-wired graph
	var pins []*gc.Root
	defer func() {
		for _, p := range pins {
			p.Release()
		}
	}()

	objs := make([]randomObject, cfg.N)
	for i := range objs {
		if rng.IntN(2) == 0 {
			r, err := NewPackage(h, uint32(i), 0, gc.Nil)
			if err != nil {
				return res, err
			}
			objs[i] = randomObject{ref: r, pkg: true}
		} else {
			a, err := NewActor(h, "rand-"+strconv.Itoa(i), cfg.OnFinalize)
			if err != nil {
				return res, err
			}
			objs[i] = randomObject{ref: a.Ref()}
		}
		pins = append(pins, h.NewRoot(objs[i].ref))
		res.Allocated++
	}

	for i := range objs {
		o := &objs[i]
		if o.pkg {
			for _, field := range []int{PackageDep, PackageNext} {
				if rng.IntN(3) == 0 {
					continue
				}
				j := rng.IntN(cfg.N)
				if err := h.StoreRef(o.ref, field, objs[j].ref); err != nil {
					return res, err
				}
				o.outs = append(o.outs, j)
			}
			continue
		}
		a, _ := gc.HandleOf[*Actor](h, o.ref)
		v, _ := a.Get(h)
		for range rng.IntN(4) {
			j := rng.IntN(cfg.N)
			v.Children = append(v.Children, objs[j].ref)
			o.outs = append(o.outs, j)
		}
	}

	// roughly one root per 16 objects
	reached := make([]bool, cfg.N)
	var stack []int
	for range max(cfg.N/16, 1) {
		i := rng.IntN(cfg.N)
		res.Roots = append(res.Roots, h.NewRoot(objs[i].ref))
		if !reached[i] {
			reached[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, j := range objs[i].outs {
			if !reached[j] {
				reached[j] = true
				stack = append(stack, j)
			}
		}
	}
	for _, ok := range reached {
		if ok {
			res.Expected++
		}
	}
	return res, nil
}
