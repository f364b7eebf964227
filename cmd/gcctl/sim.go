package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/enginegc/gc"
	"github.com/joshuapare/enginegc/gc/arena"
	"github.com/joshuapare/enginegc/gc/inspect"
	"github.com/joshuapare/enginegc/gc/printer"
	"github.com/joshuapare/enginegc/internal/workload"
)

var (
	simN         int
	simSeed      uint64
	simCycles    int
	simDropRoots bool
	simBacking   string
	simMaxBytes  int
	simHistogram bool
	simRetained  bool
	simTop       int
	simWhy       uint32
	simVerify    bool
)

func init() {
	cmd := newSimCmd()
	cmd.Flags().IntVarP(&simN, "n", "n", workload.DefaultConfig().N, "Scenario size")
	cmd.Flags().Uint64Var(&simSeed, "seed", workload.DefaultConfig().Seed, "Seed for the random scenario")
	cmd.Flags().IntVar(&simCycles, "cycles", 1, "Number of collections to run")
	cmd.Flags().BoolVar(&simDropRoots, "drop-roots", false, "Release the scenario's roots before the last collection")
	cmd.Flags().StringVar(&simBacking, "backing", arena.BackingHeap.String(), "Arena backing (heap, mmap)")
	cmd.Flags().IntVar(&simMaxBytes, "max-bytes", gc.DefaultOptions().MaxBytes, "Arena size limit in bytes")
	cmd.Flags().BoolVar(&simHistogram, "histogram", false, "Print a per-type histogram before collecting")
	cmd.Flags().BoolVar(&simRetained, "retained", false, "Print the largest retainers before collecting")
	cmd.Flags().IntVar(&simTop, "top", printer.DefaultTop, "Rows to print for --histogram and --retained (0 = all)")
	cmd.Flags().Uint32Var(&simWhy, "why", 0, "Print paths from this ref to its roots before collecting")
	cmd.Flags().BoolVar(&simVerify, "verify", false, "Verify heap invariants after every collection")
	rootCmd.AddCommand(cmd)
}

func newSimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sim <scenario>",
		Short: "Build a scenario and collect it",
		Long: `The sim command builds a scenario on a fresh heap, optionally inspects it,
then runs one or more collections and checks the survivors against the
scenario's expectation.

Example:
  gcctl sim chain -n 10000
  gcctl sim scene --histogram --retained
  gcctl sim random --seed 7 --cycles 2 --drop-roots --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(args)
		},
	}
}

// simReport is the --json output of sim.
type simReport struct {
	Scenario  string             `json:"scenario"`
	Allocated int                `json:"allocated"`
	Expected  int                `json:"expected"`
	Histogram []inspect.TypeStat `json:"histogram,omitempty"`
	Retainers []inspect.Retainer `json:"retainers,omitempty"`
	Paths     []inspect.Path     `json:"paths,omitempty"`
	Cycles    []gc.CycleStats    `json:"cycles"`
	Stats     gc.Stats           `json:"stats"`
}

func runSim(args []string) error {
	sc, err := workload.Lookup(args[0])
	if err != nil {
		return err
	}
	if simCycles < 1 {
		return fmt.Errorf("--cycles must be >= 1, got %d", simCycles)
	}
	backing, err := arena.ParseBacking(simBacking)
	if err != nil {
		return err
	}

	opts := gc.DefaultOptions()
	opts.Backing = backing
	opts.MaxBytes = simMaxBytes
	opts.Verify = simVerify
	opts.Logger = newLogger()

	h, err := gc.NewHeap(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	cfg := workload.DefaultConfig()
	cfg.N = simN
	cfg.Seed = simSeed

	printVerbose("Building scenario %s (n=%d)\n", sc.Name, cfg.N)
	res, err := sc.Build(h, cfg)
	if err != nil {
		return fmt.Errorf("build %s: %w", sc.Name, err)
	}

	report := simReport{Scenario: sc.Name, Allocated: res.Allocated, Expected: res.Expected}
	popts := printer.DefaultOptions()
	popts.Top = simTop
	p := printer.New(os.Stdout, popts)

	if !jsonOut {
		printInfo("%s %s  %s %d  %s %d\n",
			style(headerStyle, "scenario"), sc.Name,
			style(labelStyle, "allocated"), res.Allocated,
			style(labelStyle, "expected survivors"), res.Expected)
	}

	if simHistogram || simRetained || simWhy != 0 {
		snap := inspect.Take(h)
		if simHistogram {
			report.Histogram = snap.Histogram()
			if !jsonOut && !quiet {
				if err := p.PrintHistogram(report.Histogram); err != nil {
					return err
				}
			}
		}
		if simRetained {
			report.Retainers = snap.TopRetainers(simTop)
			if !jsonOut && !quiet {
				if err := p.PrintRetainers(report.Retainers); err != nil {
					return err
				}
			}
		}
		if simWhy != 0 {
			target := gc.Ref(simWhy)
			report.Paths = snap.PathsToRoots(target, max(simTop, 1))
			if !jsonOut && !quiet {
				if err := p.PrintPaths(target, snap, report.Paths); err != nil {
					return err
				}
			}
		}
	}

	for i := range simCycles {
		last := i == simCycles-1
		if last && simDropRoots {
			printVerbose("Releasing %d roots\n", len(res.Roots))
			res.Release()
		}
		st := h.Collect()
		report.Cycles = append(report.Cycles, st)
		if !jsonOut && !quiet {
			if err := p.PrintCycle(st); err != nil {
				return err
			}
		}
	}
	report.Stats = h.Stats()

	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else if !quiet {
		if err := p.PrintStats(report.Stats); err != nil {
			return err
		}
	}

	return checkSurvivors(report, simDropRoots)
}

// checkSurvivors compares the first collection with the scenario's
// expectation. When roots were dropped the heap must end up empty.
func checkSurvivors(r simReport, dropped bool) error {
	if !dropped || len(r.Cycles) > 1 {
		if got := r.Cycles[0].Survivors; got != r.Expected {
			return fmt.Errorf("scenario %s: %d survivors, expected %d", r.Scenario, got, r.Expected)
		}
	}
	if dropped && r.Stats.Objects != 0 {
		return fmt.Errorf("scenario %s: %d objects left after dropping roots", r.Scenario, r.Stats.Objects)
	}
	if !jsonOut {
		printInfo("%s\n", style(okStyle, "ok"))
	}
	return nil
}
