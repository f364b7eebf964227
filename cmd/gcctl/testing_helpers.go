package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/joshuapare/enginegc/gc"
	"github.com/joshuapare/enginegc/gc/arena"
	"github.com/joshuapare/enginegc/gc/printer"
	"github.com/joshuapare/enginegc/internal/workload"
)

// resetFlags restores every flag variable to its default so tests do not
// leak state into each other through the shared command tree.
func resetFlags() {
	verbose, quiet, jsonOut, noColor = false, false, false, true
	simN = workload.DefaultConfig().N
	simSeed = workload.DefaultConfig().Seed
	simCycles = 1
	simDropRoots = false
	simBacking = arena.BackingHeap.String()
	simMaxBytes = gc.DefaultOptions().MaxBytes
	simHistogram = false
	simRetained = false
	simTop = printer.DefaultTop
	simWhy = 0
	simVerify = false
}

// run executes the root command with args and captures stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	return captureOutput(t, func() error {
		return rootCmd.Execute()
	})
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}
