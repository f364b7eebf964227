package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/enginegc/internal/workload"
)

func init() {
	rootCmd.AddCommand(newScenariosCmd())
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios()
		},
	}
}

type scenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func runScenarios() error {
	all := workload.Scenarios()
	if jsonOut {
		out := make([]scenarioInfo, len(all))
		for i, s := range all {
			out[i] = scenarioInfo{Name: s.Name, Description: s.Description}
		}
		return printJSON(out)
	}
	for _, s := range all {
		printInfo("%s  %s\n", style(headerStyle, fmt.Sprintf("%-12s", s.Name)), s.Description)
	}
	return nil
}
