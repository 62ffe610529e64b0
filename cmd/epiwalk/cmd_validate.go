package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nvandessel/epiwalk/internal/config"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Validate a scenario file",
		Long: `Check a scenario file against its constraints and report the first
violated field. Exits non-zero if the scenario is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			scenario, err := config.LoadScenario(args[0])
			if err != nil {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
						"valid": false,
						"error": err.Error(),
					})
					os.Exit(1)
				}
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"valid":    true,
					"scenario": scenario,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Scenario %q is valid.\n", scenario.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "  Population: %d (W=%d R=%d I=%d S=%d D=%d)\n",
				scenario.PopulationSize,
				scenario.InitialCounts.Wise, scenario.InitialCounts.Risky,
				scenario.InitialCounts.Infectious, scenario.InitialCounts.Recovered,
				scenario.InitialCounts.Dead)
			fmt.Fprintf(cmd.OutOrStdout(), "  Horizon: %v  Max iterations: %d  Seed: %d\n",
				scenario.HorizonTime, scenario.MaxIterations, scenario.Seed)
			return nil
		},
	}
}
