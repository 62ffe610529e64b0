package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "epiwalk",
		Short: "Epiwalk - exact stochastic epidemic simulation",
		Long: `epiwalk simulates a behavioral epidemic as a continuous-time Markov
jump process using the Gillespie stochastic simulation algorithm.

Susceptibles are split into wise and risky sub-populations with
distinct infection rates; infectious individuals are cured, recover
with immunity, or die. Runs are exact, seeded, and reproducible.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")
	rootCmd.PersistentFlags().String("db", "", "Run database path (default from config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, or trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newEnsembleCmd(),
		newValidateCmd(),
		newListCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "epiwalk version %s\n", version)
			}
		},
	}
}
