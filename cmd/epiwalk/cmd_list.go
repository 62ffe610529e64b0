package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, _, events, err := loadToolConfig(cmd)
			if err != nil {
				return err
			}
			defer events.Close()

			s, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.ListRuns(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"runs":  records,
					"count": len(records),
				})
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				fmt.Fprintln(out, "\nUse 'epiwalk run --save' to persist a run.")
				return nil
			}

			fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(records))
			for i, rec := range records {
				fmt.Fprintf(out, "%d. %s [%s]\n", i+1, rec.ID, rec.Reason)
				fmt.Fprintf(out, "   Scenario: %s  Seed: %d\n", rec.Name, rec.Seed)
				fmt.Fprintf(out, "   Firings: %d  Final time: %.4f\n", rec.Firings, rec.FinalTime)
				fmt.Fprintf(out, "   Recorded: %s\n", rec.CreatedAt.Format(time.RFC3339))
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
