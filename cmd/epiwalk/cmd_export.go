package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nvandessel/epiwalk/internal/model"
	"github.com/nvandessel/epiwalk/internal/sim"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a persisted run's trajectory",
		Long: `Write a persisted run's full (time, state) sample sequence to stdout
as CSV (default) or JSON.

Examples:
  epiwalk export run-1724968800000000000 > trajectory.csv
  epiwalk export run-1724968800000000000 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "csv" && format != "json" {
				return fmt.Errorf("invalid format: %s (valid: csv, json)", format)
			}
			id := args[0]

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

			rec, err := s.GetRun(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get run: %w", err)
			}
			if rec == nil {
				return fmt.Errorf("run not found: %s", id)
			}

			samples, err := s.Samples(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load samples: %w", err)
			}

			if format == "json" {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"run":     rec,
					"samples": samples,
				})
			}
			return writeCSV(os.Stdout, samples)
		},
	}

	cmd.Flags().String("format", "csv", "Output format (csv, json)")

	return cmd
}

func writeCSV(out io.Writer, samples []sim.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"t", "w", "r", "i", "s", "d"}); err != nil {
		return err
	}
	for _, sample := range samples {
		row := []string{
			strconv.FormatFloat(sample.Time, 'g', -1, 64),
			strconv.FormatInt(sample.State[model.Wise], 10),
			strconv.FormatInt(sample.State[model.Risky], 10),
			strconv.FormatInt(sample.State[model.Infectious], 10),
			strconv.FormatInt(sample.State[model.Recovered], 10),
			strconv.FormatInt(sample.State[model.Dead], 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
