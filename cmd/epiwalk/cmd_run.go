package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nvandessel/epiwalk/internal/config"
	"github.com/nvandessel/epiwalk/internal/logging"
	"github.com/nvandessel/epiwalk/internal/sim"
	"github.com/nvandessel/epiwalk/internal/stats"
	"github.com/nvandessel/epiwalk/internal/store"
	"github.com/nvandessel/epiwalk/internal/variate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation to termination",
		Long: `Run a single stochastic simulation from a scenario file (or the
built-in baseline scenario) and print its summary.

With --save, the full trajectory is persisted to the run database for
later listing and export.

Examples:
  epiwalk run --scenario outbreak.yaml
  epiwalk run --seed 42 --save
  epiwalk run --scenario outbreak.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioPath, _ := cmd.Flags().GetString("scenario")
			seed, _ := cmd.Flags().GetUint64("seed")
			save, _ := cmd.Flags().GetBool("save")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, logger, events, err := loadToolConfig(cmd)
			if err != nil {
				return err
			}
			defer events.Close()

			scenario, err := loadScenario(scenarioPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				scenario.Seed = seed
			}

			engine, err := sim.New(scenario, variate.NewPCG(scenario.Seed, 0))
			if err != nil {
				return err
			}

			runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
			logger.Debug("starting run", "run_id", runID, "seed", scenario.Seed, "scenario", scenario.Name)
			events.RunStarted(runID, scenario.Seed)

			trajectory, err := engine.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			summary := stats.Summarize(trajectory.Samples(), trajectory.Reason())
			events.RunTerminated(runID, string(summary.Reason), summary.Firings, summary.FinalTime)
			if trajectory.Degenerate() {
				logger.Warn("total propensity reached zero with infectious individuals remaining", "run_id", runID)
				events.Degeneracy(runID, summary.FinalTime)
			}

			if save {
				if err := saveRun(cmd, cfg, runID, scenario, trajectory, summary); err != nil {
					return err
				}
				logger.Info("run saved", "run_id", runID, "db", dbPath(cmd, cfg))
			}

			if jsonOut {
				out := map[string]interface{}{
					"run_id":  runID,
					"seed":    scenario.Seed,
					"summary": summary,
				}
				if save {
					out["saved"] = true
				}
				return json.NewEncoder(os.Stdout).Encode(out)
			}

			printSummary(cmd, runID, scenario, summary)
			return nil
		},
	}

	cmd.Flags().String("scenario", "", "Scenario YAML file (default: built-in baseline)")
	cmd.Flags().Uint64("seed", 0, "Override the scenario seed")
	cmd.Flags().Bool("save", false, "Persist the trajectory to the run database")

	return cmd
}

// loadScenario loads the scenario file, or the built-in baseline when
// no path is given. Environment overrides apply in both cases.
func loadScenario(path string) (*config.Scenario, error) {
	var scenario *config.Scenario
	if path == "" {
		scenario = config.DefaultScenario()
	} else {
		loaded, err := config.LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenario = loaded
	}
	scenario.ApplyEnvOverrides()
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return scenario, nil
}

// loadToolConfig resolves tool config, logger, and event logger for a
// command invocation.
func loadToolConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, *logging.EventLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
	events := logging.NewEventLogger(".epiwalk", cfg.Logging.Level)
	return cfg, logger, events, nil
}

// dbPath resolves the run database path: --db flag wins over config.
func dbPath(cmd *cobra.Command, cfg *config.Config) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return path
	}
	return cfg.Store.Path
}

// openStore opens the SQLite run store for a command invocation.
func openStore(cmd *cobra.Command, cfg *config.Config) (store.RunStore, error) {
	s, err := store.NewSQLiteRunStore(dbPath(cmd, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return s, nil
}

func saveRun(cmd *cobra.Command, cfg *config.Config, runID string, scenario *config.Scenario, trajectory *sim.Trajectory, summary stats.Summary) error {
	s, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	scenarioYAML, err := yaml.Marshal(scenario)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	rec := store.RunRecord{
		ID:           runID,
		Name:         scenario.Name,
		ScenarioYAML: string(scenarioYAML),
		Seed:         scenario.Seed,
		Reason:       string(summary.Reason),
		Firings:      summary.Firings,
		FinalTime:    summary.FinalTime,
	}
	if err := s.SaveRun(cmd.Context(), rec, trajectory.Samples()); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func printSummary(cmd *cobra.Command, runID string, scenario *config.Scenario, summary stats.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (scenario %q, seed %d)\n\n", runID, scenario.Name, scenario.Seed)
	fmt.Fprintf(out, "Terminated: %s after %d firings at t=%.4f\n", summary.Reason, summary.Firings, summary.FinalTime)
	fmt.Fprintf(out, "Final state: W=%d R=%d I=%d S=%d D=%d\n",
		summary.FinalWise, summary.FinalRisky, summary.FinalInfectious,
		summary.FinalRecovered, summary.FinalDead)
	fmt.Fprintf(out, "Peak infectious: %d at t=%.4f\n", summary.PeakInfectious, summary.PeakTime)
	fmt.Fprintf(out, "Total infections: %d\n", summary.TotalInfections)
	if summary.Extinct {
		fmt.Fprintf(out, "Extinction at t=%.4f\n", summary.ExtinctionTime)
	}
}
