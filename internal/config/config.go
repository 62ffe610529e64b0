// Package config provides configuration loading for epiwalk.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvandessel/epiwalk/internal/model"
	"gopkg.in/yaml.v3"
)

// Config contains tool-level settings: where runs are persisted and how
// the tool logs. Per-simulation parameters live in Scenario.
type Config struct {
	// Store contains settings for run persistence.
	Store StoreConfig `json:"store" yaml:"store"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// StoreConfig configures the run store.
type StoreConfig struct {
	// Path is the SQLite database file for recorded runs.
	Path string `json:"path" yaml:"path"`
}

// LoggingConfig configures epiwalk's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables run-event logging to .epiwalk/events.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Counts is the initial per-compartment population.
type Counts struct {
	Wise       int64 `json:"w" yaml:"w"`
	Risky      int64 `json:"r" yaml:"r"`
	Infectious int64 `json:"i" yaml:"i"`
	Recovered  int64 `json:"s" yaml:"s"`
	Dead       int64 `json:"d" yaml:"d"`
}

// Species converts the counts into a model species vector.
func (c Counts) Species() model.Species {
	var s model.Species
	s[model.Wise] = c.Wise
	s[model.Risky] = c.Risky
	s[model.Infectious] = c.Infectious
	s[model.Recovered] = c.Recovered
	s[model.Dead] = c.Dead
	return s
}

// Total returns the sum of all initial counts.
func (c Counts) Total() int64 {
	return c.Wise + c.Risky + c.Infectious + c.Recovered + c.Dead
}

// Scenario is the immutable description of one simulation: population,
// initial state, rate constants, horizon, and iteration cap. A Scenario
// is validated once before a run and never mutated by the engine.
type Scenario struct {
	// Name is an optional label recorded with persisted runs.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// PopulationSize is the conserved total N = W+R+I+S+D.
	PopulationSize int64 `json:"population_size" yaml:"population_size"`

	// HorizonTime is the simulated time limit T.
	HorizonTime float64 `json:"horizon_time" yaml:"horizon_time"`

	// MaxIterations bounds the number of reaction firings per run.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// Seed seeds the random variate source. Runs with equal scenarios
	// and seeds are bit-identical.
	Seed uint64 `json:"seed" yaml:"seed"`

	// InitialCounts is the state at t=0.
	InitialCounts Counts `json:"initial_counts" yaml:"initial_counts"`

	// Rates holds the seven reaction rate constants.
	Rates model.Rates `json:"rates" yaml:"rates"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path: filepath.Join(".epiwalk", "runs.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultScenario returns the reference outbreak scenario: one infectious
// individual in a population of 200 with a 3:1 wise/risky split.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:           "baseline",
		PopulationSize: 200,
		HorizonTime:    100,
		MaxIterations:  10000,
		Seed:           1,
		InitialCounts:  Counts{Wise: 149, Risky: 50, Infectious: 1},
		Rates: model.Rates{
			WiseToRisky:     0.1,
			RiskyToWise:     0.03,
			WiseToInfected:  0.001,
			RiskyToInfected: 0.01,
			Cure:            0.2,
			Fatality:        0.08,
			Recovery:        0.1,
		},
	}
}

// Load loads tool configuration from the default locations and
// environment variables.
// Order: defaults -> ~/.epiwalk/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".epiwalk", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads tool configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// LoadScenario loads a scenario from a YAML file and validates it.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	scenario := DefaultScenario()
	if err := yaml.Unmarshal(data, scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	return scenario, nil
}

// Validate checks that the tool configuration is valid.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// Validate checks every scenario field against its constraint and names
// the violated field. A scenario that passes cannot fail mid-run.
func (s *Scenario) Validate() error {
	if s.PopulationSize <= 0 {
		return fmt.Errorf("population_size must be positive, got %d", s.PopulationSize)
	}
	if s.HorizonTime <= 0 {
		return fmt.Errorf("horizon_time must be positive, got %v", s.HorizonTime)
	}
	if s.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", s.MaxIterations)
	}

	counts := []struct {
		field string
		value int64
	}{
		{"initial_counts.w", s.InitialCounts.Wise},
		{"initial_counts.r", s.InitialCounts.Risky},
		{"initial_counts.i", s.InitialCounts.Infectious},
		{"initial_counts.s", s.InitialCounts.Recovered},
		{"initial_counts.d", s.InitialCounts.Dead},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", c.field, c.value)
		}
	}
	if total := s.InitialCounts.Total(); total != s.PopulationSize {
		return fmt.Errorf("initial_counts must sum to population_size %d, got %d", s.PopulationSize, total)
	}

	rates := []struct {
		field string
		value float64
	}{
		{"rates.wise_to_risky", s.Rates.WiseToRisky},
		{"rates.risky_to_wise", s.Rates.RiskyToWise},
		{"rates.wise_to_infected", s.Rates.WiseToInfected},
		{"rates.risky_to_infected", s.Rates.RiskyToInfected},
		{"rates.cure", s.Rates.Cure},
		{"rates.fatality", s.Rates.Fatality},
		{"rates.recovery", s.Rates.Recovery},
	}
	for _, r := range rates {
		if r.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", r.field, r.value)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("EPIWALK_STORE_PATH"); v != "" {
		config.Store.Path = v
	}

	if v := os.Getenv("EPIWALK_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// ApplyEnvOverrides applies scenario-level environment overrides, used
// for sweeping a parameter without editing the scenario file.
func (s *Scenario) ApplyEnvOverrides() {
	if v := os.Getenv("EPIWALK_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			s.Seed = n
		}
	}
	if v := os.Getenv("EPIWALK_HORIZON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.HorizonTime = f
		}
	}
	if v := os.Getenv("EPIWALK_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.MaxIterations = n
		}
	}
}
