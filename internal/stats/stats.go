// Package stats computes summary statistics over recorded trajectories,
// for CLI reporting and ensemble aggregation.
package stats

import (
	"github.com/nvandessel/epiwalk/internal/model"
	"github.com/nvandessel/epiwalk/internal/sim"
)

// Summary condenses one trajectory into the quantities people ask about.
type Summary struct {
	Reason    sim.Reason `json:"reason"`
	Firings   int        `json:"firings"`
	FinalTime float64    `json:"final_time"`

	FinalWise       int64 `json:"final_w"`
	FinalRisky      int64 `json:"final_r"`
	FinalInfectious int64 `json:"final_i"`
	FinalRecovered  int64 `json:"final_s"`
	FinalDead       int64 `json:"final_d"`

	// PeakInfectious is the maximum of I over the trajectory, and
	// PeakTime the first time it was reached.
	PeakInfectious int64   `json:"peak_infectious"`
	PeakTime       float64 `json:"peak_time"`

	// TotalInfections counts infection firings (every increase of I),
	// including reinfections of cured individuals.
	TotalInfections int64 `json:"total_infections"`

	// Extinct reports whether the run ended with I == 0;
	// ExtinctionTime is meaningful only when Extinct is true.
	Extinct        bool    `json:"extinct"`
	ExtinctionTime float64 `json:"extinction_time,omitempty"`
}

// Summarize folds a sample sequence and its termination reason into a
// Summary. The sequence must be non-empty (every trajectory carries at
// least the initial sample).
func Summarize(samples []sim.Sample, reason sim.Reason) Summary {
	final := samples[len(samples)-1]

	s := Summary{
		Reason:          reason,
		Firings:         len(samples) - 1,
		FinalTime:       final.Time,
		FinalWise:       final.State[model.Wise],
		FinalRisky:      final.State[model.Risky],
		FinalInfectious: final.State[model.Infectious],
		FinalRecovered:  final.State[model.Recovered],
		FinalDead:       final.State[model.Dead],
	}

	prev := samples[0].State[model.Infectious]
	s.PeakInfectious = prev
	s.PeakTime = samples[0].Time
	for _, sample := range samples[1:] {
		i := sample.State[model.Infectious]
		if i > prev {
			s.TotalInfections++
		}
		if i > s.PeakInfectious {
			s.PeakInfectious = i
			s.PeakTime = sample.Time
		}
		prev = i
	}

	if final.State[model.Infectious] == 0 {
		s.Extinct = true
		s.ExtinctionTime = final.Time
	}

	return s
}

// EnsembleSummary aggregates summaries across replicate runs.
type EnsembleSummary struct {
	Replicates int `json:"replicates"`

	// ExtinctionFraction is the share of replicates that ended extinct.
	ExtinctionFraction float64 `json:"extinction_fraction"`

	MeanFinalDead      float64 `json:"mean_final_dead"`
	MeanFinalRecovered float64 `json:"mean_final_recovered"`
	MeanPeakInfectious float64 `json:"mean_peak_infectious"`
	MaxPeakInfectious  int64   `json:"max_peak_infectious"`
	MeanTotalInfected  float64 `json:"mean_total_infections"`
	MeanFinalTime      float64 `json:"mean_final_time"`
}

// Aggregate reduces replicate summaries to ensemble statistics.
// An empty input yields a zero summary.
func Aggregate(summaries []Summary) EnsembleSummary {
	agg := EnsembleSummary{Replicates: len(summaries)}
	if len(summaries) == 0 {
		return agg
	}

	var extinct int
	for _, s := range summaries {
		if s.Extinct {
			extinct++
		}
		agg.MeanFinalDead += float64(s.FinalDead)
		agg.MeanFinalRecovered += float64(s.FinalRecovered)
		agg.MeanPeakInfectious += float64(s.PeakInfectious)
		agg.MeanTotalInfected += float64(s.TotalInfections)
		agg.MeanFinalTime += s.FinalTime
		if s.PeakInfectious > agg.MaxPeakInfectious {
			agg.MaxPeakInfectious = s.PeakInfectious
		}
	}

	n := float64(len(summaries))
	agg.ExtinctionFraction = float64(extinct) / n
	agg.MeanFinalDead /= n
	agg.MeanFinalRecovered /= n
	agg.MeanPeakInfectious /= n
	agg.MeanTotalInfected /= n
	agg.MeanFinalTime /= n

	return agg
}
