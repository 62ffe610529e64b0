package stats

import (
	"testing"

	"github.com/nvandessel/epiwalk/internal/model"
	"github.com/nvandessel/epiwalk/internal/sim"
)

func state(w, r, i, s, d int64) model.Species {
	return model.Species{
		model.Wise:       w,
		model.Risky:      r,
		model.Infectious: i,
		model.Recovered:  s,
		model.Dead:       d,
	}
}

func TestSummarize(t *testing.T) {
	samples := []sim.Sample{
		{Time: 0, State: state(8, 1, 1, 0, 0)},
		{Time: 0.5, State: state(8, 0, 2, 0, 0)},  // infection
		{Time: 1.2, State: state(7, 0, 3, 0, 0)},  // infection, peak
		{Time: 2.0, State: state(7, 0, 2, 1, 0)},  // recovery
		{Time: 2.4, State: state(7, 0, 1, 1, 1)},  // death
		{Time: 3.1, State: state(8, 0, 0, 1, 1)},  // cure, extinction
	}

	s := Summarize(samples, sim.ReasonExtinction)

	if s.Reason != sim.ReasonExtinction {
		t.Errorf("Reason = %q, want %q", s.Reason, sim.ReasonExtinction)
	}
	if s.Firings != 5 {
		t.Errorf("Firings = %d, want 5", s.Firings)
	}
	if s.FinalTime != 3.1 {
		t.Errorf("FinalTime = %g, want 3.1", s.FinalTime)
	}
	if s.FinalWise != 8 || s.FinalRisky != 0 || s.FinalInfectious != 0 || s.FinalRecovered != 1 || s.FinalDead != 1 {
		t.Errorf("final counts = W=%d R=%d I=%d S=%d D=%d, want W=8 R=0 I=0 S=1 D=1",
			s.FinalWise, s.FinalRisky, s.FinalInfectious, s.FinalRecovered, s.FinalDead)
	}
	if s.PeakInfectious != 3 {
		t.Errorf("PeakInfectious = %d, want 3", s.PeakInfectious)
	}
	if s.PeakTime != 1.2 {
		t.Errorf("PeakTime = %g, want 1.2", s.PeakTime)
	}
	if s.TotalInfections != 2 {
		t.Errorf("TotalInfections = %d, want 2", s.TotalInfections)
	}
	if !s.Extinct {
		t.Error("Extinct = false for a run ending with I=0")
	}
	if s.ExtinctionTime != 3.1 {
		t.Errorf("ExtinctionTime = %g, want 3.1", s.ExtinctionTime)
	}
}

func TestSummarize_SingleSample(t *testing.T) {
	samples := []sim.Sample{{Time: 0, State: state(10, 0, 0, 0, 0)}}

	s := Summarize(samples, sim.ReasonExtinction)

	if s.Firings != 0 {
		t.Errorf("Firings = %d, want 0", s.Firings)
	}
	if s.PeakInfectious != 0 || s.PeakTime != 0 {
		t.Errorf("peak = (%d, %g), want (0, 0)", s.PeakInfectious, s.PeakTime)
	}
	if !s.Extinct {
		t.Error("Extinct = false for an initial state with I=0")
	}
}

func TestSummarize_NotExtinct(t *testing.T) {
	samples := []sim.Sample{
		{Time: 0, State: state(9, 0, 1, 0, 0)},
		{Time: 4.0, State: state(8, 0, 2, 0, 0)},
	}

	s := Summarize(samples, sim.ReasonHorizon)

	if s.Extinct {
		t.Error("Extinct = true for a run ending with I>0")
	}
	if s.ExtinctionTime != 0 {
		t.Errorf("ExtinctionTime = %g, want 0 for a non-extinct run", s.ExtinctionTime)
	}
}

func TestSummarize_ReinfectionCounted(t *testing.T) {
	// I rises, falls to zero would end the run, so instead: rise, fall,
	// rise again via reinfection of a cured individual.
	samples := []sim.Sample{
		{Time: 0, State: state(9, 0, 1, 0, 0)},
		{Time: 1, State: state(8, 0, 2, 0, 0)},
		{Time: 2, State: state(9, 0, 1, 0, 0)},
		{Time: 3, State: state(8, 0, 2, 0, 0)},
	}

	s := Summarize(samples, sim.ReasonHorizon)

	if s.TotalInfections != 2 {
		t.Errorf("TotalInfections = %d, want 2 (reinfection counts)", s.TotalInfections)
	}
	if s.PeakInfectious != 2 || s.PeakTime != 1 {
		t.Errorf("peak = (%d, %g), want first peak (2, 1)", s.PeakInfectious, s.PeakTime)
	}
}

func TestAggregate(t *testing.T) {
	summaries := []Summary{
		{Extinct: true, FinalDead: 2, FinalRecovered: 4, PeakInfectious: 3, TotalInfections: 5, FinalTime: 10},
		{Extinct: false, FinalDead: 6, FinalRecovered: 8, PeakInfectious: 9, TotalInfections: 15, FinalTime: 30},
	}

	agg := Aggregate(summaries)

	if agg.Replicates != 2 {
		t.Errorf("Replicates = %d, want 2", agg.Replicates)
	}
	if agg.ExtinctionFraction != 0.5 {
		t.Errorf("ExtinctionFraction = %g, want 0.5", agg.ExtinctionFraction)
	}
	if agg.MeanFinalDead != 4 {
		t.Errorf("MeanFinalDead = %g, want 4", agg.MeanFinalDead)
	}
	if agg.MeanFinalRecovered != 6 {
		t.Errorf("MeanFinalRecovered = %g, want 6", agg.MeanFinalRecovered)
	}
	if agg.MeanPeakInfectious != 6 {
		t.Errorf("MeanPeakInfectious = %g, want 6", agg.MeanPeakInfectious)
	}
	if agg.MaxPeakInfectious != 9 {
		t.Errorf("MaxPeakInfectious = %d, want 9", agg.MaxPeakInfectious)
	}
	if agg.MeanTotalInfected != 10 {
		t.Errorf("MeanTotalInfected = %g, want 10", agg.MeanTotalInfected)
	}
	if agg.MeanFinalTime != 20 {
		t.Errorf("MeanFinalTime = %g, want 20", agg.MeanFinalTime)
	}
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)
	if agg.Replicates != 0 {
		t.Errorf("Replicates = %d, want 0", agg.Replicates)
	}
	if agg.ExtinctionFraction != 0 {
		t.Errorf("ExtinctionFraction = %g, want 0", agg.ExtinctionFraction)
	}
}
