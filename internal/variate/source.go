// Package variate supplies the uniform(0,1) draws that drive a
// simulation run. Sources are explicit dependencies of the engine:
// two engines constructed with equal seeds and configurations produce
// bit-identical trajectories.
package variate

import "math/rand/v2"

// Source produces independent uniform variates on the open interval (0,1).
// A Source is not safe for concurrent use; give each run its own.
type Source interface {
	// Next returns a draw in (0,1). It never returns exactly 0, so
	// ln(Next()) is always finite.
	Next() float64
}

// PCG is a seeded Source backed by math/rand/v2's PCG generator.
type PCG struct {
	rng *rand.Rand
}

// NewPCG creates a source seeded with (seed, stream). Distinct stream
// values yield independent sequences from the same master seed.
func NewPCG(seed, stream uint64) *PCG {
	return &PCG{rng: rand.New(rand.NewPCG(seed, stream))}
}

// Next returns a uniform draw in (0,1). Float64 returns values in
// [0,1); a draw of exactly 0 is resampled.
func (p *PCG) Next() float64 {
	for {
		if v := p.rng.Float64(); v > 0 {
			return v
		}
	}
}

// Streams returns n independent sources derived from one master seed,
// one per replicate, with stream indexes 0..n-1.
func Streams(masterSeed uint64, n int) []Source {
	sources := make([]Source, n)
	for i := range sources {
		sources[i] = NewPCG(masterSeed, uint64(i))
	}
	return sources
}
