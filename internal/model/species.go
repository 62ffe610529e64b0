// Package model defines the compartments and reaction network of the
// behavioral epidemic: susceptibles split into wise (W) and risky (R)
// sub-populations, plus infectious (I), recovered/immune (S), and dead (D).
// Individuals drift between W and R, are infected at behavior-dependent
// rates, and leave I by cure, death, or permanent recovery.
package model

import "fmt"

// Compartment indexes a species in the Species vector.
type Compartment int

// Compartments in fixed vector order.
const (
	Wise Compartment = iota
	Risky
	Infectious
	Recovered
	Dead

	NumCompartments
)

// String returns the single-letter compartment label used in output.
func (c Compartment) String() string {
	switch c {
	case Wise:
		return "W"
	case Risky:
		return "R"
	case Infectious:
		return "I"
	case Recovered:
		return "S"
	case Dead:
		return "D"
	default:
		return fmt.Sprintf("Compartment(%d)", int(c))
	}
}

// Species is the vector of per-compartment individual counts.
// It is a value type: engines copy it on every firing, so a recorded
// trajectory sample is immutable once appended.
type Species [NumCompartments]int64

// Total returns the population sum W+R+I+S+D. Every reaction channel
// preserves this sum.
func (s Species) Total() int64 {
	var total int64
	for _, n := range s {
		total += n
	}
	return total
}

// NonNegative reports whether every compartment count is >= 0.
func (s Species) NonNegative() bool {
	for _, n := range s {
		if n < 0 {
			return false
		}
	}
	return true
}

// String formats the vector as "W=.. R=.. I=.. S=.. D=..".
func (s Species) String() string {
	return fmt.Sprintf("W=%d R=%d I=%d S=%d D=%d",
		s[Wise], s[Risky], s[Infectious], s[Recovered], s[Dead])
}
