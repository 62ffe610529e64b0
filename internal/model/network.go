package model

import "fmt"

// Rates holds the seven rate constants of the reaction network.
type Rates struct {
	// WiseToRisky (a) is the behavioral drift rate W -> R.
	WiseToRisky float64 `json:"wise_to_risky" yaml:"wise_to_risky"`

	// RiskyToWise (alpha) is the behavioral drift rate R -> W.
	RiskyToWise float64 `json:"risky_to_wise" yaml:"risky_to_wise"`

	// WiseToInfected (b) is the mass-action infection constant for W.
	WiseToInfected float64 `json:"wise_to_infected" yaml:"wise_to_infected"`

	// RiskyToInfected (c) is the mass-action infection constant for R.
	// Typically c > b: risky individuals are infected more readily.
	RiskyToInfected float64 `json:"risky_to_infected" yaml:"risky_to_infected"`

	// Cure (beta) returns an infectious individual to the wise pool
	// without immunity.
	Cure float64 `json:"cure" yaml:"cure"`

	// Fatality (d) moves an infectious individual to the dead pool.
	Fatality float64 `json:"fatality" yaml:"fatality"`

	// Recovery (rho) moves an infectious individual to the immune pool.
	Recovery float64 `json:"recovery" yaml:"recovery"`
}

// NumChannels is the number of reaction channels in the network.
const NumChannels = 7

// Channel identifies a reaction channel, in the fixed order used for
// propensity vectors and cumulative selection.
type Channel int

const (
	ChanWiseToRisky     Channel = iota // W -> R
	ChanRiskyToWise                    // R -> W
	ChanInfectRisky                    // R + I -> 2I
	ChanInfectWise                     // W + I -> 2I
	ChanCure                           // I -> W
	ChanDeath                          // I -> D
	ChanRecover                        // I -> S
)

// String returns the transition notation for the channel.
func (c Channel) String() string {
	switch c {
	case ChanWiseToRisky:
		return "W->R"
	case ChanRiskyToWise:
		return "R->W"
	case ChanInfectRisky:
		return "R+I->2I"
	case ChanInfectWise:
		return "W+I->2I"
	case ChanCure:
		return "I->W"
	case ChanDeath:
		return "I->D"
	case ChanRecover:
		return "I->S"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// deltas holds the stoichiometric effect of each channel on the species
// vector. Every row sums to zero, so firing any channel preserves the
// total population.
var deltas = [NumChannels][NumCompartments]int64{
	ChanWiseToRisky: {Wise: -1, Risky: +1},
	ChanRiskyToWise: {Risky: -1, Wise: +1},
	ChanInfectRisky: {Risky: -1, Infectious: +1},
	ChanInfectWise:  {Wise: -1, Infectious: +1},
	ChanCure:        {Infectious: -1, Wise: +1},
	ChanDeath:       {Infectious: -1, Dead: +1},
	ChanRecover:     {Infectious: -1, Recovered: +1},
}

// Network binds the rate constants to the fixed channel set.
// Network is stateless: both Propensities and Apply are pure.
type Network struct {
	rates Rates
}

// NewNetwork creates a reaction network with the given rate constants.
// Rate validation happens at configuration time, not here.
func NewNetwork(rates Rates) *Network {
	return &Network{rates: rates}
}

// Rates returns the network's rate constants.
func (n *Network) Rates() Rates { return n.rates }

// Propensities evaluates the instantaneous firing rate of every channel
// for the given state, in fixed channel order. Each propensity is zero
// whenever its source compartment is empty, so a selected channel can
// always fire without driving a count negative.
func (n *Network) Propensities(s Species) [NumChannels]float64 {
	w := float64(s[Wise])
	r := float64(s[Risky])
	i := float64(s[Infectious])

	return [NumChannels]float64{
		ChanWiseToRisky: n.rates.WiseToRisky * w,
		ChanRiskyToWise: n.rates.RiskyToWise * r,
		ChanInfectRisky: n.rates.RiskyToInfected * i * r,
		ChanInfectWise:  n.rates.WiseToInfected * i * w,
		ChanCure:        n.rates.Cure * i,
		ChanDeath:       n.rates.Fatality * i,
		ChanRecover:     n.rates.Recovery * i,
	}
}

// Apply fires the given channel and returns the resulting state.
// It returns an error if the delta would drive a compartment negative;
// with propensity-proportional selection this cannot happen, so an error
// here indicates a caller bug.
func (n *Network) Apply(s Species, ch Channel) (Species, error) {
	if ch < 0 || ch >= NumChannels {
		return s, fmt.Errorf("apply: invalid channel %d", ch)
	}
	next := s
	for c, d := range deltas[ch] {
		next[c] += d
		if next[c] < 0 {
			return s, fmt.Errorf("apply: channel %s would drive %s below zero", ch, Compartment(c))
		}
	}
	return next, nil
}
