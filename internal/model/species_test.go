package model

import "testing"

func TestSpecies_Total(t *testing.T) {
	s := Species{10, 5, 3, 2, 1}
	if got := s.Total(); got != 21 {
		t.Errorf("Total() = %d, want 21", got)
	}

	var zero Species
	if got := zero.Total(); got != 0 {
		t.Errorf("Total() of zero state = %d, want 0", got)
	}
}

func TestSpecies_NonNegative(t *testing.T) {
	s := Species{10, 5, 3, 2, 1}
	if !s.NonNegative() {
		t.Error("NonNegative() = false for all-positive state")
	}

	s[Infectious] = -1
	if s.NonNegative() {
		t.Error("NonNegative() = true with negative infectious count")
	}
}

func TestCompartment_String(t *testing.T) {
	tests := []struct {
		c    Compartment
		want string
	}{
		{Wise, "W"},
		{Risky, "R"},
		{Infectious, "I"},
		{Recovered, "S"},
		{Dead, "D"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Compartment(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}
