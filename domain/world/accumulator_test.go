package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulator_MinUnsetIsZero(t *testing.T) {
	assert.Equal(t, 0, (&Accumulator{}).Min())
	assert.Equal(t, 0, NewAccumulator("w1").Min())
}

func TestAccumulator_Extrema(t *testing.T) {
	acc := NewAccumulator("w1")
	for _, n := range []int{40, 7, 0, 120, 15} {
		acc.Add(Observation{WorldID: "w1", Occupants: n})
		assert.LessOrEqual(t, acc.Min(), acc.MaxOccupants)
	}

	assert.Equal(t, 0, acc.Min())
	assert.Equal(t, 120, acc.MaxOccupants)
	assert.Equal(t, 182, acc.OccupantSum)
	assert.Equal(t, 5, acc.OccurrenceCount)
}

func TestAccumulator_MinFromFirstObservation(t *testing.T) {
	acc := NewAccumulator("w1")
	acc.Add(Observation{WorldID: "w1", Occupants: 30})
	acc.Add(Observation{WorldID: "w1", Occupants: 50})

	assert.Equal(t, 30, acc.Min())
	assert.Equal(t, 50, acc.MaxOccupants)
}

func TestSticky_FirstInformativeWins(t *testing.T) {
	var s Sticky[string]
	s.Offer(NotAvailable, NotAvailable)
	assert.Equal(t, "fallback", s.Or("fallback"))

	s.Offer("first", NotAvailable)
	s.Offer("second", NotAvailable)
	assert.Equal(t, "first", s.Or("fallback"))
}
