package aggregate

import (
	"fmt"
	"slices"
	"testing"

	"worldstats/domain/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unfiltered() world.Policy {
	p := world.DefaultPolicy()
	p.MinOccurrences = 1
	p.MinMarketingSpend = 0
	return p
}

func observe(id string, occupants int) world.Observation {
	return world.Observation{
		WorldID:        id,
		Occupants:      occupants,
		BioLinks:       world.NotAvailable,
		BioDescription: world.NotAvailable,
	}
}

func repeat(id string, occupants, times int) []world.Observation {
	out := make([]world.Observation, times)
	for i := range out {
		out[i] = observe(id, occupants)
	}
	return out
}

func TestEngine_SingleObservation(t *testing.T) {
	e := NewEngine(nil, nil)
	e.Add(observe("wrld_1", 23))

	res, err := e.Finalize(unfiltered())
	require.NoError(t, err)
	require.Len(t, res.Summaries, 1)

	s := res.Summaries[0]
	assert.Equal(t, 1, s.OccurrenceCount)
	assert.Equal(t, 23.0, s.AverageOccupants)
	assert.Equal(t, 23, s.MaxOccupants)
	assert.Equal(t, 23, s.MinOccupants)
}

func TestEngine_ExtremaAndAverage(t *testing.T) {
	e := NewEngine(nil, nil)
	for _, n := range []int{10, 0, 25, 4} {
		e.Add(observe("wrld_1", n))
	}

	res, err := e.Finalize(unfiltered())
	require.NoError(t, err)

	s := res.Summaries[0]
	assert.Equal(t, 4, s.OccurrenceCount)
	assert.Equal(t, 9.75, s.AverageOccupants)
	assert.Equal(t, 25, s.MaxOccupants)
	assert.Equal(t, 0, s.MinOccupants)
}

func TestEngine_AverageRoundsToTwoPlaces(t *testing.T) {
	e := NewEngine(nil, nil)
	for _, n := range []int{1, 1, 2} {
		e.Add(observe("wrld_1", n))
	}

	res, err := e.Finalize(unfiltered())
	require.NoError(t, err)
	assert.Equal(t, 1.33, res.Summaries[0].AverageOccupants)
}

func TestEngine_StickyFieldsFirstInformativeWins(t *testing.T) {
	first := observe("wrld_1", 5)
	second := observe("wrld_1", 5)
	second.Name = "First Name"
	second.BioLinks = "https://a.example"
	second.Heat = 3
	third := observe("wrld_1", 5)
	third.Name = "Renamed"
	third.BioLinks = "https://b.example"
	third.BioDescription = "late bio"
	third.Heat = 9
	third.Popularity = 2

	e := NewEngine(nil, nil)
	for _, o := range []world.Observation{first, second, third} {
		e.Add(o)
	}

	res, err := e.Finalize(unfiltered())
	require.NoError(t, err)

	s := res.Summaries[0]
	assert.Equal(t, "First Name", s.Name)
	assert.Equal(t, "https://a.example", s.SocialLinks)
	assert.Equal(t, "late bio", s.BioDescription)
	assert.Equal(t, 3.0, s.Heat)
	assert.Equal(t, 2.0, s.Popularity)
	assert.Equal(t, "", s.ImageURL)
}

func TestEngine_MissingIdentifierIsSkipped(t *testing.T) {
	e := NewEngine(nil, nil)
	records := []world.RawRecord{
		{"id": "wrld_1", "occupants": 3.0},
		{"name": "ghost", "occupants": 900.0},
		{"worldId": "wrld_2", "occupants": 4.0},
	}
	e.Consume(slices.Values(records))

	res, err := e.Finalize(unfiltered())
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Summaries))
	for _, s := range res.Summaries {
		ids = append(ids, s.WorldID)
	}
	assert.ElementsMatch(t, []string{"wrld_1", "wrld_2"}, ids)
	assert.Equal(t, 2, res.Stats.RecordsProcessed)
	assert.Equal(t, 1, res.Stats.RecordsSkipped)
	assert.Equal(t, 2, res.Stats.UniqueWorlds)
}

func TestEngine_OccurrenceThreshold(t *testing.T) {
	e := NewEngine(nil, nil)
	for _, o := range repeat("six", 1000, 6) {
		e.Add(o)
	}
	for _, o := range repeat("seven", 100, 7) {
		e.Add(o)
	}
	for _, o := range repeat("seven-quiet", 2, 7) {
		e.Add(o)
	}

	res, err := e.Finalize(world.DefaultPolicy())
	require.NoError(t, err)

	require.Len(t, res.Summaries, 1)
	assert.Equal(t, "seven", res.Summaries[0].WorldID)
	assert.Equal(t, 42.0, res.Summaries[0].MaxMarketingSpend)
	assert.Equal(t, 1, res.Stats.DroppedByOccurrences)
	assert.Equal(t, 1, res.Stats.DroppedBySpend)
	assert.Equal(t, 1, res.Stats.Survivors)
}

func TestEngine_OrdersByAverageDescending(t *testing.T) {
	e := NewEngine(nil, nil)
	e.Add(observe("A", 10))
	e.Add(observe("B", 50))
	e.Add(observe("C", 30))

	res, err := e.Finalize(unfiltered())
	require.NoError(t, err)

	var got []string
	for _, s := range res.Summaries {
		got = append(got, s.WorldID)
	}
	assert.Equal(t, []string{"B", "C", "A"}, got)
}

func TestEngine_TiesKeepFirstSeenOrder(t *testing.T) {
	e := NewEngine(nil, nil)
	for _, id := range []string{"z", "m", "a", "q"} {
		e.Add(observe(id, 20))
	}
	e.Add(observe("top", 99))

	res, err := e.Finalize(unfiltered())
	require.NoError(t, err)

	var got []string
	for _, s := range res.Summaries {
		got = append(got, s.WorldID)
	}
	assert.Equal(t, []string{"top", "z", "m", "a", "q"}, got)
}

func TestEngine_Idempotent(t *testing.T) {
	var records []world.RawRecord
	for i := 0; i < 40; i++ {
		records = append(records, world.RawRecord{
			"id":        fmt.Sprintf("wrld_%d", i%9),
			"occupants": float64((i * 37) % 120),
			"name":      fmt.Sprintf("World %d", i%9),
			"heat":      float64(i % 5),
		})
	}

	run := func() []world.Summary {
		e := NewEngine(nil, nil)
		e.Consume(slices.Values(records))
		res, err := e.Finalize(unfiltered())
		require.NoError(t, err)
		return res.Summaries
	}

	first := run()
	assert.Equal(t, first, run())

	// finalizing the same engine twice is also stable
	e := NewEngine(nil, nil)
	e.Consume(slices.Values(records))
	a, err := e.Finalize(unfiltered())
	require.NoError(t, err)
	b, err := e.Finalize(unfiltered())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEngine_InvalidPolicy(t *testing.T) {
	p := world.DefaultPolicy()
	p.HeatPopularityFactor = 0

	_, err := NewEngine(nil, nil).Finalize(p)
	assert.Error(t, err)
}

func TestAggregate_InterpolatedFactor(t *testing.T) {
	obs := repeat("hot", 100, 7)
	for i := range obs {
		obs[i].Heat = 100
		obs[i].Popularity = 100
	}

	p := world.DefaultPolicy()
	p.FactorMode = world.FactorInterpolated

	res, err := Aggregate(slices.Values(obs), p)
	require.NoError(t, err)
	require.Len(t, res.Summaries, 1)
	assert.Equal(t, 150.0, res.Summaries[0].DailyVisitors)
	assert.Equal(t, 0.45, res.Summaries[0].EstimatedOrders)
	assert.Equal(t, 63.0, res.Summaries[0].MaxMarketingSpend)
}
