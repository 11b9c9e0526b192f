package aggregate

import (
	"cmp"
	"iter"
	"slices"

	"worldstats/domain/world"
	"worldstats/internal"
	"worldstats/internal/errors"
)

// RunStats counts what happened to the input during one aggregation run
type RunStats struct {
	RecordsProcessed     int `json:"records_processed"`
	RecordsSkipped       int `json:"records_skipped"`
	UniqueWorlds         int `json:"unique_worlds"`
	Survivors            int `json:"survivors"`
	DroppedByOccurrences int `json:"dropped_by_occurrences"`
	DroppedBySpend       int `json:"dropped_by_spend"`
}

// Result is the ranked output of a finalized run
type Result struct {
	Summaries []world.Summary
	Stats     RunStats
}

// Engine folds observations into one accumulator per world. An Engine belongs to a single
// run and is not safe for concurrent use; create a new one per run.
type Engine struct {
	normalizer   *Normalizer
	logger       *internal.Logger
	accumulators map[string]*world.Accumulator
	order        []string
	stats        RunStats
}

// NewEngine creates an engine. A nil normalizer uses the default aliases, a nil logger
// discards output.
func NewEngine(normalizer *Normalizer, logger *internal.Logger) *Engine {
	if normalizer == nil {
		normalizer = NewDefaultNormalizer()
	}
	if logger == nil {
		logger = internal.Discard
	}
	return &Engine{
		normalizer:   normalizer,
		logger:       logger,
		accumulators: make(map[string]*world.Accumulator),
	}
}

// AddRecord normalizes and folds one raw record. Records without an identifier are counted
// as skipped and reported through the returned error; the run itself continues.
func (e *Engine) AddRecord(raw world.RawRecord) error {
	obs, err := e.normalizer.Normalize(raw)
	if err != nil {
		e.stats.RecordsSkipped++
		e.logger.Warn("found world without ID, skipping")
		return err
	}
	e.Add(obs)
	return nil
}

// Consume folds every record of the sequence
func (e *Engine) Consume(records iter.Seq[world.RawRecord]) {
	for raw := range records {
		_ = e.AddRecord(raw)
	}
}

// Add folds one observation
func (e *Engine) Add(obs world.Observation) {
	acc, ok := e.accumulators[obs.WorldID]
	if !ok {
		acc = world.NewAccumulator(obs.WorldID)
		e.accumulators[obs.WorldID] = acc
		e.order = append(e.order, obs.WorldID)
	}
	acc.Add(obs)
	e.stats.RecordsProcessed++
}

// Stats returns the fold counters gathered so far
func (e *Engine) Stats() RunStats {
	s := e.stats
	s.UniqueWorlds = len(e.accumulators)
	return s
}

// Finalize filters, derives metrics and ranks the accumulated worlds. It does not modify
// the accumulators, so calling it twice with the same policy yields the same result.
func (e *Engine) Finalize(policy world.Policy) (*Result, error) {
	if err := policy.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	stats := e.Stats()
	summaries := make([]world.Summary, 0, len(e.order))

	for _, id := range e.order {
		acc := e.accumulators[id]
		if acc.OccurrenceCount < policy.MinOccurrences {
			stats.DroppedByOccurrences++
			continue
		}

		summary := summarize(acc, policy)
		if summary.MaxMarketingSpend < policy.MinMarketingSpend {
			stats.DroppedBySpend++
			e.logger.Trace("world %s dropped: spend %.2f below %.2f", id, summary.MaxMarketingSpend, policy.MinMarketingSpend)
			continue
		}
		summaries = append(summaries, summary)
	}

	// stable: equal averages keep first-seen order
	slices.SortStableFunc(summaries, func(a, b world.Summary) int {
		return cmp.Compare(b.AverageOccupants, a.AverageOccupants)
	})

	stats.Survivors = len(summaries)
	return &Result{Summaries: summaries, Stats: stats}, nil
}

func summarize(acc *world.Accumulator, policy world.Policy) world.Summary {
	average := round2(float64(acc.OccupantSum) / float64(acc.OccurrenceCount))
	heat := acc.Heat.Or(0)
	popularity := acc.Popularity.Or(0)

	factor := policy.HeatPopularityFactor
	if policy.FactorMode == world.FactorInterpolated {
		factor = InterpolatedFactor(heat, popularity)
	}
	metrics := DeriveMetrics(average, factor)

	return world.Summary{
		WorldID:           acc.WorldID,
		Name:              acc.Name.Or(world.EmptyText),
		AverageOccupants:  average,
		OccurrenceCount:   acc.OccurrenceCount,
		MaxOccupants:      acc.MaxOccupants,
		MinOccupants:      acc.Min(),
		Heat:              heat,
		Popularity:        popularity,
		DailyVisitors:     metrics.DailyVisitors,
		EstimatedOrders:   metrics.EstimatedOrders,
		MaxMarketingSpend: metrics.MaxMarketingSpend,
		ImageURL:          acc.ImageURL.Or(world.EmptyText),
		AuthorID:          acc.AuthorID.Or(world.EmptyText),
		AuthorName:        acc.AuthorName.Or(world.EmptyText),
		BioDescription:    acc.BioDescription.Or(world.NotAvailable),
		SocialLinks:       acc.BioLinks.Or(world.NotAvailable),
	}
}

// Aggregate folds a sequence of observations with a fresh engine and finalizes it
func Aggregate(observations iter.Seq[world.Observation], policy world.Policy) (*Result, error) {
	engine := NewEngine(nil, nil)
	for obs := range observations {
		engine.Add(obs)
	}
	return engine.Finalize(policy)
}
