package app

import (
	"context"
	"time"

	"worldstats/domain/core"
	"worldstats/domain/world"
	"worldstats/internal"
	"worldstats/internal/aggregate"
	"worldstats/internal/errors"
	"worldstats/ports"

	"golang.org/x/sync/errgroup"
)

// AggregationService runs one pass from snapshot storage to written reports
type AggregationService struct {
	source     ports.RecordSource
	normalizer *aggregate.Normalizer
	writers    []ports.ReportWriter
	logger     *internal.Logger
	now        func() time.Time
}

// AggregationRequest defines the inputs for one run
type AggregationRequest struct {
	Policy world.Policy
	TopN   int
	RunID  core.RunID // optional, generated if empty
}

// AggregationResult contains the ranked output and where it was written
type AggregationResult struct {
	RunID       core.RunID         `json:"run_id"`
	Summaries   []world.Summary    `json:"-"`
	Stats       aggregate.RunStats `json:"stats"`
	Source      ports.SourceStats  `json:"source"`
	Reports     []string           `json:"reports"`
	GeneratedAt time.Time          `json:"generated_at"`
	RuntimeMs   int64              `json:"runtime_ms"`
}

// PrimaryReport is the first report written, the one attached to the email
func (r *AggregationResult) PrimaryReport() string {
	if r == nil || len(r.Reports) == 0 {
		return ""
	}
	return r.Reports[0]
}

// NewAggregationService creates an aggregation service. Writers run concurrently; the first
// one is the primary report.
func NewAggregationService(source ports.RecordSource, normalizer *aggregate.Normalizer, writers []ports.ReportWriter, logger *internal.Logger) *AggregationService {
	if logger == nil {
		logger = internal.Discard
	}
	return &AggregationService{
		source:     source,
		normalizer: normalizer,
		writers:    writers,
		logger:     logger.With("aggregate"),
		now:        time.Now,
	}
}

// Run reads every snapshot, ranks the worlds and writes the reports. A missing data
// directory and a run with no usable worlds are both errors; no report is written then.
func (s *AggregationService) Run(ctx context.Context, req AggregationRequest) (*AggregationResult, error) {
	startTime := s.now()

	runID := req.RunID
	if runID == "" {
		runID = core.NewRunID()
	}

	if err := req.Policy.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := s.source.Check(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("processing world data (run %s)", runID)
	engine := aggregate.NewEngine(s.normalizer, s.logger)
	records, sourceStats := s.source.Records(ctx)
	engine.Consume(records)
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "aggregation cancelled")
	}

	source := *sourceStats
	stats := engine.Stats()
	s.logger.Info("Processed %d world entries", stats.RecordsProcessed)
	s.logger.Info("Found %d unique worlds", stats.UniqueWorlds)
	if stats.RecordsSkipped > 0 {
		s.logger.Warn("skipped %d records without a world id", stats.RecordsSkipped)
	}
	if stats.UniqueWorlds == 0 {
		return nil, errors.NoData("no world data found to process")
	}

	res, err := engine.Finalize(req.Policy)
	if err != nil {
		return nil, err
	}
	s.logger.Info("%d worlds kept after filters (occurrences >= %d, marketing spend >= %.2f)",
		res.Stats.Survivors, req.Policy.MinOccurrences, req.Policy.MinMarketingSpend)

	generatedAt := s.now()
	meta := ports.ReportMeta{
		RunID:       runID.String(),
		GeneratedAt: generatedAt,
		Policy:      req.Policy,
		Records:     res.Stats.RecordsProcessed,
		Skipped:     res.Stats.RecordsSkipped,
		Worlds:      res.Stats.UniqueWorlds,
	}
	if err := s.writeReports(ctx, res.Summaries, meta); err != nil {
		return nil, err
	}

	result := &AggregationResult{
		RunID:       runID,
		Summaries:   res.Summaries,
		Stats:       res.Stats,
		Source:      source,
		GeneratedAt: generatedAt,
		RuntimeMs:   s.now().Sub(startTime).Milliseconds(),
	}
	for _, w := range s.writers {
		result.Reports = append(result.Reports, w.Path())
	}

	s.logTop(res.Summaries, req.TopN)
	return result, nil
}

func (s *AggregationService) writeReports(ctx context.Context, summaries []world.Summary, meta ports.ReportMeta) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range s.writers {
		g.Go(func() error {
			if err := w.Write(gctx, summaries, meta); err != nil {
				return errors.Wrapf(err, "failed to write report %s", w.Path())
			}
			s.logger.Info("results saved to %s", w.Path())
			return nil
		})
	}
	return g.Wait()
}

func (s *AggregationService) logTop(summaries []world.Summary, n int) {
	if n <= 0 || len(summaries) == 0 {
		return
	}
	if n > len(summaries) {
		n = len(summaries)
	}
	s.logger.Info("Top %d worlds by average occupants:", n)
	for i, sum := range summaries[:n] {
		s.logger.Info("%d. %s: %.2f avg occupants (%d snapshots)", i+1, sum.DisplayName(), sum.AverageOccupants, sum.OccurrenceCount)
	}
}
