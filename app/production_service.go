package app

import (
	"context"

	"worldstats/internal"
	"worldstats/internal/notify"
)

// Notifier announces a finished report
type Notifier interface {
	Notify(ctx context.Context, report notify.Report, force bool) (notify.Outcome, error)
}

// ProductionService aggregates and then sends the report email when it is due
type ProductionService struct {
	aggregation *AggregationService
	notifier    Notifier
	logger      *internal.Logger
}

// ProductionResult holds both halves of a production run. EmailErr is set when the
// aggregation succeeded but the email could not be sent.
type ProductionResult struct {
	Aggregation *AggregationResult
	Email       notify.Outcome
	EmailErr    error
}

// NewProductionService creates a production service
func NewProductionService(aggregation *AggregationService, notifier Notifier, logger *internal.Logger) *ProductionService {
	if logger == nil {
		logger = internal.Discard
	}
	return &ProductionService{
		aggregation: aggregation,
		notifier:    notifier,
		logger:      logger.With("production"),
	}
}

// Run aggregates, then notifies. An aggregation failure aborts before any email; an email
// failure is logged and reported in the result without undoing the written reports.
func (p *ProductionService) Run(ctx context.Context, req AggregationRequest, forceEmail bool) (*ProductionResult, error) {
	p.logger.Info("[1/2] running analytics processing")
	agg, err := p.aggregation.Run(ctx, req)
	if err != nil {
		p.logger.Error("analytics processing failed, aborting: %v", err)
		return nil, err
	}
	p.logger.Info("analytics processing completed: %d worlds ranked", len(agg.Summaries))

	result := &ProductionResult{Aggregation: agg}

	p.logger.Info("[2/2] checking email service")
	if forceEmail {
		p.logger.Info("force email flag set, sending regardless of interval")
	}
	outcome, err := p.notifier.Notify(ctx, notify.Report{
		Summaries:   agg.Summaries,
		Attachment:  agg.PrimaryReport(),
		GeneratedAt: agg.GeneratedAt,
	}, forceEmail)
	if err != nil {
		p.logger.Error("failed to send email: %v", err)
		result.EmailErr = err
		return result, nil
	}
	result.Email = outcome
	return result, nil
}
