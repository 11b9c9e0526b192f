package ports

import (
	"context"
	"time"

	"worldstats/domain/world"
)

// ReportMeta describes the run a report was produced from
type ReportMeta struct {
	RunID       string
	GeneratedAt time.Time
	Policy      world.Policy
	Records     int
	Skipped     int
	Worlds      int
}

// ReportWriter persists the ranked summaries
type ReportWriter interface {
	Write(ctx context.Context, summaries []world.Summary, meta ReportMeta) error

	// Path is where the report ends up
	Path() string
}
