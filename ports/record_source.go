package ports

import (
	"context"
	"iter"

	"worldstats/domain/world"
)

// RecordSource yields raw world records from snapshot storage
type RecordSource interface {
	// Check verifies the source is readable before a run starts
	Check(ctx context.Context) error

	// Records lazily yields every record; unreadable files are skipped, not fatal.
	// The stats describe this pass and are final once the sequence is exhausted.
	Records(ctx context.Context) (iter.Seq[world.RawRecord], *SourceStats)
}

// SourceStats summarizes one pass over the snapshot storage
type SourceStats struct {
	FilesFound   int `json:"files_found"`
	FilesSkipped int `json:"files_skipped"`
	Records      int `json:"records"`
}
