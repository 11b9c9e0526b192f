package snapshot

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"worldstats/domain/world"
	"worldstats/internal"
	"worldstats/internal/errors"
	"worldstats/ports"

	"github.com/tidwall/gjson"
)

// Reader yields world records from every snapshot file in a directory. Files matching the
// pattern are read in name order; compressed twins (pattern + ".zst" / ".gz") are included.
type Reader struct {
	dir     string
	pattern string
	logger  *internal.Logger
}

var _ ports.RecordSource = (*Reader)(nil)

// NewReader creates a snapshot reader
func NewReader(dir, pattern string, logger *internal.Logger) *Reader {
	if pattern == "" {
		pattern = "*.json"
	}
	if logger == nil {
		logger = internal.Discard
	}
	return &Reader{dir: dir, pattern: pattern, logger: logger.With("snapshot")}
}

// Check fails when the data directory is absent or not a directory
func (r *Reader) Check(ctx context.Context) error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return errors.NotFound(fmt.Sprintf("data directory '%s'", r.dir))
	}
	if err != nil {
		return errors.Wrapf(err, "failed to stat data directory '%s'", r.dir)
	}
	if !info.IsDir() {
		return errors.ConfigInvalid(fmt.Sprintf("data path '%s' is not a directory", r.dir))
	}
	return nil
}

// Files lists the snapshot files that a pass would read
func (r *Reader) Files() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, suffix := range []string{"", ".zst", ".gz"} {
		matches, err := filepath.Glob(filepath.Join(r.dir, r.pattern+suffix))
		if err != nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("bad data pattern %q: %v", r.pattern, err))
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Records lazily yields every record found. Malformed files are logged and skipped.
// The returned stats belong to this pass only and are complete once the sequence has
// been consumed; concurrent passes over one Reader do not share them.
func (r *Reader) Records(ctx context.Context) (iter.Seq[world.RawRecord], *ports.SourceStats) {
	stats := &ports.SourceStats{}
	seq := func(yield func(world.RawRecord) bool) {
		*stats = ports.SourceStats{}

		files, err := r.Files()
		if err != nil {
			r.logger.Error("%v", err)
			return
		}
		stats.FilesFound = len(files)
		if len(files) == 0 {
			r.logger.Warn("no snapshot files matching %s found in %s", r.pattern, r.dir)
			return
		}
		r.logger.Info("found %d snapshot files to process", len(files))

		for _, path := range files {
			if ctx.Err() != nil {
				return
			}
			records, err := r.readFile(path)
			if err != nil {
				stats.FilesSkipped++
				r.logger.Error("%v", err)
				continue
			}
			for _, rec := range records {
				stats.Records++
				if !yield(rec) {
					return
				}
			}
		}
	}
	return seq, stats
}

func (r *Reader) readFile(path string) ([]world.RawRecord, error) {
	data, err := readSnapshot(path)
	if err != nil {
		return nil, errors.MalformedInput(path, err)
	}
	records, err := parseRecords(data)
	if err != nil {
		return nil, errors.MalformedInput(path, err)
	}
	return records, nil
}

// parseRecords accepts a top-level array of records, an object holding a "worlds" array,
// or a single bare record. Non-object array entries are dropped.
func parseRecords(data []byte) ([]world.RawRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.IsArray():
		return collectObjects(root), nil
	case root.IsObject():
		if worlds := root.Get("worlds"); worlds.Exists() {
			if !worlds.IsArray() {
				return nil, fmt.Errorf("\"worlds\" is %s, not an array", worlds.Type)
			}
			return collectObjects(worlds), nil
		}
		if rec, ok := asRecord(root); ok {
			return []world.RawRecord{rec}, nil
		}
	}
	return nil, fmt.Errorf("unexpected data structure (%s)", root.Type)
}

func collectObjects(arr gjson.Result) []world.RawRecord {
	var out []world.RawRecord
	arr.ForEach(func(_, value gjson.Result) bool {
		if rec, ok := asRecord(value); ok {
			out = append(out, rec)
		}
		return true
	})
	return out
}

func asRecord(value gjson.Result) (world.RawRecord, bool) {
	if !value.IsObject() {
		return nil, false
	}
	m, ok := value.Value().(map[string]interface{})
	if !ok {
		return nil, false
	}
	return world.RawRecord(m), true
}
