package testkit

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// SnapshotGeneratorConfig configures the synthetic world snapshot generator
type SnapshotGeneratorConfig struct {
	WorldCount    int           `json:"world_count"`
	SnapshotCount int           `json:"snapshot_count"`
	PresenceRate  float64       `json:"presence_rate"`   // chance a world shows up in a given snapshot
	MaxOccupants  int           `json:"max_occupants"`   // peak occupancy of the most popular world
	MissingIDRate float64       `json:"missing_id_rate"` // chance of an extra record with no id
	Compression   string        `json:"compression"`     // "", "gz" or "zst"
	StartDate     time.Time     `json:"start_date"`
	Interval      time.Duration `json:"interval"`
	Seed          int64         `json:"seed"`
}

// DefaultSnapshotConfig returns sensible defaults for snapshot generation
func DefaultSnapshotConfig() SnapshotGeneratorConfig {
	return SnapshotGeneratorConfig{
		WorldCount:    200,
		SnapshotCount: 12,
		PresenceRate:  0.7,
		MaxOccupants:  2500,
		MissingIDRate: 0.02,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:      2 * time.Hour,
		Seed:          42,
	}
}

// Snapshot is one generated directory listing
type Snapshot struct {
	TakenAt time.Time                `json:"timestamp"`
	Worlds  []map[string]interface{} `json:"worlds"`
}

// SnapshotGenerator produces realistic, messy world listings: mixed key aliases, counts
// as strings, missing ids and duplicated worlds with changing names.
type SnapshotGenerator struct {
	config SnapshotGeneratorConfig
	rng    *rand.Rand
}

type worldProfile struct {
	id         string
	name       string
	authorID   string
	authorName string
	baseline   float64
	heat       int
	popularity int
	links      []string
}

// NewSnapshotGenerator creates a new snapshot generator
func NewSnapshotGenerator(config SnapshotGeneratorConfig) *SnapshotGenerator {
	return &SnapshotGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateSnapshots builds every snapshot in memory. The same seed yields the same output.
func (g *SnapshotGenerator) GenerateSnapshots() []Snapshot {
	profiles := g.profiles()
	snapshots := make([]Snapshot, 0, g.config.SnapshotCount)

	for i := 0; i < g.config.SnapshotCount; i++ {
		snap := Snapshot{TakenAt: g.config.StartDate.Add(time.Duration(i) * g.config.Interval)}
		for _, p := range profiles {
			if g.rng.Float64() >= g.config.PresenceRate {
				continue
			}
			snap.Worlds = append(snap.Worlds, g.record(p, i))
		}
		if g.rng.Float64() < g.config.MissingIDRate {
			snap.Worlds = append(snap.Worlds, map[string]interface{}{
				"name":      "Unlisted",
				"occupants": g.rng.Intn(50),
			})
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

// WriteSnapshots writes one file per snapshot into dir and returns the paths
func (g *SnapshotGenerator) WriteSnapshots(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	var paths []string
	for _, snap := range g.GenerateSnapshots() {
		name := fmt.Sprintf("worlds_%s.json", snap.TakenAt.Format("20060102T150405"))
		if g.config.Compression != "" {
			name += "." + g.config.Compression
		}
		path := filepath.Join(dir, name)
		if err := writeSnapshot(path, g.config.Compression, snap); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (g *SnapshotGenerator) profiles() []worldProfile {
	profiles := make([]worldProfile, g.config.WorldCount)
	for i := range profiles {
		// long tail: a handful of busy worlds, most nearly empty
		share := math.Pow(float64(i+1), -0.8)
		p := worldProfile{
			id:         fmt.Sprintf("wrld_%06d", i+1),
			name:       fmt.Sprintf("World %d", i+1),
			authorID:   fmt.Sprintf("usr_%04d", g.rng.Intn(g.config.WorldCount/3+1)),
			baseline:   share * float64(g.config.MaxOccupants),
			heat:       g.rng.Intn(6),
			popularity: g.rng.Intn(11),
		}
		p.authorName = "creator-" + p.authorID[4:]
		if g.rng.Float64() < 0.4 {
			p.links = []string{"https://twitter.com/" + p.authorName}
			if g.rng.Float64() < 0.5 {
				p.links = append(p.links, "https://discord.gg/"+p.id)
			}
		}
		profiles[i] = p
	}
	return profiles
}

func (g *SnapshotGenerator) record(p worldProfile, snapshot int) map[string]interface{} {
	occupants := int(math.Max(0, p.baseline*(0.6+0.8*g.rng.Float64())))
	rec := map[string]interface{}{
		"name":       p.name,
		"authorId":   p.authorID,
		"authorName": p.authorName,
		"heat":       p.heat,
		"popularity": p.popularity,
		"imageUrl":   "https://assets.example.com/" + p.id + ".png",
	}

	// publishers disagree on key names
	switch g.rng.Intn(3) {
	case 0:
		rec["id"] = p.id
	case 1:
		rec["worldId"] = p.id
	default:
		rec["world_id"] = p.id
	}
	switch g.rng.Intn(4) {
	case 0:
		rec["occupants"] = strconv.Itoa(occupants)
	case 1:
		rec["currentUsers"] = occupants
	default:
		rec["occupants"] = occupants
	}

	if len(p.links) > 0 {
		rec["bioLinks"] = p.links
	}
	if snapshot > 0 && g.rng.Float64() < 0.1 {
		rec["name"] = p.name + " (updated)"
	}
	return rec
}

func writeSnapshot(path, compression string, snap Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.WriteCloser
	switch compression {
	case "":
		return json.NewEncoder(f).Encode(snap)
	case "gz":
		w = gzip.NewWriter(f)
	case "zst":
		if w, err = zstd.NewWriter(f); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown compression %q", compression)
	}

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
