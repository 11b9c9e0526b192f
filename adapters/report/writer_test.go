package report

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"worldstats/domain/world"
	"worldstats/internal/errors"
	"worldstats/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSummaries() []world.Summary {
	return []world.Summary{
		{
			WorldID:           "wrld_b",
			Name:              "Bright Plaza",
			AverageOccupants:  100,
			OccurrenceCount:   7,
			MaxOccupants:      140,
			MinOccupants:      61,
			Heat:              4,
			Popularity:        6.5,
			DailyVisitors:     100,
			EstimatedOrders:   0.3,
			MaxMarketingSpend: 42,
			ImageURL:          "https://img.example/b.png",
			AuthorID:          "usr_b",
			AuthorName:        "Bee",
			BioDescription:    "plaza",
			SocialLinks:       "a;b",
		},
		{
			WorldID:           "wrld_a",
			AverageOccupants:  55.5,
			OccurrenceCount:   9,
			MaxOccupants:      80,
			MinOccupants:      20,
			EstimatedOrders:   0.17,
			MaxMarketingSpend: 23.8,
			BioDescription:    world.NotAvailable,
			SocialLinks:       world.NotAvailable,
		},
	}
}

func sampleMeta() ports.ReportMeta {
	return ports.ReportMeta{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Policy:      world.DefaultPolicy(),
		Records:     16,
		Worlds:      2,
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worlds.csv")
	w := NewCSVWriter(path)

	require.NoError(t, w.Write(context.Background(), sampleSummaries(), sampleMeta()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, world.ReportHeaders, rows[0])
	assert.Equal(t, []string{
		"Bright Plaza", "wrld_b", "100", "7", "140", "61", "4", "6.5", "0.3", "42",
		"https://img.example/b.png", "usr_b", "Bee", "plaza", "a;b",
	}, rows[1])
	assert.Equal(t, []string{
		"wrld_a", "wrld_a", "55.5", "9", "80", "20", "0", "0", "0.17", "23.8",
		"NA", "NA", "NA", "NA", "NA",
	}, rows[2])
}

func TestCSVWriter_ReportIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := filepath.Join(t.TempDir(), "worlds.csv")
	require.NoError(t, NewCSVWriter(path).Write(context.Background(), sampleSummaries(), sampleMeta()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCSVWriter_EmptyReportHasHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worlds.csv")
	require.NoError(t, NewCSVWriter(path).Write(context.Background(), nil, sampleMeta()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "world_name,world_id,average_occupants,total_occurrences,max_occupants,min_occupants,heat,popularity,estimated_orders,max_marketing_spend,image_url,user_id,user_name,bio_description,social_links\n", string(data))
}

func TestExcelWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worlds.xlsx")
	w := NewExcelWriter(path)
	require.NoError(t, w.Write(context.Background(), sampleSummaries(), sampleMeta()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(worldsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, world.ReportHeaders, rows[0])
	assert.Equal(t, "Bright Plaza", rows[1][0])
	assert.Equal(t, "100", rows[1][2])
	assert.Equal(t, "NA", rows[2][10])

	runRows, err := f.GetRows(runSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"run_id", "run-1"}, runRows[0])
	assert.Equal(t, []string{"min_occurrences", "7"}, runRows[5])
}

func TestLoadCSV_RoundTripsWriterOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worlds.csv")
	require.NoError(t, NewCSVWriter(path).Write(context.Background(), sampleSummaries(), sampleMeta()))

	got, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := sampleSummaries()
	want[0].DailyVisitors = 0 // not part of the report
	assert.Equal(t, want, got)
}

func TestLoadCSV_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCSV(filepath.Join(dir, "absent.csv"))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("world_id,average_occupants\nw1,3\n"), 0o644))
	_, err = LoadCSV(bad)
	assert.Equal(t, errors.CodeMalformedInput, errors.GetCode(err))
}
