package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"worldstats/domain/world"
	"worldstats/internal/errors"
)

// LoadCSV reads a report previously written by CSVWriter back into summaries, in file order.
// NA cells become empty text except for the bio and link columns, which keep NA.
func LoadCSV(path string) ([]world.Summary, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("analytics file '%s'", path))
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.MalformedInput(path, err)
	}
	if len(rows) == 0 {
		return nil, errors.MalformedInput(path, fmt.Errorf("missing header"))
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[h] = i
	}
	for _, h := range world.ReportHeaders {
		if _, ok := index[h]; !ok {
			return nil, errors.MalformedInput(path, fmt.Errorf("missing column %q", h))
		}
	}

	summaries := make([]world.Summary, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(col string) string {
			if i := index[col]; i < len(row) {
				return row[i]
			}
			return ""
		}
		s := world.Summary{
			WorldID:           get("world_id"),
			Name:              get("world_name"),
			AverageOccupants:  parseFloat(get("average_occupants")),
			OccurrenceCount:   parseInt(get("total_occurrences")),
			MaxOccupants:      parseInt(get("max_occupants")),
			MinOccupants:      parseInt(get("min_occupants")),
			Heat:              parseFloat(get("heat")),
			Popularity:        parseFloat(get("popularity")),
			EstimatedOrders:   parseFloat(get("estimated_orders")),
			MaxMarketingSpend: parseFloat(get("max_marketing_spend")),
			ImageURL:          fromNA(get("image_url")),
			AuthorID:          fromNA(get("user_id")),
			AuthorName:        fromNA(get("user_name")),
			BioDescription:    get("bio_description"),
			SocialLinks:       get("social_links"),
		}
		if s.Name == s.WorldID {
			s.Name = world.EmptyText
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func fromNA(s string) string {
	if s == world.NotAvailable {
		return world.EmptyText
	}
	return s
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
