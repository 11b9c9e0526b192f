package world

import "strconv"

// ReportHeaders is the fixed column order of every tabular report
var ReportHeaders = []string{
	"world_name",
	"world_id",
	"average_occupants",
	"total_occurrences",
	"max_occupants",
	"min_occupants",
	"heat",
	"popularity",
	"estimated_orders",
	"max_marketing_spend",
	"image_url",
	"user_id",
	"user_name",
	"bio_description",
	"social_links",
}

// Row renders the summary in ReportHeaders order. Empty text renders as NA.
func (s Summary) Row() []string {
	return []string{
		s.DisplayName(),
		s.WorldID,
		formatFloat(s.AverageOccupants),
		strconv.Itoa(s.OccurrenceCount),
		strconv.Itoa(s.MaxOccupants),
		strconv.Itoa(s.MinOccupants),
		formatFloat(s.Heat),
		formatFloat(s.Popularity),
		formatFloat(s.EstimatedOrders),
		formatFloat(s.MaxMarketingSpend),
		orNA(s.ImageURL),
		orNA(s.AuthorID),
		orNA(s.AuthorName),
		orNA(s.BioDescription),
		orNA(s.SocialLinks),
	}
}

func orNA(s string) string {
	if s == EmptyText {
		return NotAvailable
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
