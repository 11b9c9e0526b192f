package world

// RawRecord is one world entry as decoded from a snapshot file. Nothing about its shape is
// guaranteed; the normalizer is the only code that reads it.
type RawRecord map[string]interface{}

// Sentinels for fields that were never observed
const (
	EmptyText    = ""
	NotAvailable = "NA"
)

// Observation is one world as seen in a single snapshot record, after alias resolution and
// coercion. WorldID is always non-empty.
type Observation struct {
	WorldID        string
	Occupants      int
	Name           string
	ImageURL       string
	AuthorID       string
	AuthorName     string
	BioLinks       string // NotAvailable when absent
	BioDescription string // NotAvailable when absent
	Heat           float64
	Popularity     float64
}

// Summary is the finalized, read-only view of one world that survived filtering
type Summary struct {
	WorldID           string
	Name              string
	AverageOccupants  float64
	OccurrenceCount   int
	MaxOccupants      int
	MinOccupants      int
	Heat              float64
	Popularity        float64
	DailyVisitors     float64
	EstimatedOrders   float64
	MaxMarketingSpend float64
	ImageURL          string
	AuthorID          string
	AuthorName        string
	BioDescription    string
	SocialLinks       string
}

// DisplayName is the world name, or the id when no name was ever observed
func (s Summary) DisplayName() string {
	if s.Name == EmptyText {
		return s.WorldID
	}
	return s.Name
}
