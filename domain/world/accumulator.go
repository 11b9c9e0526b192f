package world

// Sticky holds a value that is written once, by the first offer that differs from the
// field's sentinel, and never changes afterwards.
type Sticky[T comparable] struct {
	value T
	set   bool
}

// Offer stores v if nothing informative has been stored yet and v is not the sentinel
func (s *Sticky[T]) Offer(v, sentinel T) {
	if s.set || v == sentinel {
		return
	}
	s.value = v
	s.set = true
}

// Or returns the stored value, or fallback when nothing was stored
func (s Sticky[T]) Or(fallback T) T {
	if !s.set {
		return fallback
	}
	return s.value
}

// Accumulator is the running aggregate for one world id
type Accumulator struct {
	WorldID         string
	OccupantSum     int
	OccurrenceCount int
	MaxOccupants    int
	MinOccupants    int
	minSet          bool

	Name           Sticky[string]
	ImageURL       Sticky[string]
	AuthorID       Sticky[string]
	AuthorName     Sticky[string]
	BioLinks       Sticky[string]
	BioDescription Sticky[string]
	Heat           Sticky[float64]
	Popularity     Sticky[float64]
}

// NewAccumulator creates an empty accumulator for id
func NewAccumulator(id string) *Accumulator {
	return &Accumulator{WorldID: id}
}

// Add folds one observation into the accumulator. The observation must carry the same
// world id.
func (a *Accumulator) Add(o Observation) {
	a.OccupantSum += o.Occupants
	a.OccurrenceCount++

	if o.Occupants > a.MaxOccupants {
		a.MaxOccupants = o.Occupants
	}
	if !a.minSet {
		a.MinOccupants = o.Occupants
		a.minSet = true
	} else if o.Occupants < a.MinOccupants {
		a.MinOccupants = o.Occupants
	}

	a.Name.Offer(o.Name, EmptyText)
	a.ImageURL.Offer(o.ImageURL, EmptyText)
	a.AuthorID.Offer(o.AuthorID, EmptyText)
	a.AuthorName.Offer(o.AuthorName, EmptyText)
	a.BioLinks.Offer(o.BioLinks, NotAvailable)
	a.BioDescription.Offer(o.BioDescription, NotAvailable)
	// heat == 0 observed and heat never observed are indistinguishable here
	a.Heat.Offer(o.Heat, 0)
	a.Popularity.Offer(o.Popularity, 0)
}

// Min returns the minimum occupant count, or 0 if no observation was ever folded in
func (a *Accumulator) Min() int {
	if !a.minSet {
		return 0
	}
	return a.MinOccupants
}
