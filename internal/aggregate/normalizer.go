package aggregate

import (
	"strings"

	"worldstats/domain/world"
	"worldstats/internal/errors"
)

// FieldAliases lists, per logical field, the raw keys accepted for it in lookup order
type FieldAliases struct {
	ID             []string
	Occupants      []string
	Name           []string
	ImageURL       []string
	AuthorID       []string
	AuthorName     []string
	BioLinks       []string
	BioDescription []string
	Heat           []string
	Popularity     []string
}

// DefaultFieldAliases covers every key variant seen in snapshot files so far
func DefaultFieldAliases() FieldAliases {
	return FieldAliases{
		ID:             []string{"id", "worldId", "world_id"},
		Occupants:      []string{"occupants", "currentUsers", "users"},
		Name:           []string{"name"},
		ImageURL:       []string{"imageUrl", "image_url"},
		AuthorID:       []string{"authorId", "author_id"},
		AuthorName:     []string{"authorName", "author_name"},
		BioLinks:       []string{"bioLinks", "bio_links"},
		BioDescription: []string{"bio", "description", "bio_description"},
		Heat:           []string{"heat"},
		Popularity:     []string{"popularity"},
	}
}

// Normalizer turns raw snapshot records into observations. It never fails on bad field
// values; only a record without any identifier is rejected.
type Normalizer struct {
	aliases FieldAliases
}

// NewNormalizer creates a normalizer with the given aliases
func NewNormalizer(aliases FieldAliases) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// NewDefaultNormalizer creates a normalizer with DefaultFieldAliases
func NewDefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultFieldAliases())
}

// Normalize converts one raw record. The error, when non-nil, carries
// errors.CodeMissingIdentifier and the record must be skipped.
func (n *Normalizer) Normalize(raw world.RawRecord) (world.Observation, error) {
	id := n.worldID(raw)
	if id == "" {
		return world.Observation{}, errors.MissingIdentifier()
	}

	return world.Observation{
		WorldID:        id,
		Occupants:      n.occupants(raw),
		Name:           toText(firstValue(raw, n.aliases.Name, informative)),
		ImageURL:       toText(firstValue(raw, n.aliases.ImageURL, informative)),
		AuthorID:       toText(firstValue(raw, n.aliases.AuthorID, informative)),
		AuthorName:     toText(firstValue(raw, n.aliases.AuthorName, informative)),
		BioLinks:       FormatSocialLinks(firstValue(raw, n.aliases.BioLinks, informative)),
		BioDescription: FormatBioDescription(firstValue(raw, n.aliases.BioDescription, informative)),
		Heat:           nonNegativeFloat(firstValue(raw, n.aliases.Heat, present)),
		Popularity:     nonNegativeFloat(firstValue(raw, n.aliases.Popularity, present)),
	}, nil
}

func (n *Normalizer) worldID(raw world.RawRecord) string {
	for _, key := range n.aliases.ID {
		if s, ok := raw[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func (n *Normalizer) occupants(raw world.RawRecord) int {
	v := firstValue(raw, n.aliases.Occupants, present)
	count, ok := toInt(v)
	if !ok || count < 0 {
		return 0
	}
	return count
}

// FormatSocialLinks joins the non-empty text of list entries with ";", keeping entries
// as-is, and trims scalars. Absent, empty or blank input yields world.NotAvailable.
func FormatSocialLinks(v interface{}) string {
	var out string
	switch t := v.(type) {
	case nil:
		return world.NotAvailable
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := toText(item); s != "" {
				parts = append(parts, s)
			}
		}
		out = strings.Join(parts, ";")
	case []string:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if item != "" {
				parts = append(parts, item)
			}
		}
		out = strings.Join(parts, ";")
	default:
		out = strings.TrimSpace(toText(t))
	}
	if out == "" {
		return world.NotAvailable
	}
	return out
}

// FormatBioDescription trims the description; blank or absent yields world.NotAvailable
func FormatBioDescription(v interface{}) string {
	s := strings.TrimSpace(toText(v))
	if s == "" {
		return world.NotAvailable
	}
	return s
}

func firstValue(raw world.RawRecord, keys []string, accept func(interface{}) bool) interface{} {
	for _, key := range keys {
		if v, ok := raw[key]; ok && accept(v) {
			return v
		}
	}
	return nil
}

func nonNegativeFloat(v interface{}) float64 {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}
