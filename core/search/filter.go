package search

import (
	"strings"

	"gorm.io/gorm"
)

// TrackFilter is the single source of truth for structured track filtering.
// It renders two ways: as a GORM scope for the relational path and as raw
// SQL conjuncts for the ranked path, so both paths agree on what matches.
type TrackFilter struct {
	Query   string
	Tag     string
	License string
	// IncludeTextSearch controls the fallback substring clause. It is false
	// whenever the ranked path handles text matching, to avoid filtering
	// the hydration query down twice.
	IncludeTextSearch bool
}

// Scope applies the filter to a GORM query over the tracks table.
func (f TrackFilter) Scope(db *gorm.DB) *gorm.DB {
	if f.License != "" {
		db = db.Where("tracks.license = ?", f.License)
	}
	if f.Tag != "" {
		db = db.Where(
			"EXISTS (SELECT 1 FROM track_tags tt JOIN tags ON tags.id = tt.tag_id WHERE tt.track_id = tracks.id AND tags.name = ?)",
			f.Tag,
		)
	}
	if f.IncludeTextSearch && f.Query != "" {
		pattern := "%" + f.Query + "%"
		db = db.Where("(tracks.title ILIKE ? OR tracks.description ILIKE ?)", pattern, pattern)
	}
	return db
}

// RankedConditions renders the license and tag conjuncts for the raw ranked
// query, which aliases tracks as t and left-joins track_tags tt and tags.
// The free-text clause is never rendered here; the ranked query appends its
// own relevance predicate.
func (f TrackFilter) RankedConditions() (string, []interface{}) {
	conditions := []string{"1=1"}
	var args []interface{}
	if f.License != "" {
		conditions = append(conditions, "t.license = ?")
		args = append(args, f.License)
	}
	if f.Tag != "" {
		conditions = append(conditions, "tags.name = ?")
		args = append(args, f.Tag)
	}
	return strings.Join(conditions, " AND "), args
}
