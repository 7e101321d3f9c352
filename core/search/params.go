package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kingoIII/Ruido/core/tags"
)

// Sort keys accepted by the track search API.
const (
	SortNewest = "newest"
	SortPlays  = "plays"
	SortLikes  = "likes"
)

// TrackSearchParams carries the user-supplied search inputs.
type TrackSearchParams struct {
	Query   string
	Tag     string
	License string
	Sort    string
	Page    int
}

// NormalizedQuery returns the trimmed free-text query. An empty or
// whitespace-only query returns "" and must route to the direct path.
func (p TrackSearchParams) NormalizedQuery() string {
	return strings.TrimSpace(p.Query)
}

// Filter derives the structured filter for the params. The ranked path sets
// includeTextSearch to false because it owns text matching itself.
func (p TrackSearchParams) Filter(includeTextSearch bool) TrackFilter {
	return TrackFilter{
		Query:             p.NormalizedQuery(),
		Tag:               p.Tag,
		License:           p.License,
		IncludeTextSearch: includeTextSearch,
	}
}

// ParseTrackSearchParams extracts search parameters from URL query values.
// A missing, non-numeric or non-positive page clamps to 1. The tag goes
// through the same normalization as tag creation, so a filter matches the
// stored name regardless of how the caller spelled it.
func ParseTrackSearchParams(values url.Values) TrackSearchParams {
	page := 1
	if raw := values.Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return TrackSearchParams{
		Query:   values.Get("query"),
		Tag:     tags.NormalizeOne(values.Get("tag")),
		License: values.Get("license"),
		Sort:    values.Get("sort"),
		Page:    page,
	}
}
