package search

import (
	"context"
	"fmt"

	"github.com/kingoIII/Ruido/model"
)

// TrackStore is the slice of the persistence layer the executor needs.
// repository.TrackRepository satisfies it together with the tag-name lister.
type TrackStore interface {
	// RankedTrackIDs runs the raw ranked query and returns one page of ids
	// in relevance (or counter-override) order.
	RankedTrackIDs(ctx context.Context, params TrackSearchParams, page Page) ([]string, error)
	// CountRanked counts distinct matches of the ranked WHERE clause.
	CountRanked(ctx context.Context, params TrackSearchParams) (int64, error)
	// TracksByIDs hydrates full relational records for the given ids,
	// re-applying the structured filter. Order of the result is arbitrary.
	TracksByIDs(ctx context.Context, ids []string, filter TrackFilter) ([]model.Track, error)
	// ListTracks serves the direct relational path.
	ListTracks(ctx context.Context, filter TrackFilter, order string, page Page) ([]model.Track, error)
	// CountTracks counts rows matching the structured filter.
	CountTracks(ctx context.Context, filter TrackFilter) (int64, error)
	// ListTagNames returns every distinct tag name, ascending.
	ListTagNames(ctx context.Context) ([]string, error)
}

// Result is one assembled page of search results.
type Result struct {
	Tracks        []model.Track
	Page          int
	PageSize      int
	Total         int64
	AvailableTags []string
}

// Executor runs track searches. With a free-text query it takes the hybrid
// ranked path (rank, hydrate, reorder); without one it runs a single
// relational query. Stateless between requests.
type Executor struct {
	store TrackStore
}

// NewExecutor creates an executor over the given store.
func NewExecutor(store TrackStore) *Executor {
	return &Executor{store: store}
}

// Search produces one page of tracks for the given parameters.
func (e *Executor) Search(ctx context.Context, params TrackSearchParams) (*Result, error) {
	page := NewPage(params.Page)

	availableTags, err := e.store.ListTagNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tag names: %w", err)
	}
	if availableTags == nil {
		availableTags = []string{}
	}

	result := &Result{
		Tracks:        []model.Track{},
		Page:          page.Number,
		PageSize:      PageSize,
		AvailableTags: availableTags,
	}

	if params.NormalizedQuery() == "" {
		return e.direct(ctx, params, page, result)
	}
	return e.ranked(ctx, params, page, result)
}

// direct is the filter-only path: structured predicate, order clause,
// window, and a parallel count with the same predicate.
func (e *Executor) direct(ctx context.Context, params TrackSearchParams, page Page, result *Result) (*Result, error) {
	filter := params.Filter(true)

	tracks, err := e.store.ListTracks(ctx, filter, OrderClause(params.Sort), page)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	total, err := e.store.CountTracks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tracks: %w", err)
	}

	result.Tracks = append(result.Tracks, tracks...)
	result.Total = total
	return result, nil
}

// ranked is the two-phase hybrid path: the raw query yields an authoritative
// ordered id list, hydration fetches full records by id, and the executor
// re-imposes the phase-one order on the hydrated set.
func (e *Executor) ranked(ctx context.Context, params TrackSearchParams, page Page, result *Result) (*Result, error) {
	ids, err := e.store.RankedTrackIDs(ctx, params, page)
	if err != nil {
		return nil, fmt.Errorf("ranked track query failed: %w", err)
	}

	if len(ids) > 0 {
		// Text matching already happened in the ranked query; the hydration
		// filter re-applies only tag and license as a defensive re-filter.
		hydrated, err := e.store.TracksByIDs(ctx, ids, params.Filter(false))
		if err != nil {
			return nil, fmt.Errorf("failed to hydrate ranked tracks: %w", err)
		}

		// A WHERE id IN (...) query does not preserve input order. Re-project
		// through a lookup in ranked order, dropping ids that no longer
		// hydrate (the track may have been deleted between the two queries).
		lookup := make(map[string]model.Track, len(hydrated))
		for _, track := range hydrated {
			lookup[track.ID] = track
		}
		for _, id := range ids {
			if track, ok := lookup[id]; ok {
				result.Tracks = append(result.Tracks, track)
			}
		}
	}

	total, err := e.store.CountRanked(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to count ranked tracks: %w", err)
	}
	result.Total = total
	return result, nil
}
