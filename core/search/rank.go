package search

// The ranked query delegates relevance entirely to the storage engine: an
// english-tokenized vector over title+description for stemmed matching, the
// precomputed search_vector column under the 'simple' tokenizer for exact
// and tag-derived tokens, and pg_trgm similarity on title/description as a
// typo-tolerant fallback.

// relevanceCondition matches a row when any of the four predicates hits.
// Takes the trimmed query four times.
const relevanceCondition = `(
	to_tsvector('english', coalesce(t.title, '') || ' ' || coalesce(t.description, '')) @@ plainto_tsquery('english', ?)
	OR t.search_vector @@ plainto_tsquery('simple', ?)
	OR similarity(t.title, ?) > 0.2
	OR similarity(t.description, ?) > 0.2
)`

// rankedSelect computes the composite score per row: rank is ts_rank_cd of
// the title+description vector against the query, sim the greater of the two
// trigram similarities. Takes the trimmed query three times.
const rankedSelect = `SELECT t.id,
	ts_rank_cd(to_tsvector('english', coalesce(t.title, '') || ' ' || coalesce(t.description, '')), plainto_tsquery('english', ?)) AS rank,
	GREATEST(similarity(t.title, ?), similarity(t.description, ?)) AS sim`

// rankedFrom joins the tag tables so the tag filter can apply. The select
// groups by t.id instead of projecting the joined rows, so duplicated joins
// cannot inflate rank computation.
const rankedFrom = `
FROM tracks t
LEFT JOIN track_tags tt ON tt.track_id = t.id
LEFT JOIN tags ON tags.id = tt.tag_id
WHERE `

// rankedOrderClause orders by relevance unless the caller explicitly asked
// for a counter sort, which overrides it. The raw-query tie-break keeps page
// boundaries stable.
func rankedOrderClause(sort string) string {
	switch sort {
	case SortPlays:
		return "t.plays DESC, t.id ASC"
	case SortLikes:
		return "t.likes DESC, t.id ASC"
	default:
		return "rank DESC, sim DESC, t.created_at DESC, t.id ASC"
	}
}

// BuildRankedQuery renders the raw SQL selecting one page of ranked track
// ids (plus rank and sim for ordering, nothing else) and its arguments.
// The query must be non-empty after trimming; callers guard that.
func BuildRankedQuery(params TrackSearchParams, page Page) (string, []interface{}) {
	query := params.NormalizedQuery()
	filterSQL, filterArgs := params.Filter(false).RankedConditions()

	sql := rankedSelect + rankedFrom + filterSQL + " AND " + relevanceCondition +
		"\nGROUP BY t.id" +
		"\nORDER BY " + rankedOrderClause(params.Sort) +
		"\nLIMIT ? OFFSET ?"

	args := []interface{}{query, query, query}
	args = append(args, filterArgs...)
	args = append(args, query, query, query, query)
	args = append(args, page.Limit, page.Offset)
	return sql, args
}

// BuildRankedCountQuery renders COUNT(DISTINCT t.id) over the same WHERE
// clause as BuildRankedQuery, without the ranking projection.
func BuildRankedCountQuery(params TrackSearchParams) (string, []interface{}) {
	query := params.NormalizedQuery()
	filterSQL, filterArgs := params.Filter(false).RankedConditions()

	sql := "SELECT COUNT(DISTINCT t.id)" + rankedFrom + filterSQL + " AND " + relevanceCondition

	args := append([]interface{}{}, filterArgs...)
	args = append(args, query, query, query, query)
	return sql, args
}
