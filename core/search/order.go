package search

// OrderClause maps a sort key to a deterministic ordering clause for the
// relational path. Every clause carries an id tie-break so rows with equal
// counters do not reshuffle between pages.
func OrderClause(sort string) string {
	switch sort {
	case SortPlays:
		return "tracks.plays DESC, tracks.id ASC"
	case SortLikes:
		return "tracks.likes DESC, tracks.id ASC"
	default:
		return "tracks.created_at DESC, tracks.id ASC"
	}
}
