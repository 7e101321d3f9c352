package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{sort: SortPlays, want: "tracks.plays DESC, tracks.id ASC"},
		{sort: SortLikes, want: "tracks.likes DESC, tracks.id ASC"},
		{sort: SortNewest, want: "tracks.created_at DESC, tracks.id ASC"},
		{sort: "", want: "tracks.created_at DESC, tracks.id ASC"},
		{sort: "bogus", want: "tracks.created_at DESC, tracks.id ASC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OrderClause(tt.sort), "sort=%q", tt.sort)
	}
}
