package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageClampsInvalidNumbers(t *testing.T) {
	for _, number := range []int{-5, 0, 1} {
		page := NewPage(number)
		assert.Equal(t, 1, page.Number, "page %d", number)
		assert.Equal(t, PageSize, page.Limit)
		assert.Equal(t, 0, page.Offset)
	}
}

func TestNewPageWindow(t *testing.T) {
	page := NewPage(3)
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, 48, page.Offset)
	assert.Equal(t, PageSize, page.Limit)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0))
	assert.Equal(t, 1, TotalPages(1))
	assert.Equal(t, 1, TotalPages(24))
	assert.Equal(t, 2, TotalPages(25))
}

func TestParseTrackSearchParams(t *testing.T) {
	values := url.Values{}
	values.Set("query", "kick drum")
	values.Set("tag", "drums")
	values.Set("license", "cc_by")
	values.Set("sort", "plays")
	values.Set("page", "2")

	params := ParseTrackSearchParams(values)
	assert.Equal(t, "kick drum", params.Query)
	assert.Equal(t, "drums", params.Tag)
	assert.Equal(t, "cc_by", params.License)
	assert.Equal(t, "plays", params.Sort)
	assert.Equal(t, 2, params.Page)
}

func TestParseTrackSearchParamsNormalizesTag(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: " Kick ", want: "kick"},
		{raw: "KICK", want: "kick"},
		{raw: "Lo Fi", want: "lo-fi"},
		{raw: "sci-fi_pad", want: "sci-fi_pad"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		values := url.Values{}
		values.Set("tag", tt.raw)
		assert.Equal(t, tt.want, ParseTrackSearchParams(values).Tag, "tag=%q", tt.raw)
	}
}

func TestParseTrackSearchParamsBadPage(t *testing.T) {
	for _, raw := range []string{"", "0", "-2", "abc", "1.5"} {
		values := url.Values{}
		if raw != "" {
			values.Set("page", raw)
		}
		assert.Equal(t, 1, ParseTrackSearchParams(values).Page, "page=%q", raw)
	}
}
