package analytics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIPFromForwardedHeader(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/tracks/t1/play", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	assert.Equal(t, "203.0.113.1", ClientIP(r))
}

func TestClientIPFallbackOrder(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("CF-Connecting-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", ClientIP(r))

	r = httptest.NewRequest("POST", "/", nil)
	r.Header.Set("X-Real-IP", "192.0.2.9")
	assert.Equal(t, "192.0.2.9", ClientIP(r))
}

func TestClientIPFromRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "192.0.2.1:54321"
	assert.Equal(t, "192.0.2.1", ClientIP(r))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "203.0.113.1|track-1", Fingerprint("203.0.113.1", "track-1"))
}

func TestSignAndParsePlayCookie(t *testing.T) {
	fingerprint := Fingerprint("203.0.113.1", "track-1")
	value := SignPlayCookieValue("secret", fingerprint, 1000)

	ts, ok := ParsePlayCookieTimestamp("secret", fingerprint, value)
	require.True(t, ok)
	assert.Equal(t, int64(1000), ts)
}

func TestParseRejectsTamperedSignature(t *testing.T) {
	fingerprint := Fingerprint("203.0.113.1", "track-1")
	value := SignPlayCookieValue("secret", fingerprint, 1000)
	timestamp := strings.SplitN(value, ".", 2)[0]

	_, ok := ParsePlayCookieTimestamp("secret", fingerprint, timestamp+".deadbeef")
	assert.False(t, ok)
}

func TestParseRejectsWrongSecretOrFingerprint(t *testing.T) {
	fingerprint := Fingerprint("203.0.113.1", "track-1")
	value := SignPlayCookieValue("secret", fingerprint, 1000)

	_, ok := ParsePlayCookieTimestamp("other", fingerprint, value)
	assert.False(t, ok)

	_, ok = ParsePlayCookieTimestamp("secret", Fingerprint("203.0.113.1", "track-2"), value)
	assert.False(t, ok)
}

func TestParseRejectsMalformedValues(t *testing.T) {
	for _, value := range []string{"", ".", "1000", "1000.", ".abc", "abc.def"} {
		_, ok := ParsePlayCookieTimestamp("secret", "fp", value)
		assert.False(t, ok, "value=%q", value)
	}
}

func TestPlayCookiePrefix(t *testing.T) {
	assert.Equal(t, "track_play_", PlayCookiePrefix)
}
