package analytics

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
)

// PlayCookiePrefix prefixes the fallback debounce cookie name, suffixed with
// the track id.
const PlayCookiePrefix = "track_play_"

// ClientIP extracts the originating client address from proxy headers,
// falling back to the connection's remote address.
func ClientIP(r *http.Request) string {
	header := r.Header.Get("X-Forwarded-For")
	if header == "" {
		header = r.Header.Get("CF-Connecting-IP")
	}
	if header == "" {
		header = r.Header.Get("X-Real-IP")
	}
	if header != "" {
		if ip := strings.TrimSpace(strings.Split(header, ",")[0]); ip != "" {
			return ip
		}
	}
	if host := r.RemoteAddr; host != "" {
		if idx := strings.LastIndex(host, ":"); idx > 0 {
			return host[:idx]
		}
		return host
	}
	return "unknown"
}

// Fingerprint identifies a viewer+track pair for play debouncing.
func Fingerprint(ip, trackID string) string {
	return ip + "|" + trackID
}

func signFingerprint(secret, fingerprint, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fingerprint + "." + timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPlayCookieValue produces a tamper-evident cookie value binding the
// fingerprint to the given unix timestamp.
func SignPlayCookieValue(secret, fingerprint string, timestamp int64) string {
	value := strconv.FormatInt(timestamp, 10)
	return value + "." + signFingerprint(secret, fingerprint, value)
}

// ParsePlayCookieTimestamp verifies a signed cookie value and returns the
// embedded timestamp. Returns false on any tampering or malformed input.
func ParsePlayCookieTimestamp(secret, fingerprint, value string) (int64, bool) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, false
	}

	expected := signFingerprint(secret, fingerprint, parts[0])
	given, err := hex.DecodeString(parts[1])
	if err != nil {
		return 0, false
	}
	want, err := hex.DecodeString(expected)
	if err != nil {
		return 0, false
	}
	if !hmac.Equal(given, want) {
		return 0, false
	}

	parsed, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
