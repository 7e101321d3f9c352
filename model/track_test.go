package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveformRoundTrip(t *testing.T) {
	original := Waveform{0, 0.25, 0.5, 1}

	value, err := original.Value()
	require.NoError(t, err)

	var decoded Waveform
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, original, decoded)
}

func TestWaveformScanBytes(t *testing.T) {
	var decoded Waveform
	require.NoError(t, decoded.Scan([]byte("[0.1,0.9]")))
	assert.Equal(t, Waveform{0.1, 0.9}, decoded)
}

func TestWaveformScanNil(t *testing.T) {
	decoded := Waveform{0.5}
	require.NoError(t, decoded.Scan(nil))
	assert.Nil(t, decoded)
}

func TestLicenseValid(t *testing.T) {
	for _, license := range Licenses {
		assert.True(t, license.Valid(), string(license))
	}
	assert.False(t, License("gpl").Valid())
	assert.False(t, License("").Valid())
}

func TestTrackToResponseFlattens(t *testing.T) {
	bpm := 120
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	track := Track{
		ID:          "t1",
		Title:       "Neon Skyline Kick",
		Description: "Punchy kick sample.",
		DurationSec: 12,
		BPM:         &bpm,
		License:     LicenseCC0,
		AudioURL:    "https://cdn.example/neon.mp3",
		Plays:       41,
		Likes:       7,
		CreatedAt:   created,
		Profile: &Profile{
			ID:          "p1",
			Handle:      "ruido-demo",
			DisplayName: "ruido demo",
		},
		TagJoins: []TrackTag{
			{TrackID: "t1", TagID: "g1", Tag: &Tag{ID: "g1", Name: "kick"}},
			{TrackID: "t1", TagID: "g2", Tag: &Tag{ID: "g2", Name: "drums"}},
			{TrackID: "t1", TagID: "g3"}, // unhydrated join is skipped
		},
	}

	resp := track.ToResponse()
	assert.Equal(t, "t1", resp.ID)
	assert.Equal(t, []string{"kick", "drums"}, resp.Tags)
	assert.Equal(t, "ruido-demo", resp.Profile.Handle)
	assert.Equal(t, int64(41), resp.Plays)
	assert.Equal(t, created, resp.CreatedAt)
}
