package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Waveform is an ordered sequence of normalized amplitudes in [0,1],
// stored as a JSON array column.
type Waveform []float64

// Value implements driver.Valuer.
func (w Waveform) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal waveform: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (w *Waveform) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported waveform column type %T", value)
	}
	if err := json.Unmarshal(data, w); err != nil {
		return fmt.Errorf("failed to unmarshal waveform: %w", err)
	}
	return nil
}

// Track represents a user-submitted audio sample.
//
// The tracks table additionally carries a search_vector tsvector column
// holding the tokenized title, description and tag names. It is created and
// maintained through raw SQL (see db.Migrate and
// TrackRepository.RefreshSearchVector); GORM never writes it, so it is not
// declared here.
type Track struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	DurationSec int        `gorm:"not null" json:"durationSec"`
	BPM         *int       `gorm:"column:bpm" json:"bpm"`
	Key         *string    `gorm:"size:16" json:"key"`
	License     License    `gorm:"size:16;not null" json:"license"`
	AudioURL    string     `gorm:"size:1024;not null" json:"audioUrl"`
	CoverURL    *string    `gorm:"size:1024" json:"coverUrl"`
	Waveform    Waveform   `gorm:"type:jsonb" json:"waveform"`
	Plays       int64      `gorm:"type:bigint;not null;default:0" json:"plays"`
	Likes       int64      `gorm:"type:bigint;not null;default:0" json:"likes"`
	ProfileID   string     `gorm:"size:36;not null;index" json:"profileId"`
	Profile     *Profile   `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	TagJoins    []TrackTag `gorm:"foreignKey:TrackID" json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ProfileRef is the flattened profile projection used in API payloads.
type ProfileRef struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
}

// TrackResponse is the flat API projection of a track: wide counters as
// plain integers, tag joins as a list of names, profile as a small ref.
type TrackResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DurationSec int        `json:"durationSec"`
	BPM         *int       `json:"bpm"`
	Key         *string    `json:"key"`
	License     License    `json:"license"`
	AudioURL    string     `json:"audioUrl"`
	CoverURL    *string    `json:"coverUrl"`
	Waveform    Waveform   `json:"waveform"`
	CreatedAt   time.Time  `json:"createdAt"`
	Plays       int64      `json:"plays"`
	Likes       int64      `json:"likes"`
	Profile     ProfileRef `json:"profile"`
	Tags        []string   `json:"tags"`
}

// ToResponse flattens the track and its preloaded relations for the API.
func (t *Track) ToResponse() TrackResponse {
	resp := TrackResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DurationSec: t.DurationSec,
		BPM:         t.BPM,
		Key:         t.Key,
		License:     t.License,
		AudioURL:    t.AudioURL,
		CoverURL:    t.CoverURL,
		Waveform:    t.Waveform,
		CreatedAt:   t.CreatedAt,
		Plays:       t.Plays,
		Likes:       t.Likes,
		Tags:        make([]string, 0, len(t.TagJoins)),
	}
	if t.Profile != nil {
		resp.Profile = ProfileRef{
			ID:          t.Profile.ID,
			Handle:      t.Profile.Handle,
			DisplayName: t.Profile.DisplayName,
		}
	}
	for _, join := range t.TagJoins {
		if join.Tag != nil {
			resp.Tags = append(resp.Tags, join.Tag.Name)
		}
	}
	return resp
}
