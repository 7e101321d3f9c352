package model

import "time"

// Tag is a deduplicated lowercase label attached to tracks.
type Tag struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:64;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// TrackTag joins tracks and tags many-to-many.
type TrackTag struct {
	TrackID string `gorm:"primaryKey;size:36" json:"trackId"`
	TagID   string `gorm:"primaryKey;size:36" json:"tagId"`
	Tag     *Tag   `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}
