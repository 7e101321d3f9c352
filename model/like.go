package model

import "time"

// Like records that a profile liked a track. At most one row may exist per
// (profile, track) pair; the unique index enforces it.
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID string    `gorm:"size:36;not null;uniqueIndex:uq_likes_profile_track" json:"profileId"`
	TrackID   string    `gorm:"size:36;not null;uniqueIndex:uq_likes_profile_track;index" json:"trackId"`
	CreatedAt time.Time `json:"createdAt"`
}
