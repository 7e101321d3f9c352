package model

import "time"

// Profile is the owning creator of tracks, one-to-one with a user account.
// Only the read surface matters here; account management lives elsewhere.
type Profile struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Handle      string    `gorm:"size:64;not null;uniqueIndex" json:"handle"`
	DisplayName string    `gorm:"size:128" json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
