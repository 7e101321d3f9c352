package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kingoIII/Ruido/model"

	"gorm.io/gorm"
)

// LikeRepository defines the interface for like toggling.
type LikeRepository interface {
	// Toggle deletes the like row if it exists, otherwise inserts it, and
	// adjusts the denormalized counter in the same transaction. The counter
	// never goes below zero. Returns the resulting liked state and counter.
	Toggle(ctx context.Context, profileID, trackID string) (liked bool, likes int64, err error)
}

type gormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new instance of gormLikeRepository.
func NewGormLikeRepository(db *gorm.DB) LikeRepository {
	return &gormLikeRepository{db: db}
}

func (r *gormLikeRepository) Toggle(ctx context.Context, profileID, trackID string) (bool, int64, error) {
	var liked bool
	var likes int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Like
		err := tx.Where("profile_id = ? AND track_id = ?", profileID, trackID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("failed to delete like: %w", err)
			}
			if err := tx.Model(&model.Track{}).Where("id = ?", trackID).
				UpdateColumn("likes", gorm.Expr("GREATEST(likes - 1, 0)")).Error; err != nil {
				return fmt.Errorf("failed to decrement likes: %w", err)
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := model.Like{ProfileID: profileID, TrackID: trackID}
			if err := tx.Create(&like).Error; err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			if err := tx.Model(&model.Track{}).Where("id = ?", trackID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return fmt.Errorf("failed to increment likes: %w", err)
			}
			liked = true
		default:
			return fmt.Errorf("failed to look up like: %w", err)
		}

		if err := tx.Raw("SELECT likes FROM tracks WHERE id = ?", trackID).Scan(&likes).Error; err != nil {
			return fmt.Errorf("failed to read like counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}
