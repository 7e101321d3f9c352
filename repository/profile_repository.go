package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kingoIII/Ruido/model"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile reads.
type ProfileRepository interface {
	GetProfileByHandle(ctx context.Context, handle string) (*model.Profile, error)
	CreateProfile(ctx context.Context, profile *model.Profile) error
}

type gormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new instance of gormProfileRepository.
func NewGormProfileRepository(db *gorm.DB) ProfileRepository {
	return &gormProfileRepository{db: db}
}

func (r *gormProfileRepository) GetProfileByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).First(&profile, "handle = ?", handle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile by handle %s: %w", handle, err)
	}
	return &profile, nil
}

func (r *gormProfileRepository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}
