package repository

import (
	"context"
	"fmt"

	"github.com/kingoIII/Ruido/model"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations.
type TagRepository interface {
	// ListAllNames returns every distinct tag name in ascending order,
	// independent of any search predicate. Feeds the client filter list.
	ListAllNames(ctx context.Context) ([]string, error)
}

type gormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new instance of gormTagRepository.
func NewGormTagRepository(db *gorm.DB) TagRepository {
	return &gormTagRepository{db: db}
}

func (r *gormTagRepository) ListAllNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tag names: %w", err)
	}
	return names, nil
}
