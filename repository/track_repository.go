package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kingoIII/Ruido/core/search"
	"github.com/kingoIII/Ruido/core/tags"
	"github.com/kingoIII/Ruido/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	// CreateTrack persists a new track with its normalized tags and
	// refreshes the search vector, all in one transaction.
	CreateTrack(ctx context.Context, track *model.Track, tagNames []string) error
	GetTrackByID(ctx context.Context, id string) (*model.Track, error)
	ListTracksByProfile(ctx context.Context, profileID string) ([]model.Track, error)
	ListTracks(ctx context.Context, filter search.TrackFilter, order string, page search.Page) ([]model.Track, error)
	CountTracks(ctx context.Context, filter search.TrackFilter) (int64, error)
	TracksByIDs(ctx context.Context, ids []string, filter search.TrackFilter) ([]model.Track, error)
	RankedTrackIDs(ctx context.Context, params search.TrackSearchParams, page search.Page) ([]string, error)
	CountRanked(ctx context.Context, params search.TrackSearchParams) (int64, error)
	// RefreshSearchVector regenerates the tsvector column from the track's
	// current title, description and tag names.
	RefreshSearchVector(ctx context.Context, trackID string) error
	// IncrementPlays bumps the play counter atomically and returns the new
	// value.
	IncrementPlays(ctx context.Context, trackID string) (int64, error)
}

// gormTrackRepository implements TrackRepository on PostgreSQL via GORM.
type gormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a new instance of gormTrackRepository.
func NewGormTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

const refreshSearchVectorSQL = `
UPDATE tracks SET search_vector = to_tsvector('simple',
	coalesce(title, '') || ' ' || coalesce(description, '') || ' ' || coalesce((
		SELECT string_agg(tags.name, ' ')
		FROM track_tags
		JOIN tags ON tags.id = track_tags.tag_id
		WHERE track_tags.track_id = tracks.id
	), ''))
WHERE id = ?`

func (r *gormTrackRepository) CreateTrack(ctx context.Context, track *model.Track, tagNames []string) error {
	normalized := tags.Normalize(tagNames)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if track.ID == "" {
			track.ID = uuid.NewString()
		}
		if err := tx.Create(track).Error; err != nil {
			return fmt.Errorf("failed to create track: %w", err)
		}

		if len(normalized) > 0 {
			records := make([]model.Tag, 0, len(normalized))
			for _, name := range normalized {
				records = append(records, model.Tag{ID: uuid.NewString(), Name: name})
			}
			// Tag creation is idempotent: an existing name wins.
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&records).Error; err != nil {
				return fmt.Errorf("failed to upsert tags: %w", err)
			}

			var stored []model.Tag
			if err := tx.Where("name IN ?", normalized).Find(&stored).Error; err != nil {
				return fmt.Errorf("failed to load tags: %w", err)
			}

			joins := make([]model.TrackTag, 0, len(stored))
			for _, tag := range stored {
				joins = append(joins, model.TrackTag{TrackID: track.ID, TagID: tag.ID})
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&joins).Error; err != nil {
				return fmt.Errorf("failed to create tag joins: %w", err)
			}
		}

		// The vector must be consistent with title/description/tags at the
		// time of every write.
		if err := tx.Exec(refreshSearchVectorSQL, track.ID).Error; err != nil {
			return fmt.Errorf("failed to refresh search vector: %w", err)
		}
		return nil
	})
}

func (r *gormTrackRepository) GetTrackByID(ctx context.Context, id string) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("TagJoins.Tag").
		First(&track, "tracks.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // track not found
		}
		return nil, fmt.Errorf("failed to load track %s: %w", id, err)
	}
	return &track, nil
}

func (r *gormTrackRepository) ListTracksByProfile(ctx context.Context, profileID string) ([]model.Track, error) {
	var tracks []model.Track
	err := r.db.WithContext(ctx).
		Where("tracks.profile_id = ?", profileID).
		Order("tracks.created_at DESC, tracks.id ASC").
		Preload("Profile").
		Preload("TagJoins.Tag").
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks for profile %s: %w", profileID, err)
	}
	return tracks, nil
}

func (r *gormTrackRepository) ListTracks(ctx context.Context, filter search.TrackFilter, order string, page search.Page) ([]model.Track, error) {
	var tracks []model.Track
	err := r.db.WithContext(ctx).
		Scopes(filter.Scope).
		Order(order).
		Limit(page.Limit).
		Offset(page.Offset).
		Preload("Profile").
		Preload("TagJoins.Tag").
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}

func (r *gormTrackRepository) CountTracks(ctx context.Context, filter search.TrackFilter) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Track{}).
		Scopes(filter.Scope).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return total, nil
}

func (r *gormTrackRepository) TracksByIDs(ctx context.Context, ids []string, filter search.TrackFilter) ([]model.Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tracks []model.Track
	err := r.db.WithContext(ctx).
		Where("tracks.id IN ?", ids).
		Scopes(filter.Scope).
		Preload("Profile").
		Preload("TagJoins.Tag").
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate tracks by id: %w", err)
	}
	return tracks, nil
}

// rankedRow carries the projection of the raw ranked query. Rank and sim are
// selected only so the engine can order by them.
type rankedRow struct {
	ID   string
	Rank float64
	Sim  float64
}

func (r *gormTrackRepository) RankedTrackIDs(ctx context.Context, params search.TrackSearchParams, page search.Page) ([]string, error) {
	sql, args := search.BuildRankedQuery(params, page)

	var rows []rankedRow
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("ranked track query failed: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *gormTrackRepository) CountRanked(ctx context.Context, params search.TrackSearchParams) (int64, error) {
	sql, args := search.BuildRankedCountQuery(params)

	var total int64
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("ranked count query failed: %w", err)
	}
	return total, nil
}

func (r *gormTrackRepository) RefreshSearchVector(ctx context.Context, trackID string) error {
	if err := r.db.WithContext(ctx).Exec(refreshSearchVectorSQL, trackID).Error; err != nil {
		return fmt.Errorf("failed to refresh search vector for track %s: %w", trackID, err)
	}
	return nil
}

func (r *gormTrackRepository) IncrementPlays(ctx context.Context, trackID string) (int64, error) {
	var plays int64
	err := r.db.WithContext(ctx).
		Raw("UPDATE tracks SET plays = plays + 1, updated_at = now() WHERE id = ? RETURNING plays", trackID).
		Scan(&plays).Error
	if err != nil {
		return 0, fmt.Errorf("failed to increment plays for track %s: %w", trackID, err)
	}
	return plays, nil
}
