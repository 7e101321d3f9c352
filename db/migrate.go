package db

import (
	"fmt"
	"log"

	"github.com/kingoIII/Ruido/model"
)

// searchDDL covers what AutoMigrate cannot express: the pg_trgm extension,
// the tsvector column and the GIN indexes backing full-text and trigram
// matching.
var searchDDL = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`ALTER TABLE tracks ADD COLUMN IF NOT EXISTS search_vector tsvector`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_search_vector ON tracks USING GIN (search_vector)`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_title_trgm ON tracks USING GIN (title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_description_trgm ON tracks USING GIN (description gin_trgm_ops)`,
}

// Migrate creates or updates the schema: GORM models first, then the raw
// search DDL, then a backfill of any rows with a stale-null vector.
func Migrate() error {
	if GormDB == nil {
		return fmt.Errorf("GORM database not initialized")
	}

	err := GormDB.AutoMigrate(
		&model.Profile{},
		&model.Track{},
		&model.Tag{},
		&model.TrackTag{},
		&model.Like{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}

	for _, ddl := range searchDDL {
		if err := GormDB.Exec(ddl).Error; err != nil {
			return fmt.Errorf("failed to run search DDL %q: %w", ddl, err)
		}
	}

	backfill := `
		UPDATE tracks SET search_vector = to_tsvector('simple',
			coalesce(title, '') || ' ' || coalesce(description, '') || ' ' || coalesce((
				SELECT string_agg(tags.name, ' ')
				FROM track_tags
				JOIN tags ON tags.id = track_tags.tag_id
				WHERE track_tags.track_id = tracks.id
			), ''))
		WHERE search_vector IS NULL`
	if err := GormDB.Exec(backfill).Error; err != nil {
		return fmt.Errorf("failed to backfill search vectors: %w", err)
	}

	log.Println("Database schema migrated successfully.")
	return nil
}
