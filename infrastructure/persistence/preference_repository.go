package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mytube/domain/model"
	"mytube/infrastructure/logger"
)

// EnsurePreferenceSchema creates the per-user list table if not exists.
func EnsurePreferenceSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS user_preference (
        user_id TEXT NOT NULL,
        list_kind TEXT NOT NULL,
        data JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        PRIMARY KEY (user_id, list_kind)
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create user_preference table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_preference_updated_at ON user_preference(updated_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_user_preference_updated_at")
	}
	return nil
}

// PreferenceRepository stores per-user lists as JSONB rows, one row per
// (user, list kind). Each save replaces the whole list.
type PreferenceRepository struct{ db *sql.DB }

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) LoadList(ctx context.Context, key model.StorageKey) ([]model.Video, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("invalid storage key %q", key.String())
	}
	if r.db == nil {
		return []model.Video{}, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT data FROM user_preference WHERE user_id=$1 AND list_kind=$2`, key.UserID, string(key.Kind))
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return []model.Video{}, nil
		}
		return nil, err
	}
	var videos []model.Video
	if err := json.Unmarshal(raw, &videos); err != nil {
		logger.GetLogger().WithField("key", key.String()).WithField("error", err).Warn("corrupt preference list, treating as empty")
		return []model.Video{}, nil
	}
	return videos, nil
}

func (r *PreferenceRepository) SaveList(ctx context.Context, key model.StorageKey, videos []model.Video) error {
	if !key.Valid() {
		return fmt.Errorf("invalid storage key %q", key.String())
	}
	if r.db == nil {
		return nil
	}
	raw, err := json.Marshal(videos)
	if err != nil {
		return err
	}
	q := `INSERT INTO user_preference(user_id, list_kind, data, updated_at)
          VALUES ($1,$2,$3,$4)
          ON CONFLICT (user_id, list_kind) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, q, key.UserID, string(key.Kind), raw, time.Now().UTC())
	return err
}
