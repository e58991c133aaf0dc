//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"gridsim/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveEpisode(ctx context.Context, episode model.EpisodeRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeEpisode(episode)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO episodes (id, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, episode.ID, episode.SchemaVersion, episode.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetEpisode(ctx context.Context, id string) (model.EpisodeRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.EpisodeRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM episodes WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.EpisodeRecord{}, false, nil
		}
		return model.EpisodeRecord{}, false, err
	}

	episode, err := DecodeEpisode(payload)
	if err != nil {
		return model.EpisodeRecord{}, false, fmt.Errorf("decode episode %s: %w", id, err)
	}
	return episode, true, nil
}

func (s *SQLiteStore) ListEpisodes(ctx context.Context, limit int) ([]model.EpisodeRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT payload FROM episodes ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var episodes []model.EpisodeRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		episode, err := DecodeEpisode(payload)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(episodes) {
		episodes = episodes[len(episodes)-limit:]
	}
	return episodes, nil
}

func (s *SQLiteStore) SaveScenarioSummary(ctx context.Context, summary model.ScenarioSummary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeScenarioSummary(summary)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO scenario_summaries (name, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, summary.Name, summary.SchemaVersion, summary.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetScenarioSummary(ctx context.Context, name string) (model.ScenarioSummary, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.ScenarioSummary{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM scenario_summaries WHERE name = ?`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ScenarioSummary{}, false, nil
		}
		return model.ScenarioSummary{}, false, err
	}

	summary, err := DecodeScenarioSummary(payload)
	if err != nil {
		return model.ScenarioSummary{}, false, fmt.Errorf("decode scenario summary %s: %w", name, err)
	}
	return summary, true, nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `DELETE FROM episodes; DELETE FROM scenario_summaries;`)
	return err
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS scenario_summaries (
			name TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
