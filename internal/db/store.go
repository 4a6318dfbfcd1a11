package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nyayasetu/ai-backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS activities (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	title       TEXT NOT NULL,
	status      TEXT NOT NULL,
	provider    TEXT NOT NULL DEFAULT '',
	payload     JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS activities_kind_created_idx ON activities (kind, created_at DESC);
CREATE TABLE IF NOT EXISTS uploaded_files (
	file_id           TEXT PRIMARY KEY,
	original_filename TEXT NOT NULL,
	stored_filename   TEXT NOT NULL,
	file_size         BIGINT NOT NULL,
	mime_type         TEXT NOT NULL,
	file_type         TEXT NOT NULL,
	status            TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
	return err
}

func (s *Store) RecordActivity(ctx context.Context, a models.Activity) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO activities (id, kind, title, status, provider, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Kind, a.Title, a.Status, a.Provider, a.Payload, a.CreatedAt)
	return err
}

// ListActivities returns history rows newest first, optionally filtered by
// kind.
func (s *Store) ListActivities(ctx context.Context, kind string, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `SELECT id, kind, title, status, provider, payload, created_at FROM activities`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Kind, &a.Title, &a.Status, &a.Provider, &a.Payload, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) InsertUploadedFile(ctx context.Context, f models.UploadedFile) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO uploaded_files (file_id, original_filename, stored_filename, file_size, mime_type, file_type, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		f.FileID, f.OriginalFilename, f.StoredFilename, f.FileSize, f.MimeType, f.FileType, f.Status)
	return err
}

func (s *Store) UpdateFileStatus(ctx context.Context, fileID, status string) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE uploaded_files SET status = $2 WHERE file_id = $1`, fileID, status)
	return err
}
