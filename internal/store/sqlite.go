package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inovacc/git-pr-mcp/internal/model"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS active_repository (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	path       TEXT,
	url        TEXT,
	owner      TEXT,
	name       TEXT,
	updated_at TEXT NOT NULL
)`

const sqliteUpsert = `
INSERT INTO active_repository (id, path, url, owner, name, updated_at)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	path = excluded.path,
	url = excluded.url,
	owner = excluded.owner,
	name = excluded.name,
	updated_at = excluded.updated_at`

// SQLite stores the record in a single-row table
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite database at path
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't handle multiple writers well
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Load() (*model.ActiveRepository, error) {
	var path, url, owner, name sql.NullString

	err := s.db.QueryRow(`SELECT path, url, owner, name FROM active_repository WHERE id = 1`).
		Scan(&path, &url, &owner, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("reading active repository: %w", err)
	}

	return &model.ActiveRepository{
		Path:  path.String,
		URL:   url.String,
		Owner: owner.String,
		Name:  name.String,
	}, nil
}

func (s *SQLite) Save(repo *model.ActiveRepository) error {
	if repo == nil {
		repo = &model.ActiveRepository{}
	}

	_, err := s.db.Exec(sqliteUpsert,
		nullString(repo.Path),
		nullString(repo.URL),
		nullString(repo.Owner),
		nullString(repo.Name),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving active repository: %w", err)
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
