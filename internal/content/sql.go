package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-lifestory/internal/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLSource keeps documents in a single table keyed by (kind, key).
// It works on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).
type SQLSource struct {
	db *sql.DB

	selectQuery string
	upsertQuery string
}

// OpenPostgres connects to a PostgreSQL database and prepares the schema.
func OpenPostgres(ctx context.Context, dsn string) (*SQLSource, error) {
	return openSQL(ctx, config.DriverPostgres, dsn)
}

// OpenSQLite opens (or creates) a SQLite database file and prepares the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLSource, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
		}
	}
	dsn := fmt.Sprintf("file:%s?%s", path, config.SQLiteBusyPragma)
	return openSQL(ctx, config.DriverSQLite, dsn)
}

func openSQL(ctx context.Context, driver, dsn string) (*SQLSource, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}

	s := NewSQLSource(db, driver)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLSource wraps an open database. driver selects the placeholder style.
func NewSQLSource(db *sql.DB, driver string) *SQLSource {
	p1, p2, p3 := "$1", "$2", "$3"
	if driver == config.DriverSQLite {
		p1, p2, p3 = "?", "?", "?"
	}

	selectQuery := fmt.Sprintf(
		`SELECT body FROM %s WHERE kind = %s AND key = %s`,
		config.ContentTable, p1, p2)
	upsertQuery := fmt.Sprintf(
		`INSERT INTO %s (kind, key, body) VALUES (%s, %s, %s)
		 ON CONFLICT (kind, key) DO UPDATE SET body = excluded.body`,
		config.ContentTable, p1, p2, p3)

	return &SQLSource{db: db, selectQuery: selectQuery, upsertQuery: upsertQuery}
}

// EnsureSchema creates the document table when missing.
func (s *SQLSource) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			kind TEXT NOT NULL,
			key  TEXT NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (kind, key)
		)`, config.ContentTable)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBSchema, err)
	}
	return nil
}

// Fetch implements Source. Stored bodies are always JSON.
func (s *SQLSource) Fetch(ctx context.Context, kind Kind, key string) ([]byte, Format, error) {
	var body string
	err := s.db.QueryRowContext(ctx, s.selectQuery, string(kind), key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, key)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s/%s: %w", config.ErrContentFetch, kind, key, err)
	}
	return []byte(body), FormatJSON, nil
}

// Put implements Writer.
func (s *SQLSource) Put(ctx context.Context, kind Kind, key string, body []byte) error {
	if _, err := s.db.ExecContext(ctx, s.upsertQuery, string(kind), key, string(body)); err != nil {
		return fmt.Errorf("%s %s/%s: %w", config.ErrContentStore, kind, key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLSource) Close() error {
	return s.db.Close()
}
