// Package localcms is a SQLite-backed content service with the same query
// contract as the Prismic client. It serves documents seeded from JSON for
// local development and tests.
package localcms

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/spacetraveling/metrics"
	"github.com/eringen/spacetraveling/prismic"
)

const sourceName = "sqlite"

// Store wraps a SQLite database of documents.
type Store struct {
	db       *sql.DB
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// Open opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func Open(path string, opts ...Option) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while a seed runs; writers wait on the busy
	// timeout instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{
		db:       db,
		logger:   slog.New(slog.DiscardHandler),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    uid TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,
    lang TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    first_publication_date TEXT,
    last_publication_date TEXT,
    data TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(type);
`)
	if err != nil {
		return err
	}
	// published_at is first_publication_date in UTC unix milliseconds, the
	// sort key of every query. Raw timestamps carry mixed offsets and do not
	// sort as text.
	if _, err := s.db.Exec(`ALTER TABLE documents ADD COLUMN published_at INTEGER;`); err != nil {
		if !strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return err
		}
	} else if err := s.backfillPublishedAt(); err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_documents_published_at ON documents(published_at);`)
	return err
}

// backfillPublishedAt fills the sort key of rows written before the column
// existed.
func (s *Store) backfillPublishedAt() error {
	rows, err := s.db.Query(`SELECT id, first_publication_date FROM documents WHERE first_publication_date IS NOT NULL`)
	if err != nil {
		return err
	}
	keys := map[string]sql.NullInt64{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return err
		}
		keys[id] = publishedAt(&raw)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for id, key := range keys {
		if _, err := s.db.Exec(`UPDATE documents SET published_at = ? WHERE id = ?`, key, id); err != nil {
			return err
		}
	}
	return nil
}

// SaveDocument upserts a document by ID.
func (s *Store) SaveDocument(ctx context.Context, d prismic.Document) error {
	return saveDocument(ctx, s.db, d)
}

// DeleteDocument removes a document by ID.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

// Seed reads a JSON array of documents in Prismic shape and saves them in
// one transaction. It returns the number of documents saved.
func (s *Store) Seed(ctx context.Context, r io.Reader) (int, error) {
	var docs []prismic.Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return 0, fmt.Errorf("localcms: decode seed: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, d := range docs {
		if err := saveDocument(ctx, tx, d); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "seeded documents", "count", len(docs))
	return len(docs), nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveDocument(ctx context.Context, ex execer, d prismic.Document) error {
	if d.ID == "" || d.Type == "" {
		return fmt.Errorf("localcms: document %q needs an id and a type", d.UID)
	}
	tags, err := json.Marshal(nonNil(d.Tags))
	if err != nil {
		return err
	}
	data := []byte("{}")
	if d.Data != nil {
		if data, err = json.Marshal(d.Data); err != nil {
			return fmt.Errorf("localcms: encode data of %s: %w", d.ID, err)
		}
	}
	_, err = ex.ExecContext(ctx, `INSERT OR REPLACE INTO documents (id, uid, type, lang, tags, first_publication_date, last_publication_date, published_at, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UID, d.Type, d.Lang, string(tags), nullString(d.FirstPublicationDate), nullString(d.LastPublicationDate), publishedAt(d.FirstPublicationDate), string(data))
	return err
}

// observe records a query outcome; used with defer.
func (s *Store) observe(op string, start time.Time, err *error) {
	s.recorder.ObserveQuery(sourceName, op, time.Since(start), *err)
}

// publishedAt is the UTC sort key of a publication timestamp; NULL when the
// timestamp is missing or unparsable.
func publishedAt(raw *string) sql.NullInt64 {
	if raw == nil {
		return sql.NullInt64{}
	}
	t, err := prismic.ParseTimestamp(*raw, time.UTC)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().UnixMilli(), Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
