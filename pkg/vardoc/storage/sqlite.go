package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vardoc/vardoc/pkg/vardoc"
	"github.com/vardoc/vardoc/pkg/vardoc/variant"
)

// SQLiteStore persists documents to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	watch  notifier
}

// NewSQLiteStore creates a new SQLite document store.
// The path should be a file path (e.g., "./documents.db") or ":memory:"
// for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			identifier TEXT NOT NULL PRIMARY KEY,
			base TEXT NOT NULL,
			position INTEGER NOT NULL,
			updated TEXT NOT NULL,
			body BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_documents_base
		ON documents(base)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load implements Backend.
func (s *SQLiteStore) Load(ctx context.Context, base string, vctx variant.Context) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT identifier FROM documents
		WHERE base = ?
		ORDER BY position
	`, base)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan identifier: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identifiers: %w", err)
	}

	id, ok := pickIdentifier(base, ids, vctx)
	if !ok {
		return nil, ErrNotFound
	}

	var body []byte
	err = s.db.QueryRowContext(ctx, `
		SELECT body FROM documents WHERE identifier = ?
	`, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}

	tree, err := vardoc.DecodeTree(body)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return tree, nil
}

// Save implements Backend. Documents are stored YAML-encoded; a
// re-saved identifier keeps its original position so variant tie-breaks
// stay stable.
func (s *SQLiteStore) Save(ctx context.Context, base string, tree any, vctx variant.Context) error {
	id := Identifier(base, vctx)
	body, err := vardoc.EncodeTree(vardoc.FromGo(tree))
	if err != nil {
		return fmt.Errorf("encode document %s: %w", id, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (identifier, base, position, updated, body)
		VALUES (
			?, ?,
			COALESCE((SELECT MAX(position) FROM documents), 0) + 1,
			?, ?
		)
		ON CONFLICT(identifier) DO UPDATE SET
			updated = excluded.updated,
			body = excluded.body
	`, id, base, time.Now().UTC().Format(time.RFC3339Nano), body)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("save document %s: %w", id, err)
	}

	s.watch.notify(base, id)
	return nil
}

// List implements Lister.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT identifier FROM documents
		WHERE identifier LIKE ? ESCAPE '\'
		ORDER BY position
	`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan identifier: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// Subscribe implements Watcher.
func (s *SQLiteStore) Subscribe(base string, fn func(identifier string)) (func(), error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, ErrStoreClosed
	}
	return s.watch.subscribe(base, fn), nil
}

// Close implements Backend.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// escapeLike escapes LIKE metacharacters in a literal prefix.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
