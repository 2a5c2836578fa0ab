package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLite implements Store using a single documents table.
type SQLite struct {
	db *sql.DB

	mu     sync.Mutex
	subs   map[string]map[int]func()
	nextID int
}

// NewSQLite opens (or creates) the database at path and runs migrations.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, subs: make(map[string]map[int]func())}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			data       TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// ReadAll returns every document of a collection ordered by id.
func (s *SQLite) ReadAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc := Document{}
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("decoding document %s/%s: %w", collection, id, err)
		}
		doc["id"] = id
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Get returns a single document by id, with the id field set.
func (s *SQLite) Get(ctx context.Context, collection, id string) (Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	doc := Document{}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("decoding document %s/%s: %w", collection, id, err)
	}
	doc["id"] = id
	return doc, nil
}

// Upsert merges fields into the document with the given id, creating it
// if absent.
func (s *SQLite) Upsert(ctx context.Context, collection, id string, fields Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	merged := Document{}
	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		// New document.
	case err != nil:
		return fmt.Errorf("querying document: %w", err)
	default:
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			return fmt.Errorf("decoding document %s/%s: %w", collection, id, err)
		}
	}

	for k, v := range fields {
		if k == "id" {
			continue
		}
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, collection, id, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.notify(collection)
	return nil
}

// Create stores a new document under a generated id.
func (s *SQLite) Create(ctx context.Context, collection string, fields Document) (string, error) {
	id := uuid.NewString()
	if err := s.Upsert(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	s.notify(collection)
	return nil
}

// Subscribe registers a callback fired after any write to the collection.
func (s *SQLite) Subscribe(collection string, fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]func())
	}
	id := s.nextID
	s.nextID++
	s.subs[collection][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[collection], id)
	}
}

// notify fires collection subscribers. Callbacks run on their own
// goroutine so a slow subscriber cannot block writers.
func (s *SQLite) notify(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fn := range s.subs[collection] {
		go fn()
	}
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
