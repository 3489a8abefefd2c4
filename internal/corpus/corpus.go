// Package corpus persists documents' encoded TSVectors (not their raw text)
// and optional embeddings in SQLite: ambient storage around pkg/tsrank's pure, persistence-free core
// (spec.md Non-goals: "indexing; persistence").
package corpus

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	kbinary "github.com/kelindar/binary"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/kittclouds/gokitt/pkg/tsrank"
)

// schema holds one documents row per document (its encoded TSVector and
// creation time) and a separate sqlite-vec vec0 virtual table,
// document_embeddings, for optional embeddings. This package writes and
// deletes embeddings but runs no nearest-neighbor query against them.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	vector     BLOB NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS document_embeddings USING vec0(
	doc_id TEXT PRIMARY KEY,
	embedding FLOAT[384]
);
`

// Store is the SQLite-backed corpus: documents and their TSVectors.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens (or creates) a corpus database at dsn. Use ":memory:" for a
// throwaway corpus.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open corpus db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create corpus schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Put encodes vec with kelindar/binary and upserts it under id. Callers
// supply their own document IDs (e.g. a content hash or a workspace key)
// rather than this package minting them.
func (s *Store) Put(id string, vec *tsrank.TSVector, createdAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := kbinary.Marshal(vec)
	if err != nil {
		return fmt.Errorf("encode tsvector for %s: %w", id, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO documents (id, vector, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET vector = excluded.vector
	`, id, payload, createdAt)
	return err
}

// Get decodes and returns the TSVector stored for id.
func (s *Store) Get(id string) (*tsrank.TSVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRow(`SELECT vector FROM documents WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("corpus: document %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	var vec tsrank.TSVector
	if err := kbinary.Unmarshal(payload, &vec); err != nil {
		return nil, fmt.Errorf("decode tsvector for %s: %w", id, err)
	}
	return &vec, nil
}

// Delete removes a document and its embedding.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM documents WHERE id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM document_embeddings WHERE doc_id = ?`, id)
	return err
}

// IDs returns every document ID in the corpus.
func (s *Store) IDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PutEmbedding stores a document's embedding vector in the vec0 table;
// nothing in this package reads it back. vec0 expects a packed little-endian float32 blob, not a kelindar/binary
// envelope, so this encodes the raw bytes directly.
func (s *Store) PutEmbedding(id string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob := encodeFloat32LE(embedding)

	_, err := s.db.Exec(`
		INSERT INTO document_embeddings (doc_id, embedding) VALUES (?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET embedding = excluded.embedding
	`, id, blob)
	return err
}

func encodeFloat32LE(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
