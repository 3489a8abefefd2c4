// Package vector wraps an HNSW approximate-nearest-neighbor index over
// document embeddings, keyed by the corpus's own string document IDs.
package vector

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector" // fogfish/hnsw/vector alias, imports kshard/vector
	"github.com/hack-pad/hackpadfs"
	kvector "github.com/kshard/vector" // underlying vector types
)

// Store manages an HNSW index over document embeddings and its FS-backed
// persistence. HNSW itself only knows uint32 keys; Store owns the mapping
// from a corpus's string document IDs to those keys so nothing upstream
// (pkg/corpusrank's scorer, the WASM bindings) has to track its own
// id<->key table just to call Add/Search.
type Store struct {
	Index *hnsw.HNSW[vector.VF32]
	FS    hackpadfs.FS
	Path  string

	mu     sync.RWMutex
	ids    map[string]uint32 // docID -> HNSW key
	docs   map[uint32]string // HNSW key -> docID
	nextID uint32
}

// NewStore creates a vector store backed by fs. If a valid index already
// exists at path it's loaded (ID mapping included); otherwise a fresh
// cosine-distance HNSW index is initialized.
func NewStore(fs hackpadfs.FS, path string) (*Store, error) {
	s := &Store{
		FS:   fs,
		Path: path,
		ids:  make(map[string]uint32),
		docs: make(map[uint32]string),
	}

	if err := s.Load(); err != nil {
		// TODO: distinguish "file does not exist" from a corrupt index
		// instead of always falling back to a clean one.
		s.Index = hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine()))
	}

	return s, nil
}

// Add inserts or replaces docID's embedding. Re-adding a docID that's
// already present reuses its existing HNSW key, so re-embedding a document
// doesn't leak a fresh key on every call.
func (s *Store) Add(docID string, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Index == nil {
		return fmt.Errorf("index not initialized")
	}

	if s.Index.Size() > 0 {
		dim := len(s.Index.Head().Vec)
		if len(vec) != dim {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", dim, len(vec))
		}
	}

	key, ok := s.ids[docID]
	if !ok {
		key = s.nextID
		s.nextID++
		s.ids[docID] = key
		s.docs[key] = docID
	}

	s.Index.Insert(vector.VF32{Key: key, Vec: vec})
	return nil
}

// Search returns the nearest K document IDs to vec.
func (s *Store) Search(vec []float32, k int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Index == nil {
		return nil, fmt.Errorf("index not initialized")
	}

	ef := k * 2
	if ef < 100 {
		ef = 100
	}

	if s.Index.Size() > 0 {
		dim := len(s.Index.Head().Vec)
		if len(vec) != dim {
			return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d", dim, len(vec))
		}
	}

	query := vector.VF32{Vec: vec} // Key ignored in Search distance calc
	results := s.Index.Search(query, k, ef)

	ids := make([]string, 0, len(results))
	for _, r := range results {
		if docID, ok := s.docs[r.Key]; ok {
			ids = append(ids, docID)
		}
	}
	return ids, nil
}

// state is what Save/Load round-trip: the HNSW graph plus the docID<->key
// mapping the graph's keys are meaningless without.
type state struct {
	Nodes  hnsw.Nodes[vector.VF32]
	IDs    map[string]uint32
	NextID uint32
}

// Save persists the index and its ID mapping to FS.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Index == nil {
		return nil
	}

	st := state{
		Nodes:  s.Index.Nodes(),
		IDs:    s.ids,
		NextID: s.nextID,
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if err := hackpadfs.WriteFullFile(s.FS, s.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// Load reads the index and its ID mapping from FS.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := hackpadfs.ReadFile(s.FS, s.Path)
	if err != nil {
		return err
	}

	var st state
	dec := gob.NewDecoder(bytes.NewReader(content))
	if err := dec.Decode(&st); err != nil {
		return fmt.Errorf("failed to decode index: %w", err)
	}

	s.Index = hnsw.FromNodes[vector.VF32](
		vector.SurfaceVF32(kvector.Cosine()),
		st.Nodes,
	)

	if st.IDs == nil {
		st.IDs = make(map[string]uint32)
	}
	s.ids = st.IDs
	s.docs = make(map[uint32]string, len(st.IDs))
	for docID, key := range st.IDs {
		s.docs[key] = docID
	}
	s.nextID = st.NextID

	return nil
}
