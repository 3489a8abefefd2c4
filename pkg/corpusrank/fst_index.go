package corpusrank

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/kelindar/binary"
	fstindex "github.com/kittclouds/gokitt/pkg/fst"
)

// FSTIndex is a memory-efficient read-only postings index: terms live in an
// FST mapping to byte offsets into a flat postings buffer, so looking up a
// term never touches the full in-memory map.
type FSTIndex struct {
	Index    *fstindex.IndexReader
	Postings []byte
}

// postingsList is what gets encoded at each FST offset.
type postingsList struct {
	Docs map[string]TokenMetadata
}

// BuildFSTIndex serializes a term->docID->TokenMetadata map into an FST
// fronting a flat postings buffer, using pkg/fst's vellum wrapper plus a
// kelindar/binary payload codec for each term's postings frame.
func BuildFSTIndex(tokenIndex map[string]map[string]TokenMetadata) (*FSTIndex, error) {
	terms := make([]string, 0, len(tokenIndex))
	for term := range tokenIndex {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	fstBuilder, err := fstindex.NewIndexBuilder()
	if err != nil {
		return nil, err
	}

	var postingsBuf bytes.Buffer

	for _, term := range terms {
		offset := uint64(postingsBuf.Len())

		payload, err := binary.Marshal(postingsList{Docs: tokenIndex[term]})
		if err != nil {
			return nil, fmt.Errorf("encode postings for term %s: %w", term, err)
		}

		if err := writeFrame(&postingsBuf, payload); err != nil {
			return nil, fmt.Errorf("write postings frame for term %s: %w", term, err)
		}

		if err := fstBuilder.Insert([]byte(term), offset); err != nil {
			return nil, fmt.Errorf("insert term %s into FST: %w", term, err)
		}
	}

	fstBytes, err := fstBuilder.Finish()
	if err != nil {
		return nil, err
	}

	idxReader, err := fstindex.OpenIndex(fstBytes)
	if err != nil {
		return nil, err
	}

	return &FSTIndex{
		Index:    idxReader,
		Postings: postingsBuf.Bytes(),
	}, nil
}

// Get returns the postings map for a term.
func (fi *FSTIndex) Get(term string) (map[string]TokenMetadata, bool) {
	offset, exists, err := fi.Index.Get([]byte(term))
	if err != nil || !exists {
		return nil, false
	}

	payload, err := readFrame(fi.Postings[offset:])
	if err != nil {
		return nil, false
	}

	var list postingsList
	if err := binary.Unmarshal(payload, &list); err != nil {
		return nil, false
	}
	return list.Docs, true
}

// Close releases the FST's resources.
func (fi *FSTIndex) Close() error {
	return fi.Index.Close()
}

// writeFrame prefixes payload with a fixed-width length so Get can slice
// the postings buffer without needing a running reader position.
func writeFrame(w *bytes.Buffer, payload []byte) error {
	var lenBuf [8]byte
	for i := range lenBuf {
		lenBuf[i] = byte(len(payload) >> (8 * i))
	}
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(buf []byte) ([]byte, error) {
	if len(buf) < 8 {
		return nil, fmt.Errorf("frame too short")
	}
	length := uint64(0)
	for i := 0; i < 8; i++ {
		length |= uint64(buf[i]) << (8 * i)
	}
	if uint64(len(buf)) < 8+length {
		return nil, fmt.Errorf("frame truncated")
	}
	return buf[8 : 8+length], nil
}
