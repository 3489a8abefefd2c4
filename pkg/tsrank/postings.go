package tsrank

import "sort"

// compareLexeme implements the (length, bytes) unsigned comparator spec.md
// §4.1 requires for tsvector ordering: shorter lexemes sort first; equal
// length lexemes compare as unsigned bytes.
func compareLexeme(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// hasPrefix reports whether lexeme starts with prefix under the same
// (length, bytes) ordering: a prefix match requires len(lexeme) >=
// len(prefix) and byte-equality over the first len(prefix) bytes.
func hasPrefix(lexeme, prefix string) bool {
	if len(lexeme) < len(prefix) {
		return false
	}
	return lexeme[:len(prefix)] == prefix
}

// PostingsIndex performs lower-bound binary search on a TSVector's
// entries to locate a query operand's matching run.
type PostingsIndex struct {
	vec *TSVector
}

// NewPostingsIndex builds an index over vec. vec must already satisfy the
// TSVector sort invariant (spec.md §3); this function does not re-sort.
func NewPostingsIndex(vec *TSVector) *PostingsIndex {
	return &PostingsIndex{vec: vec}
}

// FindRange locates operand's matching run: (firstEntry, count), exactly
// as spec.md §4.1's find(tsvec, query, operand) -> (first_entry, count).
// firstEntry is -1 when count is 0.
func (p *PostingsIndex) FindRange(operand QueryOperand) (first, count int) {
	if p == nil || p.vec == nil {
		return -1, 0
	}
	entries := p.vec.Entries
	lower := sort.Search(len(entries), func(i int) bool {
		return compareLexeme(entries[i].Lexeme, operand.Term) >= 0
	})

	if !operand.Prefix {
		if lower < len(entries) && entries[lower].Lexeme == operand.Term {
			return lower, 1
		}
		return -1, 0
	}

	upper := lower
	for upper < len(entries) && hasPrefix(entries[upper].Lexeme, operand.Term) {
		upper++
	}
	if upper == lower {
		return -1, 0
	}
	return lower, upper - lower
}

// Find locates operand's matching run in the index and returns the
// matching entries directly. Returns nil when nothing matches.
func (p *PostingsIndex) Find(operand QueryOperand) []WordEntry {
	first, count := p.FindRange(operand)
	if count == 0 {
		return nil
	}
	return p.vec.Entries[first : first+count]
}
