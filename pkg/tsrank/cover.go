package tsrank

import "github.com/bits-and-blooms/bitset"

// Cover is a minimal span of document tokens satisfying the query
// (spec.md §3).
type Cover struct {
	Begin, End int // token indices into DocRepresentation.Tokens
	P, Q       uint16
}

// CoverScanner produces successive minimal covers of a query over a
// DocRepresentation (spec.md §4.6). It is stateful: each call to Next
// resumes from where the previous one left off.
type CoverScanner struct {
	doc    *DocRepresentation
	query  *TSQuery
	cursor int
}

// NewCoverScanner creates a scanner starting at the beginning of doc.
func NewCoverScanner(doc *DocRepresentation, query *TSQuery) *CoverScanner {
	return &CoverScanner{doc: doc, query: query}
}

// Next returns the next minimal cover, or ok=false once the document is
// exhausted. The recursive "advance and retry" of spec.md §4.6 step 4 is
// implemented as a loop (spec.md §9's design note) to avoid unbounded
// stack growth on pathological inputs.
func (s *CoverScanner) Next() (Cover, bool) {
	n := len(s.doc.Tokens)

	for s.cursor < n {
		// Forward scan: earliest token completing a satisfying prefix,
		// NOT treated as vacuously true (monotone, guarantees termination).
		existence := bitset.New(uint(len(s.doc.Operands)))
		end := -1
		for i := s.cursor; i < n; i++ {
			existence.InPlaceUnion(s.doc.Tokens[i].Operands)
			if Evaluate(s.query, s.doc.present(existence), false) {
				end = i
				break
			}
		}
		if end == -1 {
			return Cover{}, false
		}

		// Backward scan: latest satisfying start, NOT honoured.
		existence2 := bitset.New(uint(len(s.doc.Operands)))
		begin := -1
		for i := end; i >= s.cursor; i-- {
			existence2.InPlaceUnion(s.doc.Tokens[i].Operands)
			if Evaluate(s.query, s.doc.present(existence2), true) {
				begin = i
				break
			}
		}

		if begin != -1 {
			p, q := s.doc.Tokens[begin].Pos, s.doc.Tokens[end].Pos
			if p <= q {
				s.cursor = begin + 1
				return Cover{Begin: begin, End: end, P: p, Q: q}, true
			}
		}

		s.cursor++
	}

	return Cover{}, false
}
