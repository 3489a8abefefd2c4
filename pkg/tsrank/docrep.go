package tsrank

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// DocToken is one document lexeme occurrence annotated with the set of
// query operands it satisfies (spec.md §3's DocToken).
type DocToken struct {
	Pos      uint16
	Class    WeightClass
	Operands *bitset.BitSet // indices into DocRepresentation.Operands
}

// DocRepresentation is the flattened, position-sorted view of a document
// built for cover-density ranking (spec.md §4.6).
type DocRepresentation struct {
	Tokens      []DocToken
	Operands    []QueryOperand // deduplicated leaves, spec.md §4.2
	operandByID map[string]int
}

// present answers Evaluate's Predicate for a given existence bitset: is
// operand's query-dedup index set in existence?
func (d *DocRepresentation) present(existence *bitset.BitSet) Predicate {
	return func(op QueryOperand) bool {
		idx, ok := d.operandByID[op.Term]
		if !ok {
			return false
		}
		return existence.Test(uint(idx))
	}
}

// BuildDocRepresentation constructs the DocRepresentation for vec against
// query's unique operands. Returns nil for an empty document or query, or
// when no operand matches anything (spec.md §4.6).
func BuildDocRepresentation(vec *TSVector, query *TSQuery) *DocRepresentation {
	operands := Operands(query)
	if len(operands) == 0 || vec.Size() == 0 {
		return nil
	}

	operandByID := make(map[string]int, len(operands))
	for i, op := range operands {
		operandByID[op.Term] = i
	}

	idx := NewPostingsIndex(vec)
	processed := bitset.New(uint(vec.Size()))

	var tokens []DocToken
	for _, op := range operands {
		first, count := idx.FindRange(op)
		for e := first; e < first+count; e++ {
			if processed.Test(uint(e)) {
				continue
			}
			processed.Set(uint(e))

			entry := vec.Entries[e]
			opSet := bitset.New(uint(len(operands)))
			for oi, o := range operands {
				if o.Term == entry.Lexeme || (o.Prefix && hasPrefix(entry.Lexeme, o.Term)) {
					opSet.Set(uint(oi))
				}
			}

			for _, p := range entry.positions() {
				tokens = append(tokens, DocToken{Pos: p.Pos, Class: p.Class, Operands: opSet})
			}
		}
	}

	if len(tokens) == 0 {
		return nil
	}

	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].Pos < tokens[j].Pos })

	return &DocRepresentation{Tokens: tokens, Operands: operands, operandByID: operandByID}
}
