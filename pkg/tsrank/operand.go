package tsrank

import "sort"

// Operands collects every VAL leaf from query's postfix sequence, sorts
// them by the (length, bytes) comparator used for lexeme ordering, and
// collapses adjacent duplicates whose Term bytes are identical (spec.md
// §4.2). Used to visit each unique lexeme once in standard rank and in
// DocRepresentation construction.
func Operands(query *TSQuery) []QueryOperand {
	if query.Size() == 0 {
		return nil
	}

	var out []QueryOperand
	for _, item := range query.Items {
		if item.IsVal() {
			out = append(out, *item.Operand)
		}
	}
	if len(out) == 0 {
		return nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		return compareLexeme(out[i].Term, out[j].Term) < 0
	})

	uniq := out[:1]
	for _, op := range out[1:] {
		if op.Term != uniq[len(uniq)-1].Term {
			uniq = append(uniq, op)
		}
	}
	return uniq
}
