package tsrank

// Predicate reports whether operand is present at the point a query is
// being evaluated (spec.md §4.4's present(operand)).
type Predicate func(operand QueryOperand) bool

// Evaluate walks query's postfix tree, resolving each VAL leaf through
// present, and returns whether the whole expression holds.
//
// When calcNot is false, NOT sub-expressions are treated as true — used
// by CoverScanner's forward (upper-bound) scan, where the existence set
// only grows and a NOT cannot be soundly evaluated mid-scan. When calcNot
// is true, NOT is honoured normally.
//
// PHRASE is evaluated as existence-AND of its two operands: this
// evaluator only answers "does the query hold", not "in what order" —
// ordering/adjacency is CoverScanner's and RankCD's concern, not this
// black-box predicate's.
func Evaluate(query *TSQuery, present Predicate, calcNot bool) bool {
	if query.Size() == 0 {
		return false
	}

	stack := make([]bool, 0, query.Size())
	pop := func() bool {
		if len(stack) == 0 {
			return false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	for _, item := range query.Items {
		if item.IsVal() {
			stack = append(stack, present(*item.Operand))
			continue
		}

		switch item.Operator.Op {
		case OpNOT:
			a := pop()
			if calcNot {
				stack = append(stack, !a)
			} else {
				stack = append(stack, true)
			}
		case OpAND, OpPHRASE:
			b := pop()
			a := pop()
			stack = append(stack, a && b)
		case OpOR:
			b := pop()
			a := pop()
			stack = append(stack, a || b)
		}
	}

	if len(stack) == 0 {
		return false
	}
	return stack[len(stack)-1]
}

// rootIsAND reports whether query's root operator is a top-level boolean
// AND, selecting rank_and over rank_or (spec.md §4.5).
func rootIsAND(query *TSQuery) bool {
	root, ok := query.Root()
	if !ok || root.IsVal() {
		return false
	}
	return root.Operator.Op == OpAND
}
