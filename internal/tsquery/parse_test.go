package tsquery

import (
	"testing"

	"github.com/kittclouds/gokitt/pkg/tsrank"
)

func TestParseSingleWord(t *testing.T) {
	q, err := Parse("cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Size() != 1 {
		t.Fatalf("expected 1 item, got %d", q.Size())
	}
	if q.Items[0].Operand == nil || q.Items[0].Operand.Term != "cat" {
		t.Fatalf("expected operand 'cat', got %+v", q.Items[0])
	}
}

func TestParseImplicitAnd(t *testing.T) {
	q, err := Parse("cat dog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root, ok := q.Root()
	if !ok || root.Operator == nil || root.Operator.Op != tsrank.OpAND {
		t.Fatalf("expected AND root, got %+v", root)
	}
}

func TestParseExplicitOr(t *testing.T) {
	q, err := Parse("cat or dog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root, ok := q.Root()
	if !ok || root.Operator == nil || root.Operator.Op != tsrank.OpOR {
		t.Fatalf("expected OR root, got %+v", root)
	}
}

func TestParseNot(t *testing.T) {
	q, err := Parse("!cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root, ok := q.Root()
	if !ok || root.Operator == nil || root.Operator.Op != tsrank.OpNOT {
		t.Fatalf("expected NOT root, got %+v", root)
	}
}

func TestParsePrecedence(t *testing.T) {
	// "a or b and c" should parse as a OR (b AND c): OR binds loosest.
	q, err := Parse("a or b and c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root, ok := q.Root()
	if !ok || root.Operator == nil || root.Operator.Op != tsrank.OpOR {
		t.Fatalf("expected OR root, got %+v", root)
	}
}

func TestParseParens(t *testing.T) {
	q, err := Parse("(a or b) and c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root, ok := q.Root()
	if !ok || root.Operator == nil || root.Operator.Op != tsrank.OpAND {
		t.Fatalf("expected AND root, got %+v", root)
	}
}

func TestParsePrefix(t *testing.T) {
	q, err := Parse("cat*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Items[0].Operand.Prefix {
		t.Fatalf("expected prefix operand, got %+v", q.Items[0].Operand)
	}
}

func TestParsePhrase(t *testing.T) {
	q, err := Parse(`"quick brown fox"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 operands + 2 PHRASE joins = 5 items
	if q.Size() != 5 {
		t.Fatalf("expected 5 items, got %d", q.Size())
	}
	root, ok := q.Root()
	if !ok || root.Operator == nil || root.Operator.Op != tsrank.OpPHRASE {
		t.Fatalf("expected PHRASE root, got %+v", root)
	}
}

func TestParseUnterminatedPhrase(t *testing.T) {
	if _, err := Parse(`"unterminated`); err == nil {
		t.Fatal("expected error for unterminated phrase")
	}
}

func TestParseUnbalancedParen(t *testing.T) {
	if _, err := Parse("(cat"); err == nil {
		t.Fatal("expected error for unbalanced paren")
	}
}
