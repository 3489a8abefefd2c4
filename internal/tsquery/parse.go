// Package tsquery parses a websearch-like query string into a
// pkg/tsrank.TSQuery postfix expression: the other external collaborator
// spec.md §1 calls out as out of scope for the core ranker.
package tsquery

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kittclouds/gokitt/pkg/tsrank"
)

// token kinds produced by the lexer, ahead of parsing.
type tokenKind int

const (
	tokWord tokenKind = iota
	tokPhrase
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind   tokenKind
	text   string // for tokWord/tokPhrase
	prefix bool   // trailing '*' on a word
}

// Parse lexes and parses input into a TSQuery. Supports infix AND/OR/NOT
// (also spelled &/|/!), parenthesized grouping, quoted phrases, and a
// trailing '*' for prefix operands, built as a full boolean tree rather
// than a flat clause list. Adjacent terms with no explicit operator
// default to AND, matching websearch_to_tsquery's implicit-AND convention.
func Parse(input string) (*tsrank.TSQuery, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	toks = insertImplicitAnd(toks)

	p := &parser{toks: toks}
	items, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("tsquery: unexpected token at position %d", p.pos)
	}
	if len(items) == 0 {
		return &tsrank.TSQuery{}, nil
	}
	return &tsrank.TSQuery{Items: items}, nil
}

// lex turns raw text into a token stream.
func lex(input string) ([]token, error) {
	var toks []token
	runes := []rune(input)
	i := 0

	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case r == '!':
			toks = append(toks, token{kind: tokNot})
			i++
		case r == '&':
			toks = append(toks, token{kind: tokAnd})
			i++
		case r == '|':
			toks = append(toks, token{kind: tokOr})
			i++
		case r == '"':
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("tsquery: unterminated phrase starting at %d", i)
			}
			toks = append(toks, token{kind: tokPhrase, text: strings.ToLower(string(runes[i+1 : j]))})
			i = j + 1
		default:
			j := i
			for j < len(runes) && !unicode.IsSpace(runes[j]) && !strings.ContainsRune("()!&|\"", runes[j]) {
				j++
			}
			word := string(runes[i:j])
			prefix := strings.HasSuffix(word, "*")
			word = strings.ToLower(strings.TrimSuffix(word, "*"))

			switch word {
			case "and":
				toks = append(toks, token{kind: tokAnd})
			case "or":
				toks = append(toks, token{kind: tokOr})
			case "not":
				toks = append(toks, token{kind: tokNot})
			default:
				if word != "" {
					toks = append(toks, token{kind: tokWord, text: word, prefix: prefix})
				}
			}
			i = j
		}
	}
	return toks, nil
}

// insertImplicitAnd inserts AND between two operand-starting tokens with
// no explicit binary operator between them, e.g. `cat dog` -> `cat AND dog`.
func insertImplicitAnd(toks []token) []token {
	isOperandStart := func(k tokenKind) bool {
		return k == tokWord || k == tokPhrase || k == tokLParen || k == tokNot
	}
	isOperandEnd := func(k tokenKind) bool {
		return k == tokWord || k == tokPhrase || k == tokRParen
	}

	var out []token
	for idx, tk := range toks {
		if idx > 0 && isOperandEnd(toks[idx-1].kind) && isOperandStart(tk.kind) {
			out = append(out, token{kind: tokAnd})
		}
		out = append(out, tk)
	}
	return out
}

// parser is a recursive-descent parser over the precedence
// NOT > AND > OR, emitting postfix tsrank.Item values directly instead of
// building an intermediate AST.
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) parseOr() ([]tsrank.Item, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tk, ok := p.peek()
		if !ok || tk.kind != tokOr {
			return left, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = append(append(left, right...), tsrank.Item{
			Operator: &tsrank.QueryOperator{Op: tsrank.OpOR},
		})
	}
}

func (p *parser) parseAnd() ([]tsrank.Item, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		tk, ok := p.peek()
		if !ok || tk.kind != tokAnd {
			return left, nil
		}
		p.pos++
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = append(append(left, right...), tsrank.Item{
			Operator: &tsrank.QueryOperator{Op: tsrank.OpAND},
		})
	}
}

func (p *parser) parseNot() ([]tsrank.Item, error) {
	tk, ok := p.peek()
	if ok && tk.kind == tokNot {
		p.pos++
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return append(operand, tsrank.Item{
			Operator: &tsrank.QueryOperator{Op: tsrank.OpNOT},
		}), nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() ([]tsrank.Item, error) {
	tk, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("tsquery: unexpected end of input")
	}

	switch tk.kind {
	case tokLParen:
		p.pos++
		items, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		close, ok := p.peek()
		if !ok || close.kind != tokRParen {
			return nil, fmt.Errorf("tsquery: expected closing paren")
		}
		p.pos++
		return items, nil
	case tokWord:
		p.pos++
		return []tsrank.Item{{
			Operand: &tsrank.QueryOperand{Term: tk.text, Prefix: tk.prefix},
		}}, nil
	case tokPhrase:
		p.pos++
		return phraseItems(tk.text), nil
	default:
		return nil, fmt.Errorf("tsquery: unexpected token kind %d", tk.kind)
	}
}

// phraseItems expands a quoted phrase into OpPHRASE-joined word operands,
// matching to_tsquery's <-> distance-1 phrase expansion.
func phraseItems(phrase string) []tsrank.Item {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil
	}

	items := []tsrank.Item{{Operand: &tsrank.QueryOperand{Term: words[0]}}}
	for _, w := range words[1:] {
		items = append(items,
			tsrank.Item{Operand: &tsrank.QueryOperand{Term: w}},
			tsrank.Item{Operator: &tsrank.QueryOperator{Op: tsrank.OpPHRASE, Distance: 1}},
		)
	}
	return items
}
