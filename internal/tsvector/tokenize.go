// Package tsvector builds pkg/tsrank.TSVector values out of raw document
// text: it is the "external collaborator" spec.md §1 names as out of
// scope for the core ranker ("tokenization and linguistic normalization
// producing the tsvector").
package tsvector

import (
	"sort"
	"strings"
	"unicode"

	ahocorasick "github.com/coregx/ahocorasick"

	"github.com/orsinium-labs/stopwords"

	"github.com/kittclouds/gokitt/pkg/tsrank"
)

// FieldWeight assigns a tsrank.WeightClass to a named document field, the
// way ts_setweight assigns A/B/C/D to title/body/etc columns.
type FieldWeight struct {
	Field string
	Class tsrank.WeightClass
}

// Field is one piece of input text plus the weight class its lexemes take.
type Field struct {
	Name  string
	Text  string
	Class tsrank.WeightClass
}

// Tokenizer splits field text into lexemes, dropping stopwords, and
// accumulates positions per lexeme across every field of a document. When
// built with a phrase dictionary, recognized multi-word phrases also get
// indexed as a single compound lexeme alongside their constituent words.
type Tokenizer struct {
	stop    stopwords.StopWords
	phrases *PhraseLocator
}

// NewTokenizer builds a tokenizer using the given stopword list (e.g.
// stopwords.EN). A nil/empty list disables stopword filtering. No phrase
// dictionary is attached; use NewTokenizerWithPhrases for that.
func NewTokenizer(stop stopwords.StopWords) *Tokenizer {
	return &Tokenizer{stop: stop}
}

// NewTokenizerWithPhrases builds a tokenizer that additionally recognizes a
// fixed set of normalized (already-lowercased) multi-word phrases, e.g.
// domain keyphrases or named entities a corpus wants searchable as a single
// unit. Recognition runs over an Aho-Corasick automaton built once here and
// reused for every Build call, rather than re-scanning per field per call.
func NewTokenizerWithPhrases(stop stopwords.StopWords, phrases []string) *Tokenizer {
	return &Tokenizer{stop: stop, phrases: NewPhraseLocator(phrases)}
}

// Build tokenizes every field of a document into a TSVector. Positions are
// numbered continuously across fields in the order given, matching
// to_tsvector's behavior of concatenating columns with setweight applied
// per column before concatenation.
//
// When the tokenizer carries a phrase dictionary, every field is first
// scanned with PhraseLocator; a recognized phrase contributes its words at
// their normal positions plus one extra compound lexeme (the full phrase
// text) pinned at the position of the phrase's first word, so an exact
// lookup of "machine learning" can match as a unit without losing the
// word-level entries phrase queries (OpPHRASE) already rely on.
func (t *Tokenizer) Build(fields []Field) *tsrank.TSVector {
	entries := make(map[string]*tsrank.WordEntry)
	pos := 0

	emit := func(lex string, class tsrank.WeightClass, at int) {
		if t.stop != nil && t.stop.In(lex) {
			return
		}
		if at >= tsrank.MaxPos {
			return
		}
		e, ok := entries[lex]
		if !ok {
			e = &tsrank.WordEntry{Lexeme: lex}
			entries[lex] = e
		}
		e.Positions = append(e.Positions, tsrank.Position{
			Pos:   uint16(at),
			Class: class,
		})
	}

	for _, f := range fields {
		normalized := strings.ToLower(f.Text)
		for _, seg := range t.segments(normalized) {
			words := splitWords(seg.text)
			if len(words) == 0 {
				continue
			}

			phraseAt := pos
			for _, w := range words {
				emit(w, f.Class, pos)
				pos++
			}
			if seg.isPhrase {
				emit(strings.Join(words, " "), f.Class, phraseAt)
			}
		}
	}

	out := make([]tsrank.WordEntry, 0, len(entries))
	for _, e := range entries {
		sort.Slice(e.Positions, func(i, j int) bool {
			return e.Positions[i].Pos < e.Positions[j].Pos
		})
		out = append(out, *e)
	}

	sort.Slice(out, func(i, j int) bool {
		return compareLexemeBytes(out[i].Lexeme, out[j].Lexeme)
	})

	return &tsrank.TSVector{Entries: out}
}

// compareLexemeBytes reports whether a sorts before b under tsrank's
// (length, bytes) unsigned lexicographic order (spec.md §4.1/§4.2).
func compareLexemeBytes(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// splitWords breaks text on non-letter/non-digit boundaries, the simplest
// word-boundary rule that keeps Unicode letters intact (no stemming —
// spec.md's tsvector is opaque lexemes, stemming is a pluggable concern
// this tokenizer deliberately leaves out).
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// textSegment is one piece of normalized text as split by phrase
// recognition: either a literal phrase match or the ordinary text between
// matches, still subject to splitWords.
type textSegment struct {
	text     string
	isPhrase bool
}

// segments splits normalized into a sequence of textSegments using the
// tokenizer's phrase dictionary, choosing a leftmost, longest-match,
// non-overlapping cover of normalized the way lexers resolve ambiguous
// keyword matches. With no phrase dictionary attached it returns normalized
// unchanged as a single non-phrase segment.
func (t *Tokenizer) segments(normalized string) []textSegment {
	if t.phrases == nil || len(t.phrases.phrases) == 0 {
		return []textSegment{{text: normalized}}
	}

	matches := t.phrases.FindAll(normalized)
	if len(matches) == 0 {
		return []textSegment{{text: normalized}}
	}

	type span struct {
		start, end int
		phrase     string
	}
	spans := make([]span, len(matches))
	for i, m := range matches {
		phrase := t.phrases.phrases[m.Index]
		spans[i] = span{start: m.Start, end: m.Start + len(phrase), phrase: phrase}
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var out []textSegment
	cursor := 0
	for _, sp := range spans {
		if sp.start < cursor {
			continue // overlaps the previously chosen span
		}
		if sp.start > cursor {
			out = append(out, textSegment{text: normalized[cursor:sp.start]})
		}
		out = append(out, textSegment{text: sp.phrase, isPhrase: true})
		cursor = sp.end
	}
	if cursor < len(normalized) {
		out = append(out, textSegment{text: normalized[cursor:]})
	}
	return out
}

// PhraseLocator finds every occurrence of a set of literal phrases inside
// normalized document text in one pass: one Aho-Corasick automaton built
// once over the phrase dictionary, then reused to scan every field Build
// processes.
type PhraseLocator struct {
	ac      ahocorasick.AhoCorasick
	phrases []string
}

// NewPhraseLocator builds an automaton over a set of already-normalized
// phrase patterns.
func NewPhraseLocator(phrases []string) *PhraseLocator {
	if len(phrases) == 0 {
		return &PhraseLocator{phrases: phrases}
	}
	b := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.StandardMatch,
		DFA:                  false,
	})
	return &PhraseLocator{
		ac:      b.Build(phrases),
		phrases: phrases,
	}
}

// PhraseMatch is one located occurrence of phrases[Index] at byte Start.
type PhraseMatch struct {
	Index int
	Start int
}

// FindAll scans normalized text and returns every overlapping phrase hit.
func (p *PhraseLocator) FindAll(normalized string) []PhraseMatch {
	if len(p.phrases) == 0 {
		return nil
	}

	var matches []PhraseMatch
	iter := p.ac.IterOverlapping(normalized)
	for {
		m := iter.Next()
		if m == nil {
			break
		}
		matches = append(matches, PhraseMatch{Index: m.Pattern(), Start: m.Start()})
	}
	return matches
}
