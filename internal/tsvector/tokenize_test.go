package tsvector

import (
	"testing"

	"github.com/orsinium-labs/stopwords"

	"github.com/kittclouds/gokitt/pkg/tsrank"
)

func TestBuildBasic(t *testing.T) {
	tok := NewTokenizer(nil)
	vec := tok.Build([]Field{
		{Name: "body", Text: "the cat sat on the mat", Class: tsrank.WeightD},
	})

	if vec.Size() == 0 {
		t.Fatal("expected non-empty vector")
	}

	found := false
	for _, e := range vec.Entries {
		if e.Lexeme == "cat" {
			found = true
			if len(e.Positions) != 1 {
				t.Errorf("expected 1 position for 'cat', got %d", len(e.Positions))
			}
		}
	}
	if !found {
		t.Fatal("expected 'cat' lexeme in vector")
	}
}

func TestBuildStopwordsFiltered(t *testing.T) {
	tok := NewTokenizer(stopwords.EN)
	vec := tok.Build([]Field{
		{Name: "body", Text: "the cat and the dog", Class: tsrank.WeightD},
	})

	for _, e := range vec.Entries {
		if e.Lexeme == "the" || e.Lexeme == "and" {
			t.Fatalf("expected stopword %q filtered out", e.Lexeme)
		}
	}
}

func TestBuildMultiFieldWeights(t *testing.T) {
	tok := NewTokenizer(nil)
	vec := tok.Build([]Field{
		{Name: "title", Text: "cat", Class: tsrank.WeightA},
		{Name: "body", Text: "cat dog", Class: tsrank.WeightD},
	})

	for _, e := range vec.Entries {
		if e.Lexeme == "cat" {
			if len(e.Positions) != 2 {
				t.Fatalf("expected 2 positions for 'cat', got %d", len(e.Positions))
			}
			classes := map[tsrank.WeightClass]bool{}
			for _, p := range e.Positions {
				classes[p.Class] = true
			}
			if !classes[tsrank.WeightA] || !classes[tsrank.WeightD] {
				t.Fatalf("expected both WeightA and WeightD classes present, got %+v", e.Positions)
			}
		}
	}
}

func TestBuildSortedOrder(t *testing.T) {
	tok := NewTokenizer(nil)
	vec := tok.Build([]Field{
		{Name: "body", Text: "zebra apple mango", Class: tsrank.WeightD},
	})

	for i := 1; i < len(vec.Entries); i++ {
		a, b := vec.Entries[i-1].Lexeme, vec.Entries[i].Lexeme
		if len(a) > len(b) || (len(a) == len(b) && a > b) {
			t.Fatalf("entries not sorted: %q before %q", a, b)
		}
	}
}

func TestPhraseLocator(t *testing.T) {
	loc := NewPhraseLocator([]string{"quick brown", "brown fox"})
	matches := loc.FindAll("the quick brown fox jumps")

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(matches), matches)
	}
}

func TestPhraseLocatorEmpty(t *testing.T) {
	loc := NewPhraseLocator(nil)
	if matches := loc.FindAll("anything"); matches != nil {
		t.Fatalf("expected nil matches for empty locator, got %+v", matches)
	}
}

func TestBuildWithPhrasesAddsCompoundLexeme(t *testing.T) {
	tok := NewTokenizerWithPhrases(nil, []string{"machine learning"})
	vec := tok.Build([]Field{
		{Name: "body", Text: "we study machine learning systems", Class: tsrank.WeightD},
	})

	var compound, machine *tsrank.WordEntry
	for i := range vec.Entries {
		switch vec.Entries[i].Lexeme {
		case "machine learning":
			compound = &vec.Entries[i]
		case "machine":
			machine = &vec.Entries[i]
		}
	}

	if compound == nil {
		t.Fatal("expected a compound \"machine learning\" lexeme from the phrase dictionary")
	}
	if machine == nil {
		t.Fatal("expected the constituent word \"machine\" to still be indexed on its own")
	}
	if len(compound.Positions) != 1 || compound.Positions[0].Pos != machine.Positions[0].Pos {
		t.Fatalf("expected the compound lexeme pinned at its first word's position, got %+v vs %+v", compound.Positions, machine.Positions)
	}
}

func TestBuildWithoutPhrasesIsUnaffected(t *testing.T) {
	tok := NewTokenizer(nil)
	vec := tok.Build([]Field{
		{Name: "body", Text: "machine learning systems", Class: tsrank.WeightD},
	})

	for _, e := range vec.Entries {
		if e.Lexeme == "machine learning" {
			t.Fatal("no phrase dictionary attached; compound lexeme should not appear")
		}
	}
}
