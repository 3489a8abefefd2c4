// Package corpusrank is a corpus-aware BM25F scorer, supplementing
// pkg/tsrank's pure per-document rank/rank_cd with cross-document IDF,
// segment-mask proximity, and an optional embedding blend — the corpus
// statistics spec.md's rank/rank_cd deliberately don't carry (they score
// one document against one query with no corpus in scope).
package corpusrank

import "github.com/kittclouds/gokitt/pkg/tsrank"

// Config holds the corpus scorer's tuning knobs. BM25F field weighting
// keys off tsrank.WeightClass (A/B/C/D) rather than an arbitrary named
// column, so the same weight class a tsvector.Field carries into
// pkg/tsrank's rank() also drives corpus-level BM25F weighting here.
type Config struct {
	K1                  float64
	B                   float64
	ProximityAlpha      float64
	ProximityDecay      float64
	MaxSegments         uint32
	UseAdaptiveSegments bool
	ClassWeights        map[tsrank.WeightClass]float64
	ClassParams         map[tsrank.WeightClass]ClassParam
	VectorAlpha         float64 // weight given to embedding similarity, 0..1

	UseBMXEntropy    bool    // fold query-term entropy into length normalization (BMX)
	EntropyGamma     float64 // weight of the entropy term in NormalizedTermFrequencyBMX
	EntropyCacheSize int
}

// ClassParam overrides the BM25F weight and length-normalization B for one
// weight class; K1 stays global.
type ClassParam struct {
	Weight float64
	B      float64
}

// DefaultConfig returns BM25F defaults, seeding ClassWeights with
// tsrank.DefaultWeights (the standard ts_rank D=0.1/C=0.2/B=0.4/A=1.0
// ladder) and the vector blend disabled.
func DefaultConfig() Config {
	return Config{
		K1:             1.2,
		B:              0.75,
		ProximityAlpha: 0.5,
		ProximityDecay: 0.1,
		MaxSegments:    32,
		ClassWeights: map[tsrank.WeightClass]float64{
			tsrank.WeightD: tsrank.DefaultWeights[tsrank.WeightD],
			tsrank.WeightC: tsrank.DefaultWeights[tsrank.WeightC],
			tsrank.WeightB: tsrank.DefaultWeights[tsrank.WeightB],
			tsrank.WeightA: tsrank.DefaultWeights[tsrank.WeightA],
		},
		ClassParams: make(map[tsrank.WeightClass]ClassParam),
		VectorAlpha: 0.0,

		UseBMXEntropy:    false,
		EntropyGamma:     0.1,
		EntropyCacheSize: 10000,
	}
}

// TokenMetadata tracks one term's statistics within one document, broken
// down by tsrank.WeightClass rather than a free-form field name.
type TokenMetadata struct {
	ClassOccurrences map[tsrank.WeightClass]ClassOccurrence
	SegmentMask      uint32
	CorpusDocFreq    int
}

// ClassOccurrence tracks term hits within a single weight class.
type ClassOccurrence struct {
	TF          int
	ClassLength int
}

// DocumentMetadata tracks document structure and, optionally, its
// embedding for the vector blend.
type DocumentMetadata struct {
	ClassLengths    map[tsrank.WeightClass]int
	TotalTokenCount int
	Embedding       []float32
}

// SearchResult is one scored match.
type SearchResult struct {
	DocID string
	Score float64
}

// CorpusStatistics tracks corpus-wide aggregates used by IDF and length
// normalization.
type CorpusStatistics struct {
	TotalDocuments      int
	AverageDocLength    float64
	AverageClassLengths map[tsrank.WeightClass]float64
}

// classLengths sums, per weight class, how many lexeme positions in vec
// carry that class — the per-class analogue of to_tsvector's per-column
// length a caller would otherwise have to compute by hand.
func classLengths(vec *tsrank.TSVector) map[tsrank.WeightClass]int {
	out := make(map[tsrank.WeightClass]int)
	for _, e := range vec.Entries {
		for _, p := range e.Positions {
			out[p.Class]++
		}
	}
	return out
}

// TokensFromVector derives per-lexeme corpus statistics directly from a
// built tsrank.TSVector: each lexeme's positions are grouped by weight
// class, so IndexDocument's caller never hand-rolls a field-occurrence map
// to describe what the tokenizer already produced. CorpusDocFreq is seeded
// to 1 (one occurrence in this document); CorpusScorer.IndexDocument stores
// it as given and does not recount document frequency across the corpus.
func TokensFromVector(vec *tsrank.TSVector) map[string]TokenMetadata {
	lens := classLengths(vec)

	out := make(map[string]TokenMetadata, len(vec.Entries))
	for _, e := range vec.Entries {
		occ := make(map[tsrank.WeightClass]ClassOccurrence, len(e.Positions))
		for _, p := range e.Positions {
			c := occ[p.Class]
			c.TF++
			c.ClassLength = lens[p.Class]
			occ[p.Class] = c
		}
		out[e.Lexeme] = TokenMetadata{
			ClassOccurrences: occ,
			CorpusDocFreq:    1,
		}
	}
	return out
}

// DocumentMetadataFromVector derives DocumentMetadata's structural fields
// (per-class lengths, total token count) straight from a built TSVector.
func DocumentMetadataFromVector(vec *tsrank.TSVector) DocumentMetadata {
	lens := classLengths(vec)
	total := 0
	for _, n := range lens {
		total += n
	}
	return DocumentMetadata{
		ClassLengths:    lens,
		TotalTokenCount: total,
	}
}
