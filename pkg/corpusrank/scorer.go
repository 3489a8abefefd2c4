package corpusrank

import (
	"sort"

	"github.com/kittclouds/gokitt/pkg/tsrank"
	"github.com/kittclouds/gokitt/pkg/vector"
)

// CorpusScorer ranks documents against a corpus using BM25F, IDF-weighted
// segment-mask proximity, and an optional embedding blend.
type CorpusScorer struct {
	Config      Config
	CorpusStats CorpusStatistics

	DocumentIndex map[string]DocumentMetadata
	TokenIndex    map[string]map[string]TokenMetadata // term -> docID -> meta

	// FrozenIndex holds the FST-backed postings after Compact; once set,
	// lookups fall back to it for terms no longer present in TokenIndex.
	FrozenIndex *FSTIndex

	// ANNIndex, when set, narrows the vector-blend candidate set to an HNSW
	// approximate nearest-neighbor shortlist instead of scanning every
	// embedded document (see SetANNIndex). pkg/vector.Store keys its own
	// index by docID, so no parallel ID mapping is kept here.
	ANNIndex *vector.Store

	idfCache     map[int]float64
	entropyCache *EntropyCache
}

// NewCorpusScorer creates an empty scorer.
func NewCorpusScorer(config Config) *CorpusScorer {
	cacheSize := config.EntropyCacheSize
	if cacheSize <= 0 {
		cacheSize = 10000
	}
	return &CorpusScorer{
		Config:        config,
		CorpusStats:   CorpusStatistics{AverageClassLengths: make(map[tsrank.WeightClass]float64)},
		DocumentIndex: make(map[string]DocumentMetadata),
		TokenIndex:    make(map[string]map[string]TokenMetadata),
		idfCache:      make(map[int]float64),
		entropyCache:  NewEntropyCache(cacheSize),
	}
}

// SetANNIndex attaches an HNSW-backed approximate nearest-neighbor index
// (pkg/vector.Store) used to shortlist vector-blend candidates in
// SearchHybrid instead of scanning every document with an embedding —
// the role pkg/vector plays for a corpus too large to score exhaustively.
func (s *CorpusScorer) SetANNIndex(idx *vector.Store) {
	s.ANNIndex = idx
}

// IndexDocument registers a document and its per-term statistics. Calling
// it again for a docID already present (e.g. to attach an embedding after
// the fact) updates that document's metadata without recounting it.
func (s *CorpusScorer) IndexDocument(docID string, meta DocumentMetadata, tokens map[string]TokenMetadata) {
	_, alreadyIndexed := s.DocumentIndex[docID]
	s.DocumentIndex[docID] = meta

	for term, tMeta := range tokens {
		if s.TokenIndex[term] == nil {
			s.TokenIndex[term] = make(map[string]TokenMetadata)
		}

		if s.Config.UseAdaptiveSegments {
			effective := AdaptiveSegmentCount(meta.TotalTokenCount, 50)
			tMeta.SegmentMask = remapSegmentMask(tMeta.SegmentMask, s.Config.MaxSegments, effective)
		}

		s.TokenIndex[term][docID] = tMeta
	}

	if !alreadyIndexed {
		s.CorpusStats.TotalDocuments++
	}

	if s.ANNIndex != nil && len(meta.Embedding) > 0 {
		_ = s.ANNIndex.Add(docID, meta.Embedding)
	}
}

// Compact freezes the current TokenIndex into an FST-backed FrozenIndex and
// clears the live map, trading lookup latency for a much smaller resident
// footprint once a corpus stops accepting new documents.
func (s *CorpusScorer) Compact() error {
	frozen, err := BuildFSTIndex(s.TokenIndex)
	if err != nil {
		return err
	}
	s.FrozenIndex = frozen
	s.TokenIndex = make(map[string]map[string]TokenMetadata)
	return nil
}

// postings returns the term->doc postings, consulting the live map first
// and falling back to FrozenIndex after Compact.
func (s *CorpusScorer) postings(term string) (map[string]TokenMetadata, bool) {
	if docs, ok := s.TokenIndex[term]; ok {
		return docs, true
	}
	if s.FrozenIndex != nil {
		return s.FrozenIndex.Get(term)
	}
	return nil, false
}

// termMeta looks up one query term's statistics within one document.
func (s *CorpusScorer) termMeta(term, docID string) (TokenMetadata, bool) {
	docs, ok := s.postings(term)
	if !ok {
		return TokenMetadata{}, false
	}
	meta, ok := docs[docID]
	return meta, ok
}

// Search ranks every document containing at least one query term, with an
// optional query embedding (nil disables the vector blend).
func (s *CorpusScorer) Search(query []string, queryEmbedding []float32, limit int) []SearchResult {
	return s.SearchHybrid(query, queryEmbedding, limit)
}

// SearchHybrid ranks documents by lexical BM25F, blended with cosine
// similarity against queryEmbedding when non-nil and Config.VectorAlpha > 0.
func (s *CorpusScorer) SearchHybrid(query []string, queryEmbedding []float32, limit int) []SearchResult {
	candidates := make(map[string]bool)
	for _, term := range query {
		if docs, ok := s.postings(term); ok {
			for docID := range docs {
				candidates[docID] = true
			}
		}
	}

	if queryEmbedding != nil && s.Config.VectorAlpha > 0 {
		shortlistK := limit * 4
		if shortlistK <= 0 {
			shortlistK = 50
		}

		if s.ANNIndex != nil {
			if docIDs, err := s.ANNIndex.Search(queryEmbedding, shortlistK); err == nil {
				for _, docID := range docIDs {
					candidates[docID] = true
				}
			}
		} else {
			for docID, meta := range s.DocumentIndex {
				if len(meta.Embedding) > 0 {
					candidates[docID] = true
				}
			}
		}
	}

	var results []SearchResult
	for docID := range candidates {
		score := s.ScoreHybrid(query, docID, queryEmbedding)
		if score > 0 {
			results = append(results, SearchResult{DocID: docID, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Score computes pure-lexical relevance for a doc (no vector blend).
func (s *CorpusScorer) Score(query []string, docID string) float64 {
	return s.ScoreHybrid(query, docID, nil)
}

// ScoreHybrid computes BM25F + proximity, then blends in cosine similarity
// against queryEmbedding weighted by Config.VectorAlpha.
func (s *CorpusScorer) ScoreHybrid(query []string, docID string, queryEmbedding []float32) float64 {
	docMeta, ok := s.DocumentIndex[docID]
	if !ok {
		return 0.0
	}

	lexicalScore := 0.0

	avgEntropy := 0.0
	if s.Config.UseBMXEntropy {
		avgEntropy = CalculateQueryEntropyStats(query, s.entropyCache, s.TokenIndex).AvgEntropy
	}

	for _, term := range query {
		tMeta, ok := s.termMeta(term, docID)
		if !ok {
			continue
		}
		idf := s.getIDF(tMeta.CorpusDocFreq)
		lexicalScore += s.scoreTermBM25F(tMeta, idf, avgEntropy)
	}

	lookup := func(term string) (TokenMetadata, bool) { return s.termMeta(term, docID) }
	termData, docTermMasks := BuildTermIDF(query, lookup, s.getIDF)

	proxMult := IDFWeightedProximityMultiplier(
		termData,
		s.Config.ProximityAlpha,
		s.Config.MaxSegments,
		docMeta.TotalTokenCount,
		s.CorpusStats.AverageDocLength,
		s.Config.ProximityDecay,
		5.0,
	)

	lexicalScore *= proxMult

	if DetectPhraseMatch(query, docTermMasks) {
		lexicalScore *= 1.5
	}

	alpha := s.Config.VectorAlpha
	if alpha <= 0 || queryEmbedding == nil || len(docMeta.Embedding) == 0 {
		return lexicalScore
	}

	vectorScore := CosineSimilarity(queryEmbedding, docMeta.Embedding)
	return (1-alpha)*lexicalScore + alpha*vectorScore
}

func (s *CorpusScorer) scoreTermBM25F(meta TokenMetadata, idf float64, avgEntropy float64) float64 {
	weightedFreq := 0.0

	for class, data := range meta.ClassOccurrences {
		weight, b := classWeightAndB(s.Config, class)

		avgLen := s.CorpusStats.AverageClassLengths[class]
		if avgLen == 0 {
			avgLen = 100.0
		}

		ntf := NormalizedTermFrequencyBMX(data.TF, data.ClassLength, avgLen, b, avgEntropy, s.Config.EntropyGamma)
		weightedFreq += weight * ntf
	}

	return idf * Saturate(weightedFreq, s.Config.K1)
}

func (s *CorpusScorer) getIDF(freq int) float64 {
	if v, ok := s.idfCache[freq]; ok {
		return v
	}
	val := CalculateIDF(float64(s.CorpusStats.TotalDocuments), freq)
	s.idfCache[freq] = val
	return val
}

// remapSegmentMask projects bits from one segment granularity to another.
func remapSegmentMask(mask uint32, fromSegs uint32, toSegs uint32) uint32 {
	if fromSegs == toSegs || fromSegs == 0 {
		return mask
	}
	newMask := uint32(0)
	for i := uint32(0); i < fromSegs; i++ {
		if (mask & (1 << i)) != 0 {
			ratio := float64(i) / float64(fromSegs)
			mappedBit := uint32(ratio * float64(toSegs))
			if mappedBit < 32 {
				newMask |= (1 << mappedBit)
			}
		}
	}
	return newMask
}
