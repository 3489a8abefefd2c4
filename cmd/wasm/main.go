//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/hack-pad/hackpadfs/indexeddb"

	"github.com/kittclouds/gokitt/internal/corpus"
	"github.com/kittclouds/gokitt/internal/tsquery"
	"github.com/kittclouds/gokitt/internal/tsvector"
	"github.com/kittclouds/gokitt/pkg/corpusrank"
	"github.com/kittclouds/gokitt/pkg/tsrank"
	"github.com/kittclouds/gokitt/pkg/vector"
)

// Version identifies this WASM build to its browser host.
const Version = "1.0.0-tsrank"

var (
	store       *corpus.Store
	scorer      *corpusrank.CorpusScorer
	vectorStore *vector.Store
	tokenizer   = tsvector.NewTokenizer(nil)
)

func main() {
	scorer = corpusrank.NewCorpusScorer(corpusrank.DefaultConfig())

	fmt.Println("[tsrankctl] WASM ready v" + Version)

	js.Global().Set("TSRank", js.ValueOf(map[string]interface{}{
		"version":      js.FuncOf(getVersion),
		"storeInit":    js.FuncOf(storeInit),
		"indexDoc":     js.FuncOf(indexDoc),
		"rank":         js.FuncOf(rank),
		"rankCD":       js.FuncOf(rankCD),
		"search":       js.FuncOf(search),
		"initVectors":  js.FuncOf(initVectors),
		"addVector":    js.FuncOf(addVector),
		"searchVector": js.FuncOf(searchVectorsJS),
		"saveVectors":  js.FuncOf(saveVectors),
	}))

	select {}
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// storeInit opens (or re-opens) the SQLite-backed document corpus.
// Args: [dsn string] (":memory:" if omitted)
func storeInit(this js.Value, args []js.Value) interface{} {
	dsn := ":memory:"
	if len(args) > 0 && args[0].String() != "" {
		dsn = args[0].String()
	}

	var err error
	store, err = corpus.Open(dsn)
	if err != nil {
		return errorResult("open corpus: " + err.Error())
	}
	return successResult("corpus opened")
}

// indexDoc tokenizes text into a TSVector, persists it, and registers its
// term statistics with the corpus scorer.
// Args: [id string, text string]
func indexDoc(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("indexDoc requires 2 args: id, text")
	}
	if store == nil {
		return errorResult("corpus not initialized")
	}

	id := args[0].String()
	text := args[1].String()

	vec := tokenizer.Build([]tsvector.Field{{Name: "body", Text: text, Class: tsrank.WeightD}})
	if err := store.Put(id, vec, 0); err != nil {
		return errorResult("persist: " + err.Error())
	}

	scorer.IndexDocument(id, corpusrank.DocumentMetadataFromVector(vec), corpusrank.TokensFromVector(vec))

	return successResult("indexed " + id)
}

// rank scores a stored document against a query string using pkg/tsrank's
// rank() (no cover-density).
// Args: [id string, query string]
func rank(this js.Value, args []js.Value) interface{} {
	return scoreDocument(args, false)
}

// rankCD is rank's cover-density sibling (rank_cd()).
// Args: [id string, query string]
func rankCD(this js.Value, args []js.Value) interface{} {
	return scoreDocument(args, true)
}

func scoreDocument(args []js.Value, coverDensity bool) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: id, query")
	}
	if store == nil {
		return errorResult("corpus not initialized")
	}

	id := args[0].String()
	queryStr := args[1].String()

	vec, err := store.Get(id)
	if err != nil {
		return errorResult("load document: " + err.Error())
	}

	tsq, err := tsquery.Parse(queryStr)
	if err != nil {
		return errorResult("parse query: " + err.Error())
	}

	var score float64
	if coverDensity {
		score = tsrank.RankCD(vec, tsq)
	} else {
		score = tsrank.Rank(vec, tsq)
	}

	return score
}

// search ranks every corpus document against a query using the hybrid
// corpus-level scorer. The scorer is built from DefaultConfig, whose
// VectorAlpha is 0, so a query embedding is accepted but does not change
// the candidates or the scores.
// Args: [queryJSON string (array of terms), limit int, vectorJSON string (optional)]
func search(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2+ args: queryJSON, limit, [vectorJSON]")
	}

	var query []string
	if err := json.Unmarshal([]byte(args[0].String()), &query); err != nil {
		return errorResult("query json: " + err.Error())
	}
	limit := args[1].Int()

	var embedding []float32
	if len(args) > 2 && args[2].String() != "" && args[2].String() != "null" {
		if err := json.Unmarshal([]byte(args[2].String()), &embedding); err != nil {
			return errorResult("vector json: " + err.Error())
		}
	}

	results := scorer.Search(query, embedding, limit)
	bytes, _ := json.Marshal(results)
	return string(bytes)
}

// initVectors opens an IndexedDB-backed HNSW store and attaches it to the
// corpus scorer as its ANN candidate shortlist.
func initVectors(this js.Value, args []js.Value) interface{} {
	fs, err := indexeddb.NewFS(context.Background(), "tsrankctl", indexeddb.Options{})
	if err != nil {
		return errorResult("create idb fs: " + err.Error())
	}

	vectorStore, err = vector.NewStore(fs, "hnsw.bin")
	if err != nil {
		return errorResult("load vector store: " + err.Error())
	}
	scorer.SetANNIndex(vectorStore)

	return successResult("vector store initialized")
}

// addVector attaches an embedding to an already-indexed document.
// Args: [id string, vectorJSON string]
func addVector(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: id, vectorJSON")
	}

	id := args[0].String()
	var vec []float32
	if err := json.Unmarshal([]byte(args[1].String()), &vec); err != nil {
		return errorResult("vector json: " + err.Error())
	}

	meta, ok := scorer.DocumentIndex[id]
	if !ok {
		return errorResult("document not indexed: " + id)
	}
	meta.Embedding = vec
	scorer.DocumentIndex[id] = meta

	if vectorStore != nil {
		scorer.IndexDocument(id, meta, nil) // re-registers embedding with ANNIndex
	}

	if err := store.PutEmbedding(id, vec); err != nil {
		return errorResult("persist embedding: " + err.Error())
	}

	return successResult("vector added for " + id)
}

// searchVectorsJS exposes a raw ANN lookup (doc IDs only, no lexical score).
// Args: [vectorJSON string, k int]
func searchVectorsJS(this js.Value, args []js.Value) interface{} {
	if vectorStore == nil {
		return errorResult("vector store not initialized")
	}
	if len(args) < 2 {
		return errorResult("requires 2 args: vectorJSON, k")
	}

	var vec []float32
	if err := json.Unmarshal([]byte(args[0].String()), &vec); err != nil {
		return errorResult("vector json: " + err.Error())
	}
	k := args[1].Int()

	ids, err := vectorStore.Search(vec, k)
	if err != nil {
		return errorResult("search failed: " + err.Error())
	}
	bytes, _ := json.Marshal(ids)
	return string(bytes)
}

// saveVectors persists the HNSW index to IndexedDB.
func saveVectors(this js.Value, args []js.Value) interface{} {
	if vectorStore == nil {
		return errorResult("vector store not initialized")
	}
	if err := vectorStore.Save(); err != nil {
		return errorResult("save failed: " + err.Error())
	}
	return successResult("saved")
}

func errorResult(msg string) interface{} {
	result := map[string]interface{}{"error": msg}
	bytes, _ := json.Marshal(result)
	return string(bytes)
}

func successResult(msg string) interface{} {
	result := map[string]interface{}{"success": msg}
	bytes, _ := json.Marshal(result)
	return string(bytes)
}
