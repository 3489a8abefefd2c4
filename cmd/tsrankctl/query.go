package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/kittclouds/gokitt/internal/corpus"
	"github.com/kittclouds/gokitt/internal/tsquery"
	"github.com/kittclouds/gokitt/pkg/corpusrank"
	"github.com/kittclouds/gokitt/pkg/tsrank"
)

type queryResult struct {
	docID       string
	coreScore   float64
	corpusScore float64
}

func newQueryCmd(dbPath *string) *cobra.Command {
	var limit int
	var configPath string
	var rankCD bool

	cmd := &cobra.Command{
		Use:   "query [terms...]",
		Short: "Rank every corpus document against a query, using both pkg/tsrank and the corpus-level scorer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			tsq, err := tsquery.Parse(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("parse query: %w", err)
			}

			store, err := corpus.Open(*dbPath)
			if err != nil {
				return fmt.Errorf("open corpus: %w", err)
			}
			defer store.Close()

			ids, err := store.IDs()
			if err != nil {
				return fmt.Errorf("list corpus documents: %w", err)
			}

			scorer := corpusrank.NewCorpusScorer(corpusrank.DefaultConfig())
			scorer.CorpusStats.TotalDocuments = len(ids)

			terms := make([]string, len(args))
			for i, a := range args {
				terms[i] = strings.ToLower(a)
			}

			opts := []tsrank.Option{
				tsrank.WithWeights(cfg.weightTable()),
				tsrank.WithMethod(tsrank.NormFlag(cfg.Method)),
			}

			var results []queryResult
			for _, id := range ids {
				vec, err := store.Get(id)
				if err != nil {
					return fmt.Errorf("load document %s: %w", id, err)
				}

				var coreScore float64
				if rankCD {
					coreScore = tsrank.RankCD(vec, tsq, opts...)
				} else {
					coreScore = tsrank.Rank(vec, tsq, opts...)
				}

				indexDocumentForQuery(scorer, id, vec, terms)
				results = append(results, queryResult{docID: id, coreScore: coreScore})
			}

			corpusScores := make(map[string]float64, len(results))
			for _, r := range scorer.Search(terms, nil, 0) {
				corpusScores[r.DocID] = r.Score
			}
			for i := range results {
				results[i].corpusScore = corpusScores[results[i].docID]
			}

			sort.Slice(results, func(i, j int) bool {
				return results[i].coreScore > results[j].coreScore
			})
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			tbl := table.New("Document", "Rank", "CorpusRank")
			for _, r := range results {
				tbl.AddRow(r.docID, fmt.Sprintf("%.4f", r.coreScore), fmt.Sprintf("%.4f", r.corpusScore))
			}
			tbl.Print()

			slog.Info("query complete", "terms", terms, "results", len(results))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum results to print")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML weights/method config path")
	cmd.Flags().BoolVar(&rankCD, "cover-density", false, "use rank_cd instead of rank for the core score")
	return cmd
}

// indexDocumentForQuery registers one corpus document's term statistics
// with the corpus scorer, deriving BM25F class occurrences directly from
// the document's TSVector so `query` can run without a separate index
// step keeping per-term document frequencies.
func indexDocumentForQuery(s *corpusrank.CorpusScorer, id string, vec *tsrank.TSVector, query []string) {
	wanted := make(map[string]bool, len(query))
	for _, q := range query {
		wanted[q] = true
	}

	tokens := corpusrank.TokensFromVector(vec)
	for lexeme := range tokens {
		if !wanted[lexeme] {
			delete(tokens, lexeme)
		}
	}

	s.IndexDocument(id, corpusrank.DocumentMetadataFromVector(vec), tokens)
}
