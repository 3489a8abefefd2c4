package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kittclouds/gokitt/internal/corpus"
	"github.com/kittclouds/gokitt/internal/tsvector"
	"github.com/kittclouds/gokitt/pkg/tsrank"
)

func newIndexCmd(dbPath *string) *cobra.Command {
	var phrases []string

	cmd := &cobra.Command{
		Use:   "index [files...]",
		Short: "Tokenize files and add them to the corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := corpus.Open(*dbPath)
			if err != nil {
				return fmt.Errorf("open corpus: %w", err)
			}
			defer store.Close()

			var tok *tsvector.Tokenizer
			if len(phrases) > 0 {
				normalized := make([]string, len(phrases))
				for i, p := range phrases {
					normalized[i] = strings.ToLower(strings.TrimSpace(p))
				}
				tok = tsvector.NewTokenizerWithPhrases(nil, normalized)
			} else {
				tok = tsvector.NewTokenizer(nil)
			}
			now := time.Now().Unix()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}

				vec := tok.Build([]tsvector.Field{
					{Name: "body", Text: string(data), Class: tsrank.WeightD},
				})

				id := filepath.Base(path)
				if err := store.Put(id, vec, now); err != nil {
					return fmt.Errorf("index %s: %w", path, err)
				}
				slog.Info("indexed document", "id", id, "lexemes", vec.Size())
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&phrases, "phrases", nil, "literal multi-word phrases to also index as single compound lexemes")
	return cmd
}
