package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kittclouds/gokitt/internal/tsquery"
	"github.com/kittclouds/gokitt/internal/tsvector"
	"github.com/kittclouds/gokitt/pkg/tsrank"
)

func newRankCmd() *cobra.Command {
	var configPath string
	var rankCD bool

	cmd := &cobra.Command{
		Use:   "rank <text> <query>",
		Short: "Score a single piece of text against a query with pkg/tsrank, no corpus involved",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			text, queryStr := args[0], args[1]

			tsq, err := tsquery.Parse(queryStr)
			if err != nil {
				return fmt.Errorf("parse query: %w", err)
			}

			tok := tsvector.NewTokenizer(nil)
			vec := tok.Build([]tsvector.Field{{Name: "body", Text: text, Class: tsrank.WeightD}})

			opts := []tsrank.Option{
				tsrank.WithWeights(cfg.weightTable()),
				tsrank.WithMethod(tsrank.NormFlag(cfg.Method)),
			}

			var score float64
			if rankCD {
				score = tsrank.RankCD(vec, tsq, opts...)
			} else {
				score = tsrank.Rank(vec, tsq, opts...)
			}

			fmt.Printf("%.6f\n", score)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML weights/method config path")
	cmd.Flags().BoolVar(&rankCD, "cover-density", false, "use rank_cd instead of rank")
	return cmd
}
