// Command tsrankctl is a small CLI around pkg/tsrank/pkg/corpusrank: it
// ingests documents into a SQLite corpus, parses a query string, and
// prints ranked results as a table.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:   "tsrankctl",
		Short: "Index and rank documents with pkg/tsrank",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "tsrankctl.db", "corpus database path")

	root.AddCommand(newIndexCmd(&dbPath))
	root.AddCommand(newQueryCmd(&dbPath))
	root.AddCommand(newRankCmd())

	return root
}
