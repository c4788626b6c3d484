package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/commitcritic/commitcritic/core"
	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/internal/outwriter"
	"github.com/spf13/cobra"
)

// searchCmd finds stored exemplars similar to a query.
var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find exemplary commits similar to a description.",
	Long: `Search the repository's exemplar memory by meaning rather than keywords.

The query text is embedded and compared against every stored exemplar by
cosine similarity, so "fix the login timeout" finds auth fixes even when no
word matches.

Examples:
  # What do good auth commits look like here?
  commitcritic search "authentication bug fix"

  # Widen the net
  commitcritic search "refactor the config layer" --limit 10`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional args are the query, not a repo path.
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := runSearch(rootCtx, strings.Join(args, " ")); err != nil {
			contract.LogFatal("Cannot search exemplars", err)
		}
	},
}

func runSearch(ctx context.Context, query string) error {
	repo, store, seeded, err := lookupSeededRepo(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("search needs a memory backend; rerun without --memory-backend=none")
	}
	defer func() { _ = store.Close() }()
	if !seeded {
		return fmt.Errorf("repository %q has not been seeded; run 'commitcritic init' first", repoDisplayName())
	}

	client, err := newOracleClient()
	if err != nil {
		return err
	}
	vector, err := core.NewEmbeddingGenerator(client).Generate(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := store.FindSimilarExemplars(repo.ID, vector, cfg.SimilarLimit)
	if err != nil {
		return fmt.Errorf("failed to search exemplars: %w", err)
	}
	return outwriter.WriteSimilarExemplars(matches, cfg)
}
