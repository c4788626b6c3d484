package cmd

import (
	"context"
	"fmt"

	"github.com/commitcritic/commitcritic/core"
	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/internal/outwriter"
	"github.com/commitcritic/commitcritic/schema"
	"github.com/spf13/cobra"
)

// suggestCmd drafts a commit message for the staged changes.
var suggestCmd = &cobra.Command{
	Use:   "suggest [repo-path]",
	Short: "Draft a commit message for the staged changes.",
	Long: `Read the staged diff and ask the oracle to write a commit message for it.

When the repository has been seeded, the draft follows the house style and is
grounded on the most similar exemplary commits from memory. Unseeded
repositories get a style-neutral draft.

Examples:
  # Draft a message for whatever is staged
  git add -p && commitcritic suggest

  # Use the draft directly
  git commit -m "$(commitcritic suggest --output json | jq -r .suggestion.subject)"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runSuggest(rootCtx); err != nil {
			contract.LogFatal("Cannot suggest a commit message", err)
		}
	},
}

func runSuggest(ctx context.Context) error {
	diff, err := gitClient.StagedDiff(ctx, cfg.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to read staged changes: %w", err)
	}
	if diff == nil {
		fmt.Println("No staged changes to describe. Stage changes with 'git add' first.")
		return nil
	}

	client, err := newOracleClient()
	if err != nil {
		return err
	}
	writer := core.NewCommitWriter(client)

	repo, store, seeded, err := lookupSeededRepo(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	var suggestion schema.SuggestedCommit
	if seeded {
		exemplars := similarToDiff(ctx, store, client, repo.ID, *diff)
		mem := buildMemoryContext(repo, nil)
		suggestion, err = writer.SuggestCommitWithMemory(ctx, *diff, mem, exemplars)
	} else {
		suggestion, err = writer.SuggestCommit(ctx, *diff)
	}
	if err != nil {
		return err
	}

	return outwriter.WriteSuggestion(suggestion, diff, cfg)
}

// similarToDiff embeds the staged diff and pulls the closest exemplars from
// memory. Embedding failures degrade to an empty few-shot set rather than
// aborting the suggestion.
func similarToDiff(ctx context.Context, store contract.MemoryStore, embed contract.EmbeddingClient, repoID int64, diff schema.DiffInfo) []schema.SimilarExemplar {
	vector, err := core.NewEmbeddingGenerator(embed).Generate(ctx, core.FormatDiffForEmbedding(diff))
	if err != nil {
		contract.LogWarn("Similarity search unavailable", err)
		return nil
	}
	matches, err := store.FindSimilarExemplars(repoID, vector, cfg.SimilarLimit)
	if err != nil {
		contract.LogWarn("Similarity search unavailable", err)
		return nil
	}
	return matches
}
