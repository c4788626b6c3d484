package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commitcritic/commitcritic/core"
	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/internal/outwriter"
	"github.com/commitcritic/commitcritic/schema"
	"github.com/spf13/cobra"
)

// analyzeCmd scores recent commits against repository memory.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path]",
	Short: "Score recent commit messages.",
	Long: `Score the most recent commits in a repository with the oracle.

When the repository has been seeded, scoring is memory-aware: the oracle is
told the house style, common scopes, ticket patterns and the author's track
record, and judges each commit against them. Unseeded repositories get a
generic review.

Examples:
  # Score the last 10 commits
  commitcritic analyze

  # Score more history in another checkout
  commitcritic analyze ~/src/myrepo --commits 50

  # Machine-readable results
  commitcritic analyze --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		limit, _ := cmd.Flags().GetInt("commits")
		if err := runAnalyze(rootCtx, limit); err != nil {
			contract.LogFatal("Cannot analyze commits", err)
		}
	},
}

func runAnalyze(ctx context.Context, limit int) error {
	if limit <= 0 || limit > contract.MaxCommitLimit {
		return fmt.Errorf("commits must be greater than 0 and cannot exceed %d (received %d)", contract.MaxCommitLimit, limit)
	}

	commits, err := gitClient.ListCommits(ctx, cfg.RepoPath, limit)
	if err != nil {
		return fmt.Errorf("failed to list commits: %w", err)
	}
	if len(commits) == 0 {
		return fmt.Errorf("no commits found in %s", cfg.RepoPath)
	}

	client, err := newOracleClient()
	if err != nil {
		return err
	}
	analyzer := core.NewCommitAnalyzer(client)

	repo, store, seeded, err := lookupSeededRepo(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	start := time.Now()
	scored := make([]schema.ScoredCommit, 0, len(commits))
	collaborators := map[string]*schema.Collaborator{}
	for _, commit := range commits {
		var result schema.AnalysisResult
		if seeded {
			mem := buildMemoryContext(repo, authorProfile(store, repo.ID, commit.Author, collaborators))
			result, err = analyzer.AnalyzeCommitWithMemory(ctx, commit, mem)
		} else {
			result, err = analyzer.AnalyzeCommit(ctx, commit)
		}
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping commit %s", commit.ShortHash), err)
			continue
		}
		scored = append(scored, schema.ScoredCommit{Commit: commit, Result: result})
	}
	if len(scored) == 0 {
		return errors.New("the oracle failed to score any commits")
	}

	summary := core.SummarizeResults(scored)
	return outwriter.WriteAnalysisResults(scored, summary, cfg, time.Since(start))
}

// lookupSeededRepo finds the memory record for the current repository, by
// remote URL first and directory name second. A disabled backend or an
// unseeded repository is not an error; the caller falls back to memoryless
// analysis.
func lookupSeededRepo(ctx context.Context) (schema.Repository, contract.MemoryStore, bool, error) {
	if cfg.MemoryBackend == schema.NoneBackend {
		return schema.Repository{}, nil, false, nil
	}
	store, err := openMemoryStore()
	if err != nil {
		return schema.Repository{}, nil, false, err
	}

	if remote, err := gitClient.GetRemoteURL(ctx, cfg.RepoPath); err == nil && remote != "" {
		if repo, err := store.GetRepositoryByURL(remote); err == nil {
			return repo, store, true, nil
		} else if !errors.Is(err, contract.ErrNotFound) {
			_ = store.Close()
			return schema.Repository{}, nil, false, err
		}
	}

	repo, err := store.GetRepositoryByName(repoDisplayName())
	switch {
	case err == nil:
		return repo, store, true, nil
	case errors.Is(err, contract.ErrNotFound):
		return schema.Repository{}, store, false, nil
	default:
		_ = store.Close()
		return schema.Repository{}, nil, false, err
	}
}

// authorProfile fetches the collaborator row for an author, caching lookups
// across the batch. Unknown authors resolve to nil.
func authorProfile(store contract.MemoryStore, repoID int64, author string, cache map[string]*schema.Collaborator) *schema.Collaborator {
	if profile, ok := cache[author]; ok {
		return profile
	}
	collaborator, err := store.GetCollaboratorByName(repoID, author)
	if err != nil {
		cache[author] = nil
		return nil
	}
	cache[author] = &collaborator
	return &collaborator
}

// buildMemoryContext converts stored memory rows into prompt context.
func buildMemoryContext(repo schema.Repository, collaborator *schema.Collaborator) core.MemoryContext {
	mem := core.MemoryContext{
		StylePattern:  repo.StylePattern,
		UsesScopes:    repo.UsesScopes,
		CommonScopes:  repo.CommonScopes,
		TicketPattern: repo.TicketPattern,
	}
	if collaborator != nil {
		mem.AuthorCommitCount = collaborator.CommitCount
		mem.AuthorAvgScore = collaborator.AvgScore
		if collaborator.Trend != nil {
			trend := string(*collaborator.Trend)
			mem.AuthorTrend = &trend
		}
	}
	return mem
}
