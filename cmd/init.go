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

// initCmd seeds repository memory from commit history.
var initCmd = &cobra.Command{
	Use:   "init [repo-path]",
	Short: "Seed repository memory from commit history.",
	Long: `Build durable memory for a repository by reading its commit history.

The seeding pipeline runs eight phases:
1. Locate the Git repository
2. Extract the commit list
3. Analyze codebase DNA (languages, frameworks, project type)
4. Detect the commit message style
5. Score every commit with the oracle
6. Curate high-scoring commits as exemplars
7. Profile contributors (with optional roast detection)
8. Compare the average score against similar projects

Seeding the same repository again replaces its previous memory.

Examples:
  # Seed from the last 100 commits (default)
  commitcritic init

  # Seed a specific checkout with more history
  commitcritic init ~/src/myrepo --commits 500

  # Skip the playful phases
  commitcritic init --no-roasts --no-market`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runInit(rootCtx); err != nil {
			contract.LogFatal("Cannot seed repository memory", err)
		}
	},
}

func runInit(ctx context.Context) error {
	store, err := openMemoryStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newOracleClient()
	if err != nil {
		return err
	}

	printer := outwriter.NewSeedProgressPrinter(cfg)
	emit := func(phase int, status schema.SeedStatus, message string, detail *string) {
		printer(schema.SeedingProgress{
			Phase:     phase,
			PhaseName: schema.PhaseNames[phase],
			Status:    status,
			Message:   message,
			Detail:    detail,
		})
	}

	// Phase 1: locate the repository. sharedSetup already resolved the root,
	// so this phase only reports it and picks up the remote identity.
	emit(schema.PhaseLocate, schema.SeedStarted, "Locating repository...", nil)
	remote, err := gitClient.GetRemoteURL(ctx, cfg.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to read remote URL: %w", err)
	}
	repoPath := cfg.RepoPath
	emit(schema.PhaseLocate, schema.SeedDone, "Done", &repoPath)

	// Phase 2: extract the commit list.
	emit(schema.PhaseExtract, schema.SeedStarted, "Extracting commits...", nil)
	commits, err := gitClient.ListCommits(ctx, cfg.RepoPath, cfg.CommitLimit)
	if err != nil {
		return fmt.Errorf("failed to list commits: %w", err)
	}
	if len(commits) == 0 {
		return fmt.Errorf("no commits found in %s", cfg.RepoPath)
	}
	commitDetail := fmt.Sprintf("Found %d commits", len(commits))
	emit(schema.PhaseExtract, schema.SeedDone, "Done", &commitDetail)

	var repoURL *string
	if remote != "" {
		repoURL = &remote
	}

	seeder := core.NewMemorySeeder(store, client, client, cfg.Threshold, printer)
	result, err := seeder.Seed(ctx, commits, core.SeedOptions{
		RepoName:      repoDisplayName(),
		RepoURL:       repoURL,
		RepoPath:      cfg.RepoPath,
		IncludeRoasts: cfg.Roasts,
		IncludeMarket: cfg.Market,
	})
	if err != nil {
		return err
	}

	// Compare is deterministic, so recomputing here matches the stored position.
	var market *schema.MarketPosition
	if result.HasMarket && result.AverageScore != nil {
		repo, err := store.GetRepository(result.RepoID)
		if err != nil {
			return fmt.Errorf("failed to read seeded repository: %w", err)
		}
		pos := core.NewMarketComparator().Compare(repo.ProjectType, *result.AverageScore)
		market = &pos
	}

	return outwriter.WriteSeedingResult(result, market, cfg)
}
