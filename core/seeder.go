package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

// ProgressCallback receives progress events while seeding runs.
type ProgressCallback func(schema.SeedingProgress)

// SeedOptions configures a single seeding run. Phases 1 and 2 happen in the
// caller, so the commit list arrives already extracted.
type SeedOptions struct {
	RepoName      string
	RepoURL       *string
	RepoPath      string
	IncludeRoasts bool
	IncludeMarket bool
}

// MemorySeeder orchestrates phases 3 through 8 of the init pipeline:
// codebase DNA, commit style, per-commit scoring, exemplar curation,
// contributor profiling and the optional market comparison.
type MemorySeeder struct {
	store      contract.MemoryStore
	analyzer   *CommitAnalyzer
	dna        *DNAExtractor
	embedder   *EmbeddingGenerator
	comparator *MarketComparator
	threshold  float64
	onProgress ProgressCallback
}

func NewMemorySeeder(store contract.MemoryStore, chat contract.ChatClient, embed contract.EmbeddingClient, threshold float64, onProgress ProgressCallback) *MemorySeeder {
	return &MemorySeeder{
		store:      store,
		analyzer:   NewCommitAnalyzer(chat),
		dna:        NewDNAExtractor(chat),
		embedder:   NewEmbeddingGenerator(embed),
		comparator: NewMarketComparator(),
		threshold:  threshold,
		onProgress: onProgress,
	}
}

func (s *MemorySeeder) emit(phase int, status schema.SeedStatus, message string, detail *string, percent *float64) {
	if s.onProgress == nil {
		return
	}
	s.onProgress(schema.SeedingProgress{
		Phase:     phase,
		PhaseName: schema.PhaseNames[phase],
		Status:    status,
		Message:   message,
		Detail:    detail,
		Percent:   percent,
	})
}

func strPtr(s string) *string { return &s }

// Seed runs the pipeline over the given commits. Seeding the same repository
// name again deletes the previous memory first, so a run is always a full
// refresh rather than a merge.
func (s *MemorySeeder) Seed(ctx context.Context, commits []schema.CommitInfo, opts SeedOptions) (schema.SeedingResult, error) {
	existing, err := s.store.GetRepositoryByName(opts.RepoName)
	switch {
	case err == nil:
		if err := s.store.DeleteRepository(existing.ID); err != nil {
			return schema.SeedingResult{}, fmt.Errorf("reseed %s: %w", opts.RepoName, err)
		}
	case errors.Is(err, contract.ErrNotFound):
	default:
		return schema.SeedingResult{}, fmt.Errorf("look up %s: %w", opts.RepoName, err)
	}

	// Phase 3: codebase DNA.
	s.emit(schema.PhaseDNA, schema.SeedStarted, "Analyzing codebase DNA...", nil, nil)
	dna := s.dna.ExtractDNA(ctx, commits, opts.RepoPath)
	primary := dna.PrimaryLanguage
	if primary == "" {
		primary = "Unknown"
	}
	s.emit(schema.PhaseDNA, schema.SeedDone, "Done",
		strPtr(fmt.Sprintf("Primary: %s | Type: %s", primary, dna.ProjectType)), nil)

	// Phase 4: commit style.
	s.emit(schema.PhaseStyle, schema.SeedStarted, "Detecting commit style...", nil, nil)
	style := ExtractStyle(commits)
	styleDetail := fmt.Sprintf("Pattern: %s", style.Pattern)
	if style.UsesScopes {
		scopes := style.CommonScopes
		if len(scopes) > 5 {
			scopes = scopes[:5]
		}
		styleDetail += " | Scopes: " + strings.Join(scopes, ", ")
	}
	s.emit(schema.PhaseStyle, schema.SeedDone, "Done", &styleDetail, nil)

	repo, err := s.store.CreateRepository(schema.RepositoryCreate{
		URL:   opts.RepoURL,
		Name:  opts.RepoName,
		DNA:   dna,
		Style: style,
	})
	if err != nil {
		return schema.SeedingResult{}, fmt.Errorf("create repository %s: %w", opts.RepoName, err)
	}

	// Phase 5: score every commit.
	s.emit(schema.PhaseAnalyze, schema.SeedStarted, "Analyzing commits...", nil, nil)
	scored := s.analyzeCommits(ctx, commits)
	var avgScore *float64
	if len(scored) > 0 {
		avg := SummarizeResults(scored).AverageScore
		avgScore = &avg
	}
	avgDetail := "No commits scored"
	if avgScore != nil {
		avgDetail = fmt.Sprintf("Average: %.1f/10", *avgScore)
	}
	s.emit(schema.PhaseAnalyze, schema.SeedDone, "Done", &avgDetail, nil)

	// Phase 6: curate exemplars.
	s.emit(schema.PhaseExemplars, schema.SeedStarted, "Extracting exemplars...", nil, nil)
	exemplarCount, err := s.extractExemplars(ctx, scored, repo.ID)
	if err != nil {
		return schema.SeedingResult{}, fmt.Errorf("extract exemplars: %w", err)
	}
	s.emit(schema.PhaseExemplars, schema.SeedDone, "Done",
		strPtr(fmt.Sprintf("Found %d exemplary commits (score >= %.0f)", exemplarCount, s.threshold)), nil)

	// Phase 7: profile contributors.
	s.emit(schema.PhaseContributors, schema.SeedStarted, "Profiling contributors...", nil, nil)
	collaboratorCount, hasRoasts, err := s.profileContributors(commits, scored, repo.ID, opts.IncludeRoasts)
	if err != nil {
		return schema.SeedingResult{}, fmt.Errorf("profile contributors: %w", err)
	}
	s.emit(schema.PhaseContributors, schema.SeedDone, "Done",
		strPtr(fmt.Sprintf("Profiled %d contributors", collaboratorCount)), nil)

	antipatterns, err := s.store.ListAntipatterns(repo.ID)
	if err != nil {
		return schema.SeedingResult{}, fmt.Errorf("count antipatterns: %w", err)
	}

	// Phase 8: market comparison.
	hasMarket := false
	if opts.IncludeMarket && avgScore != nil {
		s.emit(schema.PhaseMarket, schema.SeedStarted, "Comparing to similar projects...", nil, nil)
		market := s.comparator.Compare(dna.ProjectType, *avgScore)
		if err := s.store.UpdateRepositoryMarket(repo.ID, market); err != nil {
			return schema.SeedingResult{}, fmt.Errorf("store market position: %w", err)
		}
		hasMarket = true
		s.emit(schema.PhaseMarket, schema.SeedDone, "Done",
			strPtr(fmt.Sprintf("Top %.0f%% of %s projects", 100-market.IndustryPercentile, dna.ProjectType)), nil)
	}

	return schema.SeedingResult{
		RepoID:            repo.ID,
		RepoName:          opts.RepoName,
		CommitCount:       len(commits),
		ScoredCount:       len(scored),
		AverageScore:      avgScore,
		ExemplarCount:     exemplarCount,
		CollaboratorCount: collaboratorCount,
		AntipatternCount:  len(antipatterns),
		HasRoasts:         hasRoasts,
		HasMarket:         hasMarket,
	}, nil
}

// analyzeCommits scores each commit in turn. A commit whose analysis fails
// is skipped so one flaky oracle call cannot take down the whole run.
func (s *MemorySeeder) analyzeCommits(ctx context.Context, commits []schema.CommitInfo) []schema.ScoredCommit {
	scored := make([]schema.ScoredCommit, 0, len(commits))
	total := len(commits)
	for i, commit := range commits {
		percent := float64(i+1) / float64(total) * 100
		subject := commit.Subject()
		if len(subject) > 50 {
			subject = subject[:50] + "..."
		}
		s.emit(schema.PhaseAnalyze, schema.SeedProgress,
			fmt.Sprintf("[%d/%d] %s", i+1, total, subject), nil, &percent)

		result, err := s.analyzer.AnalyzeCommit(ctx, commit)
		if err != nil {
			continue
		}
		scored = append(scored, schema.ScoredCommit{Commit: commit, Result: result})
	}
	return scored
}

// extractExemplars persists every commit at or above the score threshold,
// embedding all of them in one batched call.
func (s *MemorySeeder) extractExemplars(ctx context.Context, scored []schema.ScoredCommit, repoID int64) (int, error) {
	var exemplars []schema.ScoredCommit
	for _, sc := range scored {
		if float64(sc.Result.Score) >= s.threshold {
			exemplars = append(exemplars, sc)
		}
	}
	if len(exemplars) == 0 {
		return 0, nil
	}

	texts := make([]string, len(exemplars))
	for i, ex := range exemplars {
		commitType, scope, _ := ParseConventionalCommit(ex.Commit.Message)
		texts[i] = FormatCommitForEmbedding(ex.Commit.Message, commitType, scope, ex.Commit.FilesChanged)
	}
	embeddings, err := s.embedder.GenerateBatch(ctx, texts)
	if err != nil {
		return 0, err
	}

	for i, ex := range exemplars {
		commitType, scope, _ := ParseConventionalCommit(ex.Commit.Message)
		_, err := s.store.CreateExemplar(schema.ExemplarCreate{
			RepoID:     repoID,
			CommitHash: ex.Commit.Hash,
			Message:    ex.Commit.Message,
			Score:      float64(ex.Result.Score),
			CommitType: commitType,
			Scope:      scope,
			Embedding:  embeddings[i],
		})
		if err != nil {
			return 0, fmt.Errorf("exemplar %s: %w", ex.Commit.ShortHash, err)
		}
	}
	return len(exemplars), nil
}

// profileContributors groups the full commit list by author and writes one
// collaborator row per author, plus antipattern rows when roasts are on.
// Authors whose commits all failed scoring still get a row, with a nil
// average.
func (s *MemorySeeder) profileContributors(commits []schema.CommitInfo, scored []schema.ScoredCommit, repoID int64, includeRoasts bool) (int, bool, error) {
	var authors []string
	commitsByAuthor := make(map[string][]schema.CommitInfo)
	for _, c := range commits {
		if _, seen := commitsByAuthor[c.Author]; !seen {
			authors = append(authors, c.Author)
		}
		commitsByAuthor[c.Author] = append(commitsByAuthor[c.Author], c)
	}

	scoreByHash := make(map[string]int, len(scored))
	for _, sc := range scored {
		scoreByHash[sc.Commit.Hash] = sc.Result.Score
	}

	var antipatternsByAuthor map[string][]DetectedAntipattern
	if includeRoasts {
		antipatternsByAuthor = ExtractAntipatterns(commits)
	}

	hasRoasts := false
	for _, author := range authors {
		authorCommits := commitsByAuthor[author]

		var scores []int
		for _, c := range authorCommits {
			if score, ok := scoreByHash[c.Hash]; ok {
				scores = append(scores, score)
			}
		}
		var avgScore *float64
		if len(scores) > 0 {
			var total int
			for _, score := range scores {
				total += score
			}
			avg := float64(total) / float64(len(scores))
			avgScore = &avg
		}

		var roastLines []string
		detected := antipatternsByAuthor[author]
		for _, ap := range detected {
			roastLines = append(roastLines, fmt.Sprintf("%dx %s: '%s'", ap.Count, ap.Type, ap.Example))
		}
		if len(roastLines) > 0 {
			hasRoasts = true
		}

		collaborator, err := s.store.CreateCollaborator(schema.CollaboratorCreate{
			RepoID:       repoID,
			Name:         author,
			CommitCount:  len(authorCommits),
			AvgScore:     avgScore,
			PrimaryAreas: DetectAreas(authorCommits, maxSeedAreas),
			RoastLines:   roastLines,
			Trend:        CalculateTrend(scores),
		})
		if err != nil {
			return 0, false, fmt.Errorf("collaborator %s: %w", author, err)
		}

		for _, ap := range detected {
			_, err := s.store.CreateAntipattern(schema.AntipatternCreate{
				RepoID:         repoID,
				CollaboratorID: &collaborator.ID,
				PatternType:    ap.Type,
				ExampleMessage: ap.Example,
				Frequency:      ap.Count,
			})
			if err != nil {
				return 0, false, fmt.Errorf("antipattern for %s: %w", author, err)
			}
		}
	}
	return len(authors), hasRoasts, nil
}
