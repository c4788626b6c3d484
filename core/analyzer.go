package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

// CommitAnalyzer scores commit messages through the chat oracle.
type CommitAnalyzer struct {
	chat contract.ChatClient
}

func NewCommitAnalyzer(chat contract.ChatClient) *CommitAnalyzer {
	return &CommitAnalyzer{chat: chat}
}

// AnalyzeCommit scores a single commit on the 1-10 scale.
func (a *CommitAnalyzer) AnalyzeCommit(ctx context.Context, commit schema.CommitInfo) (schema.AnalysisResult, error) {
	return a.analyze(ctx, commit, formatAnalyzerPrompt(commit))
}

// AnalyzeCommitWithMemory scores a commit with repository style and
// author history injected into the prompt.
func (a *CommitAnalyzer) AnalyzeCommitWithMemory(ctx context.Context, commit schema.CommitInfo, mem MemoryContext) (schema.AnalysisResult, error) {
	return a.analyze(ctx, commit, formatMemoryAnalyzerPrompt(commit, mem))
}

func (a *CommitAnalyzer) analyze(ctx context.Context, commit schema.CommitInfo, prompt string) (schema.AnalysisResult, error) {
	raw, err := a.chat.CompleteJSON(ctx, analyzerSystemPrompt, prompt)
	if err != nil {
		return schema.AnalysisResult{}, fmt.Errorf("analyze %s: %w", commit.ShortHash, err)
	}
	var result schema.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return schema.AnalysisResult{}, fmt.Errorf("analyze %s: bad response: %w", commit.ShortHash, err)
	}
	if result.Score < 1 {
		result.Score = 1
	}
	if result.Score > 10 {
		result.Score = 10
	}
	return result, nil
}

// SummarizeResults computes the aggregate statistics for a scored batch.
func SummarizeResults(scored []schema.ScoredCommit) schema.AnalysisSummary {
	summary := schema.AnalysisSummary{Count: len(scored)}
	if len(scored) == 0 {
		return summary
	}
	var total float64
	best, worst := scored[0], scored[0]
	for _, s := range scored {
		total += float64(s.Result.Score)
		if s.Result.Score > best.Result.Score {
			best = s
		}
		if s.Result.Score < worst.Result.Score {
			worst = s
		}
	}
	summary.AverageScore = total / float64(len(scored))
	summary.Best = best
	summary.Worst = worst
	return summary
}
