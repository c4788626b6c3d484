package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitcritic/commitcritic/schema"
)

func TestAnalyzeCommit(t *testing.T) {
	chat := &fakeChat{jsonResponse: `{"score": 9, "feedback": "clear and scoped", "suggestion": null}`}
	analyzer := NewCommitAnalyzer(chat)

	result, err := analyzer.AnalyzeCommit(context.Background(), commit("a1000000", "Alice", "feat(auth): add login", "auth.go"))
	require.NoError(t, err)

	assert.Equal(t, 9, result.Score)
	assert.Equal(t, "clear and scoped", result.Feedback)
	assert.Nil(t, result.Suggestion)
	assert.Contains(t, chat.lastUser, `"feat(auth): add login"`)
	assert.Contains(t, chat.lastUser, "1 (auth.go)")
}

func TestAnalyzeCommitClampsScore(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     int
	}{
		{name: "above range", response: `{"score": 15, "feedback": "x"}`, want: 10},
		{name: "below range", response: `{"score": 0, "feedback": "x"}`, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := NewCommitAnalyzer(&fakeChat{jsonResponse: tc.response})
			result, err := analyzer.AnalyzeCommit(context.Background(), commit("b1000000", "Alice", "fix"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Score)
		})
	}
}

func TestAnalyzeCommitErrors(t *testing.T) {
	t.Run("oracle failure", func(t *testing.T) {
		analyzer := NewCommitAnalyzer(&fakeChat{err: errors.New("timeout")})
		_, err := analyzer.AnalyzeCommit(context.Background(), commit("c1000000", "Alice", "fix"))
		assert.Error(t, err)
	})

	t.Run("malformed response", func(t *testing.T) {
		analyzer := NewCommitAnalyzer(&fakeChat{jsonResponse: "not json"})
		_, err := analyzer.AnalyzeCommit(context.Background(), commit("c2000000", "Alice", "fix"))
		assert.Error(t, err)
	})
}

func TestAnalyzeCommitWithMemory(t *testing.T) {
	chat := &fakeChat{jsonResponse: `{"score": 7, "feedback": "ok"}`}
	analyzer := NewCommitAnalyzer(chat)

	avg := 6.5
	trend := "declining"
	mem := MemoryContext{
		StylePattern:      schema.ConventionalStyle,
		UsesScopes:        true,
		CommonScopes:      []string{"auth", "api"},
		AuthorCommitCount: 42,
		AuthorAvgScore:    &avg,
		AuthorTrend:       &trend,
	}

	_, err := analyzer.AnalyzeCommitWithMemory(context.Background(), commit("d1000000", "Bob", "fix: thing"), mem)
	require.NoError(t, err)

	assert.Contains(t, chat.lastUser, "Pattern: conventional")
	assert.Contains(t, chat.lastUser, "Uses scopes: auth, api")
	assert.Contains(t, chat.lastUser, "Average score: 6.5/10")
	assert.Contains(t, chat.lastUser, "Trend: declining")
}

func TestSummarizeResults(t *testing.T) {
	scored := []schema.ScoredCommit{
		{Commit: commit("e1000000", "Alice", "feat: a"), Result: schema.AnalysisResult{Score: 9}},
		{Commit: commit("e2000000", "Alice", "fix"), Result: schema.AnalysisResult{Score: 2}},
		{Commit: commit("e3000000", "Alice", "docs: b"), Result: schema.AnalysisResult{Score: 7}},
	}

	summary := SummarizeResults(scored)

	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 6.0, summary.AverageScore, 0.001)
	assert.Equal(t, "e100000", summary.Best.Commit.ShortHash)
	assert.Equal(t, "e200000", summary.Worst.Commit.ShortHash)
}

func TestSummarizeResultsEmpty(t *testing.T) {
	summary := SummarizeResults(nil)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.AverageScore)
}
