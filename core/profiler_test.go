package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitcritic/commitcritic/schema"
)

func TestDetectAreas(t *testing.T) {
	commits := []schema.CommitInfo{
		commit("a1000000", "Alice", "feat: one", "internal/auth/login.go", "internal/auth/token.go"),
		commit("a2000000", "Alice", "feat: two", "internal/auth/session.go", "docs/readme.md"),
		commit("a3000000", "Alice", "feat: three", "main.go"),
	}

	areas := DetectAreas(commits, 5)
	assert.Equal(t, []string{"internal/auth", "docs/readme.md", "main.go"}, areas)
}

func TestDetectAreasLimit(t *testing.T) {
	commits := []schema.CommitInfo{
		commit("b1000000", "Alice", "x", "a/1.go", "b/2.go", "c/3.go", "d/4.go"),
	}

	areas := DetectAreas(commits, 2)
	assert.Len(t, areas, 2)
}

func TestDetectRoastPatterns(t *testing.T) {
	var commits []schema.CommitInfo
	for _, msg := range []string{"WIP", "wip 2", "WIP 3", "more wip", "wip again", "fix", "fix", "fix", "feat: actual work"} {
		commits = append(commits, commit("c1000000", "Bob", msg))
	}

	patterns := DetectRoastPatterns(commits)
	require.Len(t, patterns, 3)
	assert.Equal(t, "5 WIP commits", patterns[0])
	assert.Equal(t, `3 commits called just "fix"`, patterns[1])
	assert.Equal(t, `Once wrote: "WIP"`, patterns[2])
}

func TestDetectRoastPatternsCounts(t *testing.T) {
	var commits []schema.CommitInfo
	for i := 0; i < 5; i++ {
		commits = append(commits, commit("d1000000", "Bob", "wip"))
	}
	for i := 0; i < 3; i++ {
		commits = append(commits, commit("d2000000", "Bob", "fixed"))
	}

	patterns := DetectRoastPatterns(commits)
	require.Len(t, patterns, 3)
	assert.Equal(t, "5 WIP commits", patterns[0])
	assert.Equal(t, "Champion of one-word commits (8 total)", patterns[1])
	assert.Equal(t, `3 commits called just "fix"`, patterns[2])
}

func TestCalculateTrend(t *testing.T) {
	cases := []struct {
		name   string
		scores []int
		want   *schema.ScoreTrend
	}{
		{name: "too few scores", scores: []int{9, 9, 9, 9}, want: nil},
		{name: "improving", scores: []int{9, 9, 8, 5, 5, 5}, want: trendPtr(schema.ImprovingTrend)},
		{name: "declining", scores: []int{4, 4, 4, 8, 8, 8}, want: trendPtr(schema.DecliningTrend)},
		{name: "stable", scores: []int{7, 7, 7, 7, 7}, want: trendPtr(schema.StableTrend)},
		{name: "within band", scores: []int{8, 8, 8, 8, 7, 8}, want: trendPtr(schema.StableTrend)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateTrend(tc.scores)
			if tc.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tc.want, *got)
			}
		})
	}
}

func trendPtr(t schema.ScoreTrend) *schema.ScoreTrend { return &t }

func TestBuildProfile(t *testing.T) {
	chat := &fakeChat{textResponse: "Owns the auth stack"}
	profiler := NewCollaboratorProfiler(chat)

	commits := []schema.CommitInfo{
		commit("e1000000", "Alice", "feat(auth): add login", "internal/auth/login.go"),
		commit("e2000000", "Alice", "feat(auth): add logout", "internal/auth/logout.go"),
	}

	insight := profiler.BuildProfile(context.Background(), "Alice", commits, []int{9, 8})

	assert.Equal(t, "Alice", insight.Name)
	assert.Equal(t, 2, insight.CommitCount)
	require.NotNil(t, insight.AvgScore)
	assert.InDelta(t, 8.5, *insight.AvgScore, 0.001)
	assert.Equal(t, []string{"internal/auth"}, insight.PrimaryAreas)
	require.NotNil(t, insight.AreaSummary)
	assert.Equal(t, "Owns the auth stack", *insight.AreaSummary)
	assert.Nil(t, insight.Trend) // only two scores
}

func TestBuildProfileOracleFailure(t *testing.T) {
	chat := &fakeChat{err: errors.New("oracle down")}
	profiler := NewCollaboratorProfiler(chat)

	commits := []schema.CommitInfo{
		commit("f1000000", "Alice", "feat: x", "pkg/a.go"),
	}

	insight := profiler.BuildProfile(context.Background(), "Alice", commits, nil)

	assert.Nil(t, insight.AreaSummary)
	assert.Nil(t, insight.AvgScore)
}
