package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitcritic/commitcritic/schema"
)

func TestExtractAntipatternsWipChain(t *testing.T) {
	commits := []schema.CommitInfo{
		commit("a1000000", "Bob", "WIP"),
		commit("a2000000", "Bob", "WIP again"),
		commit("a3000000", "Bob", "wip: still going"),
		commit("a4000000", "Bob", "WIP final"),
		commit("a5000000", "Bob", "WIP"),
	}

	found := ExtractAntipatterns(commits)
	require.Contains(t, found, "Bob")

	var chain *DetectedAntipattern
	for i := range found["Bob"] {
		if found["Bob"][i].Type == schema.WipChain {
			chain = &found["Bob"][i]
		}
	}
	require.NotNil(t, chain)
	assert.Equal(t, 5, chain.Count)
	assert.Equal(t, "WIP", chain.Example) // message ending the longest run
}

func TestFindWipChainBrokenRun(t *testing.T) {
	commits := []schema.CommitInfo{
		commit("a1000000", "Bob", "WIP"),
		commit("a2000000", "Bob", "WIP"),
		commit("a3000000", "Bob", "feat: real work"),
		commit("a4000000", "Bob", "WIP"),
	}

	example, count := findWipChain(commits)
	assert.Equal(t, 2, count)
	assert.Equal(t, "WIP", example)
}

func TestExtractAntipatternsOneWordAndVague(t *testing.T) {
	commits := []schema.CommitInfo{
		commit("b1000000", "Carol", "fix"),
		commit("b2000000", "Carol", "update"),
		commit("b3000000", "Carol", "stuff"),
		commit("b4000000", "Carol", "feat(api): add pagination"),
	}

	found := ExtractAntipatterns(commits)
	require.Contains(t, found, "Carol")

	types := make(map[schema.AntipatternType]DetectedAntipattern)
	for _, ap := range found["Carol"] {
		types[ap.Type] = ap
	}

	require.Contains(t, types, schema.OneWord)
	assert.Equal(t, 3, types[schema.OneWord].Count)
	assert.Equal(t, "fix", types[schema.OneWord].Example)

	require.Contains(t, types, schema.Vague)
	assert.Equal(t, 3, types[schema.Vague].Count)
}

func TestExtractAntipatternsCleanAuthorAbsent(t *testing.T) {
	commits := []schema.CommitInfo{
		commit("c1000000", "Dave", "feat(ui): add dark mode toggle"),
		commit("c2000000", "Dave", "fix(api): return 404 for missing users"),
	}

	found := ExtractAntipatterns(commits)
	assert.NotContains(t, found, "Dave")
}

func TestCountVagueMatchesWholeMessageOnly(t *testing.T) {
	_, count := countVague([]schema.CommitInfo{
		commit("d1000000", "Eve", "fix the login redirect loop"),
		commit("d2000000", "Eve", "Fixed Bug"),
		commit("d3000000", "Eve", "..."),
		commit("d4000000", "Eve", "asdfff"),
	})
	assert.Equal(t, 3, count)
}
