package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commitcritic/commitcritic/schema"
)

func TestCompareCLITool(t *testing.T) {
	comparator := NewMarketComparator()

	position := comparator.Compare(schema.CLITool, 8.0)

	assert.Equal(t, []string{"typer", "click", "rich", "httpie"}, position.ComparisonRepos)
	assert.Equal(t, []string{"click", "httpie"}, position.BetterThan)
	assert.Equal(t, []string{"typer", "rich"}, position.WorseThan)
	// 8.0 beats 7.8 and 7.6 out of {8.2, 7.8, 8.5, 7.6, 8.0}.
	assert.InDelta(t, 40.0, position.IndustryPercentile, 0.001)
	assert.Equal(t, "Typer commits use conventional format consistently.", position.Tip)
}

func TestCompareUnknownTypeUsesDefaults(t *testing.T) {
	comparator := NewMarketComparator()

	position := comparator.Compare(schema.UnknownType, 9.0)

	assert.Equal(t, []string{"linux", "git", "vscode"}, position.ComparisonRepos)
	assert.Equal(t, []string{"linux", "git", "vscode"}, position.BetterThan)
	assert.Empty(t, position.WorseThan)
	assert.Equal(t, "Your commit quality is top-tier! Keep it up.", position.Tip)
	assert.InDelta(t, 75.0, position.IndustryPercentile, 0.001)
}

func TestCompareTipFallback(t *testing.T) {
	comparator := NewMarketComparator()

	// Worse than every web-app reference; nextjs has no dedicated tip.
	position := comparator.Compare(schema.WebApp, 3.0)

	assert.Equal(t, "Study nextjs's commit style for inspiration.", position.Tip)
	assert.InDelta(t, 0.0, position.IndustryPercentile, 0.001)
}

func TestGenerateTipKnownReference(t *testing.T) {
	tip := generateTip([]string{"fastapi", "django"})
	assert.Equal(t, "FastAPI uses scopes like feat(router): - try it!", tip)
}
