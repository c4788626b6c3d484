package core

import (
	"fmt"
	"sort"

	"github.com/commitcritic/commitcritic/schema"
)

// referenceRepo is a well-known project with a benchmarked commit score.
type referenceRepo struct {
	Name  string
	Score float64
}

var referenceRepos = map[schema.ProjectType][]referenceRepo{
	schema.WebFramework: {
		{"fastapi", 8.4},
		{"django", 8.1},
		{"flask", 7.9},
		{"express", 7.5},
	},
	schema.CLITool: {
		{"typer", 8.2},
		{"click", 7.8},
		{"rich", 8.5},
		{"httpie", 7.6},
	},
	schema.Library: {
		{"requests", 8.0},
		{"numpy", 7.5},
		{"pandas", 7.3},
		{"pydantic", 8.3},
	},
	schema.APIService: {
		{"fastapi", 8.4},
		{"strapi", 7.2},
		{"hasura", 7.5},
	},
	schema.WebApp: {
		{"nextjs", 7.8},
		{"remix", 8.0},
		{"nuxt", 7.6},
	},
	schema.DataPipeline: {
		{"airflow", 7.4},
		{"prefect", 7.8},
		{"dagster", 7.9},
	},
	schema.MobileApp: {
		{"expo", 7.5},
		{"react-native", 7.2},
	},
}

// defaultReferenceRepos backs project types without a dedicated list.
var defaultReferenceRepos = []referenceRepo{
	{"linux", 8.0},
	{"git", 8.5},
	{"vscode", 7.8},
}

var referenceTips = map[string]string{
	"fastapi":  "FastAPI uses scopes like feat(router): - try it!",
	"django":   "Django commits are detailed and reference issues.",
	"flask":    "Flask commits explain the 'why' clearly.",
	"typer":    "Typer commits use conventional format consistently.",
	"rich":     "Rich commits are concise but descriptive.",
	"pydantic": "Pydantic commits reference the affected API.",
	"requests": "requests commits are brief but complete.",
}

// MarketComparator positions a repository's average score against
// reference projects of the same type.
type MarketComparator struct{}

func NewMarketComparator() *MarketComparator {
	return &MarketComparator{}
}

// Compare builds the market position for the given project type and score.
func (c *MarketComparator) Compare(projectType schema.ProjectType, averageScore float64) schema.MarketPosition {
	references, ok := referenceRepos[projectType]
	if !ok {
		references = defaultReferenceRepos
	}

	all := make([]float64, 0, len(references)+1)
	names := make([]string, 0, len(references))
	var betterThan, worseThan []string
	for _, ref := range references {
		all = append(all, ref.Score)
		names = append(names, ref.Name)
		if averageScore > ref.Score {
			betterThan = append(betterThan, ref.Name)
		} else if averageScore < ref.Score {
			worseThan = append(worseThan, ref.Name)
		}
	}
	all = append(all, averageScore)
	sort.Float64s(all)
	position := sort.SearchFloat64s(all, averageScore)
	percentile := float64(position) / float64(len(all)) * 100

	return schema.MarketPosition{
		ComparisonRepos:    names,
		IndustryPercentile: percentile,
		BetterThan:         betterThan,
		WorseThan:          worseThan,
		Tip:                generateTip(worseThan),
	}
}

// generateTip picks an improvement tip keyed on the strongest reference
// the score falls short of.
func generateTip(worseThan []string) string {
	if len(worseThan) == 0 {
		return "Your commit quality is top-tier! Keep it up."
	}
	best := worseThan[0]
	if tip, ok := referenceTips[best]; ok {
		return tip
	}
	return fmt.Sprintf("Study %s's commit style for inspiration.", best)
}
