package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

// Profiler thresholds.
const (
	maxProfileAreas  = 5
	maxSeedAreas     = 3
	maxRoastLines    = 3
	minRoastWip      = 5
	minRoastOneWord  = 5
	minRoastFixOnly  = 3
	minTrendScores   = 5
	trendBand        = 1.0
	areaSummaryLimit = 5 // messages shown to the area-summary oracle
)

// roastVagueKeywords flag a single commit as quote-worthy.
var roastVagueKeywords = map[string]struct{}{
	"fix":    {},
	"update": {},
	"change": {},
	"stuff":  {},
	"misc":   {},
	"wip":    {},
}

// CollaboratorProfiler builds per-author profiles with area detection.
type CollaboratorProfiler struct {
	chat contract.ChatClient
}

// NewCollaboratorProfiler creates a profiler backed by the given chat oracle.
func NewCollaboratorProfiler(chat contract.ChatClient) *CollaboratorProfiler {
	return &CollaboratorProfiler{chat: chat}
}

// BuildProfile builds a detailed profile for one author. Scores may be fewer
// than commits when some failed analysis. The trend calculation assumes the
// score list follows input commit order, which is reverse-chronological for
// git log extraction; callers supplying another order get a shifted trend.
func (p *CollaboratorProfiler) BuildProfile(ctx context.Context, name string, commits []schema.CommitInfo, scores []int) schema.CollaboratorInsight {
	var avgScore *float64
	if len(scores) > 0 {
		sum := 0
		for _, s := range scores {
			sum += s
		}
		avg := float64(sum) / float64(len(scores))
		avgScore = &avg
	}

	areas := DetectAreas(commits, maxProfileAreas)

	var trendStr *string
	if trend := CalculateTrend(scores); trend != nil {
		s := string(*trend)
		trendStr = &s
	}

	return schema.CollaboratorInsight{
		Name:         name,
		CommitCount:  len(commits),
		AvgScore:     avgScore,
		PrimaryAreas: areas,
		AreaSummary:  p.generateAreaSummary(ctx, name, areas, commits),
		RoastLines:   DetectRoastPatterns(commits),
		Trend:        trendStr,
	}
}

// DetectAreas tallies the first two path segments of every changed file and
// returns the most frequent areas.
func DetectAreas(commits []schema.CommitInfo, limit int) []string {
	counts := make(map[string]int)

	for _, commit := range commits {
		for _, path := range commit.FilesChanged {
			parts := strings.Split(strings.Trim(path, "/"), "/")
			var area string
			switch {
			case len(parts) >= 2:
				area = parts[0] + "/" + parts[1]
			case len(parts) == 1 && parts[0] != "":
				area = parts[0]
			default:
				continue
			}
			counts[area]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	areas := make([]string, 0, len(counts))
	for a := range counts {
		areas = append(areas, a)
	}
	sort.Slice(areas, func(i, j int) bool {
		if counts[areas[i]] != counts[areas[j]] {
			return counts[areas[i]] > counts[areas[j]]
		}
		return areas[i] < areas[j]
	})
	if len(areas) > limit {
		areas = areas[:limit]
	}
	return areas
}

// generateAreaSummary asks the oracle for a one-line description of what the
// contributor works on. Any failure yields nil, never an error.
func (p *CollaboratorProfiler) generateAreaSummary(ctx context.Context, name string, areas []string, commits []schema.CommitInfo) *string {
	if len(areas) == 0 {
		return nil
	}

	recent := make([]string, 0, areaSummaryLimit)
	for i, c := range commits {
		if i == areaSummaryLimit {
			break
		}
		recent = append(recent, c.Message)
	}

	resp, err := p.chat.CompleteText(ctx, areaSummarySystemPrompt, formatAreaSummaryPrompt(name, areas, recent))
	if err != nil {
		return nil
	}
	summary := strings.TrimSpace(resp)
	if summary == "" {
		return nil
	}
	return &summary
}

// DetectRoastPatterns returns up to three human-readable notes about
// roast-worthy habits in the commit list.
func DetectRoastPatterns(commits []schema.CommitInfo) []string {
	var patterns []string

	var wipCount, oneWordCount, fixOnlyCount int
	for _, c := range commits {
		lower := strings.ToLower(c.Message)
		if strings.Contains(lower, "wip") {
			wipCount++
		}
		if len(strings.Fields(c.Message)) == 1 {
			oneWordCount++
		}
		trimmed := strings.TrimSpace(lower)
		if trimmed == "fix" || trimmed == "fixed" || trimmed == "fixes" {
			fixOnlyCount++
		}
	}

	if wipCount >= minRoastWip {
		patterns = append(patterns, fmt.Sprintf("%d WIP commits", wipCount))
	}
	if oneWordCount >= minRoastOneWord {
		patterns = append(patterns, fmt.Sprintf("Champion of one-word commits (%d total)", oneWordCount))
	}
	if fixOnlyCount >= minRoastFixOnly {
		patterns = append(patterns, fmt.Sprintf("%d commits called just \"fix\"", fixOnlyCount))
	}

	// Quote the first truly lazy message verbatim.
	for _, c := range commits {
		msg := strings.TrimSpace(strings.ToLower(c.Message))
		if _, vague := roastVagueKeywords[msg]; vague || len(msg) <= 3 {
			patterns = append(patterns, fmt.Sprintf("Once wrote: %q", c.Message))
			break
		}
	}

	if len(patterns) > maxRoastLines {
		patterns = patterns[:maxRoastLines]
	}
	return patterns
}

// CalculateTrend compares the mean of the first half of scores (recent, given
// reverse-chronological input) against the second half. Fewer than five
// scores yield no trend.
func CalculateTrend(scores []int) *schema.ScoreTrend {
	if len(scores) < minTrendScores {
		return nil
	}

	mid := len(scores) / 2
	var recentSum, olderSum int
	for _, s := range scores[:mid] {
		recentSum += s
	}
	for _, s := range scores[mid:] {
		olderSum += s
	}
	recentAvg := float64(recentSum) / float64(mid)
	olderAvg := float64(olderSum) / float64(len(scores)-mid)

	trend := schema.StableTrend
	switch diff := recentAvg - olderAvg; {
	case diff >= trendBand:
		trend = schema.ImprovingTrend
	case diff <= -trendBand:
		trend = schema.DecliningTrend
	}
	return &trend
}
