// Package schema has configs, models and global constants for all parts of commitcritic.
package schema

import "time"

// CommitInfo represents a single commit as extracted from git history.
// FilesChanged carries the changed paths when known; some sources only report
// a count, in which case the slice is nil and FileCount is still populated.
type CommitInfo struct {
	Hash         string    // Full commit hash
	ShortHash    string    // Abbreviated hash for display
	Message      string    // Full commit message (subject + body)
	Author       string    // Author name as recorded by git
	Date         time.Time // Author date
	FilesChanged []string  // Changed file paths, nil when only a count is known
	FileCount    int       // Number of changed files
}

// Subject returns the first line of the commit message.
func (c CommitInfo) Subject() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// DiffInfo represents the staged changes in a working tree.
type DiffInfo struct {
	Files     []string // Paths with staged changes
	Additions int      // Total lines added
	Deletions int      // Total lines removed
	DiffText  string   // Unified diff text, possibly truncated
}

// LanguageBreakdown is one language's share of a repository's changed files.
type LanguageBreakdown struct {
	Language   string  `json:"language"`
	Percentage float64 `json:"percentage"`
}

// CommitStyle is the inferred commit-message convention of a repository.
type CommitStyle struct {
	Pattern       StylePattern `json:"pattern"`
	UsesScopes    bool         `json:"uses_scopes"`
	CommonScopes  []string     `json:"common_scopes"`  // most-common-first, capped at 10
	UsesEmoji     bool         `json:"uses_emoji"`
	TicketPattern *string      `json:"ticket_pattern"` // regex source, nil when no ticket convention
}

// CodebaseDNA is the detected language/framework/project-type fingerprint.
type CodebaseDNA struct {
	PrimaryLanguage string              `json:"primary_language"`
	Languages       []LanguageBreakdown `json:"languages"` // descending share, capped at 10
	Frameworks      []string            `json:"frameworks"`
	ProjectType     ProjectType         `json:"project_type"`
}

// MarketPosition is the optional market-comparison enrichment for a repository.
type MarketPosition struct {
	ComparisonRepos    []string `json:"comparison_repos"`
	IndustryPercentile float64  `json:"industry_percentile"`
	BetterThan         []string `json:"better_than"`
	WorseThan          []string `json:"worse_than"`
	Tip                string   `json:"tip"`
}

// AnalysisResult is the scoring oracle's verdict on a single commit message.
type AnalysisResult struct {
	Score      int     `json:"score"` // 1-10
	Feedback   string  `json:"feedback"`
	Suggestion *string `json:"suggestion"` // rewritten message, nil when the original is fine
}

// ScoredCommit pairs a commit with its analysis verdict.
type ScoredCommit struct {
	Commit CommitInfo     `json:"commit"`
	Result AnalysisResult `json:"result"`
}

// AnalysisSummary aggregates a scored batch for display.
type AnalysisSummary struct {
	Count        int          `json:"count"`
	AverageScore float64      `json:"average_score"`
	Best         ScoredCommit `json:"best"`
	Worst        ScoredCommit `json:"worst"`
}

// SuggestedCommit is the writer oracle's proposed commit message for a diff.
type SuggestedCommit struct {
	Subject     string  `json:"subject"`
	Body        *string `json:"body"`
	Type        *string `json:"type"`
	Scope       *string `json:"scope"`
	Explanation string  `json:"explanation"`
}

// Message renders the suggestion as a full commit message.
func (s SuggestedCommit) Message() string {
	if s.Body == nil || *s.Body == "" {
		return s.Subject
	}
	return s.Subject + "\n\n" + *s.Body
}
