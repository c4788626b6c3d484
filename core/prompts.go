package core

import (
	"fmt"
	"strings"

	"github.com/commitcritic/commitcritic/schema"
)

// analyzerSystemPrompt drives the scoring oracle.
const analyzerSystemPrompt = `You are an expert at evaluating git commit messages. Your job is to score commit messages on a scale of 1-10 and provide constructive feedback.

## Scoring Criteria

**1-3 (Poor):**
- Single word commits: "fix", "update", "wip"
- Completely vague: "fixed bug", "changes", "stuff"
- No context about what or why

**4-5 (Below Average):**
- Some context but too vague: "fixed login bug"
- Missing scope or type information
- No explanation of the change

**6-7 (Average):**
- Describes what changed but not why
- Has some structure but inconsistent
- Could be more specific

**8-9 (Good):**
- Follows conventional commits or clear structure
- Specific about what changed and where
- Includes context about why when relevant
- Clear scope: feat(auth), fix(api), etc.

**10 (Excellent):**
- Perfect conventional commit format
- Crystal clear about what, where, and why
- Could be understood by anyone on the team
- Would be useful in a changelog

## Response Format

You must respond with valid JSON in this exact format:
{
    "score": <1-10>,
    "feedback": "<brief explanation of the score>",
    "suggestion": "<improved version of the commit message if score < 8, otherwise null>"
}`

// writerSystemPrompt drives the commit-message suggestion oracle.
const writerSystemPrompt = `You are an expert at writing clear, informative git commit messages. Your job is to analyze code changes and suggest well-structured commit messages.

## Guidelines

1. **Use Conventional Commits format when appropriate:**
   - feat: A new feature
   - fix: A bug fix
   - docs: Documentation only changes
   - style: Formatting, missing semi colons, etc.
   - refactor: Code change that neither fixes a bug nor adds a feature
   - test: Adding missing tests
   - chore: Maintenance tasks

2. **Include scope when clear:**
   - feat(auth): add OAuth support
   - fix(api): handle rate limiting

3. **First line should be:**
   - Under 72 characters
   - Imperative mood ("add" not "added")
   - No period at the end

4. **Body (if needed):**
   - Explain what and why, not how
   - Wrap at 72 characters
   - Separate from subject with blank line

## Response Format

You must respond with valid JSON in this exact format:
{
    "subject": "<the commit subject line>",
    "body": "<optional commit body, or null>",
    "type": "<feat|fix|docs|style|refactor|test|chore>",
    "scope": "<scope or null>",
    "explanation": "<brief explanation of why you chose this message>"
}`

const projectTypeSystemPrompt = "You classify software projects. Respond with a single token only."

const areaSummarySystemPrompt = "You summarize what a software contributor works on. Respond with the description only, no quotes."

// maxPromptDiffChars caps the diff text included in writer prompts.
const maxPromptDiffChars = 4000

// formatFilesChanged renders the changed-file field for analyzer prompts,
// degrading gracefully when only a count is known.
func formatFilesChanged(files []string, count int) string {
	if len(files) == 0 {
		return fmt.Sprintf("%d", count)
	}
	shown := files
	suffix := ""
	if len(shown) > 5 {
		shown = shown[:5]
		suffix = "..."
	}
	return fmt.Sprintf("%d (%s%s)", len(files), strings.Join(shown, ", "), suffix)
}

func formatAnalyzerPrompt(commit schema.CommitInfo) string {
	return fmt.Sprintf(`Score this commit message:

Commit: %s
Message: %q
Files changed: %s

Respond with JSON only.`, commit.ShortHash, commit.Message, formatFilesChanged(commit.FilesChanged, commit.FileCount))
}

// MemoryContext is the repository and author knowledge injected into
// memory-aware prompts. Zero values mean the knowledge is unavailable.
type MemoryContext struct {
	StylePattern  schema.StylePattern
	UsesScopes    bool
	CommonScopes  []string
	TicketPattern *string

	AuthorCommitCount int
	AuthorAvgScore    *float64
	AuthorTrend       *string
}

func (m MemoryContext) scopeInfo() string {
	if !m.UsesScopes || len(m.CommonScopes) == 0 {
		return ""
	}
	scopes := m.CommonScopes
	if len(scopes) > 5 {
		scopes = scopes[:5]
	}
	return "- Uses scopes: " + strings.Join(scopes, ", ")
}

func (m MemoryContext) ticketInfo() string {
	if m.TicketPattern == nil {
		return ""
	}
	return "- Ticket pattern: " + *m.TicketPattern
}

func formatMemoryAnalyzerPrompt(commit schema.CommitInfo, mem MemoryContext) string {
	avgScore := "N/A"
	if mem.AuthorAvgScore != nil {
		avgScore = fmt.Sprintf("%.1f", *mem.AuthorAvgScore)
	}
	trendInfo := ""
	if mem.AuthorTrend != nil {
		trendInfo = "- Trend: " + *mem.AuthorTrend
	}

	context := fmt.Sprintf(`
## Repository Context

This repository uses the following commit style:
- Pattern: %s
%s
%s

## Author Context

Author: %s
- Commits analyzed: %d
- Average score: %s/10
%s

When providing feedback, reference the repository's style conventions and the author's history.
If they have patterns of poor commits, mention it constructively.
`, mem.StylePattern, mem.scopeInfo(), mem.ticketInfo(), commit.Author, mem.AuthorCommitCount, avgScore, trendInfo)

	return fmt.Sprintf(`Score this commit message:

Commit: %s
Author: %s
Message: %q
Files changed: %s

%s

Respond with JSON only.`, commit.ShortHash, commit.Author, commit.Message, formatFilesChanged(commit.FilesChanged, commit.FileCount), context)
}

func truncateDiff(diffText string) string {
	if len(diffText) > maxPromptDiffChars {
		return diffText[:maxPromptDiffChars] + "\n... (truncated)"
	}
	return diffText
}

func formatFileList(files []string) string {
	lines := make([]string, len(files))
	for i, f := range files {
		lines[i] = "- " + f
	}
	return strings.Join(lines, "\n")
}

func formatWriterPrompt(diff schema.DiffInfo) string {
	return fmt.Sprintf(`Analyze these staged changes and suggest a commit message:

Files changed:
%s

Diff summary:
- %d additions
- %d deletions

Diff content:
`+"```"+`
%s
`+"```"+`

Respond with JSON only.`, formatFileList(diff.Files), diff.Additions, diff.Deletions, truncateDiff(diff.DiffText))
}

// formatMemoryWriterPrompt embeds the repository's conventions and up to
// three exemplar commits as few-shot context.
func formatMemoryWriterPrompt(diff schema.DiffInfo, mem MemoryContext, exemplars []schema.SimilarExemplar) string {
	exemplarText := "No exemplars available yet."
	if len(exemplars) > 0 {
		var lines []string
		for i, ex := range exemplars {
			if i == 3 {
				break
			}
			lines = append(lines, fmt.Sprintf("- %q (score: %.0f/10)", ex.Exemplar.Message, ex.Exemplar.Score))
		}
		exemplarText = strings.Join(lines, "\n")
	}

	context := fmt.Sprintf(`
## Repository Style Conventions

This repository uses:
- Style: %s
%s
%s

## Similar High-Quality Examples from This Repository

%s

Use these examples as inspiration for style and format.
`, mem.StylePattern, mem.scopeInfo(), mem.ticketInfo(), exemplarText)

	return fmt.Sprintf(`Analyze these staged changes and suggest a commit message:

%s

Files changed:
%s

Diff summary:
- %d additions
- %d deletions

Diff content:
`+"```"+`
%s
`+"```"+`

Follow the repository's conventions shown above. Respond with JSON only.`, context, formatFileList(diff.Files), diff.Additions, diff.Deletions, truncateDiff(diff.DiffText))
}

func formatProjectTypePrompt(langStr, frameworkStr string, messages []string) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = "- " + m
	}
	return fmt.Sprintf(`Analyze this project and determine its type.

Languages: %s
Frameworks: %s

Recent commit messages:
%s

Respond with ONLY one of these exact values:
- cli-tool
- web-app
- web-framework
- library
- api-service
- mobile-app
- data-pipeline
- unknown`, langStr, frameworkStr, strings.Join(lines, "\n"))
}

func formatAreaSummaryPrompt(name string, areas, recentMessages []string) string {
	if len(areas) > 5 {
		areas = areas[:5]
	}
	lines := make([]string, len(recentMessages))
	for i, m := range recentMessages {
		lines[i] = "- " + m
	}
	return fmt.Sprintf(`Based on this contributor's work, write a one-sentence description of what they work on.

Contributor: %s
Primary areas: %s
Recent commits:
%s

Write a brief, professional description like:
- "Owns authentication and user management"
- "Frontend specialist, focuses on React components"
- "DevOps and CI/CD infrastructure"

Keep it under 50 characters. Just the description, no quotes.`, name, strings.Join(areas, ", "), strings.Join(lines, "\n"))
}
