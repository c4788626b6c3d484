// Package core has the extractors, profilers and pipeline logic for
// repository memory.
package core

import (
	"regexp"
	"sort"
	"strings"

	"github.com/commitcritic/commitcritic/schema"
)

// Classification thresholds. These are fixed policy constants, not
// configuration: output parity across runs depends on them.
const (
	patternThreshold = 0.3 // share of messages that makes a pattern dominant
	usageThreshold   = 0.2 // share of messages that makes scopes/emoji/tickets "used"
)

const maxCommonScopes = 10

// emojiPattern matches a leading emoji token, either :emoji: style or a
// unicode emoji rune.
var emojiPattern = regexp.MustCompile(`^(?::[a-z_]+:|[\x{1F300}-\x{1F9FF}]|[\x{2600}-\x{26FF}]|[\x{2700}-\x{27BF}])\s*`)

// ticketPatterns are checked in fixed priority order.
var ticketPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^([A-Z]{2,10}-\d+)`),   // JIRA-123, PROJ-456
	regexp.MustCompile(`(?i)^#(\d+)`),              // #123
	regexp.MustCompile(`(?i)^\[([A-Z]{2,10}-\d+)\]`), // [JIRA-123]
}

var scopePattern = regexp.MustCompile(`^\w+\(([^)]+)\):`)

// ExtractStyle analyzes commit messages to detect the repository's commit
// style. An empty commit list yields the freeform default.
func ExtractStyle(commits []schema.CommitInfo) schema.CommitStyle {
	if len(commits) == 0 {
		return schema.CommitStyle{Pattern: schema.FreeformStyle}
	}

	messages := make([]string, len(commits))
	for i, c := range commits {
		messages[i] = c.Message
	}

	usesScopes, commonScopes := detectScopes(messages)
	return schema.CommitStyle{
		Pattern:       detectPattern(messages),
		UsesScopes:    usesScopes,
		CommonScopes:  commonScopes,
		UsesEmoji:     detectEmoji(messages),
		TicketPattern: detectTicketPattern(messages),
	}
}

// detectPattern classifies the predominant message pattern. Priority order is
// positional: the first category at or above the threshold wins even if a
// later category has a higher count.
func detectPattern(messages []string) schema.StylePattern {
	var conventional, emoji, ticket int

	for _, msg := range messages {
		if isConventional(msg) {
			conventional++
		}
		if emojiPattern.MatchString(msg) {
			emoji++
		}
		for _, p := range ticketPatterns {
			if p.MatchString(msg) {
				ticket++
				break
			}
		}
	}

	total := float64(len(messages))
	switch {
	case float64(conventional)/total >= patternThreshold:
		return schema.ConventionalStyle
	case float64(emoji)/total >= patternThreshold:
		return schema.EmojiStyle
	case float64(ticket)/total >= patternThreshold:
		return schema.TicketStyle
	default:
		return schema.FreeformStyle
	}
}

// isConventional reports whether the message starts with a known
// conventional-commit prefix, either "type(" or "type:".
func isConventional(msg string) bool {
	lower := strings.ToLower(strings.TrimSpace(msg))
	for t := range schema.ConventionalTypes {
		if strings.HasPrefix(lower, t+"(") || strings.HasPrefix(lower, t+":") {
			return true
		}
	}
	return false
}

// detectScopes extracts parenthesized scopes from word(scope): prefixes and
// reports whether scope usage clears the threshold, along with the most
// frequent distinct scopes.
func detectScopes(messages []string) (bool, []string) {
	counts := make(map[string]int)
	var total int

	for _, msg := range messages {
		if m := scopePattern.FindStringSubmatch(msg); m != nil {
			counts[strings.ToLower(m[1])]++
			total++
		}
	}
	if total == 0 {
		return false, nil
	}

	usesScopes := float64(total)/float64(len(messages)) >= usageThreshold
	return usesScopes, topScopes(counts, maxCommonScopes)
}

// topScopes returns scopes ordered by descending count, breaking count ties
// alphabetically for deterministic output.
func topScopes(counts map[string]int, limit int) []string {
	scopes := make([]string, 0, len(counts))
	for s := range counts {
		scopes = append(scopes, s)
	}
	sort.Slice(scopes, func(i, j int) bool {
		if counts[scopes[i]] != counts[scopes[j]] {
			return counts[scopes[i]] > counts[scopes[j]]
		}
		return scopes[i] < scopes[j]
	})
	if len(scopes) > limit {
		scopes = scopes[:limit]
	}
	return scopes
}

func detectEmoji(messages []string) bool {
	var count int
	for _, msg := range messages {
		if emojiPattern.MatchString(msg) {
			count++
		}
	}
	return float64(count)/float64(len(messages)) >= usageThreshold
}

// detectTicketPattern returns the source of the first ticket regex (by fixed
// priority order) matching enough messages, or nil.
func detectTicketPattern(messages []string) *string {
	for _, p := range ticketPatterns {
		var matches int
		for _, msg := range messages {
			if p.MatchString(msg) {
				matches++
			}
		}
		if float64(matches)/float64(len(messages)) >= usageThreshold {
			src := p.String()
			return &src
		}
	}
	return nil
}
