package core

import (
	"regexp"
	"strings"

	"github.com/commitcritic/commitcritic/schema"
)

// Detection minimums per antipattern kind.
const (
	minWipChain = 3
	minOneWord  = 3
	minVague    = 3
)

// vaguePatterns match messages that say nothing about the change.
var vaguePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^fix$`),
	regexp.MustCompile(`^fixed$`),
	regexp.MustCompile(`^update$`),
	regexp.MustCompile(`^updates?$`),
	regexp.MustCompile(`^change$`),
	regexp.MustCompile(`^changes?$`),
	regexp.MustCompile(`^stuff$`),
	regexp.MustCompile(`^misc$`),
	regexp.MustCompile(`^wip$`),
	regexp.MustCompile(`^work in progress$`),
	regexp.MustCompile(`^fixed bug$`),
	regexp.MustCompile(`^bug fix$`),
	regexp.MustCompile(`^minor$`),
	regexp.MustCompile(`^minor changes?$`),
	regexp.MustCompile(`^cleanup$`),
	regexp.MustCompile(`^clean up$`),
	regexp.MustCompile(`^refactor$`),
	regexp.MustCompile(`^test$`),
	regexp.MustCompile(`^testing$`),
	regexp.MustCompile(`^tmp$`),
	regexp.MustCompile(`^temp$`),
	regexp.MustCompile(`^asdf+$`),
	regexp.MustCompile(`^\.+$`),
}

// DetectedAntipattern is one (type, example, count) finding for an author.
type DetectedAntipattern struct {
	Type    schema.AntipatternType
	Example string
	Count   int
}

// ExtractAntipatterns detects recurring bad commit-message patterns grouped
// by author. Authors with no findings are absent from the result.
func ExtractAntipatterns(commits []schema.CommitInfo) map[string][]DetectedAntipattern {
	byAuthor := make(map[string][]schema.CommitInfo)
	for _, c := range commits {
		byAuthor[c.Author] = append(byAuthor[c.Author], c)
	}

	results := make(map[string][]DetectedAntipattern)
	for author, authorCommits := range byAuthor {
		if patterns := analyzeAuthorCommits(authorCommits); len(patterns) > 0 {
			results[author] = patterns
		}
	}
	return results
}

// analyzeAuthorCommits runs the three detectors over one author's commits.
func analyzeAuthorCommits(commits []schema.CommitInfo) []DetectedAntipattern {
	var patterns []DetectedAntipattern

	if example, count := findWipChain(commits); count >= minWipChain {
		patterns = append(patterns, DetectedAntipattern{schema.WipChain, example, count})
	}
	if example, count := countOneWord(commits); count >= minOneWord {
		patterns = append(patterns, DetectedAntipattern{schema.OneWord, example, count})
	}
	if example, count := countVague(commits); count >= minVague {
		patterns = append(patterns, DetectedAntipattern{schema.Vague, example, count})
	}
	return patterns
}

// findWipChain finds the longest contiguous run of WIP commits in input
// order. The example is the message that ends the longest run.
func findWipChain(commits []schema.CommitInfo) (string, int) {
	var maxChain, currentChain int
	var example string

	for _, c := range commits {
		lower := strings.ToLower(strings.TrimSpace(c.Message))
		if strings.Contains(lower, "wip") || lower == "work in progress" {
			currentChain++
			if currentChain > maxChain {
				maxChain = currentChain
				example = c.Message
			}
		} else {
			currentChain = 0
		}
	}
	return example, maxChain
}

// countOneWord counts messages that are a single whitespace-split token.
func countOneWord(commits []schema.CommitInfo) (string, int) {
	var count int
	var example string

	for _, c := range commits {
		if len(strings.Fields(c.Message)) == 1 {
			count++
			if example == "" {
				example = c.Message
			}
		}
	}
	return example, count
}

// countVague counts messages matching any of the vague patterns.
func countVague(commits []schema.CommitInfo) (string, int) {
	var count int
	var example string

	for _, c := range commits {
		lower := strings.ToLower(strings.TrimSpace(c.Message))
		for _, p := range vaguePatterns {
			if p.MatchString(lower) {
				count++
				if example == "" {
					example = c.Message
				}
				break
			}
		}
	}
	return example, count
}
