package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

// languageExtensions maps file extensions to language names.
var languageExtensions = map[string]string{
	".py":         "Python",
	".js":         "JavaScript",
	".ts":         "TypeScript",
	".tsx":        "TypeScript",
	".jsx":        "JavaScript",
	".go":         "Go",
	".rs":         "Rust",
	".java":       "Java",
	".kt":         "Kotlin",
	".swift":      "Swift",
	".rb":         "Ruby",
	".php":        "PHP",
	".c":          "C",
	".cpp":        "C++",
	".h":          "C/C++",
	".cs":         "C#",
	".scala":      "Scala",
	".ex":         "Elixir",
	".exs":        "Elixir",
	".clj":        "Clojure",
	".hs":         "Haskell",
	".lua":        "Lua",
	".r":          "R",
	".sql":        "SQL",
	".sh":         "Shell",
	".bash":       "Shell",
	".zsh":        "Shell",
	".yml":        "YAML",
	".yaml":       "YAML",
	".json":       "JSON",
	".xml":        "XML",
	".html":       "HTML",
	".css":        "CSS",
	".scss":       "SCSS",
	".md":         "Markdown",
	".dockerfile": "Docker",
}

// frameworkManifests maps manifest filenames to the framework keywords worth
// searching for inside them.
var frameworkManifests = map[string][]string{
	"pyproject.toml":   {"typer", "fastapi", "django", "flask", "pydantic", "openai", "rich"},
	"requirements.txt": {"typer", "fastapi", "django", "flask", "pydantic", "openai", "rich"},
	"package.json":     {"react", "vue", "angular", "next", "express", "nest"},
	"Cargo.toml":       {"tokio", "actix", "rocket", "axum"},
	"go.mod":           {"gin", "echo", "fiber", "chi"},
	"Gemfile":          {"rails", "sinatra", "hanami"},
}

const (
	maxLanguages      = 10
	minLanguageShare  = 1.0 // percent
	dnaCommitWindow   = 20  // commits considered for project-type classification
	dnaMessageSamples = 10  // messages included in the classification prompt
)

// DNAExtractor detects languages, frameworks and project type for a codebase.
type DNAExtractor struct {
	chat contract.ChatClient
}

// NewDNAExtractor creates a DNA extractor backed by the given chat oracle.
func NewDNAExtractor(chat contract.ChatClient) *DNAExtractor {
	return &DNAExtractor{chat: chat}
}

// ExtractDNA analyzes commits and optionally the repository root to detect
// codebase DNA. A missing repo path degrades framework detection to empty.
func (e *DNAExtractor) ExtractDNA(ctx context.Context, commits []schema.CommitInfo, repoPath string) schema.CodebaseDNA {
	languages := detectLanguages(commits)

	var frameworks []string
	if repoPath != "" {
		frameworks = detectFrameworks(repoPath)
	}

	var primary string
	if len(languages) > 0 {
		primary = languages[0].Language
	}

	window := commits
	if len(window) > dnaCommitWindow {
		window = window[:dnaCommitWindow]
	}
	messages := make([]string, len(window))
	for i, c := range window {
		messages[i] = c.Message
	}

	return schema.CodebaseDNA{
		PrimaryLanguage: primary,
		Languages:       languages,
		Frameworks:      frameworks,
		ProjectType:     e.detectProjectType(ctx, languages, frameworks, messages),
	}
}

// detectLanguages tallies changed-file extensions across all commits and
// converts them to percentage shares.
func detectLanguages(commits []schema.CommitInfo) []schema.LanguageBreakdown {
	langCounts := make(map[string]int)
	var total int

	for _, commit := range commits {
		for _, path := range commit.FilesChanged {
			ext := strings.ToLower(filepath.Ext(path))
			if lang, ok := languageExtensions[ext]; ok {
				langCounts[lang]++
				total++
			}
		}
	}
	if total == 0 {
		return nil
	}

	langs := make([]string, 0, len(langCounts))
	for l := range langCounts {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if langCounts[langs[i]] != langCounts[langs[j]] {
			return langCounts[langs[i]] > langCounts[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if len(langs) > maxLanguages {
		langs = langs[:maxLanguages]
	}

	var breakdown []schema.LanguageBreakdown
	for _, lang := range langs {
		pct := float64(langCounts[lang]) / float64(total) * 100
		if pct < minLanguageShare {
			continue
		}
		// One decimal place, matching the persisted representation.
		breakdown = append(breakdown, schema.LanguageBreakdown{
			Language:   lang,
			Percentage: float64(int(pct*10+0.5)) / 10,
		})
	}
	return breakdown
}

// detectFrameworks searches known manifest files under the repository root for
// framework keywords. Unreadable manifests are skipped.
func detectFrameworks(repoPath string) []string {
	detected := make(map[string]struct{})

	for filename, frameworks := range frameworkManifests {
		content, err := os.ReadFile(filepath.Join(repoPath, filename))
		if err != nil {
			continue
		}
		lower := strings.ToLower(string(content))
		for _, fw := range frameworks {
			if strings.Contains(lower, fw) {
				detected[titleCase(fw)] = struct{}{}
			}
		}
	}
	if len(detected) == 0 {
		return nil
	}

	result := make([]string, 0, len(detected))
	for fw := range detected {
		result = append(result, fw)
	}
	sort.Strings(result)
	return result
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// detectProjectType asks the chat oracle to classify the project with a
// single-token answer. Any failure degrades to unknown, never an error.
func (e *DNAExtractor) detectProjectType(ctx context.Context, languages []schema.LanguageBreakdown, frameworks []string, messages []string) schema.ProjectType {
	if len(languages) == 0 {
		return schema.UnknownType
	}

	langParts := make([]string, 0, 5)
	for i, l := range languages {
		if i == 5 {
			break
		}
		langParts = append(langParts, fmt.Sprintf("%s (%.1f%%)", l.Language, l.Percentage))
	}
	frameworkStr := "none detected"
	if len(frameworks) > 0 {
		frameworkStr = strings.Join(frameworks, ", ")
	}
	if len(messages) > dnaMessageSamples {
		messages = messages[:dnaMessageSamples]
	}

	prompt := formatProjectTypePrompt(strings.Join(langParts, ", "), frameworkStr, messages)

	resp, err := e.chat.CompleteText(ctx, projectTypeSystemPrompt, prompt)
	if err != nil {
		return schema.UnknownType
	}

	token := schema.ProjectType(strings.ToLower(strings.TrimSpace(resp)))
	if _, ok := schema.ValidProjectTypes[token]; ok {
		return token
	}
	return schema.UnknownType
}
