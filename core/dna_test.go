package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitcritic/commitcritic/schema"
)

func TestDetectLanguages(t *testing.T) {
	commits := []schema.CommitInfo{
		commit("a1000000", "Alice", "x", "main.go", "server.go", "util.go"),
		commit("a2000000", "Alice", "x", "web/app.ts", "README.md"),
	}

	languages := detectLanguages(commits)
	require.Len(t, languages, 3)

	assert.Equal(t, "Go", languages[0].Language)
	assert.InDelta(t, 60.0, languages[0].Percentage, 0.001)
	assert.Equal(t, "Markdown", languages[1].Language)
	assert.Equal(t, "TypeScript", languages[2].Language)
	assert.InDelta(t, 20.0, languages[2].Percentage, 0.001)
}

func TestDetectLanguagesNoKnownExtensions(t *testing.T) {
	commits := []schema.CommitInfo{
		commit("b1000000", "Alice", "x", "LICENSE", "Makefile"),
	}
	assert.Nil(t, detectLanguages(commits))
}

func TestDetectFrameworks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n\nrequire github.com/labstack/echo/v4 v4.12.0\n")
	writeFile(t, dir, "package.json", `{"dependencies": {"react": "^18.0.0", "next": "14.0.0"}}`)

	frameworks := detectFrameworks(dir)
	assert.Equal(t, []string{"Echo", "Next", "React"}, frameworks)
}

func TestDetectFrameworksMissingManifests(t *testing.T) {
	assert.Nil(t, detectFrameworks(t.TempDir()))
}

func TestExtractDNA(t *testing.T) {
	chat := &fakeChat{textResponse: "cli-tool"}
	extractor := NewDNAExtractor(chat)

	commits := []schema.CommitInfo{
		commit("c1000000", "Alice", "feat: add command", "cmd/root.go", "cmd/run.go"),
	}

	dna := extractor.ExtractDNA(context.Background(), commits, "")

	assert.Equal(t, "Go", dna.PrimaryLanguage)
	assert.Equal(t, schema.CLITool, dna.ProjectType)
	assert.Empty(t, dna.Frameworks)
}

func TestDetectProjectTypeUnknownOnBadToken(t *testing.T) {
	chat := &fakeChat{textResponse: "something else entirely"}
	extractor := NewDNAExtractor(chat)

	languages := []schema.LanguageBreakdown{{Language: "Go", Percentage: 100}}
	got := extractor.detectProjectType(context.Background(), languages, nil, []string{"feat: x"})
	assert.Equal(t, schema.UnknownType, got)
}

func TestDetectProjectTypeNoLanguages(t *testing.T) {
	chat := &fakeChat{textResponse: "cli-tool"}
	extractor := NewDNAExtractor(chat)

	got := extractor.detectProjectType(context.Background(), nil, nil, nil)
	assert.Equal(t, schema.UnknownType, got)
	assert.Zero(t, chat.calls)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
