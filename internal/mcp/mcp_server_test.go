package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitcritic/commitcritic/internal/contract"
	mcp_internal "github.com/commitcritic/commitcritic/internal/mcp"
	"github.com/commitcritic/commitcritic/internal/memstore"
	"github.com/commitcritic/commitcritic/schema"
)

// stubEmbedder returns a fixed vector for any input.
type stubEmbedder struct {
	vector []float32
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([]contract.IndexedEmbedding, error) {
	out := make([]contract.IndexedEmbedding, len(texts))
	for i := range texts {
		out[i] = contract.IndexedEmbedding{Index: i, Vector: s.vector}
	}
	return out, nil
}

func newSeededServer(t *testing.T) (*server.MCPServer, contract.MemoryStore) {
	t.Helper()
	store, err := memstore.NewMemoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "memory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	repo, err := store.CreateRepository(schema.RepositoryCreate{
		Name: "acme-cli",
		DNA:  schema.CodebaseDNA{PrimaryLanguage: "Go", ProjectType: schema.CLITool},
		Style: schema.CommitStyle{
			Pattern: schema.ConventionalStyle,
		},
	})
	require.NoError(t, err)

	_, err = store.CreateExemplar(schema.ExemplarCreate{
		RepoID:     repo.ID,
		CommitHash: "abc1234def",
		Message:    "feat(auth): add token refresh",
		Score:      9,
		Embedding:  []float32{1, 0, 0},
	})
	require.NoError(t, err)

	_, err = store.CreateCollaborator(schema.CollaboratorCreate{RepoID: repo.ID, Name: "Alice", CommitCount: 12})
	require.NoError(t, err)

	cfg := &contract.Config{}
	embed := &stubEmbedder{vector: []float32{1, 0, 0}}
	return mcp_internal.NewMCPServer(cfg, store, embed), store
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestGetMemoryStatusTool(t *testing.T) {
	s, _ := newSeededServer(t)

	res := callTool(t, s, "get_memory_status", nil)
	require.False(t, res.IsError)

	var decoded struct {
		Status schema.MemoryStatus `json:"status"`
	}
	text := res.Content[0].(mcp.TextContent).Text
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Equal(t, 1, decoded.Status.RepositoryCount)
	assert.Equal(t, 1, decoded.Status.ExemplarCount)
}

func TestFindSimilarCommitsTool(t *testing.T) {
	s, _ := newSeededServer(t)

	res := callTool(t, s, "find_similar_commits", map[string]any{
		"repo":  "acme-cli",
		"query": "refresh auth tokens",
	})
	require.False(t, res.IsError)

	var matches []schema.SimilarExemplar
	text := res.Content[0].(mcp.TextContent).Text
	require.NoError(t, json.Unmarshal([]byte(text), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "abc1234def", matches[0].Exemplar.CommitHash)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-9)
}

func TestFindSimilarCommitsToolUnseededRepo(t *testing.T) {
	s, _ := newSeededServer(t)

	res := callTool(t, s, "find_similar_commits", map[string]any{
		"repo":  "never-seeded",
		"query": "anything",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "has not been seeded")
}

func TestListCollaboratorsTool(t *testing.T) {
	s, _ := newSeededServer(t)

	res := callTool(t, s, "list_collaborators", map[string]any{"repo": "acme-cli"})
	require.False(t, res.IsError)

	var collaborators []schema.Collaborator
	text := res.Content[0].(mcp.TextContent).Text
	require.NoError(t, json.Unmarshal([]byte(text), &collaborators))
	require.Len(t, collaborators, 1)
	assert.Equal(t, "Alice", collaborators[0].Name)
}

func TestListAntipatternsToolEmpty(t *testing.T) {
	s, _ := newSeededServer(t)

	res := callTool(t, s, "list_antipatterns", map[string]any{"repo": "acme-cli"})
	require.False(t, res.IsError)
	assert.JSONEq(t, "null", res.Content[0].(mcp.TextContent).Text)
}
