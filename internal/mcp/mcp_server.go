// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the commitcritic MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.MemoryStore, embed contract.EmbeddingClient) *server.MCPServer {
	s := server.NewMCPServer(
		"Commit Critic Memory Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
		embed:   embed,
	}

	// --- 1. Tool: get_memory_status ---
	s.AddTool(mcp.NewTool("get_memory_status",
		mcp.WithDescription("Report the repository memory store status: backend, row counts, seeded repositories."),
	), h.handleGetMemoryStatus)

	// --- 2. Tool: find_similar_commits ---
	s.AddTool(mcp.NewTool("find_similar_commits",
		mcp.WithDescription("Find exemplary commits similar to a query text, ranked by embedding similarity."),
		mcp.WithString("repo", mcp.Description("Name of the seeded repository to search."), mcp.Required()),
		mcp.WithString("query", mcp.Description("Free text describing the change (e.g., a draft commit subject)."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of matches to return. Defaults to 5.")),
	), h.handleFindSimilarCommits)

	// --- 3. Tool: list_collaborators ---
	s.AddTool(mcp.NewTool("list_collaborators",
		mcp.WithDescription("List contributor profiles for a seeded repository: commit counts, average scores, focus areas, trends."),
		mcp.WithString("repo", mcp.Description("Name of the seeded repository."), mcp.Required()),
	), h.handleListCollaborators)

	// --- 4. Tool: list_antipatterns ---
	s.AddTool(mcp.NewTool("list_antipatterns",
		mcp.WithDescription("List detected commit-message antipatterns for a seeded repository."),
		mcp.WithString("repo", mcp.Description("Name of the seeded repository."), mcp.Required()),
	), h.handleListAntipatterns)

	return s
}

// StartMCPServer starts the commitcritic MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.MemoryStore, embed contract.EmbeddingClient) error {
	s := NewMCPServer(baseCfg, store, embed)
	return server.ServeStdio(s)
}
