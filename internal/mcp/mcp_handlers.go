package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/commitcritic/commitcritic/core"
	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.MemoryStore
	embed   contract.EmbeddingClient
}

// lookupRepo resolves the required "repo" argument to a stored repository.
func (h *toolHandler) lookupRepo(request mcp.CallToolRequest) (schema.Repository, *mcp.CallToolResult) {
	name := request.GetString("repo", "")
	if name == "" {
		return schema.Repository{}, mcp.NewToolResultError("repo is required")
	}
	repo, err := h.store.GetRepositoryByName(name)
	if errors.Is(err, contract.ErrNotFound) {
		return schema.Repository{}, mcp.NewToolResultError(fmt.Sprintf("repository %q has not been seeded; run 'commitcritic init' first", name))
	}
	if err != nil {
		return schema.Repository{}, mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err))
	}
	return repo, nil
}

func (h *toolHandler) handleGetMemoryStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status query failed: %v", err)), nil
	}
	repos, err := h.store.ListRepositories()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("repository listing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(struct {
		Status       schema.MemoryStatus `json:"status"`
		Repositories []schema.Repository `json:"repositories"`
	}{Status: status, Repositories: repos}, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFindSimilarCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, errResult := h.lookupRepo(request)
	if errResult != nil {
		return errResult, nil
	}
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	limit := request.GetInt("limit", contract.DefaultSimilarLimit)

	vector, err := core.NewEmbeddingGenerator(h.embed).Generate(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("embedding failed: %v", err)), nil
	}

	matches, err := h.store.FindSimilarExemplars(repo.ID, vector, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similarity search failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListCollaborators(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, errResult := h.lookupRepo(request)
	if errResult != nil {
		return errResult, nil
	}

	collaborators, err := h.store.ListCollaborators(repo.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("collaborator listing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(collaborators, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListAntipatterns(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, errResult := h.lookupRepo(request)
	if errResult != nil {
		return errResult, nil
	}

	antipatterns, err := h.store.ListAntipatterns(repo.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("antipattern listing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(antipatterns, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
