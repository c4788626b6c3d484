// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/commitcritic/commitcritic/schema"
)

// ErrNotFound is returned by MemoryStore lookups when no row matches.
var ErrNotFound = errors.New("not found")

// GitClient defines the git operations the pipeline needs.
// This allows the core logic to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRemoteURL returns the origin remote URL, or empty when no remote exists.
	GetRemoteURL(ctx context.Context, repoPath string) (string, error)

	// ListCommits returns up to limit commits from HEAD, most recent first,
	// with changed file paths populated.
	ListCommits(ctx context.Context, repoPath string, limit int) ([]schema.CommitInfo, error)

	// StagedDiff returns the currently staged changes, or nil when nothing is staged.
	StagedDiff(ctx context.Context, repoPath string) (*schema.DiffInfo, error)
}

// ChatClient defines the chat-completion oracle contract.
type ChatClient interface {
	// CompleteJSON sends one chat exchange and returns the raw JSON object text.
	// An empty model response is an error, never an empty string.
	CompleteJSON(ctx context.Context, system, user string) (string, error)

	// CompleteText sends one chat exchange and returns the plain text response.
	CompleteText(ctx context.Context, system, user string) (string, error)
}

// IndexedEmbedding is one embedding vector tagged with its input index.
// The oracle does not guarantee response order matches request order.
type IndexedEmbedding struct {
	Index  int
	Vector []float32
}

// EmbeddingClient defines the embedding oracle contract.
type EmbeddingClient interface {
	Embed(ctx context.Context, texts []string) ([]IndexedEmbedding, error)
}

// MemoryStore defines the interface for the durable repository memory.
// Deleting a repository cascades to its collaborators, exemplars and
// antipatterns; deleting a collaborator nulls the references pointing at it.
type MemoryStore interface {
	// CreateRepository inserts a repository and returns the stored record.
	CreateRepository(rc schema.RepositoryCreate) (schema.Repository, error)
	GetRepository(id int64) (schema.Repository, error)
	GetRepositoryByName(name string) (schema.Repository, error)
	GetRepositoryByURL(url string) (schema.Repository, error)
	ListRepositories() ([]schema.Repository, error)
	DeleteRepository(id int64) error
	UpdateRepositoryMarket(id int64, market schema.MarketPosition) error

	CreateCollaborator(cc schema.CollaboratorCreate) (schema.Collaborator, error)
	GetCollaborator(id int64) (schema.Collaborator, error)
	GetCollaboratorByName(repoID int64, name string) (schema.Collaborator, error)
	ListCollaborators(repoID int64) ([]schema.Collaborator, error)
	DeleteCollaborator(id int64) error

	CreateExemplar(ec schema.ExemplarCreate) (schema.Exemplar, error)
	GetExemplar(id int64) (schema.Exemplar, error)
	ListExemplars(repoID int64) ([]schema.Exemplar, error)
	DeleteExemplar(id int64) error

	// FindSimilarExemplars scans the repo's embedded exemplars, scores each
	// against the query by cosine similarity, and returns the top limit
	// matches in descending order.
	FindSimilarExemplars(repoID int64, query []float32, limit int) ([]schema.SimilarExemplar, error)

	CreateAntipattern(ac schema.AntipatternCreate) (schema.Antipattern, error)
	ListAntipatterns(repoID int64) ([]schema.Antipattern, error)

	// ClearAll wipes every memory table.
	ClearAll() error

	// GetStatus returns status information about the memory store.
	GetStatus() (schema.MemoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}
