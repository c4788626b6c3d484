//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/commitcritic/commitcritic/internal/memstore"
	"github.com/commitcritic/commitcritic/schema"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestMemoryWithMySQL tests the memory store and CLI with a MySQL backend.
func TestMemoryWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "commitcritic",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/commitcritic?parseTime=true", host, port.Port())

	runBackendSuite(t, schema.MySQLBackend, connStr)
}

// TestMemoryWithPostgres tests the memory store and CLI with a PostgreSQL backend.
func TestMemoryWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	runBackendSuite(t, schema.PostgreSQLBackend, connStr)
}

// runBackendSuite exercises the CLI memory commands and a direct store
// round trip against one backend.
func runBackendSuite(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	// Set environment variables for the CLI
	_ = os.Setenv("COMMITCRITIC_MEMORY_BACKEND", string(backend))
	_ = os.Setenv("COMMITCRITIC_MEMORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("COMMITCRITIC_MEMORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("COMMITCRITIC_MEMORY_DB_CONNECT") }()

	// Run commitcritic memory clear
	require.NoError(t, runCommand(t, "memory", "clear"))

	// Run commitcritic memory status
	require.NoError(t, runCommand(t, "memory", "status"))

	// Exercise the store directly against the same database
	store, err := memstore.NewMemoryStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	url := "https://github.com/acme/integration"
	repo, err := store.CreateRepository(schema.RepositoryCreate{
		URL:  &url,
		Name: "integration",
		DNA: schema.CodebaseDNA{
			PrimaryLanguage: "Go",
			ProjectType:     schema.CLITool,
		},
		Style: schema.CommitStyle{
			Pattern:      schema.ConventionalStyle,
			UsesScopes:   true,
			CommonScopes: []string{"auth", "api"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "integration", repo.Name)

	collaborator, err := store.CreateCollaborator(schema.CollaboratorCreate{
		RepoID:      repo.ID,
		Name:        "Alice",
		CommitCount: 12,
	})
	require.NoError(t, err)

	exemplar, err := store.CreateExemplar(schema.ExemplarCreate{
		RepoID:         repo.ID,
		CollaboratorID: &collaborator.ID,
		CommitHash:     "abc1234",
		Message:        "feat(auth): add token refresh",
		Score:          9.0,
		Embedding:      []float32{1, 0, 0},
	})
	require.NoError(t, err)

	matches, err := store.FindSimilarExemplars(repo.ID, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, exemplar.ID, matches[0].Exemplar.ID)
	require.InDelta(t, 1.0, matches[0].Similarity, 1e-6)

	// Cascade delete leaves nothing behind
	require.NoError(t, store.DeleteRepository(repo.ID))
	status, err := store.GetStatus()
	require.NoError(t, err)
	require.Zero(t, status.RepositoryCount)
	require.Zero(t, status.ExemplarCount)

	// Run commitcritic memory clear again now that tables exist
	require.NoError(t, runCommand(t, "memory", "clear"))
}

func runCommand(t *testing.T, args ...string) error {
	binaryPath := getBinary()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
