//go:build integration

// Package integration contains integration tests for commitcritic.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/commitcritic/commitcritic/internal/gitclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestListCommitsMatchesGitLog verifies the commit extractor against raw git
// output for the current repository.
func TestListCommitsMatchesGitLog(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	ctx := context.Background()
	client := gitclient.NewLocalGitClient()

	repoDir, err := client.GetRepoRoot(ctx, ".")
	require.NoError(t, err)

	const limit = 20
	commits, err := client.ListCommits(ctx, repoDir, limit)
	require.NoError(t, err)
	require.NotEmpty(t, commits)

	gitCmd := exec.Command("git", "log", "--format=%H", "-n", "20")
	gitCmd.Dir = repoDir
	gitOutput, err := gitCmd.Output()
	require.NoError(t, err)
	hashes := strings.Fields(string(gitOutput))

	require.Len(t, commits, len(hashes))
	for i, commit := range commits {
		assert.Equal(t, hashes[i], commit.Hash, "commit order mismatch at position %d", i)
		assert.NotEmpty(t, commit.Author)
		assert.NotEmpty(t, commit.Message)
		assert.False(t, commit.Date.IsZero())
	}
}

// TestCommitFileCountsMatchGit verifies per-commit changed file lists against
// git show for a handful of recent commits.
func TestCommitFileCountsMatchGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	ctx := context.Background()
	client := gitclient.NewLocalGitClient()

	repoDir, err := client.GetRepoRoot(ctx, ".")
	require.NoError(t, err)

	commits, err := client.ListCommits(ctx, repoDir, 5)
	require.NoError(t, err)

	for _, commit := range commits {
		t.Run(commit.ShortHash, func(t *testing.T) {
			gitCmd := exec.Command("git", "show", "--name-only", "--format=", commit.Hash)
			gitCmd.Dir = repoDir
			gitOutput, err := gitCmd.Output()
			if err != nil {
				t.Skipf("git show failed for %s: %v", commit.Hash, err)
			}
			var files []string
			for _, line := range strings.Split(strings.TrimSpace(string(gitOutput)), "\n") {
				if line != "" {
					files = append(files, line)
				}
			}
			assert.Equal(t, len(files), commit.FileCount,
				"file count mismatch for %s", commit.ShortHash)
		})
	}
}
