// Package gitclient implements the git client against the local git binary.
package gitclient

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

// Log format markers. Commit messages are multi-line, so fields are separated
// by explicit marker lines rather than a single delimiter character.
const (
	commitMarker = "--COMMIT--"
	msgMarker    = "--MSG--"
	endMarker    = "--END--"
)

// maxDiffChars caps the unified diff text handed to the writer oracle.
const maxDiffChars = 12000

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ contract.GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(_ context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.Command("git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRemoteURL implements the GitClient interface. A repository without an
// origin remote yields an empty URL, not an error.
func (c *LocalGitClient) GetRemoteURL(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "remote", "get-url", "origin")
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

// ListCommits implements the GitClient interface.
func (c *LocalGitClient) ListCommits(ctx context.Context, repoPath string, limit int) ([]schema.CommitInfo, error) {
	args := []string{
		"log",
		"-n", strconv.Itoa(limit),
		"--name-only",
		"--pretty=format:" + commitMarker + "%n%H%n%h%n%an%n%aI%n" + msgMarker + "%n%B" + endMarker,
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseCommitLog(string(out)), nil
}

// StagedDiff implements the GitClient interface.
func (c *LocalGitClient) StagedDiff(ctx context.Context, repoPath string) (*schema.DiffInfo, error) {
	stat, err := c.Run(ctx, repoPath, "diff", "--staged", "--numstat")
	if err != nil {
		return nil, err
	}
	files, adds, dels := parseNumstat(string(stat))
	if len(files) == 0 {
		return nil, nil
	}

	text, err := c.Run(ctx, repoPath, "diff", "--staged")
	if err != nil {
		return nil, err
	}
	diffText := string(text)
	if len(diffText) > maxDiffChars {
		diffText = diffText[:maxDiffChars] + "\n... (truncated)"
	}
	return &schema.DiffInfo{
		Files:     files,
		Additions: adds,
		Deletions: dels,
		DiffText:  diffText,
	}, nil
}

// parseCommitLog converts marker-delimited git log output into commit records.
// Malformed blocks are skipped rather than failing the whole listing.
func parseCommitLog(out string) []schema.CommitInfo {
	var commits []schema.CommitInfo
	for _, block := range strings.Split(out, commitMarker+"\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		head, rest, found := strings.Cut(block, msgMarker+"\n")
		if !found {
			continue
		}
		headLines := strings.Split(strings.TrimRight(head, "\n"), "\n")
		if len(headLines) < 4 {
			continue
		}
		message, tail, found := strings.Cut(rest, endMarker)
		if !found {
			continue
		}

		date, err := time.Parse(time.RFC3339, headLines[3])
		if err != nil {
			continue
		}

		var files []string
		for _, line := range strings.Split(tail, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				files = append(files, line)
			}
		}

		commits = append(commits, schema.CommitInfo{
			Hash:         headLines[0],
			ShortHash:    headLines[1],
			Author:       headLines[2],
			Date:         date,
			Message:      strings.TrimRight(message, "\n"),
			FilesChanged: files,
			FileCount:    len(files),
		})
	}
	return commits
}

// parseNumstat extracts paths and line counts from `git diff --numstat` output.
// Binary files report "-" counts and contribute zero lines.
func parseNumstat(out string) (files []string, additions, deletions int) {
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}
		if n, err := strconv.Atoi(parts[0]); err == nil {
			additions += n
		}
		if n, err := strconv.Atoi(parts[1]); err == nil {
			deletions += n
		}
		files = append(files, parts[2])
	}
	return files, additions, deletions
}
