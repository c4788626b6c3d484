package gitclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `--COMMIT--
a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2
a1b2c3d
Alice
2026-08-01T10:00:00Z
--MSG--
feat(auth): add login

Adds the login handler and session middleware.
--END--
internal/auth/login.go
internal/auth/session.go

--COMMIT--
f6e5d4c3b2a1f6e5d4c3b2a1f6e5d4c3b2a1f6e5
f6e5d4c
Bob
2026-07-31T09:30:00Z
--MSG--
WIP
--END--
README.md
`

func TestParseCommitLog(t *testing.T) {
	commits := parseCommitLog(sampleLog)
	require.Len(t, commits, 2)

	first := commits[0]
	assert.Equal(t, "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2", first.Hash)
	assert.Equal(t, "a1b2c3d", first.ShortHash)
	assert.Equal(t, "Alice", first.Author)
	assert.Equal(t, "feat(auth): add login\n\nAdds the login handler and session middleware.", first.Message)
	assert.Equal(t, []string{"internal/auth/login.go", "internal/auth/session.go"}, first.FilesChanged)
	assert.Equal(t, 2, first.FileCount)
	assert.Equal(t, 2026, first.Date.Year())

	second := commits[1]
	assert.Equal(t, "WIP", second.Message)
	assert.Equal(t, []string{"README.md"}, second.FilesChanged)
}

func TestParseCommitLogMalformed(t *testing.T) {
	assert.Empty(t, parseCommitLog(""))
	assert.Empty(t, parseCommitLog("--COMMIT--\ngarbage"))
	// A bad date drops the one commit, not the whole parse.
	bad := "--COMMIT--\nh\nsh\nAlice\nnot-a-date\n--MSG--\nmsg--END--\n"
	assert.Empty(t, parseCommitLog(bad))
}

func TestParseNumstat(t *testing.T) {
	out := "10\t2\tinternal/auth/login.go\n3\t0\tREADME.md\n-\t-\tassets/logo.png\n"
	files, adds, dels := parseNumstat(out)
	assert.Equal(t, []string{"internal/auth/login.go", "README.md", "assets/logo.png"}, files)
	assert.Equal(t, 13, adds)
	assert.Equal(t, 2, dels)
}
