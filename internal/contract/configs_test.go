package contract

import (
	"context"
	"testing"
	"time"

	"github.com/commitcritic/commitcritic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitClient resolves every context path to itself.
type fakeGitClient struct{}

func (f *fakeGitClient) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return nil, nil
}

func (f *fakeGitClient) GetRepoRoot(_ context.Context, contextPath string) (string, error) {
	return contextPath, nil
}

func (f *fakeGitClient) GetRemoteURL(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (f *fakeGitClient) ListCommits(_ context.Context, _ string, _ int) ([]schema.CommitInfo, error) {
	return nil, nil
}

func (f *fakeGitClient) StagedDiff(_ context.Context, _ string) (*schema.DiffInfo, error) {
	return nil, nil
}

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		RepoPathStr:   ".",
		Output:        "text",
		Color:         "yes",
		MemoryBackend: "sqlite",
		Commits:       DefaultSeedCommits,
		Threshold:     DefaultThreshold,
		Limit:         DefaultSimilarLimit,
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	err := ProcessAndValidate(context.Background(), cfg, &fakeGitClient{}, validInput())
	require.NoError(t, err)

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.MemoryBackend)
	assert.Equal(t, DefaultSeedCommits, cfg.CommitLimit)
	assert.Equal(t, DefaultThreshold, cfg.Threshold)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultChatModel, cfg.ChatModel)
	assert.Equal(t, DefaultEmbedModel, cfg.EmbedModel)
	assert.Equal(t, DefaultOracleTimeout, cfg.OracleTimeout)
	assert.True(t, cfg.Roasts)
	assert.True(t, cfg.Market)
	assert.NotEmpty(t, cfg.RepoPath)
}

func TestProcessAndValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"zero commits", func(i *ConfigRawInput) { i.Commits = 0 }},
		{"too many commits", func(i *ConfigRawInput) { i.Commits = MaxCommitLimit + 1 }},
		{"threshold too low", func(i *ConfigRawInput) { i.Threshold = 0.5 }},
		{"threshold too high", func(i *ConfigRawInput) { i.Threshold = 11 }},
		{"bad output", func(i *ConfigRawInput) { i.Output = "xml" }},
		{"bad backend", func(i *ConfigRawInput) { i.MemoryBackend = "oracle" }},
		{"bad color", func(i *ConfigRawInput) { i.Color = "maybe" }},
		{"zero limit", func(i *ConfigRawInput) { i.Limit = 0 }},
		{"negative timeout", func(i *ConfigRawInput) { i.TimeoutSec = -1 }},
		{"mysql without connect", func(i *ConfigRawInput) { i.MemoryBackend = "mysql" }},
		{"postgres without host", func(i *ConfigRawInput) {
			i.MemoryBackend = "postgresql"
			i.MemoryDBConnect = "dbname=x"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(context.Background(), &Config{}, &fakeGitClient{}, input)
			assert.Error(t, err)
		})
	}
}

func TestProcessOracleSettings(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.BaseURL = "https://llm.internal/"
	input.ChatModel = "gpt-test"
	input.TimeoutSec = 5

	require.NoError(t, ProcessAndValidate(context.Background(), cfg, &fakeGitClient{}, input))
	assert.Equal(t, "https://llm.internal", cfg.BaseURL)
	assert.Equal(t, "gpt-test", cfg.ChatModel)
	assert.Equal(t, 5*time.Second, cfg.OracleTimeout)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/memory"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=memory"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@localhost/memory"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
}
