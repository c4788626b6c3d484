package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitcritic/commitcritic/schema"
)

func sampleRepo() schema.Repository {
	return schema.Repository{ID: 1, Name: "acme-cli"}
}

func TestBuildExemplarRecords(t *testing.T) {
	collabID := int64(7)
	commitType := "feat"
	exemplars := []schema.Exemplar{
		{
			ID:             1,
			RepoID:         1,
			CollaboratorID: &collabID,
			CommitHash:     "abc1234def",
			Message:        "feat(auth): add token refresh",
			Score:          9,
			CommitType:     &commitType,
			Embedding:      []float32{0.1, 0.2},
			CreatedAt:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{ID: 2, RepoID: 1, CommitHash: "fff9999aaa", Message: "docs: clarify setup", Score: 8},
	}

	records := BuildExemplarRecords(sampleRepo(), exemplars)
	require.Len(t, records, 2)
	assert.Equal(t, "acme-cli", records[0].RepoName)
	assert.Equal(t, &collabID, records[0].CollaboratorID)
	assert.True(t, records[0].HasEmbedding)
	assert.Nil(t, records[1].CollaboratorID)
	assert.False(t, records[1].HasEmbedding)
}

func TestBuildCollaboratorRecords(t *testing.T) {
	avg := 7.2
	trend := schema.StableTrend
	collaborators := []schema.Collaborator{
		{ID: 7, RepoID: 1, Name: "Alice Smith", CommitCount: 40, AvgScore: &avg, Trend: &trend},
		{ID: 8, RepoID: 1, Name: "Bob Jones", CommitCount: 3},
	}

	records := BuildCollaboratorRecords(sampleRepo(), collaborators)
	require.Len(t, records, 2)
	assert.Equal(t, int32(40), records[0].CommitCount)
	require.NotNil(t, records[0].Trend)
	assert.Equal(t, "stable", *records[0].Trend)
	assert.Nil(t, records[1].AvgScore)
	assert.Nil(t, records[1].Trend)
}

func TestWriteExemplarsParquetRoundTrip(t *testing.T) {
	exemplars := []schema.Exemplar{
		{ID: 1, RepoID: 1, CommitHash: "abc1234def", Message: "feat: one", Score: 9, CreatedAt: time.Now().UTC()},
		{ID: 2, RepoID: 1, CommitHash: "fff9999aaa", Message: "fix: two", Score: 8.5, CreatedAt: time.Now().UTC()},
	}
	records := BuildExemplarRecords(sampleRepo(), exemplars)

	path := filepath.Join(t.TempDir(), "exemplars.parquet")
	require.NoError(t, WriteExemplarsParquet(records, path))

	rows, err := parquet.ReadFile[ExemplarRecord](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "abc1234def", rows[0].CommitHash)
	assert.Equal(t, 9.0, rows[0].Score)
	assert.Equal(t, "acme-cli", rows[1].RepoName)
}

func TestWriteCollaboratorsParquetRoundTrip(t *testing.T) {
	records := BuildCollaboratorRecords(sampleRepo(), []schema.Collaborator{
		{ID: 7, RepoID: 1, Name: "Alice Smith", CommitCount: 40},
	})

	path := filepath.Join(t.TempDir(), "collaborators.parquet")
	require.NoError(t, WriteCollaboratorsParquet(records, path))

	rows, err := parquet.ReadFile[CollaboratorRecord](path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice Smith", rows[0].Name)
}
