// Package parquet exports repository memory to Parquet files using
// github.com/parquet-go/parquet-go, for use with analytics tools.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/commitcritic/commitcritic/schema"
	"github.com/parquet-go/parquet-go"
)

// ExemplarRecord is the flattened Parquet row for one stored exemplar.
type ExemplarRecord struct {
	// ExemplarID is the store's row identifier
	ExemplarID int64 `parquet:"exemplar_id,snappy"`

	// RepoID references the owning repository
	RepoID int64 `parquet:"repo_id,snappy"`

	// RepoName is denormalized for standalone analytics
	RepoName string `parquet:"repo_name,snappy"`

	// CollaboratorID references the authoring collaborator (nullable)
	CollaboratorID *int64 `parquet:"collaborator_id,optional,snappy"`

	// CommitHash is the full commit hash
	CommitHash string `parquet:"commit_hash,snappy"`

	// Message is the full commit message
	Message string `parquet:"message,snappy"`

	// Score is the analyzer verdict that qualified this commit
	Score float64 `parquet:"score,snappy"`

	// CommitType is the conventional-commit type (nullable)
	CommitType *string `parquet:"commit_type,optional,snappy"`

	// Scope is the conventional-commit scope (nullable)
	Scope *string `parquet:"scope,optional,snappy"`

	// HasEmbedding reports whether an embedding vector is stored
	HasEmbedding bool `parquet:"has_embedding,snappy"`

	// CreatedAt is when the exemplar was curated
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// CollaboratorRecord is the flattened Parquet row for one contributor profile.
type CollaboratorRecord struct {
	// CollaboratorID is the store's row identifier
	CollaboratorID int64 `parquet:"collaborator_id,snappy"`

	// RepoID references the owning repository
	RepoID int64 `parquet:"repo_id,snappy"`

	// RepoName is denormalized for standalone analytics
	RepoName string `parquet:"repo_name,snappy"`

	// Name is the author name as recorded by git
	Name string `parquet:"name,snappy"`

	// Email is the author email (nullable)
	Email *string `parquet:"email,optional,snappy"`

	// CommitCount is the number of commits attributed to this author
	CommitCount int32 `parquet:"commit_count,snappy"`

	// AvgScore is the mean analyzer score (nullable when nothing scored)
	AvgScore *float64 `parquet:"avg_score,optional,snappy"`

	// AreaSummary is the one-line description of the author's focus (nullable)
	AreaSummary *string `parquet:"area_summary,optional,snappy"`

	// Trend is the score direction over recent commits (nullable)
	Trend *string `parquet:"trend,optional,snappy"`
}

// BuildExemplarRecords flattens stored exemplars into Parquet rows.
func BuildExemplarRecords(repo schema.Repository, exemplars []schema.Exemplar) []ExemplarRecord {
	records := make([]ExemplarRecord, len(exemplars))
	for i, e := range exemplars {
		records[i] = ExemplarRecord{
			ExemplarID:     e.ID,
			RepoID:         e.RepoID,
			RepoName:       repo.Name,
			CollaboratorID: e.CollaboratorID,
			CommitHash:     e.CommitHash,
			Message:        e.Message,
			Score:          e.Score,
			CommitType:     e.CommitType,
			Scope:          e.Scope,
			HasEmbedding:   len(e.Embedding) > 0,
			CreatedAt:      e.CreatedAt,
		}
	}
	return records
}

// BuildCollaboratorRecords flattens contributor profiles into Parquet rows.
func BuildCollaboratorRecords(repo schema.Repository, collaborators []schema.Collaborator) []CollaboratorRecord {
	records := make([]CollaboratorRecord, len(collaborators))
	for i, c := range collaborators {
		var trend *string
		if c.Trend != nil {
			t := string(*c.Trend)
			trend = &t
		}
		records[i] = CollaboratorRecord{
			CollaboratorID: c.ID,
			RepoID:         c.RepoID,
			RepoName:       repo.Name,
			Name:           c.Name,
			Email:          c.Email,
			CommitCount:    int32(c.CommitCount),
			AvgScore:       c.AvgScore,
			AreaSummary:    c.AreaSummary,
			Trend:          trend,
		}
	}
	return records
}

// WriteExemplarsParquet writes exemplar rows to a Parquet file.
func WriteExemplarsParquet(data []ExemplarRecord, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteCollaboratorsParquet writes collaborator rows to a Parquet file.
func WriteCollaboratorsParquet(data []CollaboratorRecord, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// writeParquetFile writes records to outputPath with the schema inferred from
// the struct tags.
func writeParquetFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
