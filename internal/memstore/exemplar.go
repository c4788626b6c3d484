package memstore

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/commitcritic/commitcritic/core"
	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

const exemplarColumns = `id, repo_id, collaborator_id, commit_hash, message,
	score, commit_type, scope, embedding, created_at`

// CreateExemplar inserts an exemplary commit and returns the stored record.
// The score must fall inside the exemplar range.
func (ms *MemoryStoreImpl) CreateExemplar(ec schema.ExemplarCreate) (schema.Exemplar, error) {
	if ec.Score < minExemplarScore || ec.Score > maxExemplarScore {
		return schema.Exemplar{}, fmt.Errorf("exemplar score %.1f outside allowed range [%.0f, %.0f]",
			ec.Score, minExemplarScore, maxExemplarScore)
	}

	var embedding []byte
	if len(ec.Embedding) > 0 {
		embedding = core.VectorToBytes(ec.Embedding)
	}

	query := fmt.Sprintf(`INSERT INTO %s (repo_id, collaborator_id, commit_hash, message,
		score, commit_type, scope, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(exemplarsTable, ms.backend))

	id, err := ms.insertReturningID(query,
		ec.RepoID, ec.CollaboratorID, ec.CommitHash, ec.Message,
		ec.Score, ec.CommitType, ec.Scope, embedding, ms.formatTime(time.Now().UTC()))
	if err != nil {
		return schema.Exemplar{}, fmt.Errorf("failed to insert exemplar %s: %w", ec.CommitHash, err)
	}

	return ms.GetExemplar(id)
}

// GetExemplar retrieves an exemplar by ID.
func (ms *MemoryStoreImpl) GetExemplar(id int64) (schema.Exemplar, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, exemplarColumns, quoteTableName(exemplarsTable, ms.backend))
	return ms.scanExemplar(ms.db.QueryRow(ms.bind(query), id))
}

// ListExemplars retrieves a repository's exemplars, best scores first.
func (ms *MemoryStoreImpl) ListExemplars(repoID int64) ([]schema.Exemplar, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE repo_id = ? ORDER BY score DESC, commit_hash`,
		exemplarColumns, quoteTableName(exemplarsTable, ms.backend))

	rows, err := ms.db.Query(ms.bind(query), repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exemplars: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var exemplars []schema.Exemplar
	for rows.Next() {
		e, err := ms.scanExemplar(rows)
		if err != nil {
			return nil, err
		}
		exemplars = append(exemplars, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exemplars: %w", err)
	}
	return exemplars, nil
}

// DeleteExemplar removes an exemplar by ID.
func (ms *MemoryStoreImpl) DeleteExemplar(id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteTableName(exemplarsTable, ms.backend))

	result, err := ms.db.Exec(ms.bind(query), id)
	if err != nil {
		return fmt.Errorf("failed to delete exemplar %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm exemplar deletion: %w", err)
	}
	if affected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

// FindSimilarExemplars ranks a repository's exemplars by cosine similarity to
// the query vector. Exemplars without a stored embedding are skipped. The scan
// is linear over the repository's exemplars, which stay small enough that an
// index would not pay for itself.
func (ms *MemoryStoreImpl) FindSimilarExemplars(repoID int64, query []float32, limit int) ([]schema.SimilarExemplar, error) {
	exemplars, err := ms.ListExemplars(repoID)
	if err != nil {
		return nil, err
	}

	var similar []schema.SimilarExemplar
	for _, e := range exemplars {
		if len(e.Embedding) == 0 {
			continue
		}
		similar = append(similar, schema.SimilarExemplar{
			Exemplar:   e,
			Similarity: core.CosineSimilarity(query, e.Embedding),
		})
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})
	if limit > 0 && len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

func (ms *MemoryStoreImpl) scanExemplar(row rowScanner) (schema.Exemplar, error) {
	var e schema.Exemplar
	var collaboratorID sql.NullInt64
	var commitType, scope sql.NullString
	var embedding []byte

	err := row.Scan(&e.ID, &e.RepoID, &collaboratorID, &e.CommitHash, &e.Message,
		&e.Score, &commitType, &scope, &embedding, timeScanner{&e.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Exemplar{}, contract.ErrNotFound
	}
	if err != nil {
		return schema.Exemplar{}, fmt.Errorf("failed to scan exemplar: %w", err)
	}

	e.CollaboratorID = nullInt(collaboratorID)
	e.CommitType = nullStr(commitType)
	e.Scope = nullStr(scope)
	if len(embedding) > 0 {
		e.Embedding = core.BytesToVector(embedding)
	}
	return e, nil
}
