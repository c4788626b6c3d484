package memstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

const collaboratorColumns = `id, repo_id, name, email, commit_count, avg_score,
	primary_areas, area_summary, roast_patterns, trend`

// CreateCollaborator inserts a collaborator and returns the stored record.
func (ms *MemoryStoreImpl) CreateCollaborator(cc schema.CollaboratorCreate) (schema.Collaborator, error) {
	primaryAreas, err := marshalList(cc.PrimaryAreas)
	if err != nil {
		return schema.Collaborator{}, err
	}
	roastPatterns, err := marshalList(cc.RoastLines)
	if err != nil {
		return schema.Collaborator{}, err
	}

	var trend *string
	if cc.Trend != nil {
		s := string(*cc.Trend)
		trend = &s
	}

	query := fmt.Sprintf(`INSERT INTO %s (repo_id, name, email, commit_count, avg_score,
		primary_areas, area_summary, roast_patterns, trend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(collaboratorsTable, ms.backend))

	id, err := ms.insertReturningID(query,
		cc.RepoID, cc.Name, cc.Email, cc.CommitCount, cc.AvgScore,
		primaryAreas, cc.AreaSummary, roastPatterns, trend)
	if err != nil {
		return schema.Collaborator{}, fmt.Errorf("failed to insert collaborator %q: %w", cc.Name, err)
	}

	return ms.GetCollaborator(id)
}

// GetCollaborator retrieves a collaborator by ID.
func (ms *MemoryStoreImpl) GetCollaborator(id int64) (schema.Collaborator, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, collaboratorColumns, quoteTableName(collaboratorsTable, ms.backend))
	return ms.scanCollaborator(ms.db.QueryRow(ms.bind(query), id))
}

// GetCollaboratorByName retrieves a collaborator by name within a repository.
func (ms *MemoryStoreImpl) GetCollaboratorByName(repoID int64, name string) (schema.Collaborator, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE repo_id = ? AND name = ?`, collaboratorColumns, quoteTableName(collaboratorsTable, ms.backend))
	return ms.scanCollaborator(ms.db.QueryRow(ms.bind(query), repoID, name))
}

// ListCollaborators retrieves a repository's collaborators, most prolific first.
func (ms *MemoryStoreImpl) ListCollaborators(repoID int64) ([]schema.Collaborator, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE repo_id = ? ORDER BY commit_count DESC, name`,
		collaboratorColumns, quoteTableName(collaboratorsTable, ms.backend))

	rows, err := ms.db.Query(ms.bind(query), repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborators: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var collaborators []schema.Collaborator
	for rows.Next() {
		c, err := ms.scanCollaborator(rows)
		if err != nil {
			return nil, err
		}
		collaborators = append(collaborators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collaborators: %w", err)
	}
	return collaborators, nil
}

// DeleteCollaborator removes a collaborator. Exemplars and antipatterns that
// referenced it keep their rows with the reference nulled.
func (ms *MemoryStoreImpl) DeleteCollaborator(id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteTableName(collaboratorsTable, ms.backend))

	result, err := ms.db.Exec(ms.bind(query), id)
	if err != nil {
		return fmt.Errorf("failed to delete collaborator %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm collaborator deletion: %w", err)
	}
	if affected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (ms *MemoryStoreImpl) scanCollaborator(row rowScanner) (schema.Collaborator, error) {
	var c schema.Collaborator
	var email, primaryAreas, areaSummary, roastPatterns, trend sql.NullString
	var avgScore sql.NullFloat64

	err := row.Scan(&c.ID, &c.RepoID, &c.Name, &email, &c.CommitCount, &avgScore,
		&primaryAreas, &areaSummary, &roastPatterns, &trend)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Collaborator{}, contract.ErrNotFound
	}
	if err != nil {
		return schema.Collaborator{}, fmt.Errorf("failed to scan collaborator: %w", err)
	}

	c.Email = nullStr(email)
	c.AvgScore = nullFloat(avgScore)
	c.AreaSummary = nullStr(areaSummary)
	if trend.Valid {
		t := schema.ScoreTrend(trend.String)
		c.Trend = &t
	}
	if err := unmarshalList(primaryAreas, &c.PrimaryAreas); err != nil {
		return schema.Collaborator{}, err
	}
	if err := unmarshalList(roastPatterns, &c.RoastLines); err != nil {
		return schema.Collaborator{}, err
	}
	return c, nil
}
