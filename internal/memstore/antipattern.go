package memstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

const antipatternColumns = `id, repo_id, collaborator_id, pattern_type,
	example_message, frequency, created_at`

// CreateAntipattern inserts an antipattern and returns the stored record.
func (ms *MemoryStoreImpl) CreateAntipattern(ac schema.AntipatternCreate) (schema.Antipattern, error) {
	query := fmt.Sprintf(`INSERT INTO %s (repo_id, collaborator_id, pattern_type,
		example_message, frequency, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, quoteTableName(antipatternsTable, ms.backend))

	id, err := ms.insertReturningID(query,
		ac.RepoID, ac.CollaboratorID, string(ac.PatternType),
		ac.ExampleMessage, ac.Frequency, ms.formatTime(time.Now().UTC()))
	if err != nil {
		return schema.Antipattern{}, fmt.Errorf("failed to insert antipattern %s: %w", ac.PatternType, err)
	}

	return ms.getAntipattern(id)
}

// ListAntipatterns retrieves a repository's antipatterns, most frequent first.
func (ms *MemoryStoreImpl) ListAntipatterns(repoID int64) ([]schema.Antipattern, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE repo_id = ? ORDER BY frequency DESC, pattern_type`,
		antipatternColumns, quoteTableName(antipatternsTable, ms.backend))

	rows, err := ms.db.Query(ms.bind(query), repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query antipatterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var antipatterns []schema.Antipattern
	for rows.Next() {
		a, err := ms.scanAntipattern(rows)
		if err != nil {
			return nil, err
		}
		antipatterns = append(antipatterns, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating antipatterns: %w", err)
	}
	return antipatterns, nil
}

func (ms *MemoryStoreImpl) getAntipattern(id int64) (schema.Antipattern, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, antipatternColumns, quoteTableName(antipatternsTable, ms.backend))
	return ms.scanAntipattern(ms.db.QueryRow(ms.bind(query), id))
}

func (ms *MemoryStoreImpl) scanAntipattern(row rowScanner) (schema.Antipattern, error) {
	var a schema.Antipattern
	var collaboratorID sql.NullInt64
	var patternType string

	err := row.Scan(&a.ID, &a.RepoID, &collaboratorID, &patternType,
		&a.ExampleMessage, &a.Frequency, timeScanner{&a.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Antipattern{}, contract.ErrNotFound
	}
	if err != nil {
		return schema.Antipattern{}, fmt.Errorf("failed to scan antipattern: %w", err)
	}

	a.CollaboratorID = nullInt(collaboratorID)
	a.PatternType = schema.AntipatternType(patternType)
	return a, nil
}
