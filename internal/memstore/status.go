package memstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/commitcritic/commitcritic/schema"
)

// ClearAll deletes every row from the memory tables, children first so
// foreign keys never block the sweep.
func (ms *MemoryStoreImpl) ClearAll() error {
	for i := len(memoryTables) - 1; i >= 0; i-- {
		table := memoryTables[i]
		query := fmt.Sprintf(`DELETE FROM %s`, quoteTableName(table, ms.backend))
		if _, err := ms.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// GetStatus reports connectivity, per-table row counts and the most recent
// seeding time.
func (ms *MemoryStoreImpl) GetStatus() (schema.MemoryStatus, error) {
	status := schema.MemoryStatus{
		Backend:    string(ms.backend),
		TableSizes: make(map[string]int64),
	}

	if err := ms.db.Ping(); err != nil {
		return status, fmt.Errorf("memory database is not reachable: %w", err)
	}
	status.Connected = true

	for _, table := range memoryTables {
		count, err := ms.countRows(table)
		if err != nil {
			return status, err
		}
		status.TableSizes[table] = count
	}

	status.RepositoryCount = int(status.TableSizes[repositoriesTable])
	status.CollaboratorCount = int(status.TableSizes[collaboratorsTable])
	status.ExemplarCount = int(status.TableSizes[exemplarsTable])
	status.AntipatternCount = int(status.TableSizes[antipatternsTable])

	lastSeeded, err := ms.lastSeededAt()
	if err != nil {
		return status, err
	}
	status.LastSeededAt = lastSeeded

	return status, nil
}

func (ms *MemoryStoreImpl) countRows(table string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteTableName(table, ms.backend))

	var count int64
	if err := ms.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

func (ms *MemoryStoreImpl) lastSeededAt() (time.Time, error) {
	query := fmt.Sprintf(`SELECT MAX(seeded_at) FROM %s`, quoteTableName(repositoriesTable, ms.backend))

	var raw sql.Null[any]
	if err := ms.db.QueryRow(query).Scan(&raw); err != nil {
		return time.Time{}, fmt.Errorf("failed to read last seeded time: %w", err)
	}
	if !raw.Valid {
		return time.Time{}, nil
	}

	var t time.Time
	if err := (timeScanner{&t}).Scan(raw.V); err != nil {
		return time.Time{}, err
	}
	return t, nil
}
