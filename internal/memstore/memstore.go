// Package memstore is the durable repository-memory layer. It persists
// repositories, collaborators, exemplars and antipatterns across SQLite,
// MySQL and PostgreSQL backends.
package memstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for memory storage.
const (
	repositoriesTable  = "memory_repositories"
	collaboratorsTable = "memory_collaborators"
	exemplarsTable     = "memory_exemplars"
	antipatternsTable  = "memory_antipatterns"
)

// memoryTables lists all tables in dependency order: parents first.
var memoryTables = []string{repositoriesTable, collaboratorsTable, exemplarsTable, antipatternsTable}

// Exemplar score bounds, enforced both here and by a table CHECK constraint.
const (
	minExemplarScore = 8.0
	maxExemplarScore = 10.0
)

// MemoryStoreImpl implements the MemoryStore interface.
type MemoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.MemoryStore = &MemoryStoreImpl{} // Compile-time check

// NewMemoryStore creates a new MemoryStore with the specified backend.
func NewMemoryStore(backend schema.DatabaseBackend, connStr string) (contract.MemoryStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetMemoryDBFilePath()
		}
		// Cascade and set-null semantics depend on the foreign_keys pragma.
		db, err = sql.Open(driverName, dbPath+"?_pragma=foreign_keys(1)")
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported memory backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file location is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	// Create the table schemas
	if err := createMemoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create memory tables: %w", err)
	}

	return &MemoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createMemoryTables creates the memory tables in dependency order.
func createMemoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{repositoriesTable, getCreateRepositoriesQuery(backend)},
		{collaboratorsTable, getCreateCollaboratorsQuery(backend)},
		{exemplarsTable, getCreateExemplarsQuery(backend)},
		{antipatternsTable, getCreateAntipatternsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRepositoriesQuery returns the CREATE TABLE query for memory_repositories.
func getCreateRepositoriesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(repositoriesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				url VARCHAR(512) UNIQUE,
				name VARCHAR(255) NOT NULL UNIQUE,
				seeded_at DATETIME(6) NOT NULL,
				primary_language VARCHAR(100),
				languages TEXT,
				frameworks TEXT,
				project_type VARCHAR(50) NOT NULL,
				style_pattern VARCHAR(50) NOT NULL,
				uses_scopes BOOLEAN NOT NULL DEFAULT FALSE,
				common_scopes TEXT,
				ticket_pattern VARCHAR(255),
				comparison_repos TEXT,
				industry_percentile DOUBLE
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				url TEXT UNIQUE,
				name TEXT NOT NULL UNIQUE,
				seeded_at TIMESTAMPTZ NOT NULL,
				primary_language TEXT,
				languages TEXT,
				frameworks TEXT,
				project_type TEXT NOT NULL,
				style_pattern TEXT NOT NULL,
				uses_scopes BOOLEAN NOT NULL DEFAULT FALSE,
				common_scopes TEXT,
				ticket_pattern TEXT,
				comparison_repos TEXT,
				industry_percentile DOUBLE PRECISION
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				url TEXT UNIQUE,
				name TEXT NOT NULL UNIQUE,
				seeded_at TEXT NOT NULL,
				primary_language TEXT,
				languages TEXT,
				frameworks TEXT,
				project_type TEXT NOT NULL,
				style_pattern TEXT NOT NULL,
				uses_scopes INTEGER NOT NULL DEFAULT 0,
				common_scopes TEXT,
				ticket_pattern TEXT,
				comparison_repos TEXT,
				industry_percentile REAL
			);
		`, quotedTableName)
	}
}

// getCreateCollaboratorsQuery returns the CREATE TABLE query for memory_collaborators.
func getCreateCollaboratorsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(collaboratorsTable, backend)
	quotedReposTable := quoteTableName(repositoriesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				repo_id BIGINT NOT NULL,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255),
				commit_count INT NOT NULL DEFAULT 0,
				avg_score DOUBLE,
				primary_areas TEXT,
				area_summary VARCHAR(255),
				roast_patterns TEXT,
				trend VARCHAR(20),
				UNIQUE KEY uniq_repo_name (repo_id, name),
				FOREIGN KEY (repo_id) REFERENCES %s (id) ON DELETE CASCADE
			);
		`, quotedTableName, quotedReposTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				repo_id BIGINT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				email TEXT,
				commit_count INT NOT NULL DEFAULT 0,
				avg_score DOUBLE PRECISION,
				primary_areas TEXT,
				area_summary TEXT,
				roast_patterns TEXT,
				trend TEXT,
				UNIQUE (repo_id, name)
			);
		`, quotedTableName, quotedReposTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				repo_id INTEGER NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				email TEXT,
				commit_count INTEGER NOT NULL DEFAULT 0,
				avg_score REAL,
				primary_areas TEXT,
				area_summary TEXT,
				roast_patterns TEXT,
				trend TEXT,
				UNIQUE (repo_id, name)
			);
		`, quotedTableName, quotedReposTable)
	}
}

// getCreateExemplarsQuery returns the CREATE TABLE query for memory_exemplars.
func getCreateExemplarsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(exemplarsTable, backend)
	quotedReposTable := quoteTableName(repositoriesTable, backend)
	quotedCollabTable := quoteTableName(collaboratorsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				repo_id BIGINT NOT NULL,
				collaborator_id BIGINT,
				commit_hash VARCHAR(64) NOT NULL,
				message TEXT NOT NULL,
				score DOUBLE NOT NULL CHECK (score >= 8 AND score <= 10),
				commit_type VARCHAR(20),
				scope VARCHAR(100),
				embedding MEDIUMBLOB,
				created_at DATETIME(6) NOT NULL,
				UNIQUE KEY uniq_repo_hash (repo_id, commit_hash),
				FOREIGN KEY (repo_id) REFERENCES %s (id) ON DELETE CASCADE,
				FOREIGN KEY (collaborator_id) REFERENCES %s (id) ON DELETE SET NULL
			);
		`, quotedTableName, quotedReposTable, quotedCollabTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				repo_id BIGINT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				collaborator_id BIGINT REFERENCES %s (id) ON DELETE SET NULL,
				commit_hash TEXT NOT NULL,
				message TEXT NOT NULL,
				score DOUBLE PRECISION NOT NULL CHECK (score >= 8 AND score <= 10),
				commit_type TEXT,
				scope TEXT,
				embedding BYTEA,
				created_at TIMESTAMPTZ NOT NULL,
				UNIQUE (repo_id, commit_hash)
			);
		`, quotedTableName, quotedReposTable, quotedCollabTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				repo_id INTEGER NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				collaborator_id INTEGER REFERENCES %s (id) ON DELETE SET NULL,
				commit_hash TEXT NOT NULL,
				message TEXT NOT NULL,
				score REAL NOT NULL CHECK (score >= 8 AND score <= 10),
				commit_type TEXT,
				scope TEXT,
				embedding BLOB,
				created_at TEXT NOT NULL,
				UNIQUE (repo_id, commit_hash)
			);
		`, quotedTableName, quotedReposTable, quotedCollabTable)
	}
}

// getCreateAntipatternsQuery returns the CREATE TABLE query for memory_antipatterns.
func getCreateAntipatternsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(antipatternsTable, backend)
	quotedReposTable := quoteTableName(repositoriesTable, backend)
	quotedCollabTable := quoteTableName(collaboratorsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				repo_id BIGINT NOT NULL,
				collaborator_id BIGINT,
				pattern_type VARCHAR(50) NOT NULL,
				example_message TEXT NOT NULL,
				frequency INT NOT NULL DEFAULT 1,
				created_at DATETIME(6) NOT NULL,
				FOREIGN KEY (repo_id) REFERENCES %s (id) ON DELETE CASCADE,
				FOREIGN KEY (collaborator_id) REFERENCES %s (id) ON DELETE SET NULL
			);
		`, quotedTableName, quotedReposTable, quotedCollabTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				repo_id BIGINT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				collaborator_id BIGINT REFERENCES %s (id) ON DELETE SET NULL,
				pattern_type TEXT NOT NULL,
				example_message TEXT NOT NULL,
				frequency INT NOT NULL DEFAULT 1,
				created_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName, quotedReposTable, quotedCollabTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				repo_id INTEGER NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				collaborator_id INTEGER REFERENCES %s (id) ON DELETE SET NULL,
				pattern_type TEXT NOT NULL,
				example_message TEXT NOT NULL,
				frequency INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL
			);
		`, quotedTableName, quotedReposTable, quotedCollabTable)
	}
}

// Close closes the underlying connection.
func (ms *MemoryStoreImpl) Close() error {
	if ms.db != nil {
		return ms.db.Close()
	}
	return nil
}

// bind rewrites ? placeholders to $n for PostgreSQL so queries can be written
// once in the ? style.
func (ms *MemoryStoreImpl) bind(query string) string {
	if ms.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// insertReturningID runs an INSERT and returns the new row's ID, using
// RETURNING on PostgreSQL and LastInsertId elsewhere.
func (ms *MemoryStoreImpl) insertReturningID(query string, args ...any) (int64, error) {
	if ms.backend == schema.PostgreSQLBackend {
		var id int64
		err := ms.db.QueryRow(ms.bind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	result, err := ms.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// formatTime converts a time.Time to the appropriate storage format.
func (ms *MemoryStoreImpl) formatTime(t time.Time) any {
	if ms.backend == schema.SQLiteBackend {
		return t.Format(time.RFC3339Nano)
	}
	return t
}

// timeScanner scans a stored timestamp regardless of whether the driver
// hands back a native time, a string, or raw bytes.
type timeScanner struct {
	t *time.Time
}

func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.t = time.Time{}
		return nil
	case time.Time:
		*s.t = v
		return nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return fmt.Errorf("failed to parse stored time %q: %w", v, err)
		}
		*s.t = t
		return nil
	case []byte:
		return s.Scan(string(v))
	default:
		return fmt.Errorf("unsupported time column type %T", src)
	}
}

// marshalList serializes a list column as JSON text. Nil lists become NULL.
func marshalList(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list column: %w", err)
	}
	return string(data), nil
}

// unmarshalList deserializes a JSON list column into dest. NULL leaves dest
// untouched.
func unmarshalList(raw sql.NullString, dest any) error {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), dest); err != nil {
		return fmt.Errorf("failed to unmarshal list column: %w", err)
	}
	return nil
}

// nullStr converts a nullable column to a *string.
func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// nullFloat converts a nullable column to a *float64.
func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// nullInt converts a nullable column to an *int64.
func nullInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	i := ni.Int64
	return &i
}
