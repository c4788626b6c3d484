package memstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

// repositoryColumns is the SELECT column list shared by all repository reads.
const repositoryColumns = `id, url, name, seeded_at, primary_language, languages, frameworks,
	project_type, style_pattern, uses_scopes, common_scopes, ticket_pattern,
	comparison_repos, industry_percentile`

// CreateRepository inserts a repository and returns the stored record.
func (ms *MemoryStoreImpl) CreateRepository(rc schema.RepositoryCreate) (schema.Repository, error) {
	languages, err := marshalList(rc.DNA.Languages)
	if err != nil {
		return schema.Repository{}, err
	}
	frameworks, err := marshalList(rc.DNA.Frameworks)
	if err != nil {
		return schema.Repository{}, err
	}
	commonScopes, err := marshalList(rc.Style.CommonScopes)
	if err != nil {
		return schema.Repository{}, err
	}

	seededAt := time.Now().UTC()
	query := fmt.Sprintf(`INSERT INTO %s (url, name, seeded_at, primary_language, languages, frameworks,
		project_type, style_pattern, uses_scopes, common_scopes, ticket_pattern)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(repositoriesTable, ms.backend))

	id, err := ms.insertReturningID(query,
		rc.URL, rc.Name, ms.formatTime(seededAt), rc.DNA.PrimaryLanguage, languages, frameworks,
		string(rc.DNA.ProjectType), string(rc.Style.Pattern), rc.Style.UsesScopes, commonScopes, rc.Style.TicketPattern)
	if err != nil {
		return schema.Repository{}, fmt.Errorf("failed to insert repository %q: %w", rc.Name, err)
	}

	return ms.GetRepository(id)
}

// GetRepository retrieves a repository by ID.
func (ms *MemoryStoreImpl) GetRepository(id int64) (schema.Repository, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, repositoryColumns, quoteTableName(repositoriesTable, ms.backend))
	return ms.scanRepository(ms.db.QueryRow(ms.bind(query), id))
}

// GetRepositoryByName retrieves a repository by its unique name.
func (ms *MemoryStoreImpl) GetRepositoryByName(name string) (schema.Repository, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE name = ?`, repositoryColumns, quoteTableName(repositoriesTable, ms.backend))
	return ms.scanRepository(ms.db.QueryRow(ms.bind(query), name))
}

// GetRepositoryByURL retrieves a repository by its unique URL.
func (ms *MemoryStoreImpl) GetRepositoryByURL(url string) (schema.Repository, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE url = ?`, repositoryColumns, quoteTableName(repositoriesTable, ms.backend))
	return ms.scanRepository(ms.db.QueryRow(ms.bind(query), url))
}

// ListRepositories retrieves all repositories ordered by name.
func (ms *MemoryStoreImpl) ListRepositories() ([]schema.Repository, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY name`, repositoryColumns, quoteTableName(repositoriesTable, ms.backend))

	rows, err := ms.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query repositories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var repos []schema.Repository
	for rows.Next() {
		repo, err := ms.scanRepository(rows)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repositories: %w", err)
	}
	return repos, nil
}

// DeleteRepository removes a repository. Collaborators, exemplars and
// antipatterns cascade away with it.
func (ms *MemoryStoreImpl) DeleteRepository(id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteTableName(repositoriesTable, ms.backend))

	result, err := ms.db.Exec(ms.bind(query), id)
	if err != nil {
		return fmt.Errorf("failed to delete repository %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm repository deletion: %w", err)
	}
	if affected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

// UpdateRepositoryMarket stores the market-comparison enrichment on an
// existing repository row.
func (ms *MemoryStoreImpl) UpdateRepositoryMarket(id int64, market schema.MarketPosition) error {
	comparisonRepos, err := marshalList(market.ComparisonRepos)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET comparison_repos = ?, industry_percentile = ? WHERE id = ?`,
		quoteTableName(repositoriesTable, ms.backend))

	result, err := ms.db.Exec(ms.bind(query), comparisonRepos, market.IndustryPercentile, id)
	if err != nil {
		return fmt.Errorf("failed to update market position for repository %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm market update: %w", err)
	}
	if affected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (ms *MemoryStoreImpl) scanRepository(row rowScanner) (schema.Repository, error) {
	var repo schema.Repository
	var url, primaryLanguage, ticketPattern sql.NullString
	var languages, frameworks, commonScopes, comparisonRepos sql.NullString
	var projectType, stylePattern string
	var industryPct sql.NullFloat64

	err := row.Scan(&repo.ID, &url, &repo.Name, timeScanner{&repo.SeededAt}, &primaryLanguage,
		&languages, &frameworks, &projectType, &stylePattern, &repo.UsesScopes,
		&commonScopes, &ticketPattern, &comparisonRepos, &industryPct)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Repository{}, contract.ErrNotFound
	}
	if err != nil {
		return schema.Repository{}, fmt.Errorf("failed to scan repository: %w", err)
	}

	repo.URL = nullStr(url)
	repo.PrimaryLanguage = primaryLanguage.String
	repo.ProjectType = schema.ProjectType(projectType)
	repo.StylePattern = schema.StylePattern(stylePattern)
	repo.TicketPattern = nullStr(ticketPattern)
	repo.IndustryPct = nullFloat(industryPct)

	if err := unmarshalList(languages, &repo.Languages); err != nil {
		return schema.Repository{}, err
	}
	if err := unmarshalList(frameworks, &repo.Frameworks); err != nil {
		return schema.Repository{}, err
	}
	if err := unmarshalList(commonScopes, &repo.CommonScopes); err != nil {
		return schema.Repository{}, err
	}
	if err := unmarshalList(comparisonRepos, &repo.ComparisonRepos); err != nil {
		return schema.Repository{}, err
	}
	return repo, nil
}
