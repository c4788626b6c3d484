package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/internal/memstore"
	"github.com/commitcritic/commitcritic/internal/outwriter"
	"github.com/commitcritic/commitcritic/internal/parquet"
	"github.com/commitcritic/commitcritic/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// memorySetup loads minimal configuration needed for memory operations.
// This is used by commands that need store access without full shared setup.
func memorySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get memory-related config values
	backend := schema.DatabaseBackend(viper.GetString("memory-backend"))
	connStr := viper.GetString("memory-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.MemoryBackend = backend
	cfg.MemoryDBConnect = connStr

	// Get output-related config values (used by status and export)
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Width = viper.GetInt("width")
	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	return nil
}

// memorySetupWrapper wraps memorySetup to provide PreRunE for memory commands.
func memorySetupWrapper(_ *cobra.Command, _ []string) error {
	return memorySetup()
}

// memoryCmd focused on memory store management.
//
// Note: Memory subcommands use minimal initialization (memorySetup) instead of
// the full sharedSetup used by scoring commands. This avoids Git repo
// validation and oracle configuration for simple store operations.
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage the durable repository memory store",
	Long: `Manage the store that holds everything learned about seeded repositories.

Memory holds:
- Repository identity, codebase DNA and commit style
- Contributor profiles with score history
- Exemplary commits with their embeddings
- Detected antipatterns

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show store statistics and seeded repositories
  clear   - Remove all remembered data
  export  - Export exemplars and collaborators for analytics
  migrate - Run database schema migrations

Examples:
  # Check what has been learned so far
  commitcritic memory status

  # Export for analysis in pandas/DuckDB
  commitcritic memory export --output parquet --output-file memory-data`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// memoryStatusCmd shows memory store status.
var memoryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display memory statistics and connection details",
	Long: `Show detailed information about the memory store.

Displays:
- Backend type and connection status
- Row counts for every memory table
- The most recent seeding time
- Every seeded repository with its style and market position

Examples:
  # Check memory status
  commitcritic memory status`,
	PreRunE: memorySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runMemoryStatus(); err != nil {
			contract.LogFatal("Failed to get memory status", err)
		}
	},
}

// memoryClearCmd clears the memory store.
var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all remembered repository data",
	Long: `Delete everything the store has learned about every repository.

This removes:
- All seeded repositories and their styles
- All contributor profiles
- All exemplars and their embeddings
- All detected antipatterns

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  commitcritic memory export --output parquet --output-file backup
  commitcritic memory clear`,
	PreRunE: memorySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runMemoryClear(); err != nil {
			contract.LogFatal("Failed to clear memory", err)
		}
		fmt.Println("Memory cleared successfully.")
	},
}

// memoryExportCmd exports memory data for analytics.
var memoryExportCmd = &cobra.Command{
	Use:   "export [repo-name]",
	Short: "Export exemplars and collaborators for analytics",
	Long: `Export stored exemplars and contributor profiles in the configured format.

With --output parquet, writes two columnar datasets under the --output-file
directory for use with DuckDB, Apache Spark or pandas. Other formats print
the same data through the standard writers.

Examples:
  # Everything, as Parquet
  commitcritic memory export --output parquet --output-file memory-data
  duckdb -c "SELECT * FROM read_parquet('memory-data/exemplars.parquet') LIMIT 10"

  # One repository, as JSON
  commitcritic memory export myrepo --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: memorySetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		repoName := ""
		if len(args) == 1 {
			repoName = args[0]
		}
		if err := runMemoryExport(repoName); err != nil {
			contract.LogFatal("Failed to export memory data", err)
		}
	},
}

// memoryMigrateCmd runs database migrations for the memory store.
//
// Migrations run before any store is opened, so they work on a fresh
// database that has no tables yet.
var memoryMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the memory store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  commitcritic memory migrate

  # Migrate to specific version
  commitcritic memory migrate --target-version 2

  # Rollback to initial state
  commitcritic memory migrate --target-version 0`,
	PreRunE: memorySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := memstore.MigrateMemory(cfg.MemoryBackend, cfg.MemoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

func runMemoryStatus() error {
	store, err := openMemoryStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	if err != nil {
		// An unreachable database is still worth reporting.
		return outwriter.WriteMemoryStatus(status, nil, cfg)
	}
	repos, err := store.ListRepositories()
	if err != nil {
		return err
	}
	return outwriter.WriteMemoryStatus(status, repos, cfg)
}

func runMemoryClear() error {
	store, err := openMemoryStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return store.ClearAll()
}

func runMemoryExport(repoName string) error {
	store, err := openMemoryStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var repos []schema.Repository
	if repoName != "" {
		repo, err := store.GetRepositoryByName(repoName)
		if errors.Is(err, contract.ErrNotFound) {
			return fmt.Errorf("repository %q has not been seeded", repoName)
		}
		if err != nil {
			return err
		}
		repos = []schema.Repository{repo}
	} else {
		if repos, err = store.ListRepositories(); err != nil {
			return err
		}
	}

	var exemplars []schema.Exemplar
	var collaborators []schema.Collaborator
	var exemplarRecords []parquet.ExemplarRecord
	var collaboratorRecords []parquet.CollaboratorRecord
	for _, repo := range repos {
		ex, err := store.ListExemplars(repo.ID)
		if err != nil {
			return err
		}
		col, err := store.ListCollaborators(repo.ID)
		if err != nil {
			return err
		}
		exemplars = append(exemplars, ex...)
		collaborators = append(collaborators, col...)
		exemplarRecords = append(exemplarRecords, parquet.BuildExemplarRecords(repo, ex)...)
		collaboratorRecords = append(collaboratorRecords, parquet.BuildCollaboratorRecords(repo, col)...)
	}

	if cfg.Output == schema.ParquetOut {
		return writeParquetExport(exemplarRecords, collaboratorRecords)
	}
	if err := outwriter.WriteExemplars(exemplars, cfg); err != nil {
		return err
	}
	return outwriter.WriteCollaborators(collaborators, cfg)
}

// writeParquetExport writes both datasets under the output directory.
func writeParquetExport(exemplars []parquet.ExemplarRecord, collaborators []parquet.CollaboratorRecord) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet export requires --output-file")
	}
	if err := os.MkdirAll(cfg.OutputFile, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	exemplarPath := filepath.Join(cfg.OutputFile, "exemplars.parquet")
	if err := parquet.WriteExemplarsParquet(exemplars, exemplarPath); err != nil {
		return err
	}
	collaboratorPath := filepath.Join(cfg.OutputFile, "collaborators.parquet")
	if err := parquet.WriteCollaboratorsParquet(collaborators, collaboratorPath); err != nil {
		return err
	}
	fmt.Printf("💾 Exported %d exemplars and %d collaborators to %s\n",
		len(exemplars), len(collaborators), cfg.OutputFile)
	return nil
}
