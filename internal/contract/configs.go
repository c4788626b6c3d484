package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/commitcritic/commitcritic/schema"
)

// Default values for configuration.
const (
	DefaultSeedCommits    = 100
	DefaultAnalyzeCommits = 10
	MaxCommitLimit        = 1000
	DefaultThreshold      = 8.0
	DefaultSimilarLimit   = 5
	DefaultOracleTimeout  = 60 * time.Second

	// EmbeddingDims is the vector length of the embedding model output.
	EmbeddingDims = 1536

	// EmbedBatchLimit is the oracle's maximum number of inputs per embedding call.
	EmbedBatchLimit = 100
)

// Oracle defaults, overridable through config and environment.
const (
	DefaultBaseURL    = "https://api.openai.com"
	DefaultChatModel  = "gpt-5.2"
	DefaultEmbedModel = "text-embedding-3-small"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a command invocation.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath string // Absolute path to the git repository root

	CommitLimit  int     // Number of commits to read from history
	Threshold    float64 // Minimum score for exemplar curation
	Roasts       bool    // Include roast-worthy pattern detection
	Market       bool    // Run the market comparison phase
	SimilarLimit int     // Result count for similarity search

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	MemoryBackend   schema.DatabaseBackend
	MemoryDBConnect string // Please use env var as this is plaintext

	APIKey        string // Read from env only, never from a config file
	BaseURL       string
	ChatModel     string
	EmbedModel    string
	OracleTimeout time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Width           int    `mapstructure:"width"`
	Color           string `mapstructure:"color"`
	MemoryBackend   string `mapstructure:"memory-backend"`
	MemoryDBConnect string `mapstructure:"memory-db-connect"`

	// --- Oracle settings (flags or COMMITCRITIC_* env) ---
	BaseURL    string `mapstructure:"openai-base-url"`
	ChatModel  string `mapstructure:"chat-model"`
	EmbedModel string `mapstructure:"embed-model"`
	TimeoutSec int    `mapstructure:"oracle-timeout"`

	// --- Fields from initCmd.Flags() ---
	Commits   int     `mapstructure:"commits"`
	Threshold float64 `mapstructure:"threshold"`
	NoRoasts  bool    `mapstructure:"no-roasts"`
	NoMarket  bool    `mapstructure:"no-market"`

	// --- Fields from searchCmd.Flags() ---
	Limit int `mapstructure:"limit"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processOracleSettings(cfg, input); err != nil {
		return err
	}
	return resolveRepoPath(ctx, cfg, client, input)
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("memory-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("memory-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Roasts = !input.NoRoasts
	cfg.Market = !input.NoMarket

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- CommitLimit Validation ---
	if input.Commits <= 0 || input.Commits > MaxCommitLimit {
		return fmt.Errorf("commits must be greater than 0 and cannot exceed %d (received %d)", MaxCommitLimit, input.Commits)
	}
	cfg.CommitLimit = input.Commits

	// --- Threshold Validation ---
	if input.Threshold < 1.0 || input.Threshold > 10.0 {
		return fmt.Errorf("threshold must be between 1 and 10 (received %.1f)", input.Threshold)
	}
	cfg.Threshold = input.Threshold

	// --- Similar Limit Validation ---
	if input.Limit <= 0 {
		return fmt.Errorf("limit must be greater than 0 (received %d)", input.Limit)
	}
	cfg.SimilarLimit = input.Limit

	// --- Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- Backend Validation ---
	cfg.MemoryBackend = schema.DatabaseBackend(strings.ToLower(input.MemoryBackend))
	if _, ok := schema.ValidMemoryBackends[cfg.MemoryBackend]; !ok {
		return fmt.Errorf("invalid memory backend '%s'. must be sqlite, mysql, postgresql, none", input.MemoryBackend)
	}
	cfg.MemoryDBConnect = input.MemoryDBConnect
	return ValidateDatabaseConnectionString(cfg.MemoryBackend, cfg.MemoryDBConnect)
}

// processOracleSettings fills oracle connection settings, with the API key
// sourced from the environment only.
func processOracleSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.APIKey = os.Getenv("OPENAI_API_KEY")

	cfg.BaseURL = strings.TrimRight(input.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.ChatModel = input.ChatModel
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	cfg.EmbedModel = input.EmbedModel
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}

	if input.TimeoutSec < 0 {
		return fmt.Errorf("oracle-timeout must be non-negative (received %d)", input.TimeoutSec)
	}
	cfg.OracleTimeout = time.Duration(input.TimeoutSec) * time.Second
	if cfg.OracleTimeout == 0 {
		cfg.OracleTimeout = DefaultOracleTimeout
	}
	return nil
}

// resolveRepoPath resolves the git repository root from the positional argument.
func resolveRepoPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}
