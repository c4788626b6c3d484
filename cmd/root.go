package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/internal/gitclient"
	"github.com/commitcritic/commitcritic/internal/memstore"
	"github.com/commitcritic/commitcritic/internal/oracle"
	"github.com/commitcritic/commitcritic/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// gitClient talks to the local git executable.
var gitClient = gitclient.NewLocalGitClient()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "commitcritic",
	Short:              "Score and write commit messages with per-repository memory.",
	Long:               `Commit Critic learns how a repository writes its history, then judges new commits against that memory and drafts messages that fit.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".commitcritic") // Name of config file (without extension)
		viper.SetConfigType("yaml")          // We'll use YAML format
		viper.AddConfigPath(".")             // Look in the current directory
		viper.AddConfigPath("$HOME")         // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("COMMITCRITIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("output-file", "")
	viper.SetDefault("width", 0)
	viper.SetDefault("color", "yes")
	viper.SetDefault("memory-backend", schema.SQLiteBackend)
	viper.SetDefault("memory-db-connect", "")
	viper.SetDefault("openai-base-url", contract.DefaultBaseURL)
	viper.SetDefault("chat-model", contract.DefaultChatModel)
	viper.SetDefault("embed-model", contract.DefaultEmbedModel)
	viper.SetDefault("oracle-timeout", int(contract.DefaultOracleTimeout.Seconds()))
	viper.SetDefault("commits", contract.DefaultSeedCommits)
	viper.SetDefault("threshold", contract.DefaultThreshold)
	viper.SetDefault("limit", contract.DefaultSimilarLimit)
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.RepoPathStr = args[0]
	} else {
		input.RepoPathStr = "."
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	return contract.ProcessAndValidate(ctx, cfg, gitClient, input)
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".commitcritic")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// openMemoryStore opens the configured memory backend. Callers own the Close.
func openMemoryStore() (contract.MemoryStore, error) {
	if cfg.MemoryBackend == schema.NoneBackend {
		return nil, fmt.Errorf("memory backend is disabled; rerun without --memory-backend=none")
	}
	return memstore.NewMemoryStore(cfg.MemoryBackend, cfg.MemoryDBConnect)
}

// newOracleClient builds the chat and embedding client from validated config.
func newOracleClient() (*oracle.Client, error) {
	return oracle.NewClient(cfg)
}

// repoDisplayName is the memory identity of the repository at cfg.RepoPath.
func repoDisplayName() string {
	return filepath.Base(cfg.RepoPath)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
