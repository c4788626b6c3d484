// Package cmd defines the command-line interface for commitcritic.
package cmd

import (
	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the memory subcommands to the parent memory command
	memoryCmd.AddCommand(memoryStatusCmd)
	memoryCmd.AddCommand(memoryClearCmd)
	memoryCmd.AddCommand(memoryExportCmd)
	memoryCmd.AddCommand(memoryMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("memory-backend", string(schema.SQLiteBackend), "Memory backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("memory-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("openai-base-url", contract.DefaultBaseURL, "Base URL of the OpenAI-compatible API")
	rootCmd.PersistentFlags().String("chat-model", contract.DefaultChatModel, "Chat model for scoring and writing")
	rootCmd.PersistentFlags().String("embed-model", contract.DefaultEmbedModel, "Embedding model for similarity search")
	rootCmd.PersistentFlags().Int("oracle-timeout", int(contract.DefaultOracleTimeout.Seconds()), "HTTP timeout in seconds for oracle calls")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of initCmd to Viper
	initCmd.Flags().Int("commits", contract.DefaultSeedCommits, "Number of commits to read from history")
	initCmd.Flags().Float64("threshold", contract.DefaultThreshold, "Minimum score for exemplar curation (1-10)")
	initCmd.Flags().Bool("no-roasts", false, "Skip roast-worthy pattern detection")
	initCmd.Flags().Bool("no-market", false, "Skip the market comparison phase")
	if err := viper.BindPFlags(initCmd.Flags()); err != nil {
		contract.LogFatal("Error binding init flags", err)
	}

	// analyzeCmd reads its commit count straight from the flag rather than
	// through Viper, so the seeding default above keeps its own value.
	analyzeCmd.Flags().Int("commits", contract.DefaultAnalyzeCommits, "Number of recent commits to score")

	// Bind all flags of searchCmd to Viper
	searchCmd.Flags().IntP("limit", "l", contract.DefaultSimilarLimit, "Number of similar commits to return")
	if err := viper.BindPFlags(searchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding search flags", err)
	}

	// Bind all flags of memoryMigrateCmd to Viper
	memoryMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(memoryMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding memory migrate flags", err)
	}
}
