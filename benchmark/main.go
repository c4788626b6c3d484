// Package main provides a performance benchmarking tool for the commitcritic CLI.
// It measures execution times for seeding, analysis and search across test
// repositories, running each test multiple times, treating the first successful
// run as cold and averaging the rest as warm, generating CSV output for
// performance analysis and documentation.
//
// Prerequisites:
// - commitcritic binary installed and available in PATH
// - OPENAI_API_KEY set in the environment
// - Test repositories cloned to the specified base directory
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run for one command
// (memoryless average, cold run and average of warm runs).
type BenchmarkResult struct {
	Repository   string
	Command      string
	NoMemoryTime string
	ColdTime     string
	WarmTime     string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase     string
	Timeout      time.Duration
	SeedCommits  int
	NoMemoryRuns int
	MemoryRuns   int
	TestRepos    []string
	SearchText   map[string]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	config := BenchmarkConfig{
		RepoBase:     repoBase,
		Timeout:      10 * time.Minute,
		SeedCommits:  50,
		NoMemoryRuns: 2,
		MemoryRuns:   3,
		TestRepos:    []string{"csv-parser", "fd", "git"},
		SearchText: map[string]string{
			"csv-parser": "parsing edge case fix",
			"fd":         "speed up directory traversal",
			"git":        "fix merge conflict handling",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear memory so every repository starts from an unseeded state
	fmt.Printf("Clearing memory...\n")
	clearCmd := exec.Command("commitcritic", "memory", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear memory: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Memory cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binary, the API key and test repositories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if commitcritic is available
	if _, err := exec.LookPath("commitcritic"); err != nil {
		return fmt.Errorf("commitcritic binary not found in PATH")
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	// Check if repositories exist
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, seed depth %d, no-memory: %d runs, memory: %d runs\n",
		len(config.TestRepos), config.Timeout, config.SeedCommits, config.NoMemoryRuns, config.MemoryRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)

		repoPath := filepath.Join(config.RepoBase, repo)

		// Seeding. Every run is a full reseed, so cold and warm are comparable.
		seedArgs := []string{"init", "--commits", fmt.Sprint(config.SeedCommits), "--no-market"}
		result := runBenchmarkSuite(config, repo, repoPath, "init", "memory seeding", seedArgs, false)
		results = append(results, result)

		// Scoring, both without memory and against the seed from above.
		result = runBenchmarkSuite(config, repo, repoPath, "analyze", "commit analysis", []string{"analyze"}, true)
		results = append(results, result)

		// Similarity search over the seeded exemplars.
		query, hasQuery := config.SearchText[repo]
		if hasQuery {
			desc := fmt.Sprintf("similarity search (%q)", query)
			result = runBenchmarkSuite(config, repo, repoPath, "search", desc, []string{"search", query}, false)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs the optional no-memory phase and the memory phase for one command.
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, command, description string, args []string, withNoMemory bool) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, repo)

	// Helper to run a benchmark phase
	runPhase := func(memoryBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, repoPath, command, args, memoryBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-memory runs
	noMemoryAvg := "N/A"
	if withNoMemory {
		_, noMemoryAvg = runPhase("none", config.NoMemoryRuns, "No-memory")
	}

	// Phase 2: Memory runs
	coldTime, warmAvg := runPhase("sqlite", config.MemoryRuns, "Memory")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-memory average: %s, Cold time: %s, Warm average: %s\n", noMemoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:   repo,
		Command:      command,
		NoMemoryTime: noMemoryAvg,
		ColdTime:     coldTimeStr,
		WarmTime:     warmAvg,
	}
}

// runBenchmark executes a commitcritic command multiple times with the given
// memory backend and returns the cold time plus warm times.
func runBenchmark(config BenchmarkConfig, repoPath, command string, args []string, memoryBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	fullArgs := append([]string{}, args...)
	fullArgs = append(fullArgs, "--memory-backend", memoryBackend)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("commitcritic", fullArgs...)
		cmd.Dir = repoPath

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	switch command {
	case "init":
		return strings.Contains(outputStr, "Memory seeded for")
	case "analyze":
		return strings.Contains(outputStr, "Analysis completed in")
	default:
		return true
	}
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/commitcritic_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"repo", "cmd", "no_memory_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.NoMemoryTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, command := range []string{"init", "analyze", "search"} {
		fmt.Printf("\n%s:\n", command)
		for _, result := range results {
			if result.Command != command {
				continue
			}
			fmt.Printf("  %-12s no-memory: %-9s cold: %-9s warm: %s\n",
				result.Repository, result.NoMemoryTime, result.ColdTime, result.WarmTime)
		}
	}
}
