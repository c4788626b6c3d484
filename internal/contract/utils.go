package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Score label constants.
const (
	ExcellentValue = "Excellent" // Excellent value
	GoodValue      = "Good"      // Good value
	FairValue      = "Fair"      // Fair value
	PoorValue      = "Poor"      // Poor value
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // exemplar territory
	GoodColor      = color.New(color.FgCyan)
	FairColor      = color.New(color.FgYellow)
	PoorColor      = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns a plain text label for a 1-10 commit score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 8:
		return ExcellentValue
	case score >= 6:
		return GoodValue
	case score >= 4:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetMemoryDBFilePath returns the path to the SQLite DB file for memory storage.
func GetMemoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".commitcritic_memory.db"
	}
	return filepath.Join(homeDir, ".commitcritic", "memory.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
