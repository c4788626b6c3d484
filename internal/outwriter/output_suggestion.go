package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"

	"github.com/fatih/color"
)

// WriteSuggestion outputs a suggested commit message, dispatching on the configured format.
func WriteSuggestion(suggestion schema.SuggestedCommit, diff *schema.DiffInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, suggestion)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"subject", "body", "type", "scope", "explanation"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return cw.Write([]string{
					suggestion.Subject,
					deref(suggestion.Body),
					deref(suggestion.Type),
					deref(suggestion.Scope),
					suggestion.Explanation,
				})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSuggestionText(w, suggestion, diff, cfg)
		}, "Wrote suggestion")
	}
}

// writeSuggestionText renders a suggestion for console display.
func writeSuggestionText(w io.Writer, suggestion schema.SuggestedCommit, diff *schema.DiffInfo, cfg *contract.Config) error {
	header := fmt.Sprint
	if cfg.UseColors {
		header = color.New(color.FgCyan, color.Bold).SprintFunc()
	}

	if diff != nil {
		if _, err := fmt.Fprintf(w, "Staged changes: %d files (+%d/-%d)\n\n",
			len(diff.Files), diff.Additions, diff.Deletions); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s\n\n%s\n", header("Suggested commit message:"), suggestion.Message()); err != nil {
		return err
	}
	if suggestion.Explanation != "" {
		if _, err := fmt.Fprintf(w, "\n%s %s\n", header("Why:"), suggestion.Explanation); err != nil {
			return err
		}
	}
	return nil
}

// deref returns the pointed-to string, or empty for nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
