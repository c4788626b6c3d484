package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAnalysisResults outputs scored commits, dispatching based on the output format configured.
func WriteAnalysisResults(results []schema.ScoredCommit, summary schema.AnalysisSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForAnalysis(w, results, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, analysisCSVHeader, func(cw *csv.Writer) error {
				return writeCSVResultsForAnalysis(cw, results)
			})
		}, "Wrote CSV")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(results, summary, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeAnalysisTable generates and writes the human-readable table.
func writeAnalysisTable(results []schema.ScoredCommit, summary schema.AnalysisSummary, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Rank", "Hash", "Author", "Subject", "Score", "Label"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}

	var data [][]string
	for i, r := range results {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Commit.ShortHash,
			schema.DisplayName(r.Commit.Author),
			truncateText(r.Commit.Subject(), getMaxTableSubjectWidth(cfg)),
			strconv.Itoa(r.Result.Score),
			label(float64(r.Result.Score)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if summary.Count > 0 {
		if _, err := fmt.Fprintf(writer, "Analyzed %d commits (average score: %.1f/10)\n", summary.Count, summary.AverageScore); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(writer, "Best:  %s %q (%d/10)\n",
			summary.Best.Commit.ShortHash, summary.Best.Commit.Subject(), summary.Best.Result.Score); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(writer, "Worst: %s %q (%d/10)\n",
			summary.Worst.Commit.ShortHash, summary.Worst.Commit.Subject(), summary.Worst.Result.Score); err != nil {
			return err
		}
		if summary.Worst.Result.Feedback != "" {
			if _, err := fmt.Fprintf(writer, "  %s\n", summary.Worst.Result.Feedback); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v\n", duration.Round(time.Millisecond)); err != nil {
		return err
	}
	return nil
}

// analysisCSVHeader is the column list for CSV analysis output.
var analysisCSVHeader = []string{
	"rank",
	"hash",
	"author",
	"date",
	"subject",
	"score",
	"label",
	"feedback",
	"suggestion",
}

// writeCSVResultsForAnalysis writes the scored commits in CSV format.
func writeCSVResultsForAnalysis(w *csv.Writer, results []schema.ScoredCommit) error {
	for i, r := range results {
		suggestion := ""
		if r.Result.Suggestion != nil {
			suggestion = *r.Result.Suggestion
		}
		rec := []string{
			strconv.Itoa(i + 1),
			r.Commit.Hash,
			r.Commit.Author,
			r.Commit.Date.Format(contract.DateTimeFormat),
			r.Commit.Subject(),
			strconv.Itoa(r.Result.Score),
			contract.GetPlainLabel(float64(r.Result.Score)),
			r.Result.Feedback,
			suggestion,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForAnalysis writes the scored commits in JSON format.
func writeJSONResultsForAnalysis(w io.Writer, results []schema.ScoredCommit, summary schema.AnalysisSummary) error {
	type JSONScoredCommit struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.ScoredCommit
	}

	commits := make([]JSONScoredCommit, len(results))
	for i, r := range results {
		commits[i] = JSONScoredCommit{
			Rank:         i + 1,
			Label:        contract.GetPlainLabel(float64(r.Result.Score)),
			ScoredCommit: r,
		}
	}

	return writeJSON(w, struct {
		Commits []JSONScoredCommit     `json:"commits"`
		Summary schema.AnalysisSummary `json:"summary"`
	}{Commits: commits, Summary: summary})
}
