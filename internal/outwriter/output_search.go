package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSimilarExemplars outputs similarity-search matches, dispatching on the configured format.
func WriteSimilarExemplars(matches []schema.SimilarExemplar, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, matches)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"rank", "similarity", "score", "hash", "type", "scope", "message"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return writeCSVResultsForSearch(cw, matches)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSearchTable(matches, cfg, w)
		}, "Wrote table")
	}
}

// writeSearchTable generates and writes the human-readable table.
func writeSearchTable(matches []schema.SimilarExemplar, cfg *contract.Config, writer io.Writer) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(writer, "No similar commits found. Seed the repository first with 'commitcritic init'.")
		return err
	}

	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Rank", "Similarity", "Score", "Hash", "Message"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, m := range matches {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.3f", m.Similarity),
			fmt.Sprintf("%.0f", m.Exemplar.Score),
			m.Exemplar.CommitHash,
			truncateText(firstLine(m.Exemplar.Message), getMaxTableSubjectWidth(cfg)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForSearch writes the matches in CSV format.
func writeCSVResultsForSearch(w *csv.Writer, matches []schema.SimilarExemplar) error {
	for i, m := range matches {
		rec := []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.6f", m.Similarity),
			fmt.Sprintf("%.1f", m.Exemplar.Score),
			m.Exemplar.CommitHash,
			deref(m.Exemplar.CommitType),
			deref(m.Exemplar.Scope),
			firstLine(m.Exemplar.Message),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
