package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteMemoryStatus outputs the memory store status, dispatching on the configured format.
func WriteMemoryStatus(status schema.MemoryStatus, repos []schema.Repository, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Status       schema.MemoryStatus `json:"status"`
				Repositories []schema.Repository `json:"repositories"`
			}{Status: status, Repositories: repos})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"table", "rows"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, table := range []string{"memory_repositories", "memory_collaborators", "memory_exemplars", "memory_antipatterns"} {
					if err := cw.Write([]string{table, strconv.FormatInt(status.TableSizes[table], 10)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusText(w, status, repos, cfg)
		}, "Wrote status")
	}
}

// writeStatusText renders the status summary plus a per-repository table.
func writeStatusText(w io.Writer, status schema.MemoryStatus, repos []schema.Repository, cfg *contract.Config) error {
	connected := "no"
	if status.Connected {
		connected = "yes"
	}
	lastSeeded := "never"
	if !status.LastSeededAt.IsZero() {
		lastSeeded = status.LastSeededAt.Format(contract.DateTimeFormat)
	}

	lines := []string{
		fmt.Sprintf("Backend:       %s", status.Backend),
		fmt.Sprintf("Connected:     %s", connected),
		fmt.Sprintf("Repositories:  %d", status.RepositoryCount),
		fmt.Sprintf("Collaborators: %d", status.CollaboratorCount),
		fmt.Sprintf("Exemplars:     %d", status.ExemplarCount),
		fmt.Sprintf("Antipatterns:  %d", status.AntipatternCount),
		fmt.Sprintf("Last seeded:   %s", lastSeeded),
	}
	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return err
	}

	if len(repos) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Type", "Style", "Language", "Percentile"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, repo := range repos {
		percentile := "-"
		if repo.IndustryPct != nil {
			percentile = fmt.Sprintf("top %.0f%%", *repo.IndustryPct)
		}
		data = append(data, []string{
			repo.Name,
			string(repo.ProjectType),
			string(repo.StylePattern),
			repo.PrimaryLanguage,
			percentile,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteExemplars outputs stored exemplars, dispatching on the configured format.
// Parquet output is handled by the caller through the parquet package.
func WriteExemplars(exemplars []schema.Exemplar, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, exemplars)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"id", "repo_id", "hash", "score", "type", "scope", "message"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, e := range exemplars {
					rec := []string{
						strconv.FormatInt(e.ID, 10),
						strconv.FormatInt(e.RepoID, 10),
						e.CommitHash,
						fmt.Sprintf("%.1f", e.Score),
						deref(e.CommitType),
						deref(e.Scope),
						firstLine(e.Message),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExemplarTable(exemplars, cfg, w)
		}, "Wrote table")
	}
}

func writeExemplarTable(exemplars []schema.Exemplar, cfg *contract.Config, writer io.Writer) error {
	if len(exemplars) == 0 {
		_, err := fmt.Fprintln(writer, "No exemplars stored yet.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Hash", "Score", "Type", "Scope", "Message"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, e := range exemplars {
		data = append(data, []string{
			e.CommitHash,
			fmt.Sprintf("%.0f", e.Score),
			deref(e.CommitType),
			deref(e.Scope),
			truncateText(firstLine(e.Message), getMaxTableSubjectWidth(cfg)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteCollaborators outputs collaborator profiles, dispatching on the configured format.
func WriteCollaborators(collaborators []schema.Collaborator, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, collaborators)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"name", "commits", "avg_score", "trend", "areas", "summary"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, c := range collaborators {
					avgScore := ""
					if c.AvgScore != nil {
						avgScore = fmt.Sprintf("%.1f", *c.AvgScore)
					}
					trend := ""
					if c.Trend != nil {
						trend = string(*c.Trend)
					}
					rec := []string{
						c.Name,
						strconv.Itoa(c.CommitCount),
						avgScore,
						trend,
						strings.Join(c.PrimaryAreas, "|"),
						deref(c.AreaSummary),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCollaboratorTable(collaborators, cfg, w)
		}, "Wrote table")
	}
}

func writeCollaboratorTable(collaborators []schema.Collaborator, cfg *contract.Config, writer io.Writer) error {
	if len(collaborators) == 0 {
		_, err := fmt.Fprintln(writer, "No collaborators profiled yet.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Name", "Commits", "Avg", "Label", "Trend", "Areas"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}

	var data [][]string
	for _, c := range collaborators {
		avgScore, scoreLabel := "-", "-"
		if c.AvgScore != nil {
			avgScore = fmt.Sprintf("%.1f", *c.AvgScore)
			scoreLabel = label(*c.AvgScore)
		}
		trend := "-"
		if c.Trend != nil {
			trend = string(*c.Trend)
		}
		data = append(data, []string{
			schema.DisplayName(c.Name),
			strconv.Itoa(c.CommitCount),
			avgScore,
			scoreLabel,
			trend,
			strings.Join(c.PrimaryAreas, ", "),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
