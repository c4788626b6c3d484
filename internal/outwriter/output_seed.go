package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"

	"github.com/fatih/color"
)

const totalSeedPhases = 8

// NewSeedProgressPrinter returns a progress callback that renders seeding
// phases to stdout. Per-commit progress events rewrite the current line so a
// long phase 5 does not scroll hundreds of lines.
func NewSeedProgressPrinter(cfg *contract.Config) func(schema.SeedingProgress) {
	phaseColor := fmt.Sprint
	doneColor := fmt.Sprint
	if cfg.UseColors {
		phaseColor = color.New(color.FgCyan, color.Bold).SprintFunc()
		doneColor = color.New(color.FgGreen).SprintFunc()
	}

	return func(p schema.SeedingProgress) {
		prefix := phaseColor(fmt.Sprintf("[%d/%d]", p.Phase, totalSeedPhases))

		switch p.Status {
		case schema.SeedProgress:
			if p.Percent != nil {
				fmt.Printf("\r%s %s (%.0f%%)", prefix, p.Message, *p.Percent)
				return
			}
			fmt.Printf("%s %s\n", prefix, p.Message)
		case schema.SeedDone:
			line := fmt.Sprintf("%s %s", prefix, doneColor(p.Message))
			if p.Detail != nil {
				line += " | " + *p.Detail
			}
			// The \r clears any in-place percent line left by this phase.
			fmt.Printf("\r%s\n", line)
		default:
			fmt.Printf("%s %s\n", prefix, p.Message)
		}
	}
}

// WriteSeedingResult outputs the final seeding summary, dispatching on the configured format.
func WriteSeedingResult(result schema.SeedingResult, market *schema.MarketPosition, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				schema.SeedingResult
				Market *schema.MarketPosition `json:"market,omitempty"`
			}{SeedingResult: result, Market: market})
		}, "Wrote JSON")
	default:
		// Seeding is interactive; CSV adds nothing over the JSON form.
		return writeSeedingResultText(os.Stdout, result, market, cfg)
	}
}

func writeSeedingResultText(w io.Writer, result schema.SeedingResult, market *schema.MarketPosition, cfg *contract.Config) error {
	header := fmt.Sprint
	if cfg.UseColors {
		header = color.New(color.FgGreen, color.Bold).SprintFunc()
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", header(fmt.Sprintf("Memory seeded for %s", result.RepoName))); err != nil {
		return err
	}

	avg := "n/a"
	if result.AverageScore != nil {
		avg = fmt.Sprintf("%.1f/10", *result.AverageScore)
	}
	lines := []string{
		fmt.Sprintf("  Commits analyzed: %d of %d", result.ScoredCount, result.CommitCount),
		fmt.Sprintf("  Average score:    %s", avg),
		fmt.Sprintf("  Exemplars:        %d", result.ExemplarCount),
		fmt.Sprintf("  Collaborators:    %d", result.CollaboratorCount),
	}
	if result.HasRoasts {
		lines = append(lines, fmt.Sprintf("  Antipatterns:     %d", result.AntipatternCount))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if market != nil {
		if _, err := fmt.Fprintf(w, "\n%s\n", header("Market position")); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  Top %.0f%% against %d reference projects\n",
			market.IndustryPercentile, len(market.ComparisonRepos)); err != nil {
			return err
		}
		if len(market.BetterThan) > 0 {
			if _, err := fmt.Fprintf(w, "  Better than:  %v\n", market.BetterThan); err != nil {
				return err
			}
		}
		if len(market.WorseThan) > 0 {
			if _, err := fmt.Fprintf(w, "  Behind:       %v\n", market.WorseThan); err != nil {
				return err
			}
		}
		if market.Tip != "" {
			if _, err := fmt.Fprintf(w, "  Tip: %s\n", market.Tip); err != nil {
				return err
			}
		}
	}
	return nil
}
