package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// PrintTarget renders a target recommendation to stdout or the configured
// output file.
func PrintTarget(target *schema.CampaignTarget, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteTarget(w, target, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteTarget outputs the recommendation, dispatching based on the output format configured.
func WriteTarget(w io.Writer, target *schema.CampaignTarget, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, target); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVTarget(w, target); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeTargetText(w, target, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeTargetText displays the recommendation in human-readable form.
func writeTargetText(w io.Writer, target *schema.CampaignTarget, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "%s\n", headerTitle("🎯", "Campaign Target", cfg.UseEmojis)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "===============\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sampled %d files with %d occurrences\n", target.SampledFiles, target.TotalOccurrences); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Test files: %.1f%%  Arrays/records: %.1f%%  Function params: %.1f%%\n",
		target.TestFilePercent, target.ArrayRecordPercent, target.FunctionParamPercent); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Recommended reduction target: %.1f%%\n\n", target.RecommendedPercent); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Milestone", "Replacements", "Batches"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, m := range target.Milestones {
		data = append(data, []string{
			fmt.Sprintf("%d%%", m.Percent),
			strconv.Itoa(m.Replacements),
			strconv.Itoa(m.EstimatedBatches),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nReasoning:\n"); err != nil {
		return err
	}
	for _, reason := range target.Reasoning {
		if _, err := fmt.Fprintf(w, "  - %s\n", reason); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nTarget analysis completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVTarget writes the milestone schedule in CSV format.
func writeCSVTarget(w io.Writer, target *schema.CampaignTarget) error {
	header := []string{"milestone_percent", "replacements", "estimated_batches"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range target.Milestones {
			rec := []string{
				strconv.Itoa(m.Percent),
				strconv.Itoa(m.Replacements),
				strconv.Itoa(m.EstimatedBatches),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
