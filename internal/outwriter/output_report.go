package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// PrintCampaignReport renders the end-of-run report to stdout or the
// configured output file.
func PrintCampaignReport(report *schema.CampaignReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCampaignReport(w, report, cfg)
	}, successMessage(cfg.Output))
}

// WriteCampaignReport outputs the report, dispatching based on the output format configured.
func WriteCampaignReport(w io.Writer, report *schema.CampaignReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, report); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVBatchResults(w, report.BatchResults); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		if err := writeMarkdownReport(w, report); err != nil {
			return fmt.Errorf("error writing markdown output: %w", err)
		}
	default:
		if err := writeReportText(w, report, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// SaveReportFiles persists the report as JSON and Markdown under reportsDir
// and returns both paths. Reports are write-only; nothing reads them back.
func SaveReportFiles(report *schema.CampaignReport, reportsDir string) (string, string, error) {
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating reports directory: %w", err)
	}

	jsonPath := filepath.Join(reportsDir, fmt.Sprintf("typesweep-report-%s.json", report.ID))
	jsonFile, err := os.Create(jsonPath)
	if err != nil {
		return "", "", fmt.Errorf("creating report JSON: %w", err)
	}
	if err := writeJSON(jsonFile, report); err != nil {
		_ = jsonFile.Close()
		return "", "", fmt.Errorf("writing report JSON: %w", err)
	}
	if err := jsonFile.Close(); err != nil {
		return "", "", fmt.Errorf("closing report JSON: %w", err)
	}

	mdPath := filepath.Join(reportsDir, fmt.Sprintf("typesweep-report-%s.md", report.ID))
	mdFile, err := os.Create(mdPath)
	if err != nil {
		return "", "", fmt.Errorf("creating report Markdown: %w", err)
	}
	if err := writeMarkdownReport(mdFile, report); err != nil {
		_ = mdFile.Close()
		return "", "", fmt.Errorf("writing report Markdown: %w", err)
	}
	if err := mdFile.Close(); err != nil {
		return "", "", fmt.Errorf("closing report Markdown: %w", err)
	}

	return jsonPath, mdPath, nil
}

// writeReportText displays the report in human-readable form with a
// per-batch table.
func writeReportText(w io.Writer, report *schema.CampaignReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", headerTitle("📊", "Campaign Report", cfg.UseEmojis), report.ID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "===============\n\n"); err != nil {
		return err
	}

	res := report.Results
	if _, err := fmt.Fprintf(w, "Profile: %s  Final state: %s\n", report.Profile, res.FinalState); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Stop reason: %s\n", res.StopReason); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Duration: %v\n\n", res.Duration); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Files processed: %d  Any types analyzed: %d\n", res.FilesProcessed, res.AnyTypesAnalyzed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Replacements: %d of %d targeted (%s%% of target)\n",
		res.ReplacementsSuccessful, res.TargetReplacements, fmtFloat(res.AchievedPercentOfTarget)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rollbacks: %d  Batches executed: %d\n\n", res.RollbacksPerformed, res.BatchesExecuted); err != nil {
		return err
	}

	start, final := report.Configuration, report.FinalConfiguration
	if _, err := fmt.Fprintf(w, "Knobs: batch size %d -> %d, confidence %.2f -> %.2f, checkpoint every %d -> %d files\n\n",
		start.MaxFilesPerBatch, final.MaxFilesPerBatch,
		start.ConfidenceThreshold, final.ConfidenceThreshold,
		start.ValidationFrequency, final.ValidationFrequency); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Batch", "Files", "Analyzed", "Attempted", "OK", "Errors", "Rollbacks", "Safety"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, b := range report.BatchResults {
		data = append(data, []string{
			strconv.Itoa(b.BatchNumber),
			strconv.Itoa(b.FilesProcessed),
			strconv.Itoa(b.AnyTypesAnalyzed),
			strconv.Itoa(b.ReplacementsAttempted),
			strconv.Itoa(b.ReplacementsSuccessful),
			strconv.Itoa(b.CompilationErrors),
			strconv.Itoa(b.RollbacksPerformed),
			fmtFloat(b.SafetyScore),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	sm := report.SafetyMetrics
	if _, err := fmt.Fprintf(w, "Safety: %d build failures, %d rollbacks, %d batch failures, %d compilation errors\n",
		sm.BuildFailures, sm.RollbacksPerformed, sm.BatchFailures, sm.CompilationErrors); err != nil {
		return err
	}

	if len(report.Recommendations) > 0 {
		if _, err := fmt.Fprintf(w, "\nRecommendations:\n"); err != nil {
			return err
		}
		for _, rec := range report.Recommendations {
			if _, err := fmt.Fprintf(w, "  - %s\n", rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCSVBatchResults writes the per-batch metrics in CSV format.
func writeCSVBatchResults(w io.Writer, batches []schema.BatchMetrics) error {
	header := []string{
		"batch",
		"files_processed",
		"any_types_analyzed",
		"replacements_attempted",
		"replacements_successful",
		"compilation_errors",
		"rollbacks_performed",
		"safety_score",
		"execution_ms",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range batches {
			rec := []string{
				strconv.Itoa(b.BatchNumber),
				strconv.Itoa(b.FilesProcessed),
				strconv.Itoa(b.AnyTypesAnalyzed),
				strconv.Itoa(b.ReplacementsAttempted),
				strconv.Itoa(b.ReplacementsSuccessful),
				strconv.Itoa(b.CompilationErrors),
				strconv.Itoa(b.RollbacksPerformed),
				fmt.Sprintf("%.4f", b.SafetyScore),
				strconv.FormatInt(b.ExecutionTime.Milliseconds(), 10),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeMarkdownReport renders the report as a Markdown document. The same
// renderer backs --output markdown and the persisted .md report file.
func writeMarkdownReport(w io.Writer, report *schema.CampaignReport) error {
	res := report.Results
	if _, err := fmt.Fprintf(w, "# Campaign Report %s\n\n", report.ID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "- **Profile**: %s\n", report.Profile); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "- **Timestamp**: %s\n", report.Timestamp.Format(contract.DateTimeFormat)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "- **Final state**: %s\n", res.FinalState); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "- **Stop reason**: %s\n", res.StopReason); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "- **Duration**: %v\n\n", res.Duration); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "## Configuration\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "| Knob | Start | Final |\n|---|---|---|\n"); err != nil {
		return err
	}
	start, final := report.Configuration, report.FinalConfiguration
	rows := [][3]string{
		{"Max files per batch", strconv.Itoa(start.MaxFilesPerBatch), strconv.Itoa(final.MaxFilesPerBatch)},
		{"Target reduction", fmt.Sprintf("%.1f%%", start.TargetReductionPercent), fmt.Sprintf("%.1f%%", final.TargetReductionPercent)},
		{"Confidence threshold", fmt.Sprintf("%.2f", start.ConfidenceThreshold), fmt.Sprintf("%.2f", final.ConfidenceThreshold)},
		{"Safety level", string(start.SafetyLevel), string(final.SafetyLevel)},
		{"Validation frequency", strconv.Itoa(start.ValidationFrequency), strconv.Itoa(final.ValidationFrequency)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "| %s | %s | %s |\n", r[0], r[1], r[2]); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n## Results\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "| Metric | Value |\n|---|---|\n"); err != nil {
		return err
	}
	resultRows := [][2]string{
		{"Files processed", strconv.Itoa(res.FilesProcessed)},
		{"Any types analyzed", strconv.Itoa(res.AnyTypesAnalyzed)},
		{"Replacements successful", strconv.Itoa(res.ReplacementsSuccessful)},
		{"Target replacements", strconv.Itoa(res.TargetReplacements)},
		{"Achieved percent of target", fmt.Sprintf("%.1f%%", res.AchievedPercentOfTarget)},
		{"Rollbacks performed", strconv.Itoa(res.RollbacksPerformed)},
		{"Batches executed", strconv.Itoa(res.BatchesExecuted)},
	}
	for _, r := range resultRows {
		if _, err := fmt.Fprintf(w, "| %s | %s |\n", r[0], r[1]); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n## Batches\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "| Batch | Files | Analyzed | Attempted | Successful | Errors | Rollbacks | Safety |\n|---|---|---|---|---|---|---|---|\n"); err != nil {
		return err
	}
	for _, b := range report.BatchResults {
		if _, err := fmt.Fprintf(w, "| %d | %d | %d | %d | %d | %d | %d | %.2f |\n",
			b.BatchNumber, b.FilesProcessed, b.AnyTypesAnalyzed, b.ReplacementsAttempted,
			b.ReplacementsSuccessful, b.CompilationErrors, b.RollbacksPerformed, b.SafetyScore); err != nil {
			return err
		}
	}

	sm := report.SafetyMetrics
	if _, err := fmt.Fprintf(w, "\n## Safety\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d build failures, %d rollbacks, %d batch failures, %d compilation errors.\n",
		sm.BuildFailures, sm.RollbacksPerformed, sm.BatchFailures, sm.CompilationErrors); err != nil {
		return err
	}

	if len(report.Recommendations) > 0 {
		if _, err := fmt.Fprintf(w, "\n## Recommendations\n\n"); err != nil {
			return err
		}
		for _, rec := range report.Recommendations {
			if _, err := fmt.Fprintf(w, "- %s\n", rec); err != nil {
				return err
			}
		}
	}
	return nil
}
