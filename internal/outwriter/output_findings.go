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

// maxSuggestedWidth bounds the suggested-replacement cell in table output.
const maxSuggestedWidth = 32

// PrintFindings renders classification findings to stdout or the configured
// output file.
func PrintFindings(findings []schema.EnrichedFinding, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteFindings(w, findings, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteFindings outputs the findings, dispatching based on the output format configured.
func WriteFindings(w io.Writer, findings []schema.EnrichedFinding, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONFindings(w, findings); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVFindings(w, findings, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := writeFindingsTable(w, findings, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeFindingsTable generates and writes the human-readable verdict table.
func writeFindingsTable(w io.Writer, findings []schema.EnrichedFinding, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Rank", "Location", "Verdict", "Conf", "Label"}
	if cfg.Detail {
		headers = append(headers, "Category", "Domain", "Suggested")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	label := labelRenderer(cfg)
	var data [][]string
	for _, f := range findings {
		location := fmt.Sprintf("%s:%d", f.FilePath, f.LineNumber)
		row := []string{
			strconv.Itoa(f.Rank), // Rank
			contract.TruncatePath(location, GetMaxTablePathWidth(cfg)), // Location
			displayVerdict(f.IsIntentional, cfg.UseEmojis),             // Verdict
			fmtFloat(f.Confidence),                                     // Confidence
			label(f.Confidence),                                        // Label
		}
		if cfg.Detail {
			row = append(row,
				schema.TitleForCategory(f.Category),                          // Category
				string(f.Domain),                                             // Domain
				schema.TruncateSnippet(f.SuggestedReplacement, maxSuggestedWidth), // Suggested
			)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	intentional := 0
	for _, f := range findings {
		if f.IsIntentional {
			intentional++
		}
	}
	if _, err := fmt.Fprintf(w, "Showing %d occurrences (%d replacement targets, %d intentional)\n",
		len(findings), len(findings)-intentional, intentional); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Classification completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVFindings writes the findings in CSV format.
func writeCSVFindings(w io.Writer, findings []schema.EnrichedFinding, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"file",
		"line",
		"verdict",
		"confidence",
		"label",
		"category",
		"domain",
		"suggested",
		"reasoning",
		"needs_doc",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range findings {
			rec := []string{
				strconv.Itoa(f.Rank),                  // Rank
				f.FilePath,                            // File Path
				strconv.Itoa(f.LineNumber),            // Line Number
				verdictWord(f.IsIntentional),          // Verdict
				fmtFloat(f.Confidence),                // Confidence
				contract.GetPlainLabel(f.Confidence),  // Label
				string(f.Category),                    // Category
				string(f.Domain),                      // Domain
				f.SuggestedReplacement,                // Suggested Replacement
				f.Reasoning,                           // Reasoning
				strconv.FormatBool(f.RequiresDocumentation), // Needs Documentation
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONFindings writes the findings in JSON format. Rank and label are
// part of the enriched shape already, so no wrapper struct is needed.
func writeJSONFindings(w io.Writer, findings []schema.EnrichedFinding) error {
	return writeJSON(w, findings)
}
