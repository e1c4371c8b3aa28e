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

// PrintCandidates renders discovery candidates to stdout or the configured
// output file.
func PrintCandidates(candidates []schema.EnrichedCandidate, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCandidates(w, candidates, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteCandidates outputs the candidates, dispatching based on the output format configured.
func WriteCandidates(w io.Writer, candidates []schema.EnrichedCandidate, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, candidates); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVCandidates(w, candidates); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := writeCandidatesTable(w, candidates, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeCandidatesTable generates and writes the candidate file table.
func writeCandidatesTable(w io.Writer, candidates []schema.EnrichedCandidate, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	table.Header([]string{"Rank", "Path", "Occurrences"})

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	for _, c := range candidates {
		row := []string{
			strconv.Itoa(c.Rank), // Rank
			contract.TruncatePath(c.Path, GetMaxTablePathWidth(cfg)), // File Path
			strconv.Itoa(c.Occurrences),                              // Occurrence Count
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
	totalOccurrences := 0
	for _, c := range candidates {
		totalOccurrences += c.Occurrences
	}
	if _, err := fmt.Fprintf(w, "Showing top %d candidate files (total occurrences: %d)\n",
		len(candidates), totalOccurrences); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Discovery completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVCandidates writes the candidates in CSV format.
func writeCSVCandidates(w io.Writer, candidates []schema.EnrichedCandidate) error {
	header := []string{"rank", "file", "occurrences"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range candidates {
			rec := []string{
				strconv.Itoa(c.Rank),
				c.Path,
				strconv.Itoa(c.Occurrences),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
