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

// PrintRunHistory renders recorded campaign runs to stdout or the configured
// output file. Runs arrive newest first from the history store.
func PrintRunHistory(runs []schema.CampaignRunRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteRunHistory(w, runs, cfg)
	}, successMessage(cfg.Output))
}

// WriteRunHistory outputs the runs, dispatching based on the output format configured.
func WriteRunHistory(w io.Writer, runs []schema.CampaignRunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONRunHistory(w, runs); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVRunHistory(w, runs); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeRunHistoryTable(w, runs, cfg); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeRunHistoryTable generates and writes the run history table.
func writeRunHistoryTable(w io.Writer, runs []schema.CampaignRunRecord, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	table.Header([]string{"Run", "Profile", "Started", "State", "Files", "Replaced", "Rollbacks", "Duration"})

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	for _, r := range runs {
		row := []string{
			r.RunID,
			r.Profile,
			r.StartTime.Format("2006-01-02 15:04:05"),
			stringOrDash(r.FinalState),
			strconv.Itoa(int(r.FilesProcessed)),
			strconv.Itoa(int(r.Replacements)),
			strconv.Itoa(int(r.Rollbacks)),
			durationOrDash(r.RunDurationMs),
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
	totalReplacements := 0
	for _, r := range runs {
		totalReplacements += int(r.Replacements)
	}
	if _, err := fmt.Fprintf(w, "Showing %d recorded runs (total replacements: %d)\n", len(runs), totalReplacements); err != nil {
		return err
	}
	return nil
}

// writeCSVRunHistory writes the runs in CSV format.
func writeCSVRunHistory(w io.Writer, runs []schema.CampaignRunRecord) error {
	header := []string{
		"run_id",
		"profile",
		"start_time",
		"end_time",
		"final_state",
		"stop_reason",
		"files_processed",
		"replacements",
		"rollbacks",
		"duration_ms",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			endTime := ""
			if r.EndTime != nil {
				endTime = r.EndTime.Format(contract.DateTimeFormat)
			}
			durationMs := ""
			if r.RunDurationMs != nil {
				durationMs = strconv.Itoa(int(*r.RunDurationMs))
			}
			rec := []string{
				r.RunID,
				r.Profile,
				r.StartTime.Format(contract.DateTimeFormat),
				endTime,
				stringOrEmpty(r.FinalState),
				stringOrEmpty(r.StopReason),
				strconv.Itoa(int(r.FilesProcessed)),
				strconv.Itoa(int(r.Replacements)),
				strconv.Itoa(int(r.Rollbacks)),
				durationMs,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// runHistoryEntry is the JSON shape for one recorded run. In-flight runs
// omit the terminal fields entirely.
type runHistoryEntry struct {
	RunID          string     `json:"run_id"`
	Profile        string     `json:"profile"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	DurationMs     *int32     `json:"duration_ms,omitempty"`
	FinalState     *string    `json:"final_state,omitempty"`
	StopReason     *string    `json:"stop_reason,omitempty"`
	FilesProcessed int32      `json:"files_processed"`
	Replacements   int32      `json:"replacements"`
	Rollbacks      int32      `json:"rollbacks"`
}

// writeJSONRunHistory writes the runs in JSON format.
func writeJSONRunHistory(w io.Writer, runs []schema.CampaignRunRecord) error {
	output := make([]runHistoryEntry, len(runs))
	for i, r := range runs {
		output[i] = runHistoryEntry{
			RunID:          r.RunID,
			Profile:        r.Profile,
			StartTime:      r.StartTime,
			EndTime:        r.EndTime,
			DurationMs:     r.RunDurationMs,
			FinalState:     r.FinalState,
			StopReason:     r.StopReason,
			FilesProcessed: r.FilesProcessed,
			Replacements:   r.Replacements,
			Rollbacks:      r.Rollbacks,
		}
	}
	return writeJSON(w, output)
}

// stringOrDash renders an optional string for table cells.
func stringOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// stringOrEmpty renders an optional string for CSV records.
func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// durationOrDash renders an optional millisecond duration for table cells.
func durationOrDash(ms *int32) string {
	if ms == nil {
		return "-"
	}
	return (time.Duration(*ms) * time.Millisecond).String()
}
