package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// PrintRules displays the classification rule registry. This is a static
// display that does not require scanning a project.
func PrintRules(rules []schema.ClassificationRule, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteRules(w, rules, cfg)
	}, successMessage(cfg.Output))
}

// WriteRules outputs the rule registry, dispatching based on the output format configured.
func WriteRules(w io.Writer, rules []schema.ClassificationRule, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, rules); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVRules(w, rules); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeRulesText(w, rules, cfg); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeRulesText displays the rules in human-readable text format.
func writeRulesText(w io.Writer, rules []schema.ClassificationRule, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s\n", headerTitle("📋", "Classification Rules", cfg.UseEmojis)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "====================\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "KEEP verdicts preserve intentional usage; REPLACE verdicts queue a substitution.\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}

	for _, rule := range rules {
		verdict := displayVerdict(rule.Intentional, cfg.UseEmojis)
		if _, err := fmt.Fprintf(w, "%s %s (max score %.2f)\n", verdict, schema.TitleForCategory(rule.Category), rule.MaxScore); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Signals: %s\n", strings.Join(rule.Signals, "; ")); err != nil {
			return err
		}
		if rule.Replacement != "" {
			if _, err := fmt.Fprintf(w, "   Replacement: %s\n", rule.Replacement); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

// writeCSVRules writes the rule registry in CSV format.
func writeCSVRules(w io.Writer, rules []schema.ClassificationRule) error {
	header := []string{"category", "verdict", "max_score", "signals", "replacement"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, rule := range rules {
			rec := []string{
				string(rule.Category),
				verdictWord(rule.Intentional),
				fmt.Sprintf("%.2f", rule.MaxScore),
				strings.Join(rule.Signals, "|"),
				rule.Replacement,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
