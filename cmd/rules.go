package cmd

import (
	"fmt"
	"strings"

	"github.com/alchm-kitchen/typesweep/core"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rulesSetup loads minimal configuration needed to render the rule catalog.
// The catalog is static, so no project resolution or history store is
// required and the command works from any directory.
func rulesSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	cfg.OutputFile = viper.GetString("output-file")
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, markdown, parquet", cfg.Output)
	}
	cfg.Precision = viper.GetInt("precision")
	cfg.Width = viper.GetInt("width")

	// Parse emoji flag; empty means the flag default (on)
	cfg.UseEmojis = true
	if emojiStr := viper.GetString("emoji"); emojiStr != "" {
		emojis, err := contract.ParseBoolString(emojiStr)
		if err != nil {
			return fmt.Errorf("invalid --emoji value: %w", err)
		}
		cfg.UseEmojis = emojis
	}

	// Parse color flag; empty means the flag default (on)
	cfg.UseColors = true
	if colorStr := viper.GetString("color"); colorStr != "" {
		colors, err := contract.ParseBoolString(colorStr)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	// Resolve cap overrides so the catalog shows the ceilings in effect
	input := &contract.ConfigRawInput{}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	caps, err := contract.ProcessCapsRawInput(input.Caps)
	if err != nil {
		return err
	}
	cfg.CategoryCaps = caps

	return nil
}

// rulesSetupWrapper wraps rulesSetup to provide PreRunE for the rules command.
func rulesSetupWrapper(_ *cobra.Command, _ []string) error {
	return rulesSetup()
}

// rulesCmd displays the classification rule catalog.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Display the classification rule catalog and scoring caps",
	Long: `Show every classification rule, its signals and its confidence cap.

Provides complete transparency into how occurrences are judged, including:
- Which categories count as intentional and are left alone
- The replacement type suggested for each replaceable category
- The maximum confidence a rule can assign
- The signals that trigger each rule
- Custom caps if configured via .typesweep.yaml

No project scan is performed - this is purely informational.

Use this to:
- Understand why an occurrence was classified a certain way
- Explain campaign behavior to your team
- Review the rule catalog before a first run

Examples:
  # Show the rule catalog
  typesweep rules

  # Machine-readable copy for docs or review tools
  typesweep rules --output json`,
	PreRunE: rulesSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRules(cfg); err != nil {
			contract.LogFatal("Cannot display rules", err)
		}
	},
}
