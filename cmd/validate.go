// =============================================================================
// Financial Mapper - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configuration
// without processing any file. Overlay files are loaded so that a broken
// overlay is reported here rather than in the middle of a run.
//
// COMMAND USAGE:
//   finmap validate [--config FILE]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/financial-mapper/internal/pipeline"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without processing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		p, err := pipeline.FromConfig(cfg, nil, logger)
		if err != nil {
			return err
		}

		source := cfg.Source()
		if source == "" {
			source = "(defaults)"
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration OK: %s\n", source)
		fmt.Fprintf(out, "  Fuzzy:           %s, threshold %.1f, ambiguity delta %.1f\n",
			cfg.Matching.FuzzyScorer, cfg.Matching.FuzzyThreshold, cfg.Matching.FuzzyAmbiguityDelta)
		fmt.Fprintf(out, "  Strict mode:     %t\n", cfg.Matching.StrictMode)
		fmt.Fprintf(out, "  Required fields: %d\n", len(cfg.Validation.RequiredFields))
		fmt.Fprintf(out, "  Synonyms:        %d (%d overlay file(s))\n", p.SynonymCount(), len(cfg.SynonymOverlays))
		fmt.Fprintf(out, "  Output:          %s in %s\n", cfg.Output.Format, cfg.Output.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
