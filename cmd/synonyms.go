// =============================================================================
// Financial Mapper - Synonyms Command
// =============================================================================
//
// This file defines the 'synonyms' command, which lists the synonym
// dictionary the mapper would use: the built-in table plus configured
// synonyms and overlay files.
//
// COMMAND USAGE:
//   finmap synonyms [--overlay FILE]... [--canonical NAME]
//
// =============================================================================

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/financial-mapper/internal/pipeline"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

var (
	overlayFiles  []string
	canonicalOnly string
)

// synonymsCmd represents the 'synonyms' command.
var synonymsCmd = &cobra.Command{
	Use:   "synonyms",
	Short: "List the synonym dictionary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		var filter schema.CanonicalField
		if canonicalOnly != "" {
			f, ok := schema.LookupCanonical(canonicalOnly)
			if !ok {
				return fmt.Errorf("%q is not a canonical field", canonicalOnly)
			}
			filter = f
		}

		p, err := pipeline.FromConfig(cfg, nil, logger)
		if err != nil {
			return err
		}
		dict := p.Dictionary()
		for _, path := range overlayFiles {
			if _, err := dict.LoadFile(path); err != nil {
				return err
			}
		}

		entries := dict.All()
		variants := make([]string, 0, len(entries))
		for v, c := range entries {
			if filter == "" || c == filter {
				variants = append(variants, v)
			}
		}
		sort.Slice(variants, func(i, j int) bool {
			ci, cj := entries[variants[i]], entries[variants[j]]
			if ci != cj {
				return ci < cj
			}
			return variants[i] < variants[j]
		})

		out := cmd.OutOrStdout()
		for _, v := range variants {
			fmt.Fprintf(out, "%-40s %s\n", v, entries[v])
		}
		fmt.Fprintf(out, "\n%d synonym(s)\n", len(variants))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(synonymsCmd)

	synonymsCmd.Flags().StringSliceVar(&overlayFiles, "overlay", nil, "Extra synonym file (json, hjson, yaml); repeatable")
	synonymsCmd.Flags().StringVar(&canonicalOnly, "canonical", "", "Only list synonyms of this canonical field")
}
