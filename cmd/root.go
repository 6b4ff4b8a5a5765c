// =============================================================================
// Financial Mapper - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (finmap)
//   ├── mapCmd       (finmap map)
//   ├── detectCmd    (finmap detect)
//   ├── synonymsCmd  (finmap synonyms)
//   ├── validateCmd  (finmap validate)
//   └── versionCmd   (finmap version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --env-file, --verbose)
//   2. Loading the .env file and the configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/financial-mapper/internal/config"
	"github.com/ginjaninja78/financial-mapper/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. Empty means defaults.
var cfgFile string

// envFile is the .env file loaded before the configuration.
var envFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "finmap",
	Short: "Financial Mapper - Map financial statement labels to a canonical vocabulary",
	Long: `Financial Mapper reads financial statements (XLSX, CSV, HTML, JSON) whose
line items are labelled inconsistently and maps every label/value pair onto a
fixed vocabulary of canonical fields such as "Net Profit" or "Total Assets".

Key Features:
  - Layout detection for dual-column ledgers, multi-year statutory statements
    and plain label/value tables
  - One mapping run per fiscal year found in the input
  - Exact synonym lookup, then fuzzy matching with ambiguity warnings
  - Validation of duplicates, required fields and implausible values
  - JSON, CSV or XML output with an audit log of every finding

Example Usage:
  finmap map statements/                # Map every supported file in a directory
  finmap map acme.xlsx --format xml     # Map one workbook to XML
  finmap detect acme.xlsx               # Show the detected layout and pairs
  finmap validate --config ./my.yaml    # Validate a configuration file`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (defaults are used when empty)",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		".env",
		"Path to a .env file with FINMAP_* overrides",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig loads the .env file and the configuration, then opens the
// logger. The closer flushes the log file, if any.
func loadConfig(cmd *cobra.Command) (*config.Config, logging.Logger, io.Closer, error) {
	explicit := cmd.Flags().Changed("env-file")
	if err := config.LoadEnvFile(envFile, explicit); err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, closer, err := logging.Open(cfg.Logging.File, level)
	if err != nil {
		return nil, nil, nil, err
	}

	if src := cfg.Source(); src != "" {
		logger.Debug("using config file %s", src)
	}
	return cfg, logger, closer, nil
}
