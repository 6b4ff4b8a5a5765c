// =============================================================================
// Financial Mapper - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version and build information.
//
// COMMAND USAGE:
//   finmap version
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/financial-mapper/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, Go runtime version and vocabulary size.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Financial Mapper")
		fmt.Fprintf(out, "Version:          %s\n", Version)
		fmt.Fprintf(out, "Build Date:       %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version:       %s\n", runtime.Version())
		fmt.Fprintf(out, "Canonical Fields: %d\n", len(schema.CanonicalFields()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
