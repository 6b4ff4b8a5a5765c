// =============================================================================
// Financial Mapper - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Financial Mapper CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   finmap map <file or dir>  - Map statements onto the canonical vocabulary
//   finmap detect <file>      - Show the detected layout and extracted pairs
//   finmap synonyms           - List the synonym dictionary
//   finmap validate           - Validate the configuration
//   finmap version            - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Readers, layout detection, mapping pipeline, reports
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/financial-mapper/cmd"
)

func main() {
	cmd.Execute()
}
