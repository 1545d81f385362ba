// =============================================================================
// Comma Fixer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Comma Fixer CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   commafix process       - Repair every matching file under the root directory
//   commafix check         - Report files that would change, exit 1 if any
//   commafix watch         - Repair files as they are saved
//   commafix version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Repair engine, walker, rewriter and support packages
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/commafix/cmd"
)

func main() {
	cmd.Execute()
}
