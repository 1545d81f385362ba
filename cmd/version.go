// =============================================================================
// Comma Fixer - Version Command
// =============================================================================
//
// This file defines the 'version' command and the root '--version' flag.
//
// COMMAND USAGE:
//   commafix version           # full build information
//   commafix version --short   # the version number only
//   commafix --version         # same as --short
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set with ldflags:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/commafix/cmd.Version=1.2.0' \
//	  -X 'github.com/ginjaninja78/commafix/cmd.Commit=$(git rev-parse --short HEAD)'"
var (
	Version   = "1.0.0"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the version, commit, build date and Go runtime of this build.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
			return
		}
		printVersion(cmd.OutOrStdout())
	},
}

// printVersion writes the full build information as aligned key/value lines.
func printVersion(out io.Writer) {
	fmt.Fprintln(out, "Comma Fixer")
	for _, kv := range [][2]string{
		{"Version", Version},
		{"Commit", Commit},
		{"Build Date", BuildDate},
		{"Go Version", runtime.Version()},
		{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
	} {
		fmt.Fprintf(out, "%-11s %s\n", kv[0]+":", kv[1])
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}
