// =============================================================================
// Comma Fixer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (commafix)
//   ├── processCmd (commafix process)
//   ├── checkCmd   (commafix check)
//   ├── watchCmd   (commafix watch)
//   └── versionCmd (commafix version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file (optional unless --config is given)
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/commafix/internal/config"
	"github.com/ginjaninja78/commafix/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the loaded configuration, available to every subcommand.
var appConfig *config.MainConfig

// logger is built once the configuration is known.
var logger *zap.SugaredLogger

// closeLogger flushes the logger and closes the log file, if any.
var closeLogger = func() {}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	// Use is the one-line usage message.
	Use: "commafix",

	// Short is a short description shown in the 'help' output.
	Short: "Comma Fixer - Insert missing trailing commas in object literals",

	// Long is a longer description shown in the 'help <command>' output.
	Long: `Comma Fixer scans a source tree and repairs object-literal text in which
the commas between properties were lost, rewriting only the files that change.

It is a line-based heuristic, not a parser:
  - a line containing ':' that does not already end in , { [ ; or =>
    gets a comma when the next line is another property or starts with '{'
  - a line that is exactly '}' gets a comma when the next line starts with '{'

Example Usage:
  commafix process                     # Repair .ts/.tsx files under ./src
  commafix process ./app --ext .js     # Repair .js files under ./app
  commafix check --diff                # Show what would change, exit 1 if anything
  commafix watch                       # Keep ./src repaired while editing`,

	// Errors and usage are printed by Execute, once.
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRunE runs before every subcommand. It loads the
	// configuration and builds the logger the subcommands share.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appConfig = cfg

		level := cfg.LogLevel
		if verbose {
			level = logging.LevelDebug
		}
		l, cleanup, err := logging.New(level, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger, closeLogger = l, cleanup
		return nil
	},

	// Run prints the help message when no subcommand is given.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). SIGINT and
// SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// execute runs the root command and flushes the logger, also when the command
// failed.
func execute(ctx context.Context) error {
	defer func() {
		closeLogger()
		closeLogger = func() {}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file (optional unless set explicitly)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
