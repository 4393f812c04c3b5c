package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Bricesodini/orch-csv/pkg/errors"
	"github.com/Bricesodini/orch-csv/pkg/logging"
)

// Execute runs the orch-csv CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "orch-csv",
		Short:   "CSV to Obsidian contact sync",
		Version: a.version,
		Long: `orch-csv reads a contact CSV export (Microsoft Lists or any source) and
creates or updates one Markdown note per contact inside an Obsidian vault.

Column names are resolved through a configurable alias mapping, so exports
from different projects can feed the same vault. Existing notes are matched
by unique id or email; hand-written keys and note bodies are preserved.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.orch-csv.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("orch-csv {{.Version}}\n")

	rootCmd.AddCommand(a.newSyncCommand())
	rootCmd.AddCommand(a.newValidateCommand())
	rootCmd.AddCommand(a.newVersionCommand())

	return rootCmd
}

// setupCommand runs before any command and rebuilds the logger from the
// final flag values.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	return nil
}

// ContextWithSignals creates a context that is cancelled when the application
// receives an interrupt or termination signal.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ExitOnError prints the error to stderr and exits non-zero: status 2 for
// configuration and flag errors, 1 for runtime failures.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) || errors.IsValidationError(err) {
		return 2
	}
	return 1
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
