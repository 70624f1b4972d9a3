package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rootly-sync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitConfig = 2
)

// errRunFailed reports that at least one enabled data type failed entirely.
// The summary has already been printed when it is returned.
var errRunFailed = errors.New("sync run failed")

// version is set at build time via SetVersion.
var version = "dev"

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// rootOptions holds the global flags.
type rootOptions struct {
	configPath  string
	secretsPath string
	verbose     bool
}

func (o *rootOptions) appOptions() appOptions {
	return appOptions{configPath: o.configPath, secretsPath: o.secretsPath}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	syncOpts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "rootly-sync [since]",
		Short: "Index Rootly incidents, alerts and on-call data in Glean",
		Long: `rootly-sync copies incidents, alerts, schedules, escalation policies and
retrospectives from the Rootly API into a Glean custom datasource.

Without a subcommand it performs one synchronisation run. The optional since
argument (ISO-8601) limits the run to records modified at or after that time.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.SetVerbose(opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts, syncOpts, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", file.DefaultSettingsFile, "settings file (TOML or YAML)")
	flags.StringVar(&opts.secretsPath, "secrets-file", file.DefaultSecretsFile, "optional KEY=VALUE file with API tokens")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	syncOpts.bind(cmd)

	cmd.AddCommand(
		newSyncCmd(opts),
		newServeCmd(opts),
		newDatasourceCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = logger.Sync() }()

	cmd := NewRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errRunFailed) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return exitCode(err)
}

// exitCode maps a command error onto the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case domain.IsConfigError(err):
		return ExitConfig
	default:
		return ExitFailed
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("rootly-sync version %s\n", version)
		},
	}
}
