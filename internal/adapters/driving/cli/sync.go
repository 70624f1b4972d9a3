package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driving"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// sinceLayouts are the accepted forms of the since argument, most precise first.
var sinceLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// syncOptions holds the flags shared by the root and sync commands.
type syncOptions struct {
	resume bool
	types  []string
}

func (o *syncOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.resume, "resume", false, "start each data type from its stored watermark")
	cmd.Flags().StringSliceVar(&o.types, "types", nil,
		"restrict the run to these enabled data types (comma separated)")
}

func newSyncCmd(root *rootOptions) *cobra.Command {
	opts := &syncOptions{}
	cmd := &cobra.Command{
		Use:   "sync [since]",
		Short: "Run one synchronisation pass",
		Long: `Fetch every enabled data type from Rootly and upload it to Glean.

The optional since argument limits the run to records modified at or after
the given time, e.g. 2024-03-01 or 2024-03-01T12:00:00Z. Times without a
zone are UTC.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, root, opts, args)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runSync(cmd *cobra.Command, root *rootOptions, opts *syncOptions, args []string) error {
	runOpts, err := opts.runOptions(args)
	if err != nil {
		return err
	}

	app, err := newApp(root.appOptions())
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close state store: %v", err)
		}
	}()

	report, err := app.Coordinator.Run(cmd.Context(), runOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderSummary(out, report, isTerminal(out))
	if report.Failed() {
		return errRunFailed
	}
	return nil
}

// runOptions validates the positional since argument and --types.
func (o *syncOptions) runOptions(args []string) (driving.RunOptions, error) {
	runOpts := driving.RunOptions{Resume: o.resume}
	if len(args) == 1 {
		since, err := parseSince(args[0])
		if err != nil {
			return runOpts, err
		}
		runOpts.Since = &since
	}
	for _, raw := range o.types {
		dt, err := domain.ParseDataType(strings.TrimSpace(raw))
		if err != nil {
			return runOpts, domain.NewConfigError("types", "unknown data type %q", raw)
		}
		runOpts.Only = append(runOpts.Only, dt)
	}
	return runOpts, nil
}

// parseSince parses an ISO-8601 timestamp. Values without a zone are UTC.
func parseSince(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range sinceLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewConfigError("since", "%q is not an ISO-8601 date or timestamp", raw)
}
