package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// defaultHistoryLimit is the number of runs history prints by default.
const defaultHistoryLimit = 20

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent serve-mode runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 1 {
				return domain.NewConfigError("limit", "must be positive")
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

			results, err := app.History.GetTaskHistory(cmd.Context(), domain.TaskIDSync, limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			fmt.Fprintln(out, historyTable(results))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "number of runs to show")
	return cmd
}

func historyTable(results []domain.TaskResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		outcome := "ok"
		if !r.Success {
			outcome = r.Error
		}
		rows = append(rows, []string{
			r.StartedAt.Local().Format(time.DateTime),
			r.Duration().Round(time.Second).String(),
			strconv.Itoa(r.ItemsProcessed),
			strconv.Itoa(r.ItemsFailed),
			outcome,
			r.RunID,
		})
	}
	return table.New().
		Border(lipgloss.ASCIIBorder()).
		Headers("Started", "Duration", "Uploaded", "Failed", "Outcome", "Run ID").
		Rows(rows...).
		StyleFunc(func(int, int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
