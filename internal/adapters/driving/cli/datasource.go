package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/rootly-sync/internal/logger"
)

func newDatasourceCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasource",
		Short: "Manage the Glean datasource",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ensure",
		Short: "Register the datasource and its object definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(root.appOptions())
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Warn("close state store: %v", err)
				}
			}()

			if err := app.Indexer.EnsureDatasource(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("Datasource %q is ready\n", app.Settings.Destination.DatasourceName)
			return nil
		},
	})
	return cmd
}
