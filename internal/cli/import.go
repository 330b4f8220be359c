package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentgrip/internal/catalog"
	"rentgrip/internal/logging"
)

func newImportCmd(opts *globalOptions) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "import <catalog file>",
		Short: "Load a JSON or YAML catalog file into a SQLite database",
		Long: `Replace the contents of a SQLite catalog database with the items and
category tree of a JSON or YAML catalog file. The database is created
if needed.`,
		Example: `  rentgrip import catalog.json --dsn catalog.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCommandConfig(cmd, opts)
			if err != nil {
				return err
			}
			if dsn == "" {
				dsn = cfg.Catalog.DSN
			}
			if dsn == "" {
				return fmt.Errorf("no database given: pass --dsn or set catalog.dsn")
			}

			c, err := catalog.NewFileProvider(args[0]).Fetch(cmd.Context())
			if err != nil {
				return err
			}

			db, err := catalog.OpenSQLite(dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Save(cmd.Context(), c); err != nil {
				return err
			}
			log := logging.Component("cli")
			log.Info().
				Str("dsn", dsn).
				Int("items", len(c.Items)).
				Msg("catalog imported")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items into %s\n", len(c.Items), dsn)
			return err
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "SQLite database to write (default catalog.dsn from config)")
	return cmd
}
