package cli

import (
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, db, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.MigrateUp(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("migrations applied", "count", n)
			return nil
		},
	}, &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, db, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.RollbackLast(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("migrations rolled back", "count", n)
			return nil
		},
	})
	return cmd
}
