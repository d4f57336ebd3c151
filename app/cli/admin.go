package cli

import (
	userrepo "libraryapi/repository/user"
	authsvc "libraryapi/service/auth"

	"github.com/spf13/cobra"
)

// createAdminCmd bootstraps the first administrator; registration over HTTP
// only ever yields members unless an admin asks.
func createAdminCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, db, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if _, err := db.MigrateUp(cmd.Context()); err != nil {
				return err
			}
			svc := authsvc.New(userrepo.New(db), cfg.JWTSecret, cfg.JWTTTL)
			u, err := svc.CreateAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			log.Info("admin created", "user_id", u.ID, "email", u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the email local part)")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
