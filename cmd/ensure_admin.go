package cmd

import (
	"fmt"
	"os"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/repositories"
	"portfolio/internal/services"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var promptPassword bool

var ensureAdminCmd = &cobra.Command{
	Use:   "ensure-admin",
	Short: "Create or reset the administrator account",
	Long: `Creates the administrator named by ADMIN_USERNAME with the password in
ADMIN_PASSWORD. An existing user with that name gets the new password and is
promoted to administrator. Missing credentials are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(config.New())
		log := newLogger(cfg)
		username, password := cfg.Admin.Username, cfg.Admin.Password

		if promptPassword && username != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s: ", username)
			raw, err := readPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(raw)
		}

		if username == "" || password == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "Missing ADMIN_USERNAME or ADMIN_PASSWORD in environment")
			return nil
		}

		db, err := database.Open(cfg.DatabaseURL, cfg.Debug)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		authService := services.NewAuthService(
			repositories.NewGORMUserRepository(db),
			repositories.NewGORMSessionRepository(db),
			cfg.Session.Secret, cfg.Session.TTL, log,
		)
		created, err := authService.EnsureAdmin(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %q created successfully\n", username)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %q updated successfully\n", username)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureAdminCmd)
	ensureAdminCmd.Flags().BoolVar(&promptPassword, "prompt", false, "read the password from the terminal instead of ADMIN_PASSWORD")
}
