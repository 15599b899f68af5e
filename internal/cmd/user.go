package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intakehq/intake/internal/auth"
	"github.com/intakehq/intake/internal/core"
)

var (
	userCreateUsername string
	userCreateEmail    string
	userCreatePassword string
	userCreateAdmin    bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user account directly in the store.

Intended for bootstrapping the first admin account; regular users should
register through the API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := core.NewUser()
		u.Username = strings.TrimSpace(userCreateUsername)
		u.Email = strings.TrimSpace(userCreateEmail)
		if userCreateAdmin {
			u.Role = core.RoleAdmin
		}

		if problems := u.ValidateRegistration(userCreatePassword); len(problems) > 0 {
			for field, reason := range problems {
				fmt.Printf("invalid %s: %s\n", field, reason)
			}
			return fmt.Errorf("invalid user input")
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		if taken, err := db.UsernameExists(cmd.Context(), u.Username); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("username %q already exists", u.Username)
		}
		if taken, err := db.EmailExists(cmd.Context(), u.Email); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("email %q already exists", u.Email)
		}

		hash, err := auth.HashPassword(userCreatePassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash

		if err := db.CreateUser(cmd.Context(), u); err != nil {
			return err
		}

		fmt.Printf("Created %s user %s (%s)\n", u.Role, u.Username, u.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().StringVar(&userCreateUsername, "username", "", "Account username")
	userCreateCmd.Flags().StringVar(&userCreateEmail, "email", "", "Account email")
	userCreateCmd.Flags().StringVar(&userCreatePassword, "password", "", "Account password")
	userCreateCmd.Flags().BoolVar(&userCreateAdmin, "admin", false, "Grant the ADMIN role")

	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}
