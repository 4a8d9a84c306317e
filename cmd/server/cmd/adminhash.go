package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var adminHashCmd = &cobra.Command{
	Use:   "adminhash",
	Short: "Generate a bcrypt hash for ADMIN_PASSWORD_HASH",
	Long: `Generate a bcrypt hash of the admin password for the
ADMIN_PASSWORD_HASH environment variable.

The password is read from stdin without echo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdminHash(cmd)
	},
}

func runAdminHash(cmd *cobra.Command) error {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if len(password) == 0 {
		return fmt.Errorf("password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}
