package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/pdiddy/regdesk/internal/auth"
	"github.com/pdiddy/regdesk/internal/secrets"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a session token for subsequent commands",
	Long: `Login stores a bearer token issued by the backend in the local session
store. When --token is omitted the token is read from the secrets directory
(regdesk-api-token) or prompted for.`,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		user, _ := cmd.Flags().GetString("user")
		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = loadedSecrets.Get(secrets.KeyAPIToken)
		}
		if token == "" {
			p := promptui.Prompt{Label: "API token", Mask: '*'}
			v, err := p.Run()
			if err != nil {
				return fmt.Errorf("token prompt: %w", err)
			}
			token = v
		}

		s, err := a.sessions.Login(cmd.Context(), user, token)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s until %s\n", s.User, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.sessions.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		s, err := a.sessions.Current(cmd.Context())
		if errors.Is(err, auth.ErrNoSession) {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}
		if err != nil {
			return err
		}
		if ok, err := a.structured(cmd, s); ok {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (session expires %s)\n", s.User, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	}),
}

func init() {
	loginCmd.Flags().String("user", strings.TrimSpace(defaultUser()), "user name the token belongs to")
	loginCmd.Flags().String("token", "", "bearer token (default: secrets directory or prompt)")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func defaultUser() string {
	for _, k := range []string{"REGDESK_USER", "USER", "USERNAME"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
