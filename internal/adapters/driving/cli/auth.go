package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

var (
	authName          string
	authEmail         string
	authPasswordStdin bool
	authJSON          bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your Dishsafe account",
	Long: `Create an account, log in and out of the Dishsafe backend.

Logging in stores the issued token as auth.token in the config file. Write
commands use it unless --token is given. DISHSAFE_TOKEN overrides the
stored token.

Examples:
  dishsafe auth signup --name "Ada" --email ada@example.com
  dishsafe auth login --email ada@example.com
  echo "$PASSWORD" | dishsafe auth login --email ada@example.com --password-stdin
  dishsafe auth status`,
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE:  runAuthSignup,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runAuthStatus,
}

func init() {
	authSignupCmd.Flags().StringVar(&authName, "name", "", "display name (required)")
	authSignupCmd.Flags().StringVar(&authEmail, "email", "", "email address (required)")
	authSignupCmd.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "read the password from stdin")
	_ = authSignupCmd.MarkFlagRequired("name")
	_ = authSignupCmd.MarkFlagRequired("email")

	authLoginCmd.Flags().StringVar(&authEmail, "email", "", "email address (required)")
	authLoginCmd.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "read the password from stdin")
	_ = authLoginCmd.MarkFlagRequired("email")

	authStatusCmd.Flags().BoolVar(&authJSON, "json", false, "output as JSON")

	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSignup(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}

	password, err := readPassword(cmd, "Password: ")
	if err != nil {
		return err
	}

	err = accountService.SignUp(context.Background(), domain.Registration{
		Name:     authName,
		Email:    authEmail,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}

	cmd.Printf("Account created for %s. Run 'dishsafe auth login --email %s' to log in.\n", authEmail, authEmail)
	return nil
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}

	password, err := readPassword(cmd, "Password: ")
	if err != nil {
		return err
	}

	cred, err := accountService.Login(context.Background(), domain.Login{
		Email:    authEmail,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	cmd.Printf("Logged in as %s.\n", orDefault(cred.Subject, authEmail))
	if !cred.ExpiresAt.IsZero() {
		cmd.Printf("Session expires %s.\n", cred.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}
	if err := accountService.Logout(); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	cmd.Println("Logged out.")
	return nil
}

// authStatusJSON is the JSON shape of the session status.
type authStatusJSON struct {
	LoggedIn  bool   `json:"logged_in"`
	Subject   string `json:"subject,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Expired   bool   `json:"expired"`
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}

	cred, err := accountService.Status()
	expired := err != nil && errors.Is(err, domain.ErrNotAuthorized) && !cred.IsZero()
	if err != nil && !expired {
		return fmt.Errorf("failed to read session: %w", err)
	}

	if authJSON {
		out := authStatusJSON{
			LoggedIn: !cred.IsZero() && !expired,
			Subject:  cred.Subject,
			Expired:  expired,
		}
		if !cred.ExpiresAt.IsZero() {
			out.ExpiresAt = cred.ExpiresAt.UTC().Format(time.RFC3339)
		}
		return writeJSON(cmd, out)
	}

	if cred.IsZero() {
		cmd.Println("Not logged in.")
		return nil
	}

	cmd.Printf("User:    %s\n", orDefault(cred.Subject, "unknown"))
	cmd.Printf("Token:   %s\n", maskAPIKey(cred.Token))
	if !cred.ExpiresAt.IsZero() {
		cmd.Printf("Expires: %s\n", cred.ExpiresAt.Local().Format(time.RFC1123))
	}
	if expired {
		cmd.Println("\nSession expired. Run 'dishsafe auth login' again.")
	}
	return nil
}

// readPassword reads a password without echo when stdin is a terminal,
// otherwise it takes the first line of stdin.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !authPasswordStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
