package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dbmrq/globe/internal/i18n"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in to the backend and store the session locally.

Missing values are asked for interactively. The password is read without
echo when the input is a terminal.

Examples:
  globe login
  globe login --email ana@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account on the backend. Registering does not sign you in;
run globe login afterwards.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var passwordResetCmd = &cobra.Command{
	Use:   "password-reset <email>",
	Short: "Request password reset instructions",
	Args:  cobra.ExactArgs(1),
	RunE:  runPasswordReset,
}

var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email <token>",
	Short: "Confirm an email address with the emailed token",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerifyEmail,
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, passwordResetCmd, verifyEmailCmd)

	loginCmd.Flags().StringP("email", "e", "", "Account email")
	loginCmd.Flags().StringP("password", "p", "", "Account password (prefer the prompt)")

	registerCmd.Flags().StringP("email", "e", "", "Account email")
	registerCmd.Flags().StringP("password", "p", "", "Account password (prefer the prompt)")
	registerCmd.Flags().String("password-confirmation", "", "Repeat the password")

	whoamiCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
}

// flagOrPrompt returns the flag value, asking for it when empty.
func flagOrPrompt(cmd *cobra.Command, p *prompter, flag, label string, secret bool) (string, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v, nil
	}
	if secret {
		return p.Secret(label)
	}
	return p.Line(label)
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false, true)
	if err != nil {
		return err
	}
	defer e.Close()

	p := newPrompter(cmd)
	email, err := flagOrPrompt(cmd, p, "email", e.tr.T("auth.email", nil), false)
	if err != nil {
		return err
	}
	password, err := flagOrPrompt(cmd, p, "password", e.tr.T("auth.password", nil), true)
	if err != nil {
		return err
	}

	if err := e.account.SignIn(cmd.Context(), email, password); err != nil {
		return err
	}
	cmd.Println("✓ " + e.tr.T("app.signedInAs", i18n.Params{"email": e.session.Email()}))
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false, true)
	if err != nil {
		return err
	}
	defer e.Close()

	p := newPrompter(cmd)
	email, err := flagOrPrompt(cmd, p, "email", e.tr.T("auth.email", nil), false)
	if err != nil {
		return err
	}
	password, err := flagOrPrompt(cmd, p, "password", e.tr.T("auth.password", nil), true)
	if err != nil {
		return err
	}
	confirmation, err := flagOrPrompt(cmd, p, "password-confirmation", e.tr.T("auth.confirmPassword", nil), true)
	if err != nil {
		return err
	}

	notice, err := e.account.SignUp(cmd.Context(), email, password, confirmation)
	if err != nil {
		return err
	}
	cmd.Println("✓ " + notice)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false, true)
	if err != nil {
		return err
	}
	defer e.Close()

	e.account.SignOut(cmd.Context())
	cmd.Println(e.tr.T("app.signedOut", nil))
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false, true)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.requireSession(); err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(e.session.User())
	}
	cmd.Println(e.tr.T("app.signedInAs", i18n.Params{"email": e.session.Email()}))
	return nil
}

func runPasswordReset(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false, true)
	if err != nil {
		return err
	}
	defer e.Close()

	notice, err := e.client.RequestPasswordReset(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Println(messageOr(notice.Message, e.tr.T("auth.passwordResetSent", nil)))
	return nil
}

func runVerifyEmail(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false, true)
	if err != nil {
		return err
	}
	defer e.Close()

	notice, err := e.client.VerifyEmail(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Println(messageOr(notice.Message, e.tr.T("auth.emailVerified", nil)))
	return nil
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
