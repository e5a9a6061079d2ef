// ABOUTME: Sign-in commands: login, signup, logout, whoami
// ABOUTME: Keeps the shared token in the state directory and runs the language prompt

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/wusuleable-web/cli/internal/locale"
	"github.com/markalston/wusuleable-web/cli/internal/session"
	"github.com/markalston/wusuleable-web/cli/internal/tui"
	"github.com/markalston/wusuleable-web/cli/internal/tui/menu"
	"github.com/markalston/wusuleable-web/cli/internal/tui/styles"
	"github.com/markalston/wusuleable-web/models"
)

var (
	loginEmail      string
	loginPassword   string
	signupConfirm   string
	signupWebsite   string
	errMissingInput = errors.New("email and password are required (pass --email and --password when not on a terminal)")
)

// promptCredentials fills missing credentials with a huh form. Tests replace it.
var promptCredentials = func(email, password, confirm *string, withConfirm bool) error {
	fields := []huh.Field{
		huh.NewInput().Title("Email").Value(email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password),
	}
	if withConfirm {
		fields = append(fields, huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(confirm))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(styles.FormTheme()).Run()
}

// chooseLanguage shows the language prompt. Tests replace it.
var chooseLanguage = func(p *locale.Prompt) (menu.Choice, error) {
	return menu.New(p).Run()
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long: `Sign in with email and password. The token is stored in the state
directory and shared with every other wusuleable process, including a
running dashboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exitWith(runLogin(ctx, os.Stdout))
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exitWith(runSignup(ctx, os.Stdout))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored token",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exitWith(runLogout(ctx, os.Stdout))
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runWhoami(os.Stdout))
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	signupCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	signupCmd.Flags().StringVar(&signupConfirm, "password-confirmation", "", "Repeat the password")
	signupCmd.Flags().StringVar(&signupWebsite, "website", "", "Website URL")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}

// exitWith terminates the process on a non-zero code.
func exitWith(code int) {
	if code != 0 {
		os.Exit(code)
	}
}

func collectCredentials(withConfirm bool) error {
	missing := loginEmail == "" || loginPassword == "" || (withConfirm && signupConfirm == "")
	if !missing {
		return nil
	}
	if !interactive() {
		return errMissingInput
	}
	if err := promptCredentials(&loginEmail, &loginPassword, &signupConfirm, withConfirm); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("cancelled")
		}
		return fmt.Errorf("reading credentials: %w", err)
	}
	return nil
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	if err := collectCredentials(false); err != nil {
		return fail(w, err)
	}

	result, err := e.client.Login(ctx, loginEmail, loginPassword)
	if err != nil {
		e.log.Debug("Login failed", "error", err)
		return fail(w, err)
	}
	if result.Token == "" {
		return fail(w, errors.New("login succeeded but no token was returned"))
	}

	e.store.Set(result.Token)
	if claims := e.session.Claims(); claims != nil {
		if err := locale.SetPreference(e.storage, claims.LanguageCode); err != nil {
			e.log.Debug("Saving language preference failed", "error", err)
		}
	}

	user := e.session.CurrentUser()
	if IsJSONOutput() {
		out := map[string]any{"user": user}
		if prompt := e.languagePrompt(w); prompt != nil {
			out["languagePrompt"] = prompt
		}
		writeJSON(w, out)
		return exitOK
	}

	fmt.Fprintf(w, "Signed in as %s\n", displayName(user, result.Email))
	e.languagePrompt(w)
	return exitOK
}

// languagePrompt runs Locale Sync after a sign-in. On a terminal the user
// answers it now; otherwise it is returned so callers can report it, and it
// stays pending for the dashboard.
func (e *env) languagePrompt(w io.Writer) *locale.Prompt {
	nav := &locale.StoreNavigator{Storage: e.storage}
	sync := locale.NewSync(e.store, e.storage, nav)
	if sync.Evaluate(e.active) != locale.Shown {
		return nil
	}
	prompt := sync.Prompt(e.active)
	if prompt == nil {
		return nil
	}

	if !interactive() {
		if !IsJSONOutput() {
			fmt.Fprintf(w, "%s: %s\n", prompt.Title, prompt.Body)
			fmt.Fprintf(w, "Run `wusuleable locale set %s` to switch.\n", prompt.Code.Locale())
		}
		return prompt
	}

	choice, err := chooseLanguage(prompt)
	if err != nil {
		e.log.Debug("Language prompt failed", "error", err)
		return nil
	}
	switch choice {
	case menu.ChoiceAccept:
		if err := sync.Accept(e.active, locale.LocalizePath(tui.DashboardPath, e.active)); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return nil
		}
		if nav.LastPath != "" {
			fmt.Fprintf(w, "Language switched. Site path: %s\n", nav.LastPath)
		}
	default:
		if err := sync.Dismiss(); err != nil {
			e.log.Debug("Dismissing language prompt failed", "error", err)
		}
	}
	return nil
}

func displayName(u *session.User, fallback string) string {
	if u != nil && u.Email != "" {
		return u.Email
	}
	return fallback
}

// runSignup creates an account and returns exit code
func runSignup(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	if err := collectCredentials(true); err != nil {
		return fail(w, err)
	}

	req := models.CreateUserRequest{
		Email:                loginEmail,
		Password:             loginPassword,
		PasswordConfirmation: signupConfirm,
	}
	if signupWebsite != "" {
		req.WebsiteURL = &signupWebsite
	}

	resp, err := e.client.CreateUser(ctx, req)
	if err != nil {
		return fail(w, err)
	}
	if resp.Item.Token != "" {
		e.store.Set(resp.Item.Token)
	}

	if IsJSONOutput() {
		writeJSON(w, resp.Item)
		return exitOK
	}
	fmt.Fprintf(w, "Account created for %s\n", resp.Item.Email)
	if resp.Item.Token != "" {
		fmt.Fprintln(w, "You are now signed in.")
	}
	return exitOK
}

// runLogout signs out and returns exit code. The local token is cleared
// even when the API call fails.
func runLogout(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	if err := e.client.Logout(ctx); err != nil {
		e.log.Debug("Logout request failed", "error", err)
	}
	e.store.Clear()

	if IsJSONOutput() {
		writeJSON(w, map[string]bool{"ok": true})
		return exitOK
	}
	fmt.Fprintln(w, "Signed out.")
	return exitOK
}

// runWhoami prints the current user and returns exit code
func runWhoami(w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	user, ok := e.requireUser(w)
	if !ok {
		return exitFailure
	}

	if IsJSONOutput() {
		writeJSON(w, user)
		return exitOK
	}

	role := user.UserType
	if role == "" {
		role = "-"
	}
	fmt.Fprintf(w, "User ID:  %s\n", user.UserID)
	fmt.Fprintf(w, "Email:    %s\n", user.Email)
	fmt.Fprintf(w, "Role:     %s\n", role)
	if user.LanguageCode != "" {
		fmt.Fprintf(w, "Language: %s\n", user.LanguageCode)
	}
	if claims := e.session.Claims(); claims != nil && claims.Expired(time.Now()) {
		fmt.Fprintln(w, styles.StatusWarning.Render("Token has expired; the API will ask you to sign in again."))
	}
	return exitOK
}
