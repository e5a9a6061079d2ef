// ABOUTME: Root command for the wusuleable CLI
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/markalston/wusuleable-web/cli/internal/session"
	"github.com/markalston/wusuleable-web/cli/internal/storage"
)

var (
	apiURL      string
	jsonOutput  bool
	stateDir    string
	localeFlag  string
	roleMapFlag string
	ephemeral   bool
)

const defaultAPIURL = "http://localhost:8080"

// interactive reports whether forms and prompts may be shown. Tests
// replace it.
var interactive = func() bool {
	return !jsonOutput && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "wusuleable",
	Short: "CLI for the wusuleable account site",
	Long: `wusuleable is a command-line client for the wusuleable account site.

It signs in through the same-origin API, keeps the session token in the
state directory shared by every wusuleable process, and manages customers,
purchases, and the interface language.

Environment Variables:
  WUSULEABLE_API_URL     API origin (default: http://localhost:8080)
  WUSULEABLE_STATE_DIR   State directory (default: $XDG_CONFIG_HOME/wusuleable)
  WUSULEABLE_ROLE_MAP    Legacy role ids, e.g. 10000=SUPER_ADMIN,10001=ORG_ADMIN
  WUSULEABLE_DEBUG       Set to 1 for debug records in <state-dir>/debug.log`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API origin (overrides WUSULEABLE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "State directory (overrides WUSULEABLE_STATE_DIR)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "Active locale for this run: en or tr")
	rootCmd.PersistentFlags().StringVar(&roleMapFlag, "role-map", "", "Legacy role id mapping (overrides WUSULEABLE_ROLE_MAP)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep state in memory only for this run")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("WUSULEABLE_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// GetStateDir returns the state directory from flag, env, or the XDG default
func GetStateDir() string {
	if stateDir != "" {
		return stateDir
	}
	if dir := os.Getenv("WUSULEABLE_STATE_DIR"); dir != "" {
		return dir
	}
	return storage.DefaultStateDir()
}

// GetRoleMap returns the legacy role mapping from flag, env, or default
func GetRoleMap() (session.RoleMap, error) {
	raw := roleMapFlag
	if raw == "" {
		raw = os.Getenv("WUSULEABLE_ROLE_MAP")
	}
	if raw == "" {
		return session.DefaultRoleMap(), nil
	}
	return session.ParseRoleMap(raw)
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
