// ABOUTME: Locale commands: show or change the active interface language
// ABOUTME: Writes the UI locale key and prints the matching site path

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/wusuleable-web/cli/internal/locale"
	"github.com/markalston/wusuleable-web/cli/internal/tui"
)

var localeCmd = &cobra.Command{
	Use:   "locale",
	Short: "Show the active locale and account language",
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runLocaleShow(os.Stdout))
	},
}

var localeSetCmd = &cobra.Command{
	Use:       "set <en|tr>",
	Short:     "Change the active locale",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(locale.English), string(locale.Turkish)},
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runLocaleSet(os.Stdout, args[0]))
	},
}

func init() {
	localeCmd.AddCommand(localeSetCmd)
	rootCmd.AddCommand(localeCmd)
}

// runLocaleShow prints the active locale and returns exit code
func runLocaleShow(w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	pref, ok := locale.StoredPreference(e.storage)
	if IsJSONOutput() {
		out := map[string]any{
			"locale": e.active,
			"path":   locale.LocalizePath(tui.DashboardPath, e.active),
		}
		if ok {
			out["languageCode"] = pref
		}
		writeJSON(w, out)
		return exitOK
	}

	fmt.Fprintf(w, "Locale:   %s\n", e.active)
	if ok {
		fmt.Fprintf(w, "Account:  %s\n", pref)
	} else {
		fmt.Fprintln(w, "Account:  -")
	}
	fmt.Fprintf(w, "Site path: %s\n", locale.LocalizePath(tui.DashboardPath, e.active))
	return exitOK
}

// runLocaleSet switches the active locale and returns exit code
func runLocaleSet(w io.Writer, value string) int {
	target, err := locale.ParseLocaleStrict(value)
	if err != nil {
		return fail(w, err)
	}

	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	nav := &locale.StoreNavigator{Storage: e.storage}
	path := locale.LocalizePath(tui.DashboardPath, target)
	if err := nav.Navigate(path, target); err != nil {
		return fail(w, fmt.Errorf("saving locale: %w", err))
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]any{"locale": target, "path": path})
		return exitOK
	}
	fmt.Fprintf(w, "Locale set to %s (%s)\n", target, path)
	return exitOK
}
