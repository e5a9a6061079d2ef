// ABOUTME: Dashboard command launching the account TUI
// ABOUTME: Follows token changes made by other processes while it runs

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/wusuleable-web/cli/internal/session"
	"github.com/markalston/wusuleable-web/cli/internal/storage"
	"github.com/markalston/wusuleable-web/cli/internal/tui"
)

// runTUI runs the program. Tests replace it.
var runTUI = tui.Run

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive account dashboard",
	Long: `Show the signed-in account, its customers and entitlements, and the
language prompt. Signing in or out from another terminal updates the view.

Keys: a accept language, d dismiss, r refresh, q quit.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exitWith(runDashboard(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// runDashboard wires live token updates into the TUI and returns exit code
func runDashboard(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan session.Change, 8)
	unsubscribe := e.store.Subscribe(func(c session.Change) {
		select {
		case changes <- c:
		default:
			// The TUI re-reads the store on every change; dropping a burst is safe.
		}
	})
	defer unsubscribe()

	if fs, ok := e.storage.(*storage.FileStorage); ok {
		events, err := fs.Watch(ctx)
		if err != nil {
			e.log.Warn("Watching state directory failed; live updates disabled", "error", err)
		} else {
			go e.store.Follow(ctx, events)
		}
	}

	app := tui.New(e.client, e.session, e.storage, e.active, changes)
	if err := runTUI(app); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}
	return exitOK
}
