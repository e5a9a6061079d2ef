// ABOUTME: Shared per-command wiring: storage, token store, session, client
// ABOUTME: Also maps errors to exit codes and prints them consistently

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/markalston/wusuleable-web/cli/internal/client"
	"github.com/markalston/wusuleable-web/cli/internal/locale"
	"github.com/markalston/wusuleable-web/cli/internal/session"
	"github.com/markalston/wusuleable-web/cli/internal/storage"
	"github.com/markalston/wusuleable-web/cli/internal/tui/debuglog"
	"github.com/markalston/wusuleable-web/models"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1 // signed out, API rejected the request
	exitUsage   = 2 // bad input, cannot reach the API
)

// env bundles what every command needs.
type env struct {
	storage storage.Storage
	store   *session.Store
	session *session.Session
	client  *client.Client
	log     *slog.Logger
	active  locale.Locale
	close   func() error
}

func newEnv() (*env, error) {
	roles, err := GetRoleMap()
	if err != nil {
		return nil, fmt.Errorf("invalid role map: %w", err)
	}

	dir := GetStateDir()
	log, closeLog, err := debuglog.Open(dir)
	if err != nil {
		// Logging is best effort; carry on without it.
		log = debuglog.Discard()
	}
	prev := slog.Default()
	slog.SetDefault(log)

	var st storage.Storage
	if ephemeral || dir == "" {
		st = storage.NewMemoryStorage()
	} else {
		st = storage.NewFileStorage(dir)
	}

	store := session.NewStore(st, log)
	return &env{
		storage: st,
		store:   store,
		session: session.New(store, roles),
		client:  client.New(GetAPIURL(), store),
		log:     log,
		active:  locale.Active(st, localeFlag),
		close: func() error {
			slog.SetDefault(prev)
			return closeLog()
		},
	}, nil
}

// exitCodeFor classifies err for the process exit status.
func exitCodeFor(err error) int {
	var apiErr *client.APIError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &apiErr), errors.Is(err, client.ErrNotAuthenticated):
		return exitFailure
	default:
		return exitUsage
	}
}

// fail prints err and returns its exit code. API validation envelopes are
// expanded so the user sees which fields were rejected.
func fail(w io.Writer, err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %s\n", describeAPIError(apiErr))
		return exitCodeFor(err)
	}
	if errors.Is(err, client.ErrNotAuthenticated) {
		fmt.Fprintln(w, "Please log in to continue. Run `wusuleable login`.")
		return exitFailure
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitCodeFor(err)
}

func describeAPIError(e *client.APIError) string {
	msg := e.Message
	envelope, ok := e.Envelope()
	if !ok {
		return msg
	}
	if envelope.ErrorMessage != nil && *envelope.ErrorMessage != "" {
		msg = *envelope.ErrorMessage
	}
	if len(envelope.ValidationErrors) > 0 && string(envelope.ValidationErrors) != "null" {
		msg += " " + string(envelope.ValidationErrors)
	}
	return msg
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// requireUser returns the signed-in user or prints the login hint.
func (e *env) requireUser(w io.Writer) (*session.User, bool) {
	u := e.session.CurrentUser()
	if u == nil {
		if IsJSONOutput() {
			writeJSON(w, models.ErrorResponse{Message: "Not signed in."})
		} else {
			fmt.Fprintln(w, "Please log in to continue. Run `wusuleable login`.")
		}
		return nil, false
	}
	return u, true
}
