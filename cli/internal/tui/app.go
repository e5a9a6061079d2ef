// ABOUTME: Root bubbletea model for the account dashboard
// ABOUTME: Follows token changes live and hosts the language prompt banner

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/wusuleable-web/cli/internal/client"
	"github.com/markalston/wusuleable-web/cli/internal/locale"
	"github.com/markalston/wusuleable-web/cli/internal/session"
	"github.com/markalston/wusuleable-web/cli/internal/storage"
	"github.com/markalston/wusuleable-web/cli/internal/tui/dashboard"
	"github.com/markalston/wusuleable-web/cli/internal/tui/icons"
	"github.com/markalston/wusuleable-web/cli/internal/tui/styles"
	"github.com/markalston/wusuleable-web/models"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenSignedOut Screen = iota
	ScreenDashboard
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum frame width
	panelPadding     = 6  // Panel border plus horizontal padding
)

// DashboardPath is the site page the dashboard stands in for.
const DashboardPath = "/dashboard"

// customersLoadedMsg is sent when the customers context is fetched
type customersLoadedMsg struct {
	customers *models.GetCustomersResponse
	err       error
}

// tokenChangedMsg is sent when the Token Store reports a change, local or
// from another process
type tokenChangedMsg struct {
	change session.Change
}

// App is the root model for the TUI
type App struct {
	client  *client.Client
	session *session.Session
	storage storage.Storage
	sync    *locale.Sync
	changes <-chan session.Change

	active     locale.Locale
	path       string
	screen     Screen
	width      int
	height     int
	err        error
	notice     string
	loading    bool
	lastUpdate time.Time

	dashboard *dashboard.Dashboard
	spinner   spinner.Model
}

// New creates the dashboard application. changes delivers Token Store
// notifications and may be nil.
func New(apiClient *client.Client, sess *session.Session, st storage.Storage, active locale.Locale, changes <-chan session.Change) *App {
	a := &App{
		client:  apiClient,
		session: sess,
		storage: st,
		changes: changes,
		active:  active,
		path:    locale.LocalizePath(DashboardPath, active),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	a.sync = locale.NewSync(sess.Store(), st, a)

	user := sess.CurrentUser()
	a.dashboard = dashboard.New(user, nil, a.contentWidth(), a.contentHeight())
	a.screen = screenFor(user)
	a.sync.Evaluate(a.active)
	return a
}

func screenFor(user *session.User) Screen {
	if user == nil {
		return ScreenSignedOut
	}
	return ScreenDashboard
}

// Navigate switches the active locale. It makes the App the Navigator for
// its own language prompt.
func (a *App) Navigate(path string, target locale.Locale) error {
	a.active = target
	a.path = path
	if a.storage == nil {
		return nil
	}
	return a.storage.SetItem(storage.KeyUILocale, string(target))
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.reload(), a.waitForChange())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(a.contentWidth(), a.contentHeight())
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case customersLoadedMsg:
		a.loading = false
		if msg.err != nil {
			if !errors.Is(msg.err, client.ErrNotAuthenticated) {
				a.err = msg.err
			}
			return a, nil
		}
		a.err = nil
		a.dashboard.SetCustomers(msg.customers)
		a.lastUpdate = time.Now()
		return a, nil

	case tokenChangedMsg:
		user := a.session.CurrentUser()
		a.screen = screenFor(user)
		a.dashboard.SetUser(user)
		a.dashboard.SetCustomers(nil)
		a.err = nil
		a.notice = ""
		a.sync.Evaluate(a.active)
		return a, tea.Batch(a.reload(), a.waitForChange())

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "r":
		a.err = nil
		return a, a.reload()
	case "a":
		if a.sync.State() == locale.Shown {
			if err := a.sync.Accept(a.active, a.path); err != nil {
				a.err = err
			}
		}
		return a, nil
	case "d":
		if a.sync.State() == locale.Shown {
			a.sync.Dismiss()
		}
		return a, nil
	}

	t := a.dashboard.Table()
	updated, cmd := t.Update(msg)
	*t = updated
	return a, cmd
}

// reload fetches customers for the signed-in user
func (a *App) reload() tea.Cmd {
	if a.client == nil || a.screen != ScreenDashboard {
		return nil
	}
	a.loading = true
	c := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		customers, err := c.GetCustomers(ctx)
		return customersLoadedMsg{customers: customers, err: err}
	}
}

// waitForChange blocks until the next Token Store notification
func (a *App) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	ch := a.changes
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return tokenChangedMsg{change: c}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var sb strings.Builder

	if banner := a.renderBanner(); banner != "" {
		sb.WriteString(banner)
		sb.WriteString("\n")
	}
	if a.err != nil {
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " Error: " + a.err.Error()))
		sb.WriteString("\n")
	}

	panel := styles.ActivePanel
	if a.screen == ScreenSignedOut {
		panel = styles.Panel
	}
	sb.WriteString(panel.Width(a.contentWidth()).Render(a.dashboard.View()))

	return a.wrapWithFrame(sb.String())
}

// renderBanner renders the language prompt when it is shown
func (a *App) renderBanner() string {
	p := a.sync.Prompt(a.active)
	if p == nil {
		return ""
	}
	body := styles.ValueStyle.Render(icons.Globe.String()+" "+p.Title) + "\n" +
		p.Body + "\n" +
		styles.KeyStyle.Render("a") + " " + p.Primary + "   " +
		styles.KeyStyle.Render("d") + " " + p.Close
	return styles.Banner.Width(a.contentWidth()).Render(body)
}

// frameWidth is the header and footer width. It stays one column short of
// the terminal to prevent wrapping, and never drops below the minimum.
func (a *App) frameWidth() int {
	w := a.width - 1
	if w < minTerminalWidth {
		w = minTerminalWidth
	}
	return w
}

func (a *App) contentWidth() int {
	w := a.frameWidth() - panelPadding
	if w < 20 {
		w = 20
	}
	return w
}

// contentHeight leaves room for header, footer, banner, and panel borders
func (a *App) contentHeight() int {
	return a.height - 12
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftRendered := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("wusuleable"))

	right := strings.ToUpper(string(a.active))
	if u := a.session.CurrentUser(); u != nil && u.Email != "" {
		right = u.Email + "  " + right
	}
	rightRendered := " " + contextStyle.Render(right) + " "

	fillWidth := width - 4 - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered) // ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╭─" + leftRendered + strings.Repeat("─", fillWidth) + rightRendered + "─╮")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	if a.sync.State() == locale.Shown {
		shortcuts = append(shortcuts, "a Accept", "d Dismiss")
	}
	if a.screen == ScreenDashboard {
		shortcuts = append(shortcuts, "↑↓ Navigate", "r Refresh")
	}
	shortcuts = append(shortcuts, "q Quit")

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
	}
	leftText := " " + strings.Join(styled, "  ") + " "

	rightText := ""
	switch {
	case a.loading:
		rightText = " " + a.spinner.View() + statusStyle.Render(" Loading") + " "
	case !a.lastUpdate.IsZero():
		rightText = " " + statusStyle.Render("Updated "+formatTimeSince(time.Since(a.lastUpdate))) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯")
}

// formatTimeSince formats an elapsed duration in human-readable form
func formatTimeSince(d time.Duration) string {
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits
func Run(app *App) error {
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
