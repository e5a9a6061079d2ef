// ABOUTME: Dashboard component showing the signed-in account
// ABOUTME: Renders identity details and a customers table with entitlements

package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/wusuleable-web/cli/internal/session"
	"github.com/markalston/wusuleable-web/cli/internal/tui/icons"
	"github.com/markalston/wusuleable-web/cli/internal/tui/styles"
	"github.com/markalston/wusuleable-web/models"
)

// Dashboard displays the account overview
type Dashboard struct {
	user      *session.User
	customers *models.GetCustomersResponse
	table     table.Model
	width     int
	height    int
}

// New creates a dashboard for user. customers may be nil until loaded.
func New(user *session.User, customers *models.GetCustomersResponse, width, height int) *Dashboard {
	d := &Dashboard{
		user:      user,
		customers: customers,
		width:     width,
		height:    height,
	}
	d.table = table.New(
		table.WithColumns(d.columns()),
		table.WithRows(d.rows()),
		table.WithFocused(true),
		table.WithHeight(d.tableHeight()),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary)
	d.table.SetStyles(s)
	return d
}

// SetUser replaces the displayed identity.
func (d *Dashboard) SetUser(user *session.User) {
	d.user = user
}

// SetCustomers replaces the table contents.
func (d *Dashboard) SetCustomers(c *models.GetCustomersResponse) {
	d.customers = c
	d.table.SetRows(d.rows())
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.table.SetColumns(d.columns())
	d.table.SetHeight(d.tableHeight())
}

// Table exposes the table for key handling by the parent model.
func (d *Dashboard) Table() *table.Model {
	return &d.table
}

func (d *Dashboard) columns() []table.Column {
	products := d.width - 60 // fixed columns plus cell padding
	if products < 20 {
		products = 20
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Customer", Width: 24},
		{Title: "Payment", Width: 12},
		{Title: "Products", Width: products},
	}
}

func (d *Dashboard) tableHeight() int {
	h := d.height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func (d *Dashboard) rows() []table.Row {
	if d.customers == nil {
		return nil
	}
	rows := make([]table.Row, 0, len(d.customers.Customers))
	for _, c := range d.customers.Customers {
		id := strconv.FormatInt(c.CustomerID, 10)
		if c.CustomerID == d.customers.ActiveCustomerID {
			id = "*" + id
		}
		payment := string(c.PaymentStatus)
		if payment == "" {
			payment = "-"
		}
		rows = append(rows, table.Row{id, c.Name, payment, Entitlements(c.Entitlements)})
	}
	return rows
}

// Entitlements summarizes a customer's products as "CODE (Status, Plan)".
func Entitlements(ents []models.CustomerEntitlement) string {
	if len(ents) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ents))
	for _, e := range ents {
		detail := e.Status
		if e.PlanCode != "" {
			detail += ", " + e.PlanCode
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", e.ProductCode, detail))
	}
	return strings.Join(parts, "; ")
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.User.String() + " Account"))
	sb.WriteString("\n")
	if d.user == nil {
		sb.WriteString(styles.StatusWarning.Render("Not signed in."))
		sb.WriteString("\n")
		sb.WriteString(styles.Label.Render("Run `wusuleable login` in any terminal; this view updates on its own."))
		return lipgloss.NewStyle().Width(d.width).Render(sb.String())
	}

	role := d.user.UserType
	if role == "" {
		role = "-"
	}
	fmt.Fprintf(&sb, "%s %s\n", styles.Label.Render("Email:   "), styles.ValueStyle.Render(d.user.Email))
	fmt.Fprintf(&sb, "%s %s\n", styles.Label.Render("Role:    "), styles.ValueStyle.Render(role))
	fmt.Fprintf(&sb, "%s %s\n", styles.Label.Render("User ID: "), d.user.UserID)
	sb.WriteString("\n")

	sb.WriteString(styles.Title.Render(icons.Customer.String() + " Customers"))
	sb.WriteString("\n")
	switch {
	case d.customers == nil:
		sb.WriteString("Loading customers...")
	case len(d.customers.Customers) == 0:
		sb.WriteString(styles.Label.Render("No customers yet. Run `wusuleable purchase` to create one."))
	default:
		sb.WriteString(d.table.View())
	}

	return lipgloss.NewStyle().
		Width(d.width).
		Render(sb.String())
}
