// ABOUTME: Customer commands: list customers and create one
// ABOUTME: Wraps the customers context and create-customer API calls

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/wusuleable-web/cli/internal/tui/dashboard"
	"github.com/markalston/wusuleable-web/cli/internal/tui/styles"
	"github.com/markalston/wusuleable-web/models"
)

// customerFlags holds the create-customer inputs shared by `customers
// create` and `purchase`.
type customerFlags struct {
	kind      string
	company   string
	firstName string
	lastName  string
	plan      string
	billing   string
	products  []string
}

func (f *customerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "type", "b2b", "Customer type: b2b or b2c")
	cmd.Flags().StringVar(&f.company, "company", "", "Company name (b2b)")
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name (b2c)")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name (b2c)")
	cmd.Flags().StringVar(&f.plan, "plan", models.DefaultPlanCode, "Plan code")
	cmd.Flags().StringVar(&f.billing, "billing", string(models.BillingMonthly), "Billing period: monthly or yearly")
	cmd.Flags().StringArrayVar(&f.products, "product", nil, "Product code (repeatable)")
}

// request parses and validates the flags.
func (f *customerFlags) request() (models.CreateCustomerRequest, models.PurchaseDraft, error) {
	kind, err := models.ParseCustomerType(f.kind)
	if err != nil {
		return models.CreateCustomerRequest{}, models.PurchaseDraft{}, err
	}
	period, err := models.ParseBillingPeriod(f.billing)
	if err != nil {
		return models.CreateCustomerRequest{}, models.PurchaseDraft{}, err
	}
	products, err := parseProducts(f.products)
	if err != nil {
		return models.CreateCustomerRequest{}, models.PurchaseDraft{}, err
	}

	req, err := models.NewCreateCustomerRequest(kind, f.company, f.firstName, f.lastName, f.plan, period, products)
	if err != nil {
		return models.CreateCustomerRequest{}, models.PurchaseDraft{}, err
	}
	d := models.PurchaseDraft{
		ProductCodes:  products,
		PlanCode:      f.plan,
		BillingPeriod: period,
		CustomerType:  kind,
	}
	return req, d, nil
}

func parseProducts(raw []string) ([]models.ProductCode, error) {
	products := make([]models.ProductCode, 0, len(raw))
	for _, r := range raw {
		p, err := models.ParseProductCode(r)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

var createFlags customerFlags

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Manage customers of the signed-in account",
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers with their entitlements",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exitWith(runCustomersList(ctx, os.Stdout))
	},
}

var customersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a customer",
	Example: `  wusuleable customers create --type b2b --company "Acme" --product ACCESSIBILITY_WIDGET
  wusuleable customers create --type b2c --first-name Ada --last-name Lovelace --plan Small --billing yearly --product SEO_SCANNER`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exitWith(runCustomersCreate(ctx, os.Stdout, &createFlags))
	},
}

func init() {
	createFlags.register(customersCreateCmd)
	customersCmd.AddCommand(customersListCmd, customersCreateCmd)
	rootCmd.AddCommand(customersCmd)
}

// runCustomersList prints the customers context and returns exit code
func runCustomersList(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	resp, err := e.client.GetCustomers(ctx)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, resp)
		return exitOK
	}
	fmt.Fprint(w, formatCustomersHuman(resp))
	return exitOK
}

// formatCustomersHuman renders one line per customer; the active one is starred.
func formatCustomersHuman(resp *models.GetCustomersResponse) string {
	if len(resp.Customers) == 0 {
		return "No customers yet.\n"
	}
	var sb strings.Builder
	for _, c := range resp.Customers {
		marker := " "
		if c.CustomerID == resp.ActiveCustomerID {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %-6s %-24s %s  %s\n",
			marker, strconv.FormatInt(c.CustomerID, 10), c.Name,
			styles.PaymentStatus(string(c.PaymentStatus)), dashboard.Entitlements(c.Entitlements))
	}
	return sb.String()
}

// runCustomersCreate creates a customer from flags and returns exit code
func runCustomersCreate(ctx context.Context, w io.Writer, f *customerFlags) int {
	req, _, err := f.request()
	if err != nil {
		return fail(w, err)
	}

	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	created, err := e.client.CreateCustomer(ctx, req)
	if err != nil {
		return fail(w, err)
	}
	printCreated(w, created)
	return exitOK
}

// printCreated reports a created customer. The response item is opaque.
func printCreated(w io.Writer, created json.RawMessage) {
	if IsJSONOutput() {
		if len(created) == 0 {
			created = json.RawMessage("null")
		}
		writeJSON(w, created)
		return
	}
	fmt.Fprintln(w, styles.StatusOK.Render("Customer created."))
}
