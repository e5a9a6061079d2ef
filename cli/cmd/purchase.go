// ABOUTME: Purchase flow commands: pricing, purchase, purchase mark, setup
// ABOUTME: Creates the customer, records the draft, and shows it during setup

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/wusuleable-web/cli/internal/draft"
	"github.com/markalston/wusuleable-web/cli/internal/tui/icons"
	"github.com/markalston/wusuleable-web/cli/internal/tui/styles"
	"github.com/markalston/wusuleable-web/cli/internal/tui/wizard"
	"github.com/markalston/wusuleable-web/models"
)

// runWizard collects purchase inputs interactively. Tests replace it.
var runWizard = wizard.Run

var (
	purchaseFlags  customerFlags
	markProducts   []string
	markPlan       string
	markCustomerID int64
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "List pricing plans",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exitWith(runPricing(ctx, os.Stdout))
	},
}

var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Buy products for a new customer",
	Long: `Create a customer with the chosen plan and products, then remember the
selection for 'wusuleable setup'. Without flags on a terminal an interactive
wizard collects the details.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		useWizard := interactive() && !anyChanged(cmd, "type", "company", "first-name", "last-name", "plan", "billing", "product")
		exitWith(runPurchase(ctx, os.Stdout, &purchaseFlags, useWizard))
	},
}

var purchaseMarkCmd = &cobra.Command{
	Use:   "mark",
	Short: "Mark products as purchased",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		var customerID *int64
		if cmd.Flags().Changed("customer-id") {
			customerID = &markCustomerID
		}
		exitWith(runPurchaseMark(ctx, os.Stdout, markProducts, markPlan, customerID))
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Show the products selected in the last purchase",
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runSetup(os.Stdout))
	},
}

func init() {
	purchaseFlags.register(purchaseCmd)
	purchaseMarkCmd.Flags().StringArrayVar(&markProducts, "product", nil, "Product code (repeatable)")
	purchaseMarkCmd.Flags().StringVar(&markPlan, "plan", "", "Plan code")
	purchaseMarkCmd.Flags().Int64Var(&markCustomerID, "customer-id", 0, "Customer id (defaults to the active customer)")
	purchaseCmd.AddCommand(purchaseMarkCmd)
	rootCmd.AddCommand(pricingCmd, purchaseCmd, setupCmd)
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

// runPricing prints the pricing plans and returns exit code
func runPricing(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	resp, err := e.client.GetPricing(ctx)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, resp)
		return exitOK
	}
	if len(resp.Plans) == 0 {
		fmt.Fprintln(w, "No plans available.")
		return exitOK
	}
	for _, p := range resp.Plans {
		fmt.Fprintf(w, "%-10s %-20s %8.2f %s/month\n", p.ID, p.Name, p.MonthlyPrice, p.Currency)
	}
	return exitOK
}

// runPurchase creates the customer and saves the draft, returning exit code
func runPurchase(ctx context.Context, w io.Writer, f *customerFlags, useWizard bool) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	if e.store.Get() == "" {
		fmt.Fprintln(w, "Please log in to purchase. Run `wusuleable login`.")
		return exitFailure
	}

	var (
		req models.CreateCustomerRequest
		d   models.PurchaseDraft
	)
	if useWizard {
		result, err := runWizard()
		if err != nil {
			if errors.Is(err, wizard.ErrCancelled) {
				fmt.Fprintln(w, "Purchase cancelled.")
				return exitOK
			}
			return fail(w, err)
		}
		req, d = result.Request, result.Draft
	} else {
		flags := *f
		if len(flags.products) == 0 {
			for _, p := range draft.DefaultProducts {
				flags.products = append(flags.products, string(p))
			}
		}
		req, d, err = flags.request()
		if err != nil {
			return fail(w, err)
		}
	}

	created, err := e.client.CreateCustomer(ctx, req)
	if err != nil {
		return fail(w, err)
	}
	if err := draft.Save(e.storage, d); err != nil {
		e.log.Debug("Saving purchase draft failed", "error", err)
	}

	if IsJSONOutput() {
		printCreated(w, created)
		return exitOK
	}
	fmt.Fprintln(w, styles.StatusOK.Render(icons.CheckOK.String()+" Customer created."))
	fmt.Fprintln(w, "Run `wusuleable setup` to continue.")
	return exitOK
}

// runPurchaseMark records a purchase and returns exit code
func runPurchaseMark(ctx context.Context, w io.Writer, products []string, plan string, customerID *int64) int {
	codes, err := parseProducts(products)
	if err != nil {
		return fail(w, err)
	}
	if len(codes) == 0 {
		return fail(w, models.ErrNoProducts)
	}

	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	req := models.MarkPurchasedRequest{ProductCodes: codes, CustomerID: customerID}
	if plan != "" {
		req.PlanCode = &plan
	}
	resp, err := e.client.MarkPurchased(ctx, req)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, resp)
		return exitOK
	}
	fmt.Fprintln(w, styles.StatusOK.Render("Purchase recorded."))
	return exitOK
}

// runSetup lists the products from the last purchase draft and returns exit code
func runSetup(w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	defer e.close()

	if e.store.Get() == "" {
		fmt.Fprintln(w, "Please log in to continue. Run `wusuleable login`.")
		return exitFailure
	}

	products := draft.ProductsOrDefault(draft.Load(e.storage))
	if IsJSONOutput() {
		writeJSON(w, map[string]any{"productCodes": products})
		return exitOK
	}
	fmt.Fprintln(w, styles.Title.Render("Set up your products"))
	for _, p := range products {
		fmt.Fprintf(w, "  %s %s\n", icons.Product.String(), p)
	}
	return exitOK
}
