// ABOUTME: Tests for pricing, purchase, purchase mark, and setup
// ABOUTME: Verifies the login gate, draft persistence, and request payloads

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/markalston/wusuleable-web/cli/internal/draft"
	"github.com/markalston/wusuleable-web/cli/internal/storage"
	"github.com/markalston/wusuleable-web/cli/internal/tui/wizard"
	"github.com/markalston/wusuleable-web/models"
)

func TestPricing_Anonymous(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/billing/pricing", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("expected anonymous pricing request")
		}
		writeJSONResponse(w, http.StatusOK, models.PricingResponse{Plans: []models.PricingPlan{
			{ID: "Small", Name: "Small", MonthlyPrice: 9.5, Currency: "USD"},
		}})
	})
	dir := setupCLI(t, mux)
	signIn(t, dir, nil)

	var buf bytes.Buffer
	if code := runPricing(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "9.50 USD/month") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestPurchase_RequiresLogin(t *testing.T) {
	calls := 0
	setupCLI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))

	var buf bytes.Buffer
	code := runPurchase(context.Background(), &buf, &customerFlags{kind: "b2b", company: "Acme"}, false)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if calls != 0 {
		t.Error("expected no request when signed out")
	}
	if !strings.Contains(buf.String(), "Please log in to purchase") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestPurchase_FlagsDefaultProductAndDraft(t *testing.T) {
	var got models.CreateCustomerRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		writeJSONResponse(w, http.StatusOK, map[string]any{"customerId": 1})
	})
	dir := setupCLI(t, mux)
	signIn(t, dir, nil)

	f := &customerFlags{kind: "b2b", company: "Acme", plan: "Medium", billing: "monthly"}
	var buf bytes.Buffer
	if code := runPurchase(context.Background(), &buf, f, false); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}

	if len(got.Products) != 1 || got.Products[0].ProductCode != models.ProductAccessibilityWidget {
		t.Errorf("expected default product, got %+v", got.Products)
	}
	if len(f.products) != 0 {
		t.Error("expected caller flags left untouched")
	}

	d := draft.Load(storage.NewFileStorage(dir))
	if d == nil || d.CustomerType != models.CustomerB2B || d.PlanCode != "Medium" {
		t.Errorf("unexpected draft %+v", d)
	}
}

func TestPurchase_Wizard(t *testing.T) {
	created := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/customers", func(w http.ResponseWriter, r *http.Request) {
		created++
		writeJSONResponse(w, http.StatusOK, nil)
	})

	orig := runWizard
	defer func() { runWizard = orig }()

	t.Run("completed", func(t *testing.T) {
		dir := setupCLI(t, mux)
		signIn(t, dir, nil)
		runWizard = func() (*wizard.Result, error) {
			req, _ := models.NewCreateCustomerRequest(models.CustomerB2C, "", "Ada", "Lovelace", "Small", models.BillingYearly, []models.ProductCode{models.ProductSEOScanner})
			return &wizard.Result{Request: req, Draft: models.PurchaseDraft{
				ProductCodes: []models.ProductCode{models.ProductSEOScanner}, PlanCode: "Small",
				BillingPeriod: models.BillingYearly, CustomerType: models.CustomerB2C,
			}}, nil
		}

		var buf bytes.Buffer
		if code := runPurchase(context.Background(), &buf, &customerFlags{}, true); code != 0 {
			t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
		}
		if products := draft.ProductsOrDefault(draft.Load(storage.NewFileStorage(dir))); len(products) != 1 || products[0] != models.ProductSEOScanner {
			t.Errorf("unexpected draft products %v", products)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		dir := setupCLI(t, mux)
		signIn(t, dir, nil)
		before := created
		runWizard = func() (*wizard.Result, error) { return nil, wizard.ErrCancelled }

		var buf bytes.Buffer
		if code := runPurchase(context.Background(), &buf, &customerFlags{}, true); code != 0 {
			t.Errorf("expected exit code 0, got %d", code)
		}
		if created != before {
			t.Error("expected no customer created")
		}
		if _, ok := readItem(t, dir, storage.KeyLastPurchaseDraft); ok {
			t.Error("expected no draft saved")
		}
	})
}

func TestPurchaseMark(t *testing.T) {
	var got models.MarkPurchasedRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/billing/mark-purchased", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		writeJSONResponse(w, http.StatusOK, models.MarkPurchasedResponse{OK: true})
	})
	dir := setupCLI(t, mux)
	signIn(t, dir, nil)

	id := int64(3)
	var buf bytes.Buffer
	if code := runPurchaseMark(context.Background(), &buf, []string{"seo_scanner"}, "Large", &id); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if got.CustomerID == nil || *got.CustomerID != 3 {
		t.Errorf("expected customer id 3, got %v", got.CustomerID)
	}
	if got.PlanCode == nil || *got.PlanCode != "Large" {
		t.Errorf("expected plan Large, got %v", got.PlanCode)
	}

	if code := runPurchaseMark(context.Background(), &buf, nil, "", nil); code != 2 {
		t.Errorf("expected exit code 2 without products, got %d", code)
	}
}

func TestSetup(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		setupCLI(t, nil)
		var buf bytes.Buffer
		if code := runSetup(&buf); code != 1 {
			t.Errorf("expected exit code 1, got %d", code)
		}
	})

	t.Run("default products", func(t *testing.T) {
		dir := setupCLI(t, nil)
		signIn(t, dir, nil)
		var buf bytes.Buffer
		if code := runSetup(&buf); code != 0 {
			t.Fatalf("expected exit code 0, got %d", code)
		}
		if !strings.Contains(buf.String(), string(models.ProductAccessibilityWidget)) {
			t.Errorf("expected default product, got %s", buf.String())
		}
	})

	t.Run("from draft", func(t *testing.T) {
		dir := setupCLI(t, nil)
		signIn(t, dir, nil)
		draft.Save(storage.NewFileStorage(dir), models.PurchaseDraft{ProductCodes: []models.ProductCode{models.ProductSEOScanner}})
		jsonOutput = true

		var buf bytes.Buffer
		if code := runSetup(&buf); code != 0 {
			t.Fatalf("expected exit code 0, got %d", code)
		}
		var out struct {
			ProductCodes []string `json:"productCodes"`
		}
		if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(out.ProductCodes) != 1 || out.ProductCodes[0] != "SEO_SCANNER" {
			t.Errorf("unexpected products %v", out.ProductCodes)
		}
	})
}
