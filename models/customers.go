// ABOUTME: Customer models for create-customer and the customers context
// ABOUTME: Covers B2B and B2C payloads, entitlements, and payment status

package models

import (
	"errors"
	"fmt"
	"strings"
)

type ProductCode string

const (
	ProductAccessibilityWidget ProductCode = "ACCESSIBILITY_WIDGET"
	ProductSEOScanner          ProductCode = "SEO_SCANNER"
)

// Products lists every product in catalog order.
var Products = []ProductCode{ProductAccessibilityWidget, ProductSEOScanner}

// ParseProductCode accepts a product code in any case.
func ParseProductCode(s string) (ProductCode, error) {
	code := ProductCode(strings.ToUpper(strings.TrimSpace(s)))
	for _, p := range Products {
		if p == code {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown product %q (want ACCESSIBILITY_WIDGET or SEO_SCANNER)", s)
}

type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingYearly  BillingPeriod = "yearly"
)

func ParseBillingPeriod(s string) (BillingPeriod, error) {
	switch BillingPeriod(strings.ToLower(strings.TrimSpace(s))) {
	case BillingMonthly:
		return BillingMonthly, nil
	case BillingYearly:
		return BillingYearly, nil
	}
	return "", fmt.Errorf("unknown billing period %q (want monthly or yearly)", s)
}

type CustomerType string

const (
	CustomerB2B CustomerType = "B2B"
	CustomerB2C CustomerType = "B2C"
)

func ParseCustomerType(s string) (CustomerType, error) {
	switch CustomerType(strings.ToUpper(strings.TrimSpace(s))) {
	case CustomerB2B:
		return CustomerB2B, nil
	case CustomerB2C:
		return CustomerB2C, nil
	}
	return "", fmt.Errorf("unknown customer type %q (want b2b or b2c)", s)
}

// Plan codes offered on the pricing page.
var PlanCodes = []string{"Small", "Medium", "Large"}

// DefaultPlanCode is preselected by the purchase flow.
const DefaultPlanCode = "Medium"

type CustomerProductInput struct {
	ProductCode ProductCode `json:"productCode"`
}

// CreateCustomerRequest is either a B2B payload (CompanyName) or a B2C
// payload (FirstName, LastName). Unused name fields are omitted on the wire.
type CreateCustomerRequest struct {
	CompanyName   string                 `json:"companyName,omitempty"`
	FirstName     string                 `json:"firstName,omitempty"`
	LastName      string                 `json:"lastName,omitempty"`
	PlanCode      string                 `json:"planCode"`
	BillingPeriod BillingPeriod          `json:"billingPeriod"`
	Products      []CustomerProductInput `json:"products"`
}

var (
	ErrNoProducts          = errors.New("select at least one product")
	ErrCompanyNameRequired = errors.New("company name is required")
	ErrPersonNameRequired  = errors.New("first name and last name are required")
)

// NewCreateCustomerRequest builds a trimmed payload for the given customer
// type and validates it.
func NewCreateCustomerRequest(kind CustomerType, company, first, last, plan string, period BillingPeriod, products []ProductCode) (CreateCustomerRequest, error) {
	if len(products) == 0 {
		return CreateCustomerRequest{}, ErrNoProducts
	}

	req := CreateCustomerRequest{PlanCode: plan, BillingPeriod: period}
	for _, p := range products {
		req.Products = append(req.Products, CustomerProductInput{ProductCode: p})
	}

	switch kind {
	case CustomerB2B:
		req.CompanyName = strings.TrimSpace(company)
		if req.CompanyName == "" {
			return CreateCustomerRequest{}, ErrCompanyNameRequired
		}
	case CustomerB2C:
		req.FirstName = strings.TrimSpace(first)
		req.LastName = strings.TrimSpace(last)
		if req.FirstName == "" || req.LastName == "" {
			return CreateCustomerRequest{}, ErrPersonNameRequired
		}
	default:
		return CreateCustomerRequest{}, fmt.Errorf("unknown customer type %q", kind)
	}
	return req, nil
}

// PaymentStatus may be empty for freshly created customers.
type PaymentStatus string

type CustomerEntitlement struct {
	ProductCode         ProductCode `json:"productCode"`
	Status              string      `json:"status"`
	PlanCode            string      `json:"planCode"`
	TrialEndsAt         *string     `json:"trialEndsAt"`
	CurrentPeriodEndsAt *string     `json:"currentPeriodEndsAt"`
}

type CustomerSummary struct {
	CustomerID    int64                 `json:"customerId"`
	Name          string                `json:"name"`
	PaymentStatus PaymentStatus         `json:"paymentStatus"`
	Entitlements  []CustomerEntitlement `json:"entitlements"`
}

type GetCustomersResponse struct {
	ActiveCustomerID int64             `json:"activeCustomerId"`
	Customers        []CustomerSummary `json:"customers"`
}
