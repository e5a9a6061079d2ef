// ABOUTME: Billing models for pricing and mark-purchased
// ABOUTME: Also defines the purchase draft kept between purchase and setup

package models

type MarkPurchasedRequest struct {
	ProductCodes []ProductCode `json:"productCodes"`
	PlanCode     *string       `json:"planCode,omitempty"`
	CustomerID   *int64        `json:"customerId,omitempty"`
}

type MarkPurchasedResponse struct {
	OK bool `json:"ok"`
}

type PricingPlan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthlyPrice"`
	Currency     string  `json:"currency"`
}

type PricingResponse struct {
	Plans []PricingPlan `json:"plans"`
}

// PurchaseDraft records the last successful purchase selection.
type PurchaseDraft struct {
	ProductCodes  []ProductCode `json:"productCodes"`
	PlanCode      string        `json:"planCode"`
	BillingPeriod BillingPeriod `json:"billingPeriod"`
	CustomerType  CustomerType  `json:"customerType"`
}
