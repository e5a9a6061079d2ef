// ABOUTME: Purchase draft persistence between the purchase and setup steps
// ABOUTME: Stored as JSON under the last-purchase-draft storage key

package draft

import (
	"encoding/json"
	"fmt"

	"github.com/markalston/wusuleable-web/cli/internal/storage"
	"github.com/markalston/wusuleable-web/models"
)

// DefaultProducts is what setup shows when no draft exists.
var DefaultProducts = []models.ProductCode{models.ProductAccessibilityWidget}

// Save records d as the last purchase draft.
func Save(s storage.Storage, d models.PurchaseDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding purchase draft: %w", err)
	}
	if err := s.SetItem(storage.KeyLastPurchaseDraft, string(data)); err != nil {
		return fmt.Errorf("saving purchase draft: %w", err)
	}
	return nil
}

// Load returns the last purchase draft, or nil when it is missing,
// unreadable or corrupt.
func Load(s storage.Storage) *models.PurchaseDraft {
	raw, ok, err := s.GetItem(storage.KeyLastPurchaseDraft)
	if err != nil || !ok || raw == "" {
		return nil
	}

	var d models.PurchaseDraft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil
	}
	return &d
}

// ProductsOrDefault returns the draft's products, falling back to
// DefaultProducts when there is no draft or it lists none.
func ProductsOrDefault(d *models.PurchaseDraft) []models.ProductCode {
	if d == nil || len(d.ProductCodes) == 0 {
		return append([]models.ProductCode(nil), DefaultProducts...)
	}
	return d.ProductCodes
}
