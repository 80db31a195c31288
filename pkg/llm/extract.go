package llm

import (
	"context"
	"time"

	"expirytrack/pkg/expiry"
)

// Defaults used whenever the model is unavailable or answered
// something unusable. The human reviewer is the correctness backstop.
const (
	DefaultName       = "Unknown Product"
	DefaultCategory   = "Unknown Category"
	DefaultQuantity   = "Unknown"
	DefaultShelfDays  = 7
	DefaultStorageTip = "Store in cool, dry place"
)

// ProductFacts is the semantic extraction result for one label.
type ProductFacts struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity string `json:"quantity"`
}

// ShelfLife is the estimate for a fresh-produce item.
type ShelfLife struct {
	Days       int    `json:"days"`
	Expiry     string `json:"expiry"`
	StorageTip string `json:"storage_tip"`
}

// PlanRequest carries everything the usage-plan prompt needs.
type PlanRequest struct {
	Product       string
	Category      string
	Quantity      string
	Expiry        string
	OtherProducts []string
	Equipment     []string
	Skill         string
}

// ExtractProduct asks the model for name/category/quantity from
// product-label OCR text. Every field has a default; the keyword
// table overrides the model's category whenever it matches.
func ExtractProduct(ctx context.Context, g Generator, ocrText string) ProductFacts {
	m := ParseObject(Ask(ctx, g, productPrompt(ocrText)))
	facts := ProductFacts{
		Name:     stringField(m, "name", DefaultName),
		Category: stringField(m, "category", DefaultCategory),
		Quantity: stringField(m, "quantity", DefaultQuantity),
	}
	if cat, ok := GuessCategory(ocrText); ok {
		facts.Category = cat
	}
	return facts
}

// ExtractExpiry is the fallback expiry path, used only after the
// deterministic parser returned nothing. A returned date on day 1 is
// treated as an implicit month/year-only answer and re-resolved to
// the end of that month, same policy as the deterministic parser.
func ExtractExpiry(ctx context.Context, g Generator, ocrText string) string {
	m := ParseObject(Ask(ctx, g, expiryPrompt(ocrText)))
	raw := stringField(m, "expiry", expiry.Unknown)
	if raw == expiry.Unknown {
		return expiry.Unknown
	}
	return expiry.ResolveFirstOfMonth(raw)
}

// EstimateShelfLife asks for a conservative fresh-produce shelf life.
// When the model gives no usable date, the expiry is computed from
// the day count (default 7) relative to now.
func EstimateShelfLife(ctx context.Context, g Generator, name, category string, quantity int, now time.Time) ShelfLife {
	m := ParseObject(Ask(ctx, g, shelfLifePrompt(name, category, quantity, now)))
	est := ShelfLife{
		Days:       intField(m, "days", DefaultShelfDays),
		Expiry:     stringField(m, "expiry", ""),
		StorageTip: stringField(m, "storage_tip", DefaultStorageTip),
	}
	if est.Days <= 0 {
		est.Days = DefaultShelfDays
	}
	if _, err := expiry.ParseDate(est.Expiry); err != nil {
		est.Expiry = expiry.Format(now.AddDate(0, 0, est.Days))
	}
	return est
}

// UsagePlan returns the model's free-text plan for one product in the
// context of the rest of the inventory. Failures come back as the
// descriptive error string, shown to the user as-is.
func UsagePlan(ctx context.Context, g Generator, req PlanRequest, now time.Time) string {
	return Ask(ctx, g, planPrompt(req, now))
}
