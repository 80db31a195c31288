// Package inventory holds the durable product mapping: records keyed
// by product name, persisted as a single JSON object per user.
package inventory

import (
	"regexp"
	"strconv"

	"expirytrack/pkg/expiry"
)

// Record is one inventory line. The product name is the key in the
// surrounding mapping, not a field.
type Record struct {
	Category  string `json:"category"`
	Quantity  string `json:"quantity"`
	Expiry    string `json:"expiry"`
	AddedDate string `json:"added_date"`
}

// Categories is the closed set for packaged products. "Other" doubles
// as the bucket a reviewer picks when nothing fits.
var Categories = []string{
	"Rice/Grains", "Coffee", "Tea", "Spice Mix", "Dairy",
	"Canned Goods", "Sauce", "Fresh Produce", "Snacks",
	"Sugar", "Oil", "Pasta", "Other",
}

// ProduceCategories is the closed set for the fresh-produce entry flow.
var ProduceCategories = []string{"Vegetables", "Fruits", "Leafy Greens", "Herbs"}

// IsCategory reports whether s is a member of the packaged-product set.
func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// IsProduceCategory reports whether s is a fresh-produce category.
func IsProduceCategory(s string) bool {
	for _, c := range ProduceCategories {
		if c == s {
			return true
		}
	}
	return false
}

// ValidExpiry reports whether the record's expiry is either the
// Unknown sentinel or a calendar-valid DD-MM-YYYY date.
func (r Record) ValidExpiry() bool {
	if r.Expiry == expiry.Unknown {
		return true
	}
	_, err := expiry.ParseDate(r.Expiry)
	return err == nil
}

var quantityNumberRE = regexp.MustCompile(`(\d+\.?\d*)`)

// Depleted reports whether the free-text quantity parses to a
// magnitude of zero (e.g. "0g", "0 units"). Unknown quantities are
// never considered depleted.
func (r Record) Depleted() bool {
	if r.Quantity == "" || r.Quantity == "Unknown" {
		return false
	}
	m := quantityNumberRE.FindString(r.Quantity)
	if m == "" {
		return false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return false
	}
	return v <= 0
}
