package inventory

import (
	"time"

	"expirytrack/pkg/expiry"
)

// ItemStatus is one inventory line with its computed urgency, ready
// for display.
type ItemStatus struct {
	Name string `json:"name"`
	Record
	DaysLeft       *int   `json:"days_left,omitempty"`
	Band           string `json:"band"`
	Depleted       bool   `json:"depleted"`
	SuggestRemoval bool   `json:"suggest_removal"`
}

// StatusOf computes days-remaining, urgency band and removal
// suggestion for one record. Records without a usable expiry get band
// "unknown". Expired and out-of-stock items are flagged for removal;
// the user decides.
func StatusOf(name string, r Record, now time.Time) ItemStatus {
	st := ItemStatus{Name: name, Record: r, Band: "unknown", Depleted: r.Depleted()}
	if days, ok := expiry.DaysLeft(r.Expiry, now); ok {
		st.DaysLeft = &days
		st.Band = string(expiry.BandFor(days))
		if days < 0 {
			st.SuggestRemoval = true
		}
	}
	if st.Depleted {
		st.SuggestRemoval = true
	}
	return st
}

// Statuses computes the status of every item in insertion order.
func Statuses(inv *Inventory, now time.Time) []ItemStatus {
	out := make([]ItemStatus, 0, inv.Len())
	for _, name := range inv.Names() {
		r, _ := inv.Get(name)
		out = append(out, StatusOf(name, r, now))
	}
	return out
}
