package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Inventory is a product-name to record mapping that preserves
// insertion order, matching the on-disk JSON object key order.
// Re-setting an existing name replaces the record but keeps the
// name's original position (last write wins, no merge).
type Inventory struct {
	names []string
	items map[string]Record
}

// New returns an empty inventory.
func New() *Inventory {
	return &Inventory{items: map[string]Record{}}
}

// Len returns the number of products.
func (inv *Inventory) Len() int { return len(inv.names) }

// Names returns the product names in insertion order.
func (inv *Inventory) Names() []string {
	out := make([]string, len(inv.names))
	copy(out, inv.names)
	return out
}

// Get looks up a record by product name (case-sensitive).
func (inv *Inventory) Get(name string) (Record, bool) {
	r, ok := inv.items[name]
	return r, ok
}

// Set inserts or replaces the record for name.
func (inv *Inventory) Set(name string, r Record) {
	if _, exists := inv.items[name]; !exists {
		inv.names = append(inv.names, name)
	}
	inv.items[name] = r
}

// Delete removes a product. Reports whether it existed.
func (inv *Inventory) Delete(name string) bool {
	if _, ok := inv.items[name]; !ok {
		return false
	}
	delete(inv.items, name)
	for i, n := range inv.names {
		if n == name {
			inv.names = append(inv.names[:i], inv.names[i+1:]...)
			break
		}
	}
	return true
}

// MarshalJSON writes the mapping as a single JSON object with keys in
// insertion order.
func (inv *Inventory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range inv.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(inv.items[name])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, recording keys in the order they
// appear in the document.
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	inv.names = nil
	inv.items = map[string]Record{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("inventory: expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("inventory: non-string key %v", keyTok)
		}
		var r Record
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("inventory: record for %q: %w", name, err)
		}
		inv.Set(name, r)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
