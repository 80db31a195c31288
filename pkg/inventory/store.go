package inventory

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Store persists one inventory mapping as a JSON file. Load never
// fails: a missing or unreadable file is an empty inventory. Save
// reports its error so callers can surface a non-fatal warning; the
// write is not atomic, matching the displayed-vs-persisted divergence
// the caller already has to tolerate.
type Store struct {
	Path string
}

// NewStore builds a store for the given file path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the inventory file. Missing file or parse failure yields
// an empty inventory, never an error.
func (s *Store) Load() *Inventory {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return New()
	}
	inv := New()
	if err := json.Unmarshal(data, inv); err != nil {
		log.Printf("inventory load %s: %v (starting empty)", s.Path, err)
		return New()
	}
	return inv
}

// Save writes the inventory file, creating parent directories as
// needed.
func (s *Store) Save(inv *Inventory) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("inventory dir: %w", err)
	}
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("inventory marshal: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("inventory write: %w", err)
	}
	return nil
}

// WatchDir logs writes to inventory files under dir. There is no
// cross-session locking, so concurrent sessions against the same
// files race with last-writer-wins semantics; the watcher at least
// makes those overwrites visible in the server log. Returns a stop
// function.
func WatchDir(dir string) (func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				name := filepath.Base(ev.Name)
				if !strings.HasPrefix(name, "inventory_") || !strings.HasSuffix(name, ".json") {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					log.Printf("inventory file %s written (op=%s)", name, ev.Op)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("inventory watcher: %v", err)
			}
		}
	}()
	return w.Close, nil
}
