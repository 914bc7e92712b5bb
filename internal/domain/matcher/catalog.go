package matcher

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
)

// Catalog is an immutable snapshot of the venue profiles and the alias
// index derived from them. It is built once and shared read-only across
// all concurrent validation calls.
type Catalog struct {
	Profiles []*Profile
	index    NameIndex
}

// NewCatalog builds a snapshot (and its derived name index) from a
// profile list.
func NewCatalog(profiles []*Profile) *Catalog {
	return &Catalog{
		Profiles: profiles,
		index:    BuildNameIndex(profiles),
	}
}

// Index returns the alias index derived from this snapshot.
func (c *Catalog) Index() NameIndex {
	return c.index
}

// LoadCatalog reads a JSON array of venue profiles from path. An
// unreadable or empty catalog is a hard error: an empty catalog would
// silently disable all matching, so startup must abort instead.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read venue catalog: %w", err)
	}
	var profiles []*Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse venue catalog %s: %w", path, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("venue catalog %s is empty", path)
	}
	return NewCatalog(profiles), nil
}

// Store holds the current catalog snapshot and supports atomic swap on
// reload, so in-flight matches never observe a half-updated catalog.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store seeded with the given snapshot.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Snapshot returns the current immutable catalog.
func (s *Store) Snapshot() *Catalog {
	return s.current.Load()
}

// Swap atomically replaces the catalog snapshot.
func (s *Store) Swap(c *Catalog) {
	s.current.Store(c)
}

// Reload loads a fresh catalog from path and swaps it in. The previous
// snapshot stays active if the load fails.
func (s *Store) Reload(path string) error {
	c, err := LoadCatalog(path)
	if err != nil {
		return err
	}
	s.Swap(c)
	return nil
}
