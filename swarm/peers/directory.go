// Package peers maintains the process-wide set of known peer addresses.
package peers

import (
	"sort"
	"sync"
)

// Directory is the single source of truth for which peers this node knows
// about. Every mutation funnels through it so the invariant "a node never
// records its own address" is enforced in one place.
type Directory struct {
	mu   sync.RWMutex
	self string
	set  map[string]struct{}
}

func New(self string) *Directory {
	return &Directory{
		self: self,
		set:  make(map[string]struct{}),
	}
}

// Self returns the local address the directory filters out.
func (d *Directory) Self() string {
	return d.self
}

// Insert adds addr and reports whether it was previously unknown.
// Inserting the local address or an empty address is a no-op.
func (d *Directory) Insert(addr string) bool {
	if addr == "" || addr == d.self {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, known := d.set[addr]; known {
		return false
	}
	d.set[addr] = struct{}{}
	return true
}

// Remove deletes addr if present and reports whether it was known.
func (d *Directory) Remove(addr string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, known := d.set[addr]; !known {
		return false
	}
	delete(d.set, addr)
	return true
}

// Merge inserts every address except the local one.
func (d *Directory) Merge(addrs []string) {
	for _, addr := range addrs {
		d.Insert(addr)
	}
}

// Snapshot returns a sorted copy of the current membership. The copy does not
// track later mutations.
func (d *Directory) Snapshot() []string {
	d.mu.RLock()
	out := make([]string, 0, len(d.set))
	for addr := range d.set {
		out = append(out, addr)
	}
	d.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.set)
}
