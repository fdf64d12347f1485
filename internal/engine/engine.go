// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package engine

import "sync"

// Engine is an embedder-owned instance of the verifier: a firewall under
// construction plus the witness of its last failing verify: an explicit
// engine value created by the embedder. A zero Engine is
// not usable; construct one with New.
type Engine struct {
	mu      sync.Mutex
	store   *Store
	witness Packet
	failed  bool // true once a verify has failed and witness is meaningful
}

// New returns an empty Engine.
func New() *Engine {
	return &Engine{store: NewStore()}
}

// Add appends rule to the firewall and returns the resulting rule count.
func (e *Engine) Add(rule Rule) (int, error) {
	return e.store.Add(rule)
}

// Verify checks property against the current firewall. On failure it
// records the witness for a later Witness call and returns false.
func (e *Engine) Verify(property Property) bool {
	ok, w := Verify(e.store, property)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !ok {
		e.witness = w
		e.failed = true
	}
	return ok
}

// Witness returns the 5-tuple from the most recent failing Verify call, or
// the zero 5-tuple if there has been no failing Verify since construction
// or the last Clear.
func (e *Engine) Witness() Packet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.witness
}

// Clear empties the firewall, resets the witness to the zero 5-tuple, and
// returns the rule count the firewall held beforehand.
func (e *Engine) Clear() int {
	e.mu.Lock()
	e.witness = Packet{}
	e.failed = false
	e.mu.Unlock()
	return e.store.Clear()
}

// Size returns the number of rules currently in the firewall.
func (e *Engine) Size() int {
	return e.store.Size()
}
