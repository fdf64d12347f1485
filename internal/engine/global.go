// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package engine

// Package-level wrapper around a process-singleton Engine, layered on top
// of the embedder-owned API for host-binding compatibility with callers
// that expect process-wide add/verify/witness/clear/size calls rather
// than an explicit instance. New code should prefer New() and call
// methods on the returned *Engine directly; this wrapper exists only for
// collaborators that expect the legacy global shape (e.g. a thin FFI layer).

var global = New()

// Add appends rule to the process-wide firewall.
func Add(rule Rule) (int, error) { return global.Add(rule) }

// VerifyGlobal checks property against the process-wide firewall. Named
// to avoid colliding with the package-level Verify(*Store, Property)
// function used internally by Engine.
func VerifyGlobal(property Property) bool { return global.Verify(property) }

// Witness returns the process-wide engine's last witness.
func Witness() Packet { return global.Witness() }

// Clear empties the process-wide firewall.
func Clear() int { return global.Clear() }

// Size returns the process-wide firewall's current rule count.
func Size() int { return global.Size() }
