// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Verify returns true iff every packet in property's five-dimensional
// region receives property's expected action under store's first-match
// semantics. On the first mismatch it returns false and reports the
// offending slice-tuple's lower-bound point as a witness.
//
// A property with any dimension's Lo > Hi denotes the empty set and
// verifies vacuously true — no witness is produced or consulted.
func Verify(store *Store, property Property) (bool, Packet) {
	if property.empty() {
		return true, Packet{}
	}

	rules := store.snapshot()

	var perDim [numDims][]slice
	g, _ := errgroup.WithContext(context.Background())
	for d := Dim(0); d < numDims; d++ {
		d := d
		g.Go(func() error {
			perDim[d] = dimensionSlices(rules, d, property.Ranges[d])
			return nil
		})
	}
	_ = g.Wait() // dimensionSlices never errors; Wait only joins the goroutines

	ok, witness := walkProduct(rules, property, perDim)
	return ok, witness
}

// walkProduct iterates the Cartesian product S0 x S1 x S2 x S3 x S4 in
// lexicographic dimension order and, for each slice-tuple, looks up the
// first covering rule. It returns on the first mismatch rather than
// materializing the whole product, so auxiliary storage stays O(1)
// beyond the slice arrays themselves.
func walkProduct(rules []Rule, property Property, perDim [numDims][]slice) (bool, Packet) {
	var cur [numDims]Range
	var rec func(d Dim) (bool, Packet)
	rec = func(d Dim) (bool, Packet) {
		if d == numDims {
			return checkSliceTuple(rules, property, cur)
		}
		for _, s := range perDim[d] {
			cur[d] = s
			if ok, w := rec(d + 1); !ok {
				return false, w
			}
		}
		return true, Packet{}
	}
	return rec(0)
}

// checkSliceTuple resolves the first rule covering the slice-tuple cur and
// compares its action to property's expected action. On mismatch —
// including the case where no rule covers cur at all — it materializes
// the slice-tuple's lower-bound point as a witness and reports failure.
func checkSliceTuple(rules []Rule, property Property, cur [numDims]Range) (bool, Packet) {
	firstMatchInSlices := func() (Action, bool) {
		for _, r := range rules {
			if ruleCoversSlices(r, cur) {
				return r.Action, true
			}
		}
		return noRule, false
	}

	action, ok := firstMatchInSlices()
	if ok && action == property.Action {
		return true, Packet{}
	}
	// Either no rule covered the slice or a covering rule's action differs
	// from the property's expectation — both are reported as a mismatch
	// with the slice-tuple's lower bound as the witness.
	return false, witnessFrom(cur)
}

// witnessFrom materializes the canonical witness point for a slice-tuple:
// the lower bound of each dimension's slice.
func witnessFrom(slices [numDims]Range) Packet {
	var pkt Packet
	for d := Dim(0); d < numDims; d++ {
		pkt[d] = slices[d].Lo
	}
	return pkt
}
