// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// catchAll builds a rule covering every dimension's full domain.
func catchAll(action Action) Rule {
	return allDims(
		rng(addrMin, addrMax),
		rng(portMin, portMax),
		rng(addrMin, addrMax),
		rng(portMin, portMax),
		rng(protoMin, protoMax),
		action,
	)
}

// S1: two overlapping rules, property in the overlap, expected DROP.
func TestVerify_S1_OverlapMismatch(t *testing.T) {
	e := New()
	_, _ = e.Add(allDims(rng(10, 110), rng(90, 190), rng(0, 0), rng(0, 0), rng(0, 0), Drop))
	_, _ = e.Add(allDims(rng(20, 120), rng(80, 180), rng(0, 0), rng(0, 0), rng(0, 0), Accept))
	_, _ = e.Add(allDims(rng(1, 200), rng(1, 200), rng(0, 0), rng(0, 0), rng(0, 0), Drop))

	prop := allDims(rng(23, 87), rng(73, 177), rng(0, 0), rng(0, 0), rng(0, 0), Drop)
	ok := e.Verify(prop)
	require.False(t, ok)

	w := e.Witness()
	require.True(t, prop.coversPacket(w), "witness must lie inside the property's region")
	// The witness must actually demonstrate a mismatch: the first matching
	// rule's action must differ from the property's expected action.
	action, found := e.store.firstMatch([numDims]Range{
		{Lo: w[0], Hi: w[0]}, {Lo: w[1], Hi: w[1]}, {Lo: w[2], Hi: w[2]}, {Lo: w[3], Hi: w[3]}, {Lo: w[4], Hi: w[4]},
	})
	require.True(t, found)
	require.NotEqual(t, prop.Action, action)
}

// S2: property strictly inside the first rule's range.
func TestVerify_S2_StrictlyInsideFirstRule(t *testing.T) {
	e := New()
	_, _ = e.Add(allDims(rng(10, 110), rng(90, 190), rng(0, 0), rng(0, 0), rng(0, 0), Drop))
	_, _ = e.Add(allDims(rng(20, 120), rng(80, 180), rng(0, 0), rng(0, 0), rng(0, 0), Accept))
	_, _ = e.Add(allDims(rng(1, 200), rng(1, 200), rng(0, 0), rng(0, 0), rng(0, 0), Drop))

	prop := allDims(rng(33, 87), rng(75, 79), rng(0, 0), rng(0, 0), rng(0, 0), Drop)
	require.True(t, e.Verify(prop))
}

// S3: catch-all-only firewall, matching and mismatching action.
func TestVerify_S3_CatchAllOnly(t *testing.T) {
	e := New()
	_, _ = e.Add(catchAll(Accept))

	accepted := catchAll(Accept)
	require.True(t, e.Verify(accepted))

	e2 := New()
	_, _ = e2.Add(catchAll(Accept))
	dropExpected := catchAll(Drop)
	require.False(t, e2.Verify(dropExpected))
	require.Equal(t, Packet{addrMin, portMin, addrMin, portMin, protoMin}, e2.Witness())
}

// S4: disjoint rule and property.
func TestVerify_S4_Disjoint(t *testing.T) {
	e := New()
	_, _ = e.Add(allDims(rng(0, 100), rng(portMin, portMax), rng(addrMin, addrMax), rng(portMin, portMax), rng(protoMin, protoMax), Drop))
	_, _ = e.Add(catchAll(Accept))

	prop := allDims(rng(200, 300), rng(portMin, portMax), rng(addrMin, addrMax), rng(portMin, portMax), rng(protoMin, protoMax), Accept)
	require.True(t, e.Verify(prop))
}

// S5: add/clear round trip; verify on an empty firewall is IncompleteFirewall.
func TestVerify_S5_AddClearRoundTrip(t *testing.T) {
	e := New()
	r := catchAll(Accept)
	n, _ := e.Add(r)
	require.Equal(t, 1, n)
	n, _ = e.Add(r)
	require.Equal(t, 2, n)
	require.Equal(t, 2, e.Size())

	prev := e.Clear()
	require.Equal(t, 2, prev)
	require.Equal(t, 0, e.Size())

	// Empty firewall: no rule can cover any non-empty property -> mismatch.
	require.False(t, e.Verify(catchAll(Accept)))
	require.Equal(t, Packet{addrMin, portMin, addrMin, portMin, protoMin}, e.Witness())
}

// S6: determinism across independent instances fed the same rules.
func TestVerify_S6_Determinism(t *testing.T) {
	build := func() *Engine {
		e := New()
		_, _ = e.Add(allDims(rng(10, 110), rng(90, 190), rng(0, 0), rng(0, 0), rng(0, 0), Drop))
		_, _ = e.Add(allDims(rng(20, 120), rng(80, 180), rng(0, 0), rng(0, 0), rng(0, 0), Accept))
		_, _ = e.Add(allDims(rng(1, 200), rng(1, 200), rng(0, 0), rng(0, 0), rng(0, 0), Drop))
		return e
	}
	e1, e2 := build(), build()
	prop := allDims(rng(23, 87), rng(73, 177), rng(0, 0), rng(0, 0), rng(0, 0), Drop)

	ok1 := e1.Verify(prop)
	ok2 := e2.Verify(prop)
	require.Equal(t, ok1, ok2)
	require.Equal(t, e1.Witness(), e2.Witness())
}

// Empty property (lo > hi on any dimension) verifies true vacuously, and
// does not disturb a previously recorded witness.
func TestVerify_EmptyPropertyIsVacuouslyTrue(t *testing.T) {
	e := New()
	_, _ = e.Add(catchAll(Accept))
	require.False(t, e.Verify(catchAll(Drop)))
	before := e.Witness()

	empty := catchAll(Accept)
	empty.Ranges[DimSrcAddr] = rng(5, 1) // lo > hi
	require.True(t, e.Verify(empty))
	require.Equal(t, before, e.Witness(), "witness must be unchanged by a vacuous verify")
}

// Degenerate property (every dimension a single point) reduces to a
// single slice-tuple / single point lookup.
func TestVerify_DegenerateProperty(t *testing.T) {
	e := New()
	_, _ = e.Add(allDims(rng(100, 100), rng(80, 80), rng(0, 0), rng(0, 0), rng(6, 6), Accept))
	_, _ = e.Add(catchAll(Drop))

	prop := allDims(rng(100, 100), rng(80, 80), rng(0, 0), rng(0, 0), rng(6, 6), Accept)
	require.True(t, e.Verify(prop))
}
