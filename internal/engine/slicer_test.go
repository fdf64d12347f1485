// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDimensionSlices_NoBoundaries(t *testing.T) {
	slices := dimensionSlices(nil, DimSrcAddr, rng(10, 20))
	require.Equal(t, []slice{{Lo: 10, Hi: 20}}, slices)
}

func TestDimensionSlices_BoundaryStrictlyInside(t *testing.T) {
	rules := []Rule{
		allDims(rng(15, 15), rng(1, 1), rng(0, 0), rng(1, 1), rng(0, 0), Drop),
	}
	slices := dimensionSlices(rules, DimSrcAddr, rng(10, 20))
	require.Equal(t, []slice{
		{Lo: 10, Hi: 14},
		{Lo: 15, Hi: 15},
		{Lo: 16, Hi: 20},
	}, slices)
}

func TestDimensionSlices_BoundaryAtPropertyEdgesEmitsNoEmptySlice(t *testing.T) {
	// Rule boundary exactly at pLo and pHi must not produce empty slices.
	rules := []Rule{
		allDims(rng(10, 20), rng(1, 1), rng(0, 0), rng(1, 1), rng(0, 0), Drop),
	}
	slices := dimensionSlices(rules, DimSrcAddr, rng(10, 20))
	require.Equal(t, []slice{{Lo: 10, Hi: 20}}, slices)
	for _, s := range slices {
		require.True(t, s.Valid())
	}
}

func TestDimensionSlices_OverlappingRulesWithNoCutInsideProperty(t *testing.T) {
	rules := []Rule{
		allDims(rng(10, 110), rng(1, 1), rng(0, 0), rng(1, 1), rng(0, 0), Drop),
		allDims(rng(20, 120), rng(1, 1), rng(0, 0), rng(1, 1), rng(0, 0), Accept),
		allDims(rng(1, 200), rng(1, 1), rng(0, 0), rng(1, 1), rng(0, 0), Drop),
	}
	slices := dimensionSlices(rules, DimSrcAddr, rng(23, 87))
	// Candidate cuts are each rule's lo and hi+1: 10/111, 20/121, 1/201.
	// The lo values are all <= 23 and the hi+1 values all > 87, so none
	// falls strictly inside (23,87] and the property stays one slice.
	require.Equal(t, []slice{{Lo: 23, Hi: 87}}, slices)
}

func TestDimensionSlices_SlicesPartitionTheProperty(t *testing.T) {
	rules := []Rule{
		allDims(rng(5, 9), rng(1, 1), rng(0, 0), rng(1, 1), rng(0, 0), Drop),
		allDims(rng(12, 12), rng(1, 1), rng(0, 0), rng(1, 1), rng(0, 0), Accept),
	}
	slices := dimensionSlices(rules, DimSrcAddr, rng(0, 15))
	require.NotEmpty(t, slices)

	require.Equal(t, uint64(0), slices[0].Lo)
	require.Equal(t, uint64(15), slices[len(slices)-1].Hi)
	for i := 1; i < len(slices); i++ {
		require.Equal(t, slices[i-1].Hi+1, slices[i].Lo, "slices must be contiguous")
		require.True(t, slices[i].Valid(), "slices must be non-empty")
	}
}
