// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package engine

import "sort"

// slice is one maximal sub-interval of a Property's range on a single
// dimension such that the set of rules covering it is constant. It is a
// Range; the distinct name documents intent at call sites.
type slice = Range

// dimensionSlices computes the ordered list of slices of propRange induced
// by the firewall's rule boundaries on dimension d.
//
// The algorithm collects boundary points, sorts and dedups them, then
// walks the sorted list to emit contiguous output ranges — the same
// sort-then-merge shape as a CIDR-block merge, generalized from IPv4
// octets to an arbitrary integer dimension, and emitting a full partition
// of propRange rather than merged blocks.
func dimensionSlices(rules []Rule, d Dim, propRange Range) []slice {
	if !propRange.Valid() {
		return nil
	}

	cuts := make([]uint64, 0, 2*len(rules))
	for _, r := range rules {
		lo, hi := r.Ranges[d].Lo, r.Ranges[d].Hi
		if lo > propRange.Lo && lo <= propRange.Hi {
			cuts = append(cuts, lo)
		}
		// hi+1 is the start of "past this rule's range"; only a cut if it
		// still falls strictly inside (pLo, pHi].
		if hi+1 > propRange.Lo && hi+1 <= propRange.Hi {
			cuts = append(cuts, hi+1)
		}
	}

	sort.Slice(cuts, func(i, j int) bool { return cuts[i] < cuts[j] })
	cuts = dedup(cuts)

	slices := make([]slice, 0, len(cuts)+1)
	start := propRange.Lo
	for _, c := range cuts {
		slices = append(slices, slice{Lo: start, Hi: c - 1})
		start = c
	}
	slices = append(slices, slice{Lo: start, Hi: propRange.Hi})
	return slices
}

func dedup(sorted []uint64) []uint64 {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
