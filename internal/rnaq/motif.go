package rnaq

import (
	"fmt"
	"strings"
)

// MotifFilter selects the subset of a structure belonging to a motif.
// An explicit residue list is the preferred selection: it handles
// non-contiguous motifs like multi-way junctions. A numeric range with
// an optional chain is the fallback. A pair or bond is inside the
// motif only when both of its residues are.
type MotifFilter struct {
	// Residues is the explicit residue ID list, when known
	Residues map[string]bool

	// Chain restricts the range selection; empty matches all chains
	Chain string

	// Start and End bound residue numbers, inclusive
	Start, End int
}

// NewResidueFilter selects by an explicit residue ID list.
func NewResidueFilter(residues []string) (*MotifFilter, error) {
	if len(residues) == 0 {
		return nil, fmt.Errorf("%w: empty motif residue list", ErrMalformedInput)
	}
	set := make(map[string]bool, len(residues))
	for _, id := range residues {
		if _, err := ParseResidue(id); err != nil {
			return nil, err
		}
		set[strings.TrimSpace(id)] = true
	}
	return &MotifFilter{Residues: set}, nil
}

// NewRangeFilter selects by residue number range, optionally within
// one chain.
func NewRangeFilter(chain string, start, end int) (*MotifFilter, error) {
	if start > end {
		return nil, fmt.Errorf("%w: motif range %d-%d is inverted", ErrMalformedInput, start, end)
	}
	return &MotifFilter{Chain: chain, Start: start, End: end}, nil
}

// Contains reports whether the residue belongs to the motif.
func (f *MotifFilter) Contains(r Residue) bool {
	if f.Residues != nil {
		return f.Residues[r.String()]
	}
	if f.Chain != "" && r.Chain != f.Chain {
		return false
	}
	return f.Start <= r.Number && r.Number <= f.End
}

// FilterPairs keeps the base pairs fully inside the motif.
func (f *MotifFilter) FilterPairs(pairs []BasePair) []BasePair {
	var out []BasePair
	for _, bp := range pairs {
		if f.Contains(bp.Res1) && f.Contains(bp.Res2) {
			out = append(out, bp)
		}
	}
	return out
}

// FilterBonds keeps the hydrogen bonds fully inside the motif.
func (f *MotifFilter) FilterBonds(bonds []HBond) []HBond {
	var out []HBond
	for _, hb := range bonds {
		if f.Contains(hb.Donor) && f.Contains(hb.Acceptor) {
			out = append(out, hb)
		}
	}
	return out
}

// MotifLength counts the distinct residues observed across the motif's
// pairs and bonds. Counting what was actually found, rather than what
// the filter asked for, keeps non-contiguous motifs honest.
func MotifLength(pairs []BasePair, bonds []HBond) int {
	seen := make(map[string]bool)
	for _, bp := range pairs {
		seen[bp.Res1.String()] = true
		seen[bp.Res2.String()] = true
	}
	for _, hb := range bonds {
		seen[hb.Donor.String()] = true
		seen[hb.Acceptor.String()] = true
	}
	return len(seen)
}
