// Package rnaq scores the geometric and hydrogen-bonding quality of RNA
// base pairs and aggregates per-pair scores into structure and motif
// level quality reports.
package rnaq

import (
	"fmt"
	"strconv"
	"strings"
)

// Residue identifies one nucleotide within a structure. IDs arrive in
// CHAIN-BASE-NUM-[ICODE] form, ex: "Q-G-22-".
type Residue struct {
	// Chain the residue belongs to, ex: "Q" or "AN1"
	Chain string

	// Base is the one-letter nucleotide code: A, C, G or U
	Base string

	// Number of the residue within its chain
	Number int

	// ICode is the PDB insertion code, usually empty
	ICode string
}

// ParseResidue parses a CHAIN-BASE-NUM-[ICODE] residue ID.
func ParseResidue(id string) (Residue, error) {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return Residue{}, fmt.Errorf("%w: residue id %q", ErrMalformedInput, id)
	}

	num, err := strconv.Atoi(parts[2])
	if err != nil {
		return Residue{}, fmt.Errorf("%w: residue id %q has non-numeric position", ErrMalformedInput, id)
	}

	if parts[0] == "" || parts[1] == "" {
		return Residue{}, fmt.Errorf("%w: residue id %q", ErrMalformedInput, id)
	}

	r := Residue{
		Chain:  parts[0],
		Base:   parts[1],
		Number: num,
	}
	if len(parts) > 3 {
		r.ICode = parts[3]
	}
	return r, nil
}

// String reassembles the residue into its CHAIN-BASE-NUM-[ICODE] ID.
func (r Residue) String() string {
	return fmt.Sprintf("%s-%s-%d-%s", r.Chain, r.Base, r.Number, r.ICode)
}

// adjacentTo is true when two residues are sequential neighbors on the
// same chain. Neighboring residues stack rather than pair, so annotator
// rows joining them are excluded from scoring.
func (r Residue) adjacentTo(other Residue) bool {
	return r.Chain == other.Chain && abs(r.Number-other.Number) == 1
}

// same is true when both IDs point at the same residue. A residue
// "pairing" with itself is a data error upstream.
func (r Residue) same(other Residue) bool {
	return r.Chain == other.Chain && r.Number == other.Number && r.ICode == other.ICode
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PairKey is the canonical, order-independent key for a residue pair.
// The two IDs are sorted so that (A,B) and (B,A) build the same key and
// hydrogen-bond lookup stays symmetric by construction.
type PairKey struct {
	lo, hi string
}

// NewPairKey builds the canonical key for two residues in either order.
func NewPairKey(a, b Residue) PairKey {
	sa, sb := a.String(), b.String()
	if sa > sb {
		sa, sb = sb, sa
	}
	return PairKey{lo: sa, hi: sb}
}

// PairType is the canonical base-pair type, ex: G-C. The annotator emits
// free-form labels; anything outside the sixteen canonical combinations
// maps to PairUnknown so a typo can never silently match configuration.
type PairType uint8

const (
	PairUnknown PairType = iota
	PairGC
	PairCG
	PairAU
	PairUA
	PairGU
	PairUG
	PairAA
	PairCC
	PairGG
	PairUU
	PairAC
	PairCA
	PairAG
	PairGA
	PairCU
	PairUC
)

var pairTypeNames = map[PairType]string{
	PairUnknown: "?-?",
	PairGC:      "G-C",
	PairCG:      "C-G",
	PairAU:      "A-U",
	PairUA:      "U-A",
	PairGU:      "G-U",
	PairUG:      "U-G",
	PairAA:      "A-A",
	PairCC:      "C-C",
	PairGG:      "G-G",
	PairUU:      "U-U",
	PairAC:      "A-C",
	PairCA:      "C-A",
	PairAG:      "A-G",
	PairGA:      "G-A",
	PairCU:      "C-U",
	PairUC:      "U-C",
}

var pairTypeByName = func() map[string]PairType {
	m := make(map[string]PairType, len(pairTypeNames))
	for pt, name := range pairTypeNames {
		m[name] = pt
	}
	return m
}()

// ParsePairType maps a base-pair label to its canonical type.
// Unrecognized labels become PairUnknown.
func ParsePairType(label string) PairType {
	if pt, ok := pairTypeByName[strings.ToUpper(strings.TrimSpace(label))]; ok {
		return pt
	}
	return PairUnknown
}

func (p PairType) String() string {
	if name, ok := pairTypeNames[p]; ok {
		return name
	}
	return "?-?"
}

// Edge is the Leontis-Westhof interaction class of a base pair: a
// cis/trans orientation crossed with the interacting edges
// (Watson-Crick, Hoogsteen, Sugar). EdgeOther is the fallback for
// unannotated or unrecognized labels.
type Edge uint8

const (
	EdgeOther Edge = iota
	EdgeCWW
	EdgeCWH
	EdgeCWS
	EdgeCHW
	EdgeCHH
	EdgeCHS
	EdgeCSW
	EdgeCSH
	EdgeCSS
	EdgeTWW
	EdgeTWH
	EdgeTWS
	EdgeTHW
	EdgeTHH
	EdgeTHS
	EdgeTSW
	EdgeTSH
	EdgeTSS
)

var edgeNames = map[Edge]string{
	EdgeOther: "_OTHER",
	EdgeCWW:   "cWW",
	EdgeCWH:   "cWH",
	EdgeCWS:   "cWS",
	EdgeCHW:   "cHW",
	EdgeCHH:   "cHH",
	EdgeCHS:   "cHS",
	EdgeCSW:   "cSW",
	EdgeCSH:   "cSH",
	EdgeCSS:   "cSS",
	EdgeTWW:   "tWW",
	EdgeTWH:   "tWH",
	EdgeTWS:   "tWS",
	EdgeTHW:   "tHW",
	EdgeTHH:   "tHH",
	EdgeTHS:   "tHS",
	EdgeTSW:   "tSW",
	EdgeTSH:   "tSH",
	EdgeTSS:   "tSS",
}

var edgeByName = func() map[string]Edge {
	m := make(map[string]Edge, len(edgeNames))
	for e, name := range edgeNames {
		m[name] = e
	}
	return m
}()

// ParseEdge maps a Leontis-Westhof label to its Edge. Empty and
// unrecognized labels become EdgeOther.
func ParseEdge(label string) Edge {
	if e, ok := edgeByName[strings.TrimSpace(label)]; ok {
		return e
	}
	return EdgeOther
}

func (e Edge) String() string {
	if name, ok := edgeNames[e]; ok {
		return name
	}
	return "_OTHER"
}

// IsBaseAtom reports whether an atom belongs to the nucleobase rather
// than the phosphate backbone or the ribose sugar. Only base-base
// hydrogen bonds count toward pair quality.
func IsBaseAtom(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	// Phosphate: P, PA..PG, OP1..OP3, O1P..O3P
	if strings.HasPrefix(name, "P") && len(name) <= 3 {
		return false
	}
	if strings.HasPrefix(name, "OP") {
		return false
	}
	if strings.Contains(name, "P") && strings.Contains(name, "O") {
		return false
	}

	// Ribose atoms carry a prime (or legacy asterisk) suffix
	if strings.ContainsAny(name, "'*") {
		return false
	}

	return true
}
