package rnaq

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedInput marks a base pair or hydrogen bond record that is
// missing a required field or carries a non-finite measurement. A
// malformed record fails only its own evaluation; the aggregator counts
// it as skipped and the rest of the structure is scored normally.
var ErrMalformedInput = errors.New("malformed input record")

// BasePair is one interacting pair of nucleotide residues together with
// the six rigid-body parameters measured between them. Constructed once
// from annotator output and read-only afterwards.
type BasePair struct {
	Res1 Residue `json:"res_1"`
	Res2 Residue `json:"res_2"`

	// Type is the canonical pair type derived from the two bases, ex: G-C
	Type PairType `json:"bp_type"`

	// Edge is the Leontis-Westhof interaction class, ex: cWW
	Edge Edge `json:"edge"`

	// Rigid-body parameters: displacements in Angstroms,
	// rotations in degrees
	Shear     float64 `json:"shear"`
	Stretch   float64 `json:"stretch"`
	Stagger   float64 `json:"stagger"`
	Buckle    float64 `json:"buckle"`
	Propeller float64 `json:"propeller"`
	Opening   float64 `json:"opening"`

	// Quality is the annotator's aggregate hydrogen-bond quality for
	// the pair. Zero means the annotator reported no bonds; the
	// loader leaves it zero when the field is absent.
	Quality float64 `json:"hbond_score"`
}

// Validate rejects base pairs the evaluators cannot score: identical
// residues or non-finite geometry.
func (bp BasePair) Validate() error {
	if bp.Res1.same(bp.Res2) {
		return fmt.Errorf("%w: base pair %s joins a residue to itself", ErrMalformedInput, bp.Res1)
	}
	for _, v := range []float64{bp.Shear, bp.Stretch, bp.Stagger, bp.Buckle, bp.Propeller, bp.Opening, bp.Quality} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: base pair %s/%s has a non-finite parameter", ErrMalformedInput, bp.Res1, bp.Res2)
		}
	}
	return nil
}

// Key is the canonical symmetric key of the pair's two residues.
func (bp BasePair) Key() PairKey {
	return NewPairKey(bp.Res1, bp.Res2)
}

// ID is the pair's display identity, ex: "Q-G-22--Q-C-45-".
func (bp BasePair) ID() string {
	return bp.Res1.String() + "-" + bp.Res2.String()
}

// HBond is one candidate hydrogen bond between two residues. Donor and
// acceptor carry no canonical direction: a bond recorded as (A,B) is
// the same physical bond as (B,A).
type HBond struct {
	Donor    Residue `json:"res_1"`
	Acceptor Residue `json:"res_2"`

	DonorAtom    string `json:"atom_1"`
	AcceptorAtom string `json:"atom_2"`

	// Distance between donor and acceptor in Angstroms
	Distance float64 `json:"distance"`

	// Angle1 and Angle2 are the two donor/acceptor angles in degrees
	Angle1 float64 `json:"angle_1"`
	Angle2 float64 `json:"angle_2"`

	// Dihedral orientation relative to the pair plane, degrees
	Dihedral float64 `json:"dihedral_angle"`

	// Quality is the annotator's per-bond quality score
	Quality float64 `json:"score"`
}

// Validate rejects bonds with missing atoms or non-finite measurements.
func (hb HBond) Validate() error {
	if hb.DonorAtom == "" || hb.AcceptorAtom == "" {
		return fmt.Errorf("%w: hydrogen bond %s/%s is missing an atom name", ErrMalformedInput, hb.Donor, hb.Acceptor)
	}
	for _, v := range []float64{hb.Distance, hb.Angle1, hb.Angle2, hb.Dihedral, hb.Quality} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: hydrogen bond %s/%s has a non-finite measurement", ErrMalformedInput, hb.Donor, hb.Acceptor)
		}
	}
	return nil
}

// baseBase is true when both bond endpoints are nucleobase atoms.
func (hb HBond) baseBase() bool {
	return IsBaseAtom(hb.DonorAtom) && IsBaseAtom(hb.AcceptorAtom)
}

// Key is the canonical symmetric key of the bond's two residues.
func (hb HBond) Key() PairKey {
	return NewPairKey(hb.Donor, hb.Acceptor)
}

// Defect names one structural problem detected for a base pair. Each
// defect belongs to exactly one evaluator, so merging geometry and
// hydrogen-bond profiles never collides.
type Defect string

const (
	// Geometry defects
	DefectMisaligned  Defect = "misaligned"   // in-plane displacement (shear/stretch)
	DefectTwisted     Defect = "twisted"      // rotational distortion (buckle/propeller/opening)
	DefectNonCoplanar Defect = "non_coplanar" // out-of-plane displacement (stagger)

	// Hydrogen-bond defects
	DefectZeroHBond      Defect = "zero_hbond"
	DefectPoorHBond      Defect = "poor_hbond"
	DefectBadDistance    Defect = "bad_distance"
	DefectBadAngles      Defect = "bad_angles"
	DefectBadDihedral    Defect = "bad_dihedral"
	DefectWeakQuality    Defect = "weak_quality"
	DefectIncorrectCount Defect = "incorrect_count"
)

// Defects is the full defect vocabulary in report order.
var Defects = []Defect{
	DefectMisaligned,
	DefectTwisted,
	DefectNonCoplanar,
	DefectZeroHBond,
	DefectPoorHBond,
	DefectBadDistance,
	DefectBadAngles,
	DefectBadDihedral,
	DefectWeakQuality,
	DefectIncorrectCount,
}

// DefectProfile is the set of defects detected for one base pair.
// Built fresh per evaluation and never mutated after being returned.
type DefectProfile map[Defect]bool

// Has reports whether the profile contains the defect.
func (p DefectProfile) Has(d Defect) bool { return p[d] }

// Any reports whether at least one defect was detected.
func (p DefectProfile) Any() bool {
	for _, set := range p {
		if set {
			return true
		}
	}
	return false
}

// merge unions two profiles into a new one.
func (p DefectProfile) merge(other DefectProfile) DefectProfile {
	merged := make(DefectProfile, len(p)+len(other))
	for d, set := range p {
		if set {
			merged[d] = true
		}
	}
	for d, set := range other {
		if set {
			merged[d] = true
		}
	}
	return merged
}
