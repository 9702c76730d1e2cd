package rnaq

import (
	"math"

	"github.com/rnaq/rnaq/config"
)

// BondIndex groups a structure's hydrogen bonds by the symmetric key of
// their two residues. Because the key is canonical, a bond recorded as
// (A,B) is found whether the querying base pair lists its residues as
// (A,B) or (B,A). Only base-base bonds are indexed; backbone and sugar
// contacts never count toward pair quality. Read-only after build.
type BondIndex struct {
	byPair map[PairKey][]HBond

	// Skipped counts bonds dropped during the build: malformed
	// records and backbone/sugar contacts
	Skipped int
}

// NewBondIndex builds the symmetric lookup from a structure's bonds.
func NewBondIndex(bonds []HBond) *BondIndex {
	idx := &BondIndex{byPair: make(map[PairKey][]HBond, len(bonds))}
	for _, hb := range bonds {
		if err := hb.Validate(); err != nil {
			idx.Skipped++
			continue
		}
		if !hb.baseBase() {
			idx.Skipped++
			continue
		}
		key := hb.Key()
		idx.byPair[key] = append(idx.byPair[key], hb)
	}
	return idx
}

// Lookup returns the base-base bonds joining the two residues, in
// either order.
func (idx *BondIndex) Lookup(a, b Residue) []HBond {
	return idx.byPair[NewPairKey(a, b)]
}

// DihedralClass is the orientation of a hydrogen bond's dihedral angle
// relative to the base-pair plane.
type DihedralClass int

const (
	// DihedralCis: angle within the CIS window around zero
	DihedralCis DihedralClass = iota
	// DihedralTrans: |angle| at or beyond the TRANS boundary
	DihedralTrans
	// DihedralForbidden: the strained zone between the two windows
	DihedralForbidden
)

func (d DihedralClass) String() string {
	switch d {
	case DihedralCis:
		return "CIS"
	case DihedralTrans:
		return "TRANS"
	default:
		return "FORBIDDEN"
	}
}

// ClassifyDihedral buckets a dihedral angle as CIS, TRANS or forbidden.
// Classification is a total function of the numeric angle; the pair's
// declared edge label plays no part, since annotation and measurement
// can disagree and the measurement wins. Angles outside [-180, 180]
// are wrapped first.
func ClassifyDihedral(angle float64, th config.HBondThresholds) DihedralClass {
	angle = normalizeAngle(angle)
	switch {
	case th.DihedralCisMin <= angle && angle <= th.DihedralCisMax:
		return DihedralCis
	case math.Abs(angle) >= th.DihedralTransMin:
		return DihedralTrans
	default:
		return DihedralForbidden
	}
}

// normalizeAngle wraps an angle in degrees into [-180, 180].
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	switch {
	case a > 180:
		a -= 360
	case a < -180:
		a += 360
	}
	return a
}

// evalHBonds matches a base pair's expected hydrogen bonds against the
// observed ones and classifies each by distance, angle and dihedral
// orientation.
//
// With zero observed bonds the pair gets the zero_hbond defect, the
// single heaviest in the penalty table, and per-bond checks are
// skipped; pair types whose expected count range includes zero are
// exempt. Otherwise the observed count is checked against the expected
// range (and against the ideal count for cWW pairs), and each bond is
// classified individually. Every defect kind is weighted once per pair
// no matter how many bonds trigger it.
func evalHBonds(bp BasePair, idx *BondIndex, cfg *config.Config) (DefectProfile, float64) {
	profile := DefectProfile{}
	th := cfg.HBonds

	// the annotator's aggregate quality for the pair, when present
	if bp.Quality > 0 && bp.Quality < th.PairQualityMin {
		profile[DefectPoorHBond] = true
	}

	bonds := idx.Lookup(bp.Res1, bp.Res2)

	if len(bonds) == 0 {
		expected, ok := cfg.ExpectedCount(bp.Type.String())
		if !ok || expected.Min > 0 {
			profile[DefectZeroHBond] = true
		}
		return profile, penaltyFor(profile, cfg)
	}

	if expected, ok := cfg.ExpectedCount(bp.Type.String()); ok {
		n := len(bonds)
		outsideRange := n < expected.Min || n > expected.Max
		suboptimalCWW := bp.Edge == EdgeCWW && n != expected.Ideal
		if outsideRange || suboptimalCWW {
			profile[DefectIncorrectCount] = true
		}
	}

	for _, hb := range bonds {
		if hb.Distance < th.DistanceMin || hb.Distance > th.DistanceMax {
			profile[DefectBadDistance] = true
		}
		if hb.Angle1 < th.AngleMin || hb.Angle2 < th.AngleMin {
			profile[DefectBadAngles] = true
		}
		if ClassifyDihedral(hb.Dihedral, th) == DihedralForbidden {
			profile[DefectBadDihedral] = true
		}
		if hb.Quality < th.QualityMin {
			profile[DefectWeakQuality] = true
		}
	}

	return profile, penaltyFor(profile, cfg)
}

// penaltyFor sums the configured weights of the hydrogen-bond defects
// present in the profile.
func penaltyFor(profile DefectProfile, cfg *config.Config) float64 {
	w := cfg.Penalties
	penalty := 0.0
	for defect, weight := range map[Defect]float64{
		DefectZeroHBond:      w.ZeroHBond,
		DefectBadDistance:    w.BadDistance,
		DefectBadAngles:      w.BadAngles,
		DefectBadDihedral:    w.BadDihedral,
		DefectWeakQuality:    w.WeakQuality,
		DefectPoorHBond:      w.PoorHBond,
		DefectIncorrectCount: w.IncorrectCount,
	} {
		if profile[defect] {
			penalty += weight
		}
	}
	return penalty
}
