package rnaq

import (
	"math"

	"github.com/rnaq/rnaq/config"
)

// evalGeometry classifies one base pair's rigid-body parameters against
// the thresholds resolved for its pair type and edge. Each parameter
// maps to one defect: in-plane displacement (shear, stretch) to
// misaligned, rotational distortion (buckle, propeller, opening) to
// twisted, out-of-plane displacement (stagger) to non_coplanar.
// Parameters without a configured threshold are not checked. The
// returned penalty is the sum of the triggered defects' weights; it is
// clamped later, at pair-score level.
func evalGeometry(bp BasePair, cfg *config.Config) (DefectProfile, float64) {
	th := cfg.GeometryFor(bp.Type.String(), bp.Edge.String())

	profile := DefectProfile{}

	if th.Shear != nil && math.Abs(bp.Shear) > *th.Shear {
		profile[DefectMisaligned] = true
	}
	if th.Stretch != nil && !th.Stretch.Contains(bp.Stretch) {
		profile[DefectMisaligned] = true
	}

	if th.Buckle != nil && math.Abs(bp.Buckle) > *th.Buckle {
		profile[DefectTwisted] = true
	}
	if th.Propeller != nil && !th.Propeller.Contains(bp.Propeller) {
		profile[DefectTwisted] = true
	}
	if th.Opening != nil && !th.Opening.Contains(bp.Opening) {
		profile[DefectTwisted] = true
	}

	if th.Stagger != nil && math.Abs(bp.Stagger) > *th.Stagger {
		profile[DefectNonCoplanar] = true
	}

	penalty := 0.0
	if profile[DefectMisaligned] {
		penalty += cfg.Penalties.Misaligned
	}
	if profile[DefectTwisted] {
		penalty += cfg.Penalties.Twisted
	}
	if profile[DefectNonCoplanar] {
		penalty += cfg.Penalties.NonCoplanar
	}

	return profile, penalty
}
