package rnaq

import (
	"github.com/rnaq/rnaq/config"
)

// PairScore is the scored result for a single base pair: the clamped
// 0-100 score, the two penalty components and the merged defect
// profile. Immutable once returned.
type PairScore struct {
	// Pair the score was computed for
	Pair BasePair `json:"bp_info"`

	// Score in [0, 100]
	Score float64 `json:"score"`

	// GeometryPenalty from the geometry defects
	GeometryPenalty float64 `json:"geometry_penalty"`

	// HBondPenalty from the hydrogen-bond defects
	HBondPenalty float64 `json:"hbond_penalty"`

	// Defects merged from both evaluators
	Defects DefectProfile `json:"defects"`

	// BondCount is the number of base-base bonds observed for the pair
	BondCount int `json:"num_hbonds"`
}

// Record is a PairScore flattened for CSV and JSON reporting: scalars
// only, defect flags inlined.
type Record struct {
	Res1     string  `json:"res_1"`
	Res2     string  `json:"res_2"`
	PairType string  `json:"bp_type"`
	Edge     string  `json:"edge"`
	Score    float64 `json:"score"`

	GeometryPenalty float64 `json:"geometry_penalty"`
	HBondPenalty    float64 `json:"hbond_penalty"`
	BondCount       int     `json:"num_hbonds"`

	Misaligned     bool `json:"misaligned"`
	Twisted        bool `json:"twisted"`
	NonCoplanar    bool `json:"non_coplanar"`
	ZeroHBond      bool `json:"zero_hbond"`
	PoorHBond      bool `json:"poor_hbond"`
	BadDistance    bool `json:"bad_distance"`
	BadAngles      bool `json:"bad_angles"`
	BadDihedral    bool `json:"bad_dihedral"`
	WeakQuality    bool `json:"weak_quality"`
	IncorrectCount bool `json:"incorrect_count"`
}

// Export flattens the score into a reporting record.
func (ps PairScore) Export() Record {
	return Record{
		Res1:            ps.Pair.Res1.String(),
		Res2:            ps.Pair.Res2.String(),
		PairType:        ps.Pair.Type.String(),
		Edge:            ps.Pair.Edge.String(),
		Score:           ps.Score,
		GeometryPenalty: ps.GeometryPenalty,
		HBondPenalty:    ps.HBondPenalty,
		BondCount:       ps.BondCount,
		Misaligned:      ps.Defects.Has(DefectMisaligned),
		Twisted:         ps.Defects.Has(DefectTwisted),
		NonCoplanar:     ps.Defects.Has(DefectNonCoplanar),
		ZeroHBond:       ps.Defects.Has(DefectZeroHBond),
		PoorHBond:       ps.Defects.Has(DefectPoorHBond),
		BadDistance:     ps.Defects.Has(DefectBadDistance),
		BadAngles:       ps.Defects.Has(DefectBadAngles),
		BadDihedral:     ps.Defects.Has(DefectBadDihedral),
		WeakQuality:     ps.Defects.Has(DefectWeakQuality),
		IncorrectCount:  ps.Defects.Has(DefectIncorrectCount),
	}
}

// Scorer evaluates base pairs against a configuration. It holds no
// mutable state, so a single Scorer is safe to share between
// goroutines scoring disjoint structures.
type Scorer struct {
	cfg *config.Config
}

// NewScorer returns a Scorer using the passed configuration.
func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// ScorePair scores one base pair against the bonds indexed for its
// structure. The score is the configured base score minus both penalty
// components, clamped to [0, 100]. Malformed pairs fail with
// ErrMalformedInput and only that pair's evaluation.
func (s *Scorer) ScorePair(bp BasePair, bonds *BondIndex) (PairScore, error) {
	if err := bp.Validate(); err != nil {
		return PairScore{}, err
	}

	geoProfile, geoPenalty := evalGeometry(bp, s.cfg)
	hbProfile, hbPenalty := evalHBonds(bp, bonds, s.cfg)

	return PairScore{
		Pair:            bp,
		Score:           clamp(s.cfg.BaseScore-geoPenalty-hbPenalty, 0, 100),
		GeometryPenalty: geoPenalty,
		HBondPenalty:    hbPenalty,
		Defects:         geoProfile.merge(hbProfile),
		BondCount:       len(bonds.Lookup(bp.Res1, bp.Res2)),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
