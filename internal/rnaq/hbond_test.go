package rnaq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnaq/rnaq/config"
)

func TestClassifyDihedral(t *testing.T) {
	th := config.Default().HBonds

	tests := []struct {
		angle float64
		want  DihedralClass
	}{
		{0, DihedralCis},
		{-30, DihedralCis},
		{45, DihedralCis},
		{50, DihedralCis},
		{-50, DihedralCis},
		{150, DihedralTrans},
		{-170, DihedralTrans},
		{140, DihedralTrans},
		{-140, DihedralTrans},
		{180, DihedralTrans},
		{90, DihedralForbidden},
		{-80, DihedralForbidden},
		{51, DihedralForbidden},
		{-139.9, DihedralForbidden},

		// out-of-range angles wrap before classification
		{360, DihedralCis},
		{-200, DihedralTrans},
		{270, DihedralForbidden},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDihedral(tt.angle, th), "angle %.1f", tt.angle)
	}
}

func TestBondIndex_SymmetricLookup(t *testing.T) {
	g := Residue{Chain: "Q", Base: "G", Number: 22}
	c := Residue{Chain: "Q", Base: "C", Number: 45}

	idx := NewBondIndex([]HBond{
		goodBond(g, c, "O6", "N4"),
		goodBond(c, g, "N3", "N1"), // reversed row, same physical pair
	})

	require.Len(t, idx.Lookup(g, c), 2)
	require.Len(t, idx.Lookup(c, g), 2)
	assert.Zero(t, idx.Skipped)
}

func TestBondIndex_FiltersBackboneAndMalformed(t *testing.T) {
	g := Residue{Chain: "Q", Base: "G", Number: 22}
	c := Residue{Chain: "Q", Base: "C", Number: 45}

	backbone := goodBond(g, c, "OP1", "N4")
	sugar := goodBond(g, c, "O2'", "N3")
	missingAtom := goodBond(g, c, "", "N4")

	idx := NewBondIndex([]HBond{goodBond(g, c, "O6", "N4"), backbone, sugar, missingAtom})

	assert.Len(t, idx.Lookup(g, c), 1)
	assert.Equal(t, 3, idx.Skipped)
}

func TestEvalHBonds(t *testing.T) {
	cfg := config.Default()

	g := Residue{Chain: "Q", Base: "G", Number: 22}
	c := Residue{Chain: "Q", Base: "C", Number: 45}

	gc := BasePair{Res1: g, Res2: c, Type: PairGC, Edge: EdgeCWW, Quality: 3.0}

	threeGood := []HBond{
		goodBond(g, c, "O6", "N4"),
		goodBond(g, c, "N1", "N3"),
		goodBond(g, c, "N2", "O2"),
	}

	tests := []struct {
		name    string
		pair    BasePair
		bonds   []HBond
		defects []Defect
		penalty float64
	}{
		{
			"canonical pair with its three bonds",
			gc,
			threeGood,
			nil,
			0,
		},
		{
			"no bonds at all",
			gc,
			nil,
			[]Defect{DefectZeroHBond},
			20,
		},
		{
			"missing one of three expected bonds",
			gc,
			threeGood[:2],
			[]Defect{DefectIncorrectCount},
			8,
		},
		{
			"too long a bond",
			gc,
			[]HBond{threeGood[0], threeGood[1], withDistance(threeGood[2], 4.1)},
			[]Defect{DefectBadDistance},
			18,
		},
		{
			"too short a bond",
			gc,
			[]HBond{threeGood[0], threeGood[1], withDistance(threeGood[2], 2.0)},
			[]Defect{DefectBadDistance},
			18,
		},
		{
			"pinched approach angle",
			gc,
			[]HBond{threeGood[0], threeGood[1], withAngles(threeGood[2], 60, 120)},
			[]Defect{DefectBadAngles},
			5,
		},
		{
			"forbidden dihedral",
			gc,
			[]HBond{threeGood[0], threeGood[1], withDihedral(threeGood[2], 90)},
			[]Defect{DefectBadDihedral},
			8,
		},
		{
			"weak per-bond quality",
			gc,
			[]HBond{threeGood[0], threeGood[1], withQuality(threeGood[2], 0.4)},
			[]Defect{DefectWeakQuality},
			10,
		},
		{
			"poor aggregate pair quality",
			withPairQuality(gc, 1.2),
			threeGood,
			[]Defect{DefectPoorHBond},
			10,
		},
		{
			"zero aggregate quality is not poor quality",
			withPairQuality(gc, 0),
			threeGood,
			nil,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, penalty := evalHBonds(tt.pair, NewBondIndex(tt.bonds), &cfg)

			assert.Equal(t, tt.penalty, penalty)
			for _, d := range Defects {
				expected := false
				for _, want := range tt.defects {
					if d == want {
						expected = true
					}
				}
				assert.Equal(t, expected, profile.Has(d), "defect %s", d)
			}
		})
	}
}

// A zero-bond pair skips every per-bond check: zero_hbond is the whole
// verdict, not the start of a pile-on.
func TestEvalHBonds_ZeroShortCircuits(t *testing.T) {
	cfg := config.Default()

	gc := BasePair{
		Res1:    Residue{Chain: "Q", Base: "G", Number: 22},
		Res2:    Residue{Chain: "Q", Base: "C", Number: 45},
		Type:    PairGC,
		Edge:    EdgeCWW,
		Quality: 3.0,
	}

	profile, penalty := evalHBonds(gc, NewBondIndex(nil), &cfg)

	assert.True(t, profile.Has(DefectZeroHBond))
	assert.False(t, profile.Has(DefectIncorrectCount))
	assert.Equal(t, cfg.Penalties.ZeroHBond, penalty)
}

// A cWW pair inside the expected range but off the ideal count is
// still flagged; the same count on a non-cWW edge is not.
func TestEvalHBonds_IdealCountOnlyForCWW(t *testing.T) {
	cfg := config.Default()

	g := Residue{Chain: "Q", Base: "G", Number: 22}
	a := Residue{Chain: "Q", Base: "A", Number: 45}

	oneBond := []HBond{goodBond(g, a, "O6", "N6")}

	cww := BasePair{Res1: g, Res2: a, Type: PairGA, Edge: EdgeCWW, Quality: 3.0}
	profile, _ := evalHBonds(cww, NewBondIndex(oneBond), &cfg)
	assert.True(t, profile.Has(DefectIncorrectCount), "G-A cWW ideal is 2")

	sheared := cww
	sheared.Edge = EdgeTHS
	profile, _ = evalHBonds(sheared, NewBondIndex(oneBond), &cfg)
	assert.False(t, profile.Has(DefectIncorrectCount), "1 bond is within the G-A range")
}

// helpers

func goodBond(a, b Residue, atomA, atomB string) HBond {
	return HBond{
		Donor:        a,
		Acceptor:     b,
		DonorAtom:    atomA,
		AcceptorAtom: atomB,
		Distance:     2.9,
		Angle1:       120,
		Angle2:       115,
		Dihedral:     10,
		Quality:      0.95,
	}
}

func withDistance(hb HBond, d float64) HBond { hb.Distance = d; return hb }

func withAngles(hb HBond, a1, a2 float64) HBond { hb.Angle1 = a1; hb.Angle2 = a2; return hb }

func withDihedral(hb HBond, d float64) HBond { hb.Dihedral = d; return hb }

func withQuality(hb HBond, q float64) HBond { hb.Quality = q; return hb }

func withPairQuality(bp BasePair, q float64) BasePair { bp.Quality = q; return bp }
