package rnaq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnaq/rnaq/config"
)

func TestScorePair_PerfectCanonical(t *testing.T) {
	cfg := config.Default()
	scorer := NewScorer(&cfg)

	g := Residue{Chain: "Q", Base: "G", Number: 22}
	c := Residue{Chain: "Q", Base: "C", Number: 45}
	gc := BasePair{Res1: g, Res2: c, Type: PairGC, Edge: EdgeCWW, Quality: 3.0}

	bonds := NewBondIndex([]HBond{
		goodBond(g, c, "O6", "N4"),
		goodBond(g, c, "N1", "N3"),
		goodBond(g, c, "N2", "O2"),
	})

	ps, err := scorer.ScorePair(gc, bonds)
	require.NoError(t, err)

	assert.Equal(t, 100.0, ps.Score)
	assert.Zero(t, ps.GeometryPenalty)
	assert.Zero(t, ps.HBondPenalty)
	assert.False(t, ps.Defects.Any())
	assert.Equal(t, 3, ps.BondCount)
}

func TestScorePair_DegradedPair(t *testing.T) {
	cfg := config.Default()
	scorer := NewScorer(&cfg)

	g := Residue{Chain: "Q", Base: "G", Number: 22}
	c := Residue{Chain: "Q", Base: "C", Number: 45}
	gc := BasePair{
		Res1:    g,
		Res2:    c,
		Type:    PairGC,
		Edge:    EdgeCWW,
		Shear:   2.5, // far past the canonical limit
		Quality: 3.0,
	}

	// only one of the three expected bonds survives
	bonds := NewBondIndex([]HBond{goodBond(g, c, "O6", "N4")})

	ps, err := scorer.ScorePair(gc, bonds)
	require.NoError(t, err)

	assert.Equal(t, cfg.Penalties.Misaligned, ps.GeometryPenalty)
	assert.Equal(t, cfg.Penalties.IncorrectCount, ps.HBondPenalty)
	assert.Equal(t, 100-14-8, int(ps.Score))
	assert.True(t, ps.Defects.Has(DefectMisaligned))
	assert.True(t, ps.Defects.Has(DefectIncorrectCount))
	assert.Equal(t, 1, ps.BondCount)
}

// Stacked penalties can exceed the base score; the result floors at 0.
func TestScorePair_ClampsAtZero(t *testing.T) {
	cfg := config.Default()
	cfg.Penalties.ZeroHBond = 60
	cfg.Penalties.Misaligned = 50
	scorer := NewScorer(&cfg)

	g := Residue{Chain: "Q", Base: "G", Number: 22}
	c := Residue{Chain: "Q", Base: "C", Number: 45}
	gc := BasePair{Res1: g, Res2: c, Type: PairGC, Edge: EdgeCWW, Shear: 3.0}

	ps, err := scorer.ScorePair(gc, NewBondIndex(nil))
	require.NoError(t, err)

	assert.Zero(t, ps.Score)
}

func TestScorePair_RejectsMalformed(t *testing.T) {
	cfg := config.Default()
	scorer := NewScorer(&cfg)

	g := Residue{Chain: "Q", Base: "G", Number: 22}
	self := BasePair{Res1: g, Res2: g, Type: PairGG, Edge: EdgeCWW}

	_, err := scorer.ScorePair(self, NewBondIndex(nil))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-12, 0, 100))
	assert.Equal(t, 100.0, clamp(140, 0, 100))
	assert.Equal(t, 55.5, clamp(55.5, 0, 100))
}

func TestRecordExport(t *testing.T) {
	g := Residue{Chain: "Q", Base: "G", Number: 22}
	c := Residue{Chain: "Q", Base: "C", Number: 45}

	ps := PairScore{
		Pair:            BasePair{Res1: g, Res2: c, Type: PairGC, Edge: EdgeCWW},
		Score:           66,
		GeometryPenalty: 14,
		HBondPenalty:    20,
		Defects:         DefectProfile{DefectMisaligned: true, DefectZeroHBond: true},
		BondCount:       0,
	}

	rec := ps.Export()

	assert.Equal(t, "Q-G-22-", rec.Res1)
	assert.Equal(t, "Q-C-45-", rec.Res2)
	assert.Equal(t, "G-C", rec.PairType)
	assert.Equal(t, "cWW", rec.Edge)
	assert.Equal(t, 66.0, rec.Score)
	assert.True(t, rec.Misaligned)
	assert.True(t, rec.ZeroHBond)
	assert.False(t, rec.Twisted)
	assert.False(t, rec.BadDistance)
}
