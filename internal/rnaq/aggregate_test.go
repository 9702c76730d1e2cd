package rnaq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnaq/rnaq/config"
)

func pairScore(num1, num2 int, score float64, defects ...Defect) PairScore {
	profile := DefectProfile{}
	for _, d := range defects {
		profile[d] = true
	}
	return PairScore{
		Pair: BasePair{
			Res1: Residue{Chain: "A", Base: "G", Number: num1},
			Res2: Residue{Chain: "A", Base: "C", Number: num2},
			Type: PairGC,
			Edge: EdgeCWW,
		},
		Score:   score,
		Defects: profile,
	}
}

func TestAggregate(t *testing.T) {
	cfg := config.Default()
	scorer := NewScorer(&cfg)

	scored := []PairScore{
		pairScore(1, 50, 100),
		pairScore(2, 49, 80, DefectMisaligned),
		pairScore(3, 48, 60, DefectMisaligned, DefectZeroHBond),
	}

	result := scorer.Aggregate("1FFK", scored, 2)

	assert.Equal(t, "1FFK", result.Structure)
	assert.Equal(t, 80.0, result.Score)
	assert.Equal(t, GradeGood, result.Grade)
	assert.Equal(t, 3, result.TotalPairs)
	assert.Equal(t, 6, result.Nucleotides)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 1, result.Problematic, "only the 60 falls under the baseline")

	assert.Equal(t, 2, result.DefectCounts[DefectMisaligned])
	assert.Equal(t, 1, result.DefectCounts[DefectZeroHBond])
	assert.InDelta(t, 2.0/3.0, result.DefectFractions[DefectMisaligned], 1e-9)
}

// No scoreable pairs is a reportable outcome, not an error.
func TestAggregate_Empty(t *testing.T) {
	cfg := config.Default()
	scorer := NewScorer(&cfg)

	result := scorer.Aggregate("1ABC", nil, 4)

	assert.Zero(t, result.Score)
	assert.Equal(t, GradeNone, result.Grade)
	assert.Zero(t, result.TotalPairs)
	assert.Equal(t, 4, result.Skipped)
}

func TestGradeBands(t *testing.T) {
	cfg := config.Default()
	scorer := NewScorer(&cfg)

	tests := []struct {
		score float64
		want  Grade
	}{
		{100, GradeExcellent},
		{85, GradeExcellent}, // boundary belongs to the higher band
		{84.9, GradeGood},
		{70, GradeGood},
		{69.9, GradeFair},
		{50, GradeFair},
		{49.9, GradePoor},
		{0, GradePoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scorer.gradeFor(tt.score), "score %.1f", tt.score)
	}
}

func TestScoreStructure_SkipsMalformed(t *testing.T) {
	cfg := config.Default()
	scorer := NewScorer(&cfg)

	g := Residue{Chain: "Q", Base: "G", Number: 22}
	c := Residue{Chain: "Q", Base: "C", Number: 45}

	pairs := []BasePair{
		{Res1: g, Res2: c, Type: PairGC, Edge: EdgeCWW, Quality: 3.0},
		{Res1: g, Res2: g, Type: PairGG, Edge: EdgeCWW}, // self pair
	}

	bonds := NewBondIndex([]HBond{
		goodBond(g, c, "O6", "N4"),
		goodBond(g, c, "N1", "N3"),
		goodBond(g, c, "N2", "O2"),
	})

	result := scorer.ScoreStructure("1FFK", pairs, bonds)

	assert.Equal(t, 1, result.TotalPairs)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, GradeExcellent, result.Grade)
}

func TestCompare(t *testing.T) {
	cfg := config.Default()
	scorer := NewScorer(&cfg)

	cache := NewMemCache()
	require.NoError(t, cache.Put(CacheEntry{
		Structure:   "1FFK",
		Score:       88.4,
		Grade:       GradeExcellent,
		TotalPairs:  1200,
		Nucleotides: 2800,
	}))

	motif := StructureScore{
		Structure:         "1FFK_74-95",
		Score:             79.1,
		Grade:             GradeGood,
		Nucleotides:       18,
		PairedNucleotides: 18,
	}

	cmp, err := scorer.Compare(motif, "1ffk", 22, cache)
	require.NoError(t, err)

	assert.Equal(t, 79.1, cmp.MotifScore)
	assert.Equal(t, 88.4, cmp.FullScore)
	assert.Equal(t, GradeExcellent, cmp.FullGrade)
	assert.InDelta(t, -9.3, cmp.Difference, 1e-9)
	assert.Equal(t, 22, cmp.MotifLength)
	assert.Equal(t, 18, cmp.PairedNucleotides)
	assert.InDelta(t, 81.8, cmp.PairingPercentage, 1e-9)
}

func TestCompare_CacheMiss(t *testing.T) {
	cfg := config.Default()
	scorer := NewScorer(&cfg)

	cmp, err := scorer.Compare(StructureScore{}, "9XYZ", 0, NewMemCache())

	assert.Nil(t, cmp)
	assert.ErrorIs(t, err, ErrNoFullScore)
}
