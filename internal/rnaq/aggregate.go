package rnaq

import (
	"errors"
	"math"
)

// Grade is the categorical quality band of a structure score.
type Grade string

const (
	GradeExcellent Grade = "EXCELLENT"
	GradeGood      Grade = "GOOD"
	GradeFair      Grade = "FAIR"
	GradePoor      Grade = "POOR"

	// GradeNone is the documented convention for structures with no
	// scoreable base pairs: score 0, grade "N/A", never an error
	GradeNone Grade = "N/A"
)

// StructureScore is the rolled-up result for a structure or motif.
type StructureScore struct {
	// Structure identity, ex: a PDB ID or motif name
	Structure string `json:"structure"`

	// Score is the mean of the per-pair scores, 0-100
	Score float64 `json:"overall_score"`

	// Grade band the score falls in
	Grade Grade `json:"grade"`

	// TotalPairs scored
	TotalPairs int `json:"total_base_pairs"`

	// Nucleotides is the number of distinct residues seen across the
	// scored pairs
	Nucleotides int `json:"num_nucleotides"`

	// PairedNucleotides is the number of distinct residues that
	// participate in at least one base pair
	PairedNucleotides int `json:"num_paired_nucleotides"`

	// DefectCounts per defect kind across all pairs
	DefectCounts map[Defect]int `json:"defect_counts"`

	// DefectFractions is DefectCounts over TotalPairs
	DefectFractions map[Defect]float64 `json:"defect_fractions"`

	// Problematic is the number of pairs under the baseline score
	Problematic int `json:"num_problematic_bps"`

	// Skipped counts malformed pairs excluded from aggregation
	Skipped int `json:"num_skipped"`

	// Pairs are the individual scored base pairs, input order
	Pairs []PairScore `json:"basepair_scores"`
}

// Comparison relates a motif's score to its parent structure's cached
// full-structure score.
type Comparison struct {
	MotifScore float64 `json:"motif_score"`
	FullScore  float64 `json:"full_structure_score"`
	FullGrade  Grade   `json:"full_structure_grade"`

	// Difference is motif minus full structure, one decimal
	Difference float64 `json:"score_difference"`

	// MotifLength is the motif's distinct residue count
	MotifLength int `json:"motif_num_nucleotides"`

	// PairedNucleotides within the motif
	PairedNucleotides int `json:"num_paired_nucleotides"`

	// PairingPercentage = paired / length * 100, one decimal
	PairingPercentage float64 `json:"pairing_percentage"`
}

// ErrNoFullScore reports that the parent structure's score was not in
// the cache; comparison fields are omitted, never fabricated.
var ErrNoFullScore = errors.New("full-structure score not cached")

// ScoreStructure scores every base pair and rolls the results into a
// StructureScore. Malformed pairs are skipped and counted, never
// fatal to the structure. An empty or fully-skipped input produces the
// documented no-data convention (score 0, grade "N/A").
func (s *Scorer) ScoreStructure(structure string, pairs []BasePair, bonds *BondIndex) StructureScore {
	scored := make([]PairScore, 0, len(pairs))
	skipped := 0
	for _, bp := range pairs {
		ps, err := s.ScorePair(bp, bonds)
		if err != nil {
			skipped++
			continue
		}
		scored = append(scored, ps)
	}
	return s.Aggregate(structure, scored, skipped)
}

// Aggregate reduces per-pair scores into a StructureScore. Every pair
// weighs equally in the mean regardless of type or bond count.
func (s *Scorer) Aggregate(structure string, scored []PairScore, skipped int) StructureScore {
	result := StructureScore{
		Structure:       structure,
		Grade:           GradeNone,
		DefectCounts:    make(map[Defect]int),
		DefectFractions: make(map[Defect]float64),
		Skipped:         skipped,
		Pairs:           scored,
	}
	if len(scored) == 0 {
		return result
	}

	residues := make(map[string]bool)
	total := 0.0
	for _, ps := range scored {
		total += ps.Score
		residues[ps.Pair.Res1.String()] = true
		residues[ps.Pair.Res2.String()] = true

		for _, d := range Defects {
			if ps.Defects.Has(d) {
				result.DefectCounts[d]++
			}
		}
		if ps.Score < s.cfg.Baseline {
			result.Problematic++
		}
	}

	result.TotalPairs = len(scored)
	result.Score = round1(total / float64(len(scored)))
	result.Grade = s.gradeFor(result.Score)
	result.Nucleotides = len(residues)
	result.PairedNucleotides = len(residues)
	for d, n := range result.DefectCounts {
		result.DefectFractions[d] = float64(n) / float64(len(scored))
	}
	return result
}

// gradeFor maps a score to its band. Bands are contiguous over
// [0, 100] and a boundary value belongs to the higher band.
func (s *Scorer) gradeFor(score float64) Grade {
	switch {
	case score >= s.cfg.Grades.Excellent:
		return GradeExcellent
	case score >= s.cfg.Grades.Good:
		return GradeGood
	case score >= s.cfg.Grades.Fair:
		return GradeFair
	default:
		return GradePoor
	}
}

// Compare relates a scored motif to its parent structure using the
// injected cache. motifLength is the motif's full residue count (the
// extraction can include unpaired residues the aggregate never sees);
// when zero, the count of residues observed in the motif's pairs is
// used. A cache miss returns ErrNoFullScore and no comparison.
func (s *Scorer) Compare(motif StructureScore, parent string, motifLength int, cache ScoreCache) (*Comparison, error) {
	entry, ok, err := cache.Get(parent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoFullScore
	}

	length := motifLength
	if length == 0 {
		length = motif.Nucleotides
	}

	pct := 0.0
	if length > 0 {
		pct = round1(float64(motif.PairedNucleotides) / float64(length) * 100)
	}

	return &Comparison{
		MotifScore:        motif.Score,
		FullScore:         entry.Score,
		FullGrade:         entry.Grade,
		Difference:        round1(motif.Score - entry.Score),
		MotifLength:       length,
		PairedNucleotides: motif.PairedNucleotides,
		PairingPercentage: pct,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
