package rnaq

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/rnaq/rnaq/internal/pdb"
)

// Report is the full JSON output for one scored structure or motif.
type Report struct {
	StructureScore

	// Comparison against the cached full-structure score, motifs only
	Comparison *Comparison `json:"comparison,omitempty"`

	// Metrics from the RCSB entry record, when fetched
	Metrics *pdb.Metrics `json:"validation_metrics,omitempty"`
}

// WriteReport writes the report as indented JSON.
func WriteReport(report Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// summaryHeader is the summary CSV column set, one row per structure.
var summaryHeader = []string{
	"structure",
	"overall_score",
	"grade",
	"num_nucleotides",
	"total_base_pairs",
	"num_problematic_bps",
	"problematic_pct",
	"num_skipped",

	"misaligned",
	"twisted",
	"non_coplanar",
	"zero_hbond",
	"poor_hbond",
	"bad_distance",
	"bad_angles",
	"bad_dihedral",
	"weak_quality",
	"incorrect_count",

	"score_difference",
	"num_paired_nucleotides",
	"pairing_pct",

	"clashscore",
	"rnasuiteness",
	"angles_rmsz",
	"bonds_rmsz",
	"refinement_resolution",
	"experimental_method",
}

// AppendSummary adds the report's summary row to a CSV file, creating
// it with a header when absent. An existing row for the same structure
// is replaced, so reruns do not accumulate duplicates.
func AppendSummary(report Report, path string) error {
	rows, err := readSummary(path)
	if err != nil {
		return err
	}

	rows[report.Structure] = summaryRow(report)

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}
	for _, k := range keys {
		if err := w.Write(rows[k]); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readSummary loads an existing summary file keyed by structure ID.
// Rows with a stale column set are dropped rather than padded.
func readSummary(path string) (map[string][]string, error) {
	rows := make(map[string][]string)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return rows, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	for i, rec := range records {
		if i == 0 || len(rec) != len(summaryHeader) || len(rec) == 0 {
			continue
		}
		rows[rec[0]] = rec
	}
	return rows, nil
}

func summaryRow(report Report) []string {
	s := report.StructureScore

	problematicPct := 0.0
	if s.TotalPairs > 0 {
		problematicPct = round1(float64(s.Problematic) / float64(s.TotalPairs) * 100)
	}

	row := []string{
		s.Structure,
		num(s.Score),
		string(s.Grade),
		strconv.Itoa(s.Nucleotides),
		strconv.Itoa(s.TotalPairs),
		strconv.Itoa(s.Problematic),
		num(problematicPct),
		strconv.Itoa(s.Skipped),
	}
	for _, d := range Defects {
		row = append(row, strconv.Itoa(s.DefectCounts[d]))
	}

	if c := report.Comparison; c != nil {
		row = append(row, num(c.Difference), strconv.Itoa(c.PairedNucleotides), num(c.PairingPercentage))
	} else {
		row = append(row, "", "", "")
	}

	if m := report.Metrics; m != nil {
		row = append(row,
			optNum(m.Clashscore), optNum(m.RNASuiteness),
			optNum(m.AnglesRMSZ), optNum(m.BondsRMSZ),
			optNum(m.RefinementResolution), m.ExperimentalMethod)
	} else {
		row = append(row, "", "", "", "", "", "")
	}
	return row
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optNum(v *float64) string {
	if v == nil {
		return ""
	}
	return num(*v)
}
