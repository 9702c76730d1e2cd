package rnaq

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/rnaq/rnaq/internal/util"
)

// LoadResult is a parsed structure input with its skip accounting.
type LoadResult struct {
	Pairs []BasePair

	// Stacking counts adjacent-residue contacts dropped from the input
	Stacking int

	// Malformed counts records dropped for bad residue IDs or values
	Malformed int
}

// LoadBasePairs reads an annotator base-pair JSON file. The payload is
// either a bare list of pair objects or a wrapper object with a
// "base_pairs" key; both shapes occur in the wild. Self pairs and
// adjacent-residue (stacking) contacts are filtered out, and malformed
// records are counted and skipped rather than failing the load.
func LoadBasePairs(path string) (*LoadResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading base pairs: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrMalformedInput, path)
	}

	doc := gjson.ParseBytes(raw)
	list := doc
	if doc.IsObject() {
		list = doc.Get("base_pairs")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: %s holds neither a pair list nor a base_pairs key", ErrMalformedInput, path)
	}

	result := &LoadResult{}
	list.ForEach(func(_, item gjson.Result) bool {
		bp, err := parsePair(item)
		if err != nil {
			util.Log.WithError(err).Debug("skipping base pair record")
			result.Malformed++
			return true
		}
		if bp.Res1.same(bp.Res2) || bp.Res1.adjacentTo(bp.Res2) {
			result.Stacking++
			return true
		}
		result.Pairs = append(result.Pairs, bp)
		return true
	})

	util.Log.WithFields(map[string]interface{}{
		"pairs":     len(result.Pairs),
		"stacking":  result.Stacking,
		"malformed": result.Malformed,
	}).Debug("loaded base pairs")
	return result, nil
}

func parsePair(item gjson.Result) (BasePair, error) {
	res1, err := ParseResidue(item.Get("res_1").String())
	if err != nil {
		return BasePair{}, err
	}
	res2, err := ParseResidue(item.Get("res_2").String())
	if err != nil {
		return BasePair{}, err
	}

	bp := BasePair{
		Res1:      res1,
		Res2:      res2,
		Type:      ParsePairType(item.Get("bp_type").String()),
		Edge:      ParseEdge(item.Get("lw").String()),
		Shear:     item.Get("shear").Float(),
		Stretch:   item.Get("stretch").Float(),
		Stagger:   item.Get("stagger").Float(),
		Buckle:    item.Get("buckle").Float(),
		Propeller: item.Get("propeller").Float(),
		Opening:   item.Get("opening").Float(),
		Quality:   item.Get("hbond_score").Float(),
	}
	if err := bp.Validate(); err != nil {
		return BasePair{}, err
	}
	return bp, nil
}

// hbond CSV column order is not guaranteed, so the header names drive
// field extraction
var hbondColumns = []string{
	"res_1", "res_2", "atom_1", "atom_2",
	"distance", "angle_1", "angle_2", "dihedral_angle", "score",
	"res_type_1", "res_type_2",
}

// LoadHBonds reads an annotator hydrogen-bond CSV file, keeping only
// RNA-RNA rows. Protein and ligand contacts are dropped here; base vs
// backbone classification happens later in the bond index.
func LoadHBonds(path string) ([]HBond, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading hydrogen bonds: %w", err)
	}
	defer f.Close()
	return readHBonds(f)
}

func readHBonds(r io.Reader) ([]HBond, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading hydrogen bond header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range hbondColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: hydrogen bond CSV missing column %q", ErrMalformedInput, name)
		}
	}

	var bonds []HBond
	dropped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading hydrogen bond row: %w", err)
		}

		if row[col["res_type_1"]] != "RNA" || row[col["res_type_2"]] != "RNA" {
			dropped++
			continue
		}

		hb, err := parseBond(row, col)
		if err != nil {
			util.Log.WithError(err).Debug("skipping hydrogen bond row")
			dropped++
			continue
		}
		bonds = append(bonds, hb)
	}

	util.Log.WithFields(map[string]interface{}{
		"bonds":   len(bonds),
		"dropped": dropped,
	}).Debug("loaded hydrogen bonds")
	return bonds, nil
}

func parseBond(row []string, col map[string]int) (HBond, error) {
	donor, err := ParseResidue(row[col["res_1"]])
	if err != nil {
		return HBond{}, err
	}
	acceptor, err := ParseResidue(row[col["res_2"]])
	if err != nil {
		return HBond{}, err
	}

	num := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(row[col[name]], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad %s value %q", ErrMalformedInput, name, row[col[name]])
		}
		return v, nil
	}

	hb := HBond{
		Donor:        donor,
		Acceptor:     acceptor,
		DonorAtom:    row[col["atom_1"]],
		AcceptorAtom: row[col["atom_2"]],
	}
	if hb.Distance, err = num("distance"); err != nil {
		return HBond{}, err
	}
	if hb.Angle1, err = num("angle_1"); err != nil {
		return HBond{}, err
	}
	if hb.Angle2, err = num("angle_2"); err != nil {
		return HBond{}, err
	}
	if hb.Dihedral, err = num("dihedral_angle"); err != nil {
		return HBond{}, err
	}
	if hb.Quality, err = num("score"); err != nil {
		return HBond{}, err
	}
	return hb, nil
}
