package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnaq/rnaq/config"
	"github.com/rnaq/rnaq/internal/pdb"
	"github.com/rnaq/rnaq/internal/rnaq"
	"github.com/rnaq/rnaq/internal/util"
)

// scoreCmd scores a full structure and reports the result.
var scoreCmd = &cobra.Command{
	Use:                        "score [pdb-id]",
	Short:                      "Score a structure's base-pairing quality",
	Args:                       cobra.ExactArgs(1),
	RunE:                       runScore,
	SuggestionsMinimumDistance: 3,
	Long: `Score every base pair of a structure and aggregate the results.
Base pairs come from the annotator JSON, hydrogen bonds from the matching CSV.
The structure's score is written to the report and stored in the score cache
so later motif runs can compare against it.`,
	Example: "  rnaq score 1FFK -b data/basepairs -d data/hbonds",
}

func init() {
	scoreCmd.Flags().StringP("basepairs", "b", "data/basepairs", "base pair JSON file or directory")
	scoreCmd.Flags().StringP("hbonds", "d", "data/hbonds", "hydrogen bond CSV file or directory")
	scoreCmd.Flags().StringP("out", "o", "report.json", "report output file")
	scoreCmd.Flags().StringP("csv", "c", "", "summary CSV to append the result to")
	scoreCmd.Flags().BoolP("metrics", "m", false, "fetch validation metrics from RCSB")
	scoreCmd.Flags().Bool("no-cache", false, "skip writing the score to the cache")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	pdbID := strings.ToUpper(args[0])

	cfg, err := config.New()
	if err != nil {
		return err
	}

	report, err := scoreStructure(cmd, cfg, pdbID)
	if err != nil {
		return err
	}

	if fetch, _ := cmd.Flags().GetBool("metrics"); fetch {
		metrics, err := pdb.NewClient().Fetch(context.Background(), pdbID)
		if err != nil {
			util.Log.WithError(err).Warn("validation metrics unavailable")
		} else {
			report.Metrics = metrics
		}
	}

	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		cache, err := rnaq.OpenCache(cfg.CachePath)
		if err != nil {
			return fmt.Errorf("opening score cache: %w", err)
		}
		defer cache.Close()

		if err := cache.Put(rnaq.CacheEntry{
			Structure:   pdbID,
			Score:       report.Score,
			Grade:       report.Grade,
			TotalPairs:  report.TotalPairs,
			Nucleotides: report.Nucleotides,
		}); err != nil {
			return fmt.Errorf("caching score: %w", err)
		}
	}

	return writeOutputs(cmd, *report)
}

// scoreStructure loads a structure's inputs and scores every pair.
func scoreStructure(cmd *cobra.Command, cfg *config.Config, pdbID string) (*rnaq.Report, error) {
	bpPath, _ := cmd.Flags().GetString("basepairs")
	hbPath, _ := cmd.Flags().GetString("hbonds")

	loaded, err := rnaq.LoadBasePairs(resolveInput(bpPath, pdbID, ".json"))
	if err != nil {
		return nil, err
	}

	bonds, err := rnaq.LoadHBonds(resolveInput(hbPath, pdbID, ".csv"))
	if err != nil {
		return nil, err
	}

	scorer := rnaq.NewScorer(cfg)
	result := scorer.ScoreStructure(pdbID, loaded.Pairs, rnaq.NewBondIndex(bonds))
	result.Skipped += loaded.Malformed

	util.Log.WithFields(map[string]interface{}{
		"structure": pdbID,
		"score":     result.Score,
		"grade":     result.Grade,
		"pairs":     result.TotalPairs,
	}).Info("scored structure")

	return &rnaq.Report{StructureScore: result}, nil
}

// resolveInput maps a directory flag to the structure's file within it,
// and passes file paths through untouched.
func resolveInput(path, pdbID, ext string) string {
	if strings.HasSuffix(path, ext) {
		return path
	}
	return filepath.Join(path, pdbID+ext)
}

func writeOutputs(cmd *cobra.Command, report rnaq.Report) error {
	out, _ := cmd.Flags().GetString("out")
	if err := rnaq.WriteReport(report, out); err != nil {
		return err
	}

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		if err := rnaq.AppendSummary(report, csvPath); err != nil {
			return err
		}
	}
	return nil
}
