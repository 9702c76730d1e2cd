package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rnaq/rnaq/config"
	"github.com/rnaq/rnaq/internal/rnaq"
	"github.com/rnaq/rnaq/internal/util"
)

// cacheCmd groups the score cache subcommands.
var cacheCmd = &cobra.Command{
	Use:                        "cache",
	Short:                      "Manage the full-structure score cache",
	SuggestionsMinimumDistance: 3,
	Long: `Manage the cache of full-structure scores that motif comparisons
read from. 'warm' scores structures in bulk, 'show' lists what is cached.`,
}

// cacheWarmCmd scores every structure found in the base pair directory
// and stores the results.
var cacheWarmCmd = &cobra.Command{
	Use:     "warm",
	Short:   "Score all structures in the data directory into the cache",
	RunE:    runCacheWarm,
	Example: "  rnaq cache warm -b data/basepairs -d data/hbonds",
}

// cacheShowCmd lists the cached scores.
var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List cached full-structure scores",
	RunE:  runCacheShow,
}

func init() {
	cacheWarmCmd.Flags().StringP("basepairs", "b", "data/basepairs", "base pair JSON directory")
	cacheWarmCmd.Flags().StringP("hbonds", "d", "data/hbonds", "hydrogen bond CSV directory")

	cacheCmd.AddCommand(cacheWarmCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheWarm(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	bpDir, _ := cmd.Flags().GetString("basepairs")
	matches, err := filepath.Glob(filepath.Join(bpDir, "*.json"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no base pair files in %s", bpDir)
	}

	cache, err := rnaq.OpenCache(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("opening score cache: %w", err)
	}
	defer cache.Close()

	warmed := 0
	for _, path := range matches {
		pdbID := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), ".json"))

		report, err := scoreStructure(cmd, cfg, pdbID)
		if err != nil {
			util.Log.WithError(err).WithField("structure", pdbID).Warn("skipping structure")
			continue
		}

		if err := cache.Put(rnaq.CacheEntry{
			Structure:   pdbID,
			Score:       report.Score,
			Grade:       report.Grade,
			TotalPairs:  report.TotalPairs,
			Nucleotides: report.Nucleotides,
		}); err != nil {
			return fmt.Errorf("caching score for %s: %w", pdbID, err)
		}
		warmed++
	}

	util.Log.WithField("structures", warmed).Info("cache warmed")
	return nil
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	cache, err := rnaq.OpenCache(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("opening score cache: %w", err)
	}
	defer cache.Close()

	entries, err := cache.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("cache is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STRUCTURE\tSCORE\tGRADE\tPAIRS\tNUCLEOTIDES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%d\t%d\n", e.Structure, e.Score, e.Grade, e.TotalPairs, e.Nucleotides)
	}
	return w.Flush()
}
