// Package config is for app wide scoring settings that are unmarshalled
// from Viper (see: /cmd). Every threshold and penalty weight the engine
// consults lives here; the engine itself holds no tunables.
package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Range is a closed [Min, Max] acceptance window.
type Range struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Contains reports whether v falls inside the window.
func (r Range) Contains(v float64) bool { return r.Min <= v && v <= r.Max }

// GeometryThresholds are the per-parameter limits for a base pair's six
// rigid-body parameters. A nil field means that parameter is not
// checked, so the defect set can be narrowed or widened entirely from
// settings.
type GeometryThresholds struct {
	// magnitude limits, |value| must not exceed them
	Shear   *float64 `mapstructure:"shear"`
	Stagger *float64 `mapstructure:"stagger"`
	Buckle  *float64 `mapstructure:"buckle"`

	// signed acceptance windows
	Stretch   *Range `mapstructure:"stretch"`
	Propeller *Range `mapstructure:"propeller"`
	Opening   *Range `mapstructure:"opening"`
}

// overlay returns a copy of g with any thresholds set in o replacing
// g's values.
func (g GeometryThresholds) overlay(o GeometryThresholds) GeometryThresholds {
	if o.Shear != nil {
		g.Shear = o.Shear
	}
	if o.Stagger != nil {
		g.Stagger = o.Stagger
	}
	if o.Buckle != nil {
		g.Buckle = o.Buckle
	}
	if o.Stretch != nil {
		g.Stretch = o.Stretch
	}
	if o.Propeller != nil {
		g.Propeller = o.Propeller
	}
	if o.Opening != nil {
		g.Opening = o.Opening
	}
	return g
}

// HBondThresholds are the per-bond acceptance limits.
type HBondThresholds struct {
	// DistanceMin/Max bound the donor-acceptor distance in Angstroms
	DistanceMin float64 `mapstructure:"distance-min" validate:"gt=0"`
	DistanceMax float64 `mapstructure:"distance-max" validate:"gtfield=DistanceMin"`

	// AngleMin is the lowest acceptable donor/acceptor angle in degrees
	AngleMin float64 `mapstructure:"angle-min" validate:"gte=0"`

	// QualityMin is the lowest acceptable per-bond quality score
	QualityMin float64 `mapstructure:"quality-min" validate:"gte=0"`

	// PairQualityMin is the lowest acceptable aggregate quality for the
	// whole pair, as reported by the annotator
	PairQualityMin float64 `mapstructure:"pair-quality-min" validate:"gte=0"`

	// Dihedral orientation windows: CIS is [CisMin, CisMax], TRANS is
	// |angle| >= TransMin, everything between is the forbidden zone
	DihedralCisMin   float64 `mapstructure:"dihedral-cis-min" validate:"gte=-180"`
	DihedralCisMax   float64 `mapstructure:"dihedral-cis-max" validate:"gtfield=DihedralCisMin"`
	DihedralTransMin float64 `mapstructure:"dihedral-trans-min" validate:"gtfield=DihedralCisMax,lte=180"`
}

// PenaltyWeights is the score deduction applied once per triggered
// defect kind. Weights are points off a 100-point base score.
type PenaltyWeights struct {
	ZeroHBond      float64 `mapstructure:"zero-hbond" validate:"gte=0"`
	BadDistance    float64 `mapstructure:"bad-distance" validate:"gte=0"`
	Misaligned     float64 `mapstructure:"misaligned" validate:"gte=0"`
	Twisted        float64 `mapstructure:"twisted" validate:"gte=0"`
	NonCoplanar    float64 `mapstructure:"non-coplanar" validate:"gte=0"`
	WeakQuality    float64 `mapstructure:"weak-quality" validate:"gte=0"`
	PoorHBond      float64 `mapstructure:"poor-hbond" validate:"gte=0"`
	BadDihedral    float64 `mapstructure:"bad-dihedral" validate:"gte=0"`
	IncorrectCount float64 `mapstructure:"incorrect-count" validate:"gte=0"`
	BadAngles      float64 `mapstructure:"bad-angles" validate:"gte=0"`
}

// CountRange is the expected hydrogen-bond count for a pair type.
// Canonical Watson-Crick (cWW) pairs are additionally held to Ideal.
type CountRange struct {
	Min   int `mapstructure:"min" validate:"gte=0"`
	Max   int `mapstructure:"max" validate:"gtefield=Min"`
	Ideal int `mapstructure:"ideal" validate:"gtefield=Min,ltefield=Max"`
}

// GradeBands are the inclusive lower score bounds of each grade.
// Scores below Fair grade POOR.
type GradeBands struct {
	Excellent float64 `mapstructure:"excellent" validate:"gt=0,lte=100"`
	Good      float64 `mapstructure:"good" validate:"gt=0"`
	Fair      float64 `mapstructure:"fair" validate:"gt=0"`
}

// Config is the root-level settings struct, a mix of built-in defaults,
// settings from the config file, and command line flags.
type Config struct {
	// BaseScore every pair starts from before penalties
	BaseScore float64 `mapstructure:"base-score" validate:"gt=0"`

	// Baseline under which a pair is reported as problematic
	Baseline float64 `mapstructure:"baseline" validate:"gte=0"`

	// Penalties per defect kind
	Penalties PenaltyWeights `mapstructure:"penalties"`

	// Geometry thresholds applied to every pair unless overridden
	Geometry GeometryThresholds `mapstructure:"geometry"`

	// GeometryOverrides are keyed "PAIR/EDGE" (ex: "G-C/cWW") or just
	// "PAIR"; looked up most-specific first, sparse fields fall back
	// to the global thresholds
	GeometryOverrides map[string]GeometryThresholds `mapstructure:"geometry-overrides"`

	// HBonds per-bond thresholds
	HBonds HBondThresholds `mapstructure:"hbonds"`

	// ExpectedHBonds per canonical pair type, keyed "G-C" style
	ExpectedHBonds map[string]CountRange `mapstructure:"expected-hbonds" validate:"dive"`

	// Grades score-to-grade band boundaries
	Grades GradeBands `mapstructure:"grades"`

	// CachePath is the full-structure score cache location
	CachePath string `mapstructure:"cache-path"`
}

var (
	pairTypeKey = regexp.MustCompile(`^[ACGU]-[ACGU]$`)
	overrideKey = regexp.MustCompile(`^[ACGU]-[ACGU](/([ct][WHS][WHS]|_OTHER))?$`)
)

// New returns a Config populated from built-in defaults overridden by
// Viper settings (the settings file and/or command line flags). The
// config is validated before use: unknown pair-type keys, inverted
// ranges and non-monotonic grade bands are load-time errors.
func New() (*Config, error) {
	c := Default()
	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks field constraints and the cross-field invariants the
// engine relies on.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if !(c.Grades.Excellent > c.Grades.Good && c.Grades.Good > c.Grades.Fair) {
		return fmt.Errorf("invalid settings: grade bands must descend, got excellent=%.1f good=%.1f fair=%.1f",
			c.Grades.Excellent, c.Grades.Good, c.Grades.Fair)
	}

	for key := range c.ExpectedHBonds {
		if !pairTypeKey.MatchString(key) {
			return fmt.Errorf("invalid settings: unknown pair type %q in expected-hbonds", key)
		}
	}
	for key := range c.GeometryOverrides {
		if !overrideKey.MatchString(key) {
			return fmt.Errorf("invalid settings: unknown geometry override key %q", key)
		}
	}
	return nil
}

// GeometryFor resolves the thresholds for one pair type and edge.
// Lookup order: "PAIR/EDGE", "PAIR/_OTHER", "PAIR", then the global
// thresholds; override entries may be sparse and only replace the
// fields they set.
func (c *Config) GeometryFor(pairType, edge string) GeometryThresholds {
	for _, key := range []string{
		pairType + "/" + edge,
		pairType + "/_OTHER",
		pairType,
	} {
		if o, ok := c.GeometryOverrides[key]; ok {
			return c.Geometry.overlay(o)
		}
	}
	return c.Geometry
}

// ExpectedCount returns the expected hydrogen-bond count range for a
// pair type label, and whether one is configured.
func (c *Config) ExpectedCount(pairType string) (CountRange, bool) {
	cr, ok := c.ExpectedHBonds[pairType]
	return cr, ok
}

func f(v float64) *float64 { return &v }

// Default returns the reference configuration. Thresholds derive from
// the empirical distributions observed across high-resolution RNA
// structures; grade bands are EXCELLENT >= 85, GOOD >= 70, FAIR >= 50.
func Default() Config {
	return Config{
		BaseScore: 100,
		Baseline:  75,
		Penalties: PenaltyWeights{
			ZeroHBond:      20,
			BadDistance:    18,
			Misaligned:     14,
			Twisted:        12,
			NonCoplanar:    12,
			WeakQuality:    10,
			PoorHBond:      10,
			BadDihedral:    8,
			IncorrectCount: 8,
			BadAngles:      5,
		},
		Geometry: GeometryThresholds{
			Shear:   f(2.0),
			Stagger: f(1.2),
			Buckle:  f(30),
		},
		GeometryOverrides: map[string]GeometryThresholds{
			// canonical Watson-Crick pairs sit in much tighter wells
			"G-C/cWW": {Shear: f(0.51), Stretch: &Range{Min: -0.37, Max: 0.11}, Stagger: f(0.61), Buckle: f(10.12), Propeller: &Range{Min: -15.72, Max: 3.07}},
			"C-G/cWW": {Shear: f(0.51), Stretch: &Range{Min: -0.37, Max: 0.11}, Stagger: f(0.61), Buckle: f(10.12), Propeller: &Range{Min: -15.72, Max: 3.07}},
			"A-U/cWW": {Shear: f(0.71), Stretch: &Range{Min: -0.33, Max: 0.19}, Stagger: f(0.55), Buckle: f(9.79), Propeller: &Range{Min: -15.79, Max: 3.6}},
			"U-A/cWW": {Shear: f(0.71), Stretch: &Range{Min: -0.33, Max: 0.19}, Stagger: f(0.55), Buckle: f(9.79), Propeller: &Range{Min: -15.79, Max: 3.6}},
			"G-U/cWW": {Shear: f(2.27), Stretch: &Range{Min: -0.94, Max: 0.12}, Stagger: f(0.69), Buckle: f(10.82)},
			"U-G/cWW": {Shear: f(2.27), Stretch: &Range{Min: -0.94, Max: 0.12}, Stagger: f(0.69), Buckle: f(10.82)},
		},
		HBonds: HBondThresholds{
			DistanceMin:      2.3,
			DistanceMax:      3.7,
			AngleMin:         80,
			QualityMin:       0.70,
			PairQualityMin:   2.0,
			DihedralCisMin:   -50,
			DihedralCisMax:   50,
			DihedralTransMin: 140,
		},
		ExpectedHBonds: map[string]CountRange{
			"G-C": {Min: 3, Max: 3, Ideal: 3},
			"C-G": {Min: 3, Max: 3, Ideal: 3},
			"A-U": {Min: 2, Max: 2, Ideal: 2},
			"U-A": {Min: 2, Max: 2, Ideal: 2},
			"G-U": {Min: 2, Max: 2, Ideal: 2},
			"U-G": {Min: 2, Max: 2, Ideal: 2},
			"A-A": {Min: 1, Max: 2, Ideal: 2},
			"G-G": {Min: 1, Max: 2, Ideal: 2},
			"U-U": {Min: 1, Max: 2, Ideal: 2},
			"C-C": {Min: 1, Max: 2, Ideal: 1},
			"A-C": {Min: 1, Max: 2, Ideal: 1},
			"C-A": {Min: 1, Max: 2, Ideal: 1},
			"A-G": {Min: 1, Max: 2, Ideal: 2},
			"G-A": {Min: 1, Max: 2, Ideal: 2},
			"U-C": {Min: 1, Max: 2, Ideal: 1},
			"C-U": {Min: 1, Max: 2, Ideal: 1},
		},
		Grades: GradeBands{
			Excellent: 85,
			Good:      70,
			Fair:      50,
		},
	}
}
