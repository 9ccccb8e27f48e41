// Package config loads the knobs named in SPEC_FULL §6's SolverConfig from
// an optional YAML document, the same LoadConfig/ParseConfig shape the
// teacher's internal/ext/config.go used for its own funxy.yaml manifests
// (yaml.Unmarshal into a struct, then validate, then fill defaults).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Choice selects which top-level solving strategy a SolverConfig requests,
// the `solver_choice: SLG { ... } | Recursive { ... }` tagged union of §6.
type Choice int

const (
	ChoiceSLG Choice = iota
	ChoiceRecursive
)

func (c Choice) String() string {
	if c == ChoiceRecursive {
		return "recursive"
	}
	return "slg"
}

// UnmarshalYAML accepts exactly "SLG", "slg", "Recursive" or "recursive"
// (an empty value also selects SLG); any other spelling is a configuration
// error rather than silently defaulting, mirroring ext.Config.validate's
// refusal to guess at a malformed manifest.
func (c *Choice) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "SLG", "slg", "":
		*c = ChoiceSLG
	case "Recursive", "recursive":
		*c = ChoiceRecursive
	default:
		return fmt.Errorf("solver_choice: unrecognized value %q (want SLG or Recursive)", s)
	}
	return nil
}

func (c Choice) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// SolverConfig is the full set of options §6 enumerates, loadable from a
// YAML document or built directly by a caller that wants the defaults.
type SolverConfig struct {
	SolverChoice Choice `yaml:"solver_choice"`

	// SLG { max_size, max_answers }
	MaxSize    int  `yaml:"max_size"`
	MaxAnswers int  `yaml:"max_answers"`
	HasMaxAnswers bool `yaml:"-"`

	// Recursive { overflow_depth, caching_enabled }
	OverflowDepth  int  `yaml:"overflow_depth"`
	CachingEnabled bool `yaml:"caching_enabled"`

	// ExpectedAnswers is the "test hook; panics if actual answer count
	// disagrees" knob §6 names. A pointer in internal/aggregate's API, but
	// zero-value-vs-absent needs a YAML-visible discriminant, hence the
	// companion HasExpectedAnswers flag rather than relying on *int's zero
	// value meaning "unset" (0 is itself a meaningful expected count).
	ExpectedAnswers    int  `yaml:"expected_answers"`
	HasExpectedAnswers bool `yaml:"-"`

	// DeterministicOrder resolves spec.md's Open Question #1 in favor of a
	// stable, reproducible answer order (default true); see
	// internal/slg.Config's doc comment on the same field.
	DeterministicOrder bool `yaml:"deterministic_order"`
}

// Default returns the configuration a caller gets without a YAML document:
// SLG solving, no size/answer caps, deterministic ordering.
func Default() SolverConfig {
	return SolverConfig{
		SolverChoice:       ChoiceSLG,
		MaxSize:            0,
		DeterministicOrder: true,
	}
}

// rawSolverConfig mirrors SolverConfig but with pointer fields for the two
// knobs that distinguish "absent" from "zero", decoded first so
// ParseConfig can tell HasMaxAnswers/HasExpectedAnswers apart from an
// explicit 0.
type rawSolverConfig struct {
	SolverChoice       Choice `yaml:"solver_choice"`
	MaxSize            int    `yaml:"max_size"`
	MaxAnswers         *int   `yaml:"max_answers"`
	OverflowDepth      int    `yaml:"overflow_depth"`
	CachingEnabled     bool   `yaml:"caching_enabled"`
	ExpectedAnswers    *int   `yaml:"expected_answers"`
	DeterministicOrder *bool  `yaml:"deterministic_order"`
}

// LoadConfig reads and parses a SolverConfig YAML file.
func LoadConfig(path string) (SolverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SolverConfig{}, fmt.Errorf("reading solver config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a SolverConfig document from bytes, applying Default's
// values for anything the document omits.
func ParseConfig(data []byte) (SolverConfig, error) {
	cfg := Default()
	var raw rawSolverConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return SolverConfig{}, fmt.Errorf("parsing solver config: %w", err)
	}

	cfg.SolverChoice = raw.SolverChoice
	if raw.MaxSize != 0 {
		cfg.MaxSize = raw.MaxSize
	}
	if raw.MaxAnswers != nil {
		cfg.MaxAnswers = *raw.MaxAnswers
		cfg.HasMaxAnswers = true
	}
	if raw.OverflowDepth != 0 {
		cfg.OverflowDepth = raw.OverflowDepth
	}
	cfg.CachingEnabled = raw.CachingEnabled
	if raw.ExpectedAnswers != nil {
		cfg.ExpectedAnswers = *raw.ExpectedAnswers
		cfg.HasExpectedAnswers = true
	}
	if raw.DeterministicOrder != nil {
		cfg.DeterministicOrder = *raw.DeterministicOrder
	}

	if err := cfg.validate(); err != nil {
		return SolverConfig{}, err
	}
	return cfg, nil
}

func (c SolverConfig) validate() error {
	if c.MaxSize < 0 {
		return fmt.Errorf("max_size must be >= 0, got %d", c.MaxSize)
	}
	if c.HasMaxAnswers && c.MaxAnswers < 0 {
		return fmt.Errorf("max_answers must be >= 0, got %d", c.MaxAnswers)
	}
	if c.OverflowDepth < 0 {
		return fmt.Errorf("overflow_depth must be >= 0, got %d", c.OverflowDepth)
	}
	return nil
}

// ExpectedAnswersPtr adapts ExpectedAnswers/HasExpectedAnswers to the
// *int internal/aggregate.MakeSolution expects.
func (c SolverConfig) ExpectedAnswersPtr() *int {
	if !c.HasExpectedAnswers {
		return nil
	}
	n := c.ExpectedAnswers
	return &n
}
