package echoform

import (
	"time"

	"github.com/zoobzio/zyn"
)

// Default configuration for echoform components.
// These can be overridden per-component using builder methods.
var (
	// DefaultContextWindow is the number of recent messages loaded from
	// memory as conversation context for generation.
	DefaultContextWindow = 10

	// DefaultHighScore is the overall score at or above which the mutator
	// upgrades creativity, abstraction, and verbosity.
	DefaultHighScore = 0.80

	// DefaultLowScore is the overall score at or below which the mutator
	// downgrades creativity, abstraction, and verbosity.
	DefaultLowScore = 0.40

	// DefaultTraitDelta is the step applied to creativity, abstraction, and
	// verbosity on an upgrade or downgrade.
	DefaultTraitDelta = 0.10

	// DefaultFormalityDelta is the step applied to formality when the
	// mutator stabilizes (overall score between the two thresholds).
	DefaultFormalityDelta = 0.05

	// DefaultWeights combines the four evaluation dimensions into the
	// overall score. The weights sum to 1.0.
	DefaultWeights = Weights{
		Accuracy:    0.35,
		Clarity:     0.25,
		Depth:       0.20,
		Originality: 0.20,
	}

	// DefaultGenerateAttempts is the remote generator's retry budget before
	// it falls back to simulated output.
	DefaultGenerateAttempts = 2

	// DefaultGenerateBackoff is the fixed delay between remote attempts.
	DefaultGenerateBackoff = time.Second

	// DefaultGenerateTemperature is used for remote generation calls.
	// Deterministic by default so that turns are reproducible.
	DefaultGenerateTemperature = zyn.DefaultTemperatureDeterministic
)

// Trait bounds. Every TraitVector field is clamped into this range after
// mutation.
const (
	TraitMin = 0.0
	TraitMax = 1.0
)

// Weights holds the evaluation dimension weights used to combine individual
// scores into the overall score.
type Weights struct {
	Accuracy    float64
	Clarity     float64
	Depth       float64
	Originality float64
}
