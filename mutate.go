package echoform

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// MutateTraits is the pure trait transition function using the default
// thresholds and deltas. It carries no memory beyond the current traits and
// scores; persisting the result is the orchestrator's job.
func MutateTraits(traits TraitVector, scores Scores) TraitVector {
	next, _ := mutate(traits, scores.Overall, DefaultHighScore, DefaultLowScore, DefaultTraitDelta, DefaultFormalityDelta)
	return next
}

// mutate applies exactly one of the three transition branches, then clamps.
// The stabilize branch touches only formality; creativity, abstraction, and
// verbosity keep whatever drift prior turns left them with.
func mutate(traits TraitVector, overall, high, low, delta, formalityDelta float64) (TraitVector, string) {
	var branch string
	switch {
	case overall >= high:
		branch = "upgrade"
		traits.Creativity += delta
		traits.Abstraction += delta
		traits.Verbosity += delta
	case overall <= low:
		branch = "downgrade"
		traits.Creativity -= delta
		traits.Abstraction -= delta
		traits.Verbosity -= delta
	default:
		branch = "stabilize"
		traits.Formality += formalityDelta
	}
	return traits.Clamp(), branch
}

// Mutate is the trait evolution stage. It implements pipz.Chainable[*Turn],
// reading the turn's pre-turn traits and scores and writing the post-turn
// trait vector.
type Mutate struct {
	identity       pipz.Identity
	key            string
	high           float64
	low            float64
	delta          float64
	formalityDelta float64
}

// NewMutate creates a new trait mutation stage with the default thresholds
// and deltas.
//
// Example:
//
//	mutate := echoform.NewMutate("mutate").
//	    WithThresholds(0.9, 0.3)
//	turn, _ = mutate.Process(ctx, turn)
func NewMutate(key string) *Mutate {
	return &Mutate{
		identity:       pipz.NewIdentity(key, "Trait evolution stage"),
		key:            key,
		high:           DefaultHighScore,
		low:            DefaultLowScore,
		delta:          DefaultTraitDelta,
		formalityDelta: DefaultFormalityDelta,
	}
}

// Process implements pipz.Chainable[*Turn].
func (m *Mutate) Process(ctx context.Context, t *Turn) (*Turn, error) {
	start := time.Now()

	capitan.Emit(ctx, StageStarted,
		FieldSessionID.Field(t.SessionID),
		FieldStageName.Field(m.key),
		FieldStageType.Field("mutate"),
	)

	next, branch := mutate(t.Traits, t.Scores.Overall, m.high, m.low, m.delta, m.formalityDelta)
	t.NewTraits = next

	capitan.Emit(ctx, TraitsMutated,
		FieldSessionID.Field(t.SessionID),
		FieldBranch.Field(branch),
		FieldOverall.Field(float32(t.Scores.Overall)),
	)

	capitan.Emit(ctx, StageCompleted,
		FieldSessionID.Field(t.SessionID),
		FieldStageName.Field(m.key),
		FieldStageType.Field("mutate"),
		FieldStageDuration.Field(time.Since(start)),
	)

	return t, nil
}

// Identity implements pipz.Chainable[*Turn].
func (m *Mutate) Identity() pipz.Identity {
	return m.identity
}

// Schema implements pipz.Chainable[*Turn].
func (m *Mutate) Schema() pipz.Node {
	return pipz.Node{Identity: m.identity, Type: "mutate"}
}

// Close implements pipz.Chainable[*Turn].
func (m *Mutate) Close() error {
	return nil
}

// Builder methods

// WithThresholds sets the upgrade and downgrade boundaries for the overall
// score.
func (m *Mutate) WithThresholds(high, low float64) *Mutate {
	m.high = high
	m.low = low
	return m
}

// WithDeltas sets the trait step for upgrade/downgrade and the formality
// step for stabilize.
func (m *Mutate) WithDeltas(delta, formalityDelta float64) *Mutate {
	m.delta = delta
	m.formalityDelta = formalityDelta
	return m
}
