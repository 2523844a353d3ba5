package echoform

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Scores holds one turn's reply evaluation. Every field is in [0,1] and
// rounded to two decimals; Overall is the weighted combination of the other
// four.
type Scores struct {
	Accuracy    float64 `json:"accuracy"`
	Clarity     float64 `json:"clarity"`
	Depth       float64 `json:"depth"`
	Originality float64 `json:"originality"`
	Overall     float64 `json:"overall"`
}

// ScoreReply evaluates a reply against the derived signals using the given
// weights. A zero Signals value means the analyzer never ran; depth and
// abstraction then fall back to 0.5 as documented defaults.
func ScoreReply(reply string, signals Signals, weights Weights) Scores {
	accuracy := scoreAccuracy(reply)
	clarity := scoreClarity(reply)
	depth := signals.Depth
	if depth == 0 {
		depth = 0.5
	}
	originality := scoreOriginality(signals)

	overall := accuracy*weights.Accuracy +
		clarity*weights.Clarity +
		depth*weights.Depth +
		originality*weights.Originality

	return Scores{
		Accuracy:    round2(accuracy),
		Clarity:     round2(clarity),
		Depth:       round2(depth),
		Originality: round2(originality),
		Overall:     round2(overall),
	}
}

// scoreAccuracy is a heuristic proxy for correctness.
func scoreAccuracy(reply string) float64 {
	if strings.TrimSpace(reply) == "" {
		return 0.2
	}
	if strings.Contains(strings.ToLower(reply), "error") {
		return 0.4
	}
	return 0.85
}

// scoreClarity penalizes emptiness and extreme verbosity.
func scoreClarity(reply string) float64 {
	words := len(strings.Fields(reply))
	switch {
	case words < 20:
		return 0.6
	case words > 350:
		return 0.7
	}
	return 0.9
}

// scoreOriginality uses abstraction as a novelty proxy, with a bonus for a
// creative tone.
func scoreOriginality(signals Signals) float64 {
	abstraction := signals.Abstraction
	if abstraction == 0 {
		abstraction = 0.5
	}

	base := 0.5 + abstraction*0.4
	if signals.Tone == "creative" {
		base += 0.1
	}
	return math.Min(1.0, base)
}

// Score is the evaluation stage. It implements pipz.Chainable[*Turn],
// scoring the turn's reply against its signals.
type Score struct {
	identity pipz.Identity
	key      string
	weights  Weights
}

// NewScore creates a new reply scoring stage with the default evaluation
// weights.
//
// Example:
//
//	score := echoform.NewScore("score").
//	    WithWeights(echoform.Weights{Accuracy: 0.5, Clarity: 0.2, Depth: 0.2, Originality: 0.1})
//	turn, _ = score.Process(ctx, turn)
func NewScore(key string) *Score {
	return &Score{
		identity: pipz.NewIdentity(key, "Reply evaluation stage"),
		key:      key,
		weights:  DefaultWeights,
	}
}

// Process implements pipz.Chainable[*Turn].
func (s *Score) Process(ctx context.Context, t *Turn) (*Turn, error) {
	start := time.Now()

	capitan.Emit(ctx, StageStarted,
		FieldSessionID.Field(t.SessionID),
		FieldStageName.Field(s.key),
		FieldStageType.Field("score"),
	)

	t.Scores = ScoreReply(t.Reply, t.Signals, s.weights)

	capitan.Emit(ctx, StageCompleted,
		FieldSessionID.Field(t.SessionID),
		FieldStageName.Field(s.key),
		FieldStageType.Field("score"),
		FieldStageDuration.Field(time.Since(start)),
		FieldOverall.Field(float32(t.Scores.Overall)),
	)

	return t, nil
}

// Identity implements pipz.Chainable[*Turn].
func (s *Score) Identity() pipz.Identity {
	return s.identity
}

// Schema implements pipz.Chainable[*Turn].
func (s *Score) Schema() pipz.Node {
	return pipz.Node{Identity: s.identity, Type: "score"}
}

// Close implements pipz.Chainable[*Turn].
func (s *Score) Close() error {
	return nil
}

// Builder methods

// WithWeights sets alternate evaluation weights for this stage.
func (s *Score) WithWeights(w Weights) *Score {
	s.weights = w
	return s
}
