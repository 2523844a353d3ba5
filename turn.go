package echoform

import (
	"time"

	"github.com/zoobzio/zyn"
)

// Turn is the value flowing through one cognition cycle. The engine threads
// a single *Turn through every pipeline stage; stages fill in their own
// fields and never reach back into earlier ones.
//
// # Concurrency
//
// A Turn belongs to exactly one in-flight pipeline run and is never shared
// between goroutines. Distinct sessions may be processed concurrently by
// separate engine instances; within one turn, execution is strictly
// sequential.
type Turn struct {
	// SessionID identifies the session this turn belongs to.
	SessionID string

	// UserText is the raw user input that opened the turn.
	UserText string

	// Context is the recent conversation window loaded from memory, in
	// chronological (oldest-first) order. It includes the user message
	// persisted at the start of this turn.
	Context []zyn.Message

	// Traits is the pre-turn trait vector loaded from memory. The mutator
	// reads this and writes NewTraits; the pre-turn value stays untouched
	// for audit.
	Traits TraitVector

	// Reply and Reasoning are the generator's output. Reasoning is never
	// empty: degraded responses carry a literal sentinel instead.
	Reply     string
	Reasoning string

	// Signals holds the cognitive signals derived from Reasoning.
	Signals Signals

	// Compressed is the bounded fingerprint string built from Reasoning
	// and Signals.
	Compressed string

	// Scores holds the reply evaluation.
	Scores Scores

	// NewTraits is the post-mutation trait vector persisted at the end of
	// the turn.
	NewTraits TraitVector

	// MutationLevel is the session's turn counter after this turn.
	MutationLevel int

	// StartedAt marks when the turn entered the pipeline.
	StartedAt time.Time
}

// Result is the bundle returned to the Turn API caller once all eleven
// pipeline steps have committed.
type Result struct {
	SessionID     string      `json:"session_id"`
	Reply         string      `json:"reply"`
	Reasoning     string      `json:"raw_reasoning"`
	Signals       Signals     `json:"signals"`
	Compressed    string      `json:"compressed"`
	Scores        Scores      `json:"scores"`
	Traits        TraitVector `json:"traits"`
	MutationLevel int         `json:"mutation_level"`
}

// result snapshots the turn into the caller-facing bundle.
func (t *Turn) result() *Result {
	return &Result{
		SessionID:     t.SessionID,
		Reply:         t.Reply,
		Reasoning:     t.Reasoning,
		Signals:       t.Signals,
		Compressed:    t.Compressed,
		Scores:        t.Scores,
		Traits:        t.NewTraits,
		MutationLevel: t.MutationLevel,
	}
}
