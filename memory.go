package echoform

import (
	"context"
	"time"

	"github.com/zoobzio/zyn"
)

// Message roles stored in the conversation log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Memory defines the interface for session persistence. Implementations
// store five record sets: sessions, trait vectors, messages, reasoning
// snapshots, and evaluations.
//
// Every operation is atomic and independent; no transaction spans calls.
// Operations referencing an unknown session return ErrNotFound. Message,
// snapshot, and evaluation logs are append-only and never mutated after
// insert.
type Memory interface {
	// CreateSession allocates a new unique session id, inserts the session
	// with mutation level zero, and inserts the default trait vector.
	CreateSession(ctx context.Context) (string, error)

	// AppendMessage inserts a message into the session's chronological log.
	AppendMessage(ctx context.Context, sessionID, role, content string) error

	// RecentContext returns the most recent limit messages in chronological
	// (oldest-first) order. An empty session yields an empty slice, not an
	// error.
	RecentContext(ctx context.Context, sessionID string, limit int) ([]zyn.Message, error)

	// LoadTraits returns the session's current trait vector.
	LoadTraits(ctx context.Context, sessionID string) (TraitVector, error)

	// SaveTraits overwrites all four trait fields and refreshes the
	// updated-at marker.
	SaveTraits(ctx context.Context, sessionID string, traits TraitVector) error

	// AppendReasoningSnapshot records one turn's raw reasoning, its
	// compressed fingerprint, and the derived signals.
	AppendReasoningSnapshot(ctx context.Context, sessionID, raw, compressed string, signals Signals) error

	// AppendEvaluation records one turn's scores.
	AppendEvaluation(ctx context.Context, sessionID string, scores Scores) error

	// IncrementMutationLevel atomically increments the session's turn
	// counter and returns the new value. Safe under concurrent calls for
	// different sessions; overlapping turns for the same session are a
	// caller bug, but the counter must still not lose increments.
	IncrementMutationLevel(ctx context.Context, sessionID string) (int, error)

	// MutationLevel returns the session's current turn counter.
	MutationLevel(ctx context.Context, sessionID string) (int, error)
}

// Session is a conversation's durable metadata. Sessions are created once
// and never deleted by the pipeline; MutationLevel only ever increases and
// always equals the number of completed turns.
type Session struct {
	ID            string    `db:"id"`
	MutationLevel int       `db:"mutation_level"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// StoredMessage is one row of the append-only conversation log.
type StoredMessage struct {
	ID        int64     `db:"id"`
	SessionID string    `db:"session_id"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// ReasoningSnapshot is one turn's stored cognition: the raw reasoning text,
// its compressed fingerprint, and the serialized signals.
type ReasoningSnapshot struct {
	ID          int64     `db:"id"`
	SessionID   string    `db:"session_id"`
	Raw         string    `db:"raw_reasoning"`
	Compressed  string    `db:"compressed"`
	SignalsJSON string    `db:"signals_json"`
	CreatedAt   time.Time `db:"created_at"`
}

// Evaluation is one turn's stored scores.
type Evaluation struct {
	ID          int64     `db:"id"`
	SessionID   string    `db:"session_id"`
	Accuracy    float64   `db:"accuracy"`
	Clarity     float64   `db:"clarity"`
	Depth       float64   `db:"depth"`
	Originality float64   `db:"originality"`
	Overall     float64   `db:"overall"`
	CreatedAt   time.Time `db:"created_at"`
}
