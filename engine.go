package echoform

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Engine sequences the cognition pipeline for one user turn and owns
// session lifecycle. Stage ordering is fixed: the user message is durable
// before generation is attempted, and the assistant message becomes durable
// only after scoring and mutation have committed, so a crash mid-turn never
// leaves an assistant reply without its evaluation.
//
// Execution is single-threaded within one turn. Distinct sessions may be
// processed concurrently by separate Engine instances over the same Memory;
// a session should have at most one in-flight turn.
type Engine struct {
	memory    Memory
	generator Generator
	window    int

	analyze  *Analyze
	compress *Compress
	score    *Score
	mutate   *Mutate

	buildOnce sync.Once
	pipeline  pipz.Chainable[*Turn]
}

// NewEngine creates an engine over a Memory and a Generator with default
// stage configuration. Use the builder methods before the first ProcessTurn
// call to override stages or the context window.
func NewEngine(memory Memory, generator Generator) *Engine {
	e := &Engine{
		memory:    memory,
		generator: generator,
		window:    DefaultContextWindow,
		analyze:   NewAnalyze("analyze"),
		compress:  NewCompress("compress"),
		score:     NewScore("score"),
		mutate:    NewMutate("mutate"),
	}
	return e
}

// NewSession creates a session with mutation level zero and the default
// trait vector, returning its id.
func (e *Engine) NewSession(ctx context.Context) (string, error) {
	id, err := e.memory.CreateSession(ctx)
	if err != nil {
		return "", err
	}
	capitan.Emit(ctx, SessionCreated, FieldSessionID.Field(id))
	return id, nil
}

// ProcessTurn runs one complete cognition cycle for the session and returns
// the result bundle. It fails with ErrNotFound for an unknown session and
// with a StorageError when a persistence step cannot commit; generation
// failures never surface, the generator absorbs them via its offline
// fallback.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, userText string) (*Result, error) {
	start := time.Now()

	capitan.Emit(ctx, TurnStarted, FieldSessionID.Field(sessionID))

	t := &Turn{
		SessionID: sessionID,
		UserText:  userText,
		StartedAt: start,
	}

	e.buildOnce.Do(func() {
		e.pipeline = e.buildPipeline()
	})

	t, err := e.pipeline.Process(ctx, t)
	if err != nil {
		capitan.Error(ctx, StageFailed,
			FieldSessionID.Field(sessionID),
			FieldError.Field(err),
		)
		return nil, err
	}

	capitan.Emit(ctx, TurnCompleted,
		FieldSessionID.Field(sessionID),
		FieldMutationLevel.Field(t.MutationLevel),
		FieldOverall.Field(float32(t.Scores.Overall)),
		FieldContextSize.Field(len(t.Context)),
		FieldTurnDuration.Field(time.Since(start)),
	)

	return t.result(), nil
}

// buildPipeline assembles the eleven fixed steps as a pipz sequence. Each
// persistence step is an independently atomic memory call; no transaction
// spans stages.
func (e *Engine) buildPipeline() pipz.Chainable[*Turn] {
	return Sequence("turn",
		// 1. The user message is durable before anything else happens.
		Do("persist-user", func(ctx context.Context, t *Turn) (*Turn, error) {
			return t, e.memory.AppendMessage(ctx, t.SessionID, RoleUser, t.UserText)
		}),

		// 2. Load the context window and current traits.
		Do("load-state", func(ctx context.Context, t *Turn) (*Turn, error) {
			history, err := e.memory.RecentContext(ctx, t.SessionID, e.window)
			if err != nil {
				return t, err
			}
			traits, err := e.memory.LoadTraits(ctx, t.SessionID)
			if err != nil {
				return t, err
			}
			t.Context = history
			t.Traits = traits
			return t, nil
		}),

		// 3. Generate reply and reasoning.
		Do("generate", func(ctx context.Context, t *Turn) (*Turn, error) {
			reply, reasoning, err := e.generator.Generate(ctx, t.UserText, t.Context, t.Traits)
			if err != nil {
				return t, err
			}
			if reasoning == "" {
				reasoning = NoReasoningSentinel
			}
			t.Reply = reply
			t.Reasoning = reasoning
			return t, nil
		}),

		// 4-5. Observe and compress the reasoning.
		e.analyze,
		e.compress,

		// 6. Persist the reasoning snapshot.
		Do("persist-snapshot", func(ctx context.Context, t *Turn) (*Turn, error) {
			return t, e.memory.AppendReasoningSnapshot(ctx, t.SessionID, t.Reasoning, t.Compressed, t.Signals)
		}),

		// 7. Score the reply.
		e.score,

		// 8. Persist the evaluation.
		Do("persist-evaluation", func(ctx context.Context, t *Turn) (*Turn, error) {
			return t, e.memory.AppendEvaluation(ctx, t.SessionID, t.Scores)
		}),

		// 9. Mutate the trait vector.
		e.mutate,

		// 10. Persist the new traits and bump the turn counter.
		Do("persist-traits", func(ctx context.Context, t *Turn) (*Turn, error) {
			if err := e.memory.SaveTraits(ctx, t.SessionID, t.NewTraits); err != nil {
				return t, err
			}
			level, err := e.memory.IncrementMutationLevel(ctx, t.SessionID)
			if err != nil {
				return t, err
			}
			t.MutationLevel = level
			return t, nil
		}),

		// 11. The assistant message becomes durable last.
		Do("persist-reply", func(ctx context.Context, t *Turn) (*Turn, error) {
			return t, e.memory.AppendMessage(ctx, t.SessionID, RoleAssistant, t.Reply)
		}),
	)
}

// Builder methods

// WithContextWindow sets how many recent messages are loaded as generation
// context.
func (e *Engine) WithContextWindow(n int) *Engine {
	e.window = n
	return e
}

// WithScore replaces the scoring stage, e.g. to use alternate weights.
func (e *Engine) WithScore(s *Score) *Engine {
	e.score = s
	return e
}

// WithMutate replaces the mutation stage, e.g. to use alternate thresholds.
func (e *Engine) WithMutate(m *Mutate) *Engine {
	e.mutate = m
	return e
}
