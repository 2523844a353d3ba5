package echoform

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo(t *testing.T) {
	turn := &Turn{SessionID: "s1", UserText: "hello"}

	processor := Do("custom-logic", func(ctx context.Context, tn *Turn) (*Turn, error) {
		tn.Reply = tn.UserText + " processed"
		return tn, nil
	})

	result, err := processor.Process(context.Background(), turn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reply != "hello processed" {
		t.Errorf("expected %q, got %q", "hello processed", result.Reply)
	}
}

func TestDoWithError(t *testing.T) {
	turn := &Turn{SessionID: "s1"}

	processor := Do("failing-logic", func(ctx context.Context, tn *Turn) (*Turn, error) {
		return tn, errors.New("intentional error")
	})

	_, err := processor.Process(context.Background(), turn)
	if err == nil {
		t.Error("expected error from Do processor")
	}

	// pipz wraps errors, so just check that the error contains our message
	if err.Error() == "" {
		t.Error("expected non-empty error message")
	}
}

func TestTransform(t *testing.T) {
	turn := &Turn{SessionID: "s1", MutationLevel: 5}

	processor := Transform("increment", func(ctx context.Context, tn *Turn) *Turn {
		tn.MutationLevel++
		return tn
	})

	result, err := processor.Process(context.Background(), turn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MutationLevel != 6 {
		t.Errorf("expected 6, got %d", result.MutationLevel)
	}
}

func TestEffect(t *testing.T) {
	turn := &Turn{SessionID: "s1", Reply: "untouched"}

	var observed string
	processor := Effect("observe", func(ctx context.Context, tn *Turn) error {
		observed = tn.Reply
		return nil
	})

	result, err := processor.Process(context.Background(), turn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if observed != "untouched" {
		t.Errorf("effect did not observe the turn: %q", observed)
	}
	if result.Reply != "untouched" {
		t.Errorf("effect must not modify the turn: %q", result.Reply)
	}
}

func TestDoContextPropagation(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "test-value")

	turn := &Turn{SessionID: "s1"}

	processor := Do("check-context", func(ctx context.Context, tn *Turn) (*Turn, error) {
		value := ctx.Value(ctxKey{})
		if value == nil {
			return tn, errors.New("context value not found")
		}
		tn.Reply = value.(string)
		return tn, nil
	})

	result, err := processor.Process(ctx, turn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reply != "test-value" {
		t.Errorf("expected %q, got %q", "test-value", result.Reply)
	}
}

func TestSequence(t *testing.T) {
	turn := &Turn{SessionID: "s1", UserText: "start"}

	pipeline := Sequence("two-step",
		Do("first", func(ctx context.Context, tn *Turn) (*Turn, error) {
			tn.Reply = tn.UserText + " first"
			return tn, nil
		}),
		Do("second", func(ctx context.Context, tn *Turn) (*Turn, error) {
			tn.Reply += " second"
			return tn, nil
		}),
	)

	result, err := pipeline.Process(context.Background(), turn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reply != "start first second" {
		t.Errorf("expected %q, got %q", "start first second", result.Reply)
	}
}

func TestSequenceStopsOnError(t *testing.T) {
	turn := &Turn{SessionID: "s1"}

	var reached bool
	pipeline := Sequence("halting",
		Do("fails", func(ctx context.Context, tn *Turn) (*Turn, error) {
			return tn, errors.New("boom")
		}),
		Do("never-runs", func(ctx context.Context, tn *Turn) (*Turn, error) {
			reached = true
			return tn, nil
		}),
	)

	_, err := pipeline.Process(context.Background(), turn)
	if err == nil {
		t.Error("expected error from failing step")
	}
	if reached {
		t.Error("steps after a failure must not run")
	}
}

func TestFilter(t *testing.T) {
	stamp := Do("stamp", func(ctx context.Context, tn *Turn) (*Turn, error) {
		tn.Reply = "stamped"
		return tn, nil
	})

	conditional := Filter("only-long-prompts", func(ctx context.Context, tn *Turn) bool {
		return len(tn.UserText) > 5
	}, stamp)

	short, err := conditional.Process(context.Background(), &Turn{UserText: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if short.Reply != "" {
		t.Errorf("predicate false must pass through, got %q", short.Reply)
	}

	long, err := conditional.Process(context.Background(), &Turn{UserText: "a longer prompt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if long.Reply != "stamped" {
		t.Errorf("predicate true must run the processor, got %q", long.Reply)
	}
}

func TestFallback(t *testing.T) {
	primary := Do("primary", func(ctx context.Context, tn *Turn) (*Turn, error) {
		return tn, errors.New("primary down")
	})
	secondary := Do("secondary", func(ctx context.Context, tn *Turn) (*Turn, error) {
		tn.Reply = "from secondary"
		return tn, nil
	})

	result, err := Fallback("resilient", primary, secondary).Process(context.Background(), &Turn{SessionID: "s1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reply != "from secondary" {
		t.Errorf("expected fallback result, got %q", result.Reply)
	}
}

func TestRetry(t *testing.T) {
	var attempts int
	flaky := Do("flaky", func(ctx context.Context, tn *Turn) (*Turn, error) {
		attempts++
		if attempts < 3 {
			return tn, errors.New("transient")
		}
		tn.Reply = "finally"
		return tn, nil
	})

	result, err := Retry("persistent", flaky, 5).Process(context.Background(), &Turn{SessionID: "s1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if result.Reply != "finally" {
		t.Errorf("expected %q, got %q", "finally", result.Reply)
	}
}

func TestTimeout(t *testing.T) {
	slow := Do("slow", func(ctx context.Context, tn *Turn) (*Turn, error) {
		select {
		case <-time.After(time.Second):
			return tn, nil
		case <-ctx.Done():
			return tn, ctx.Err()
		}
	})

	_, err := Timeout("bounded", slow, 10*time.Millisecond).Process(context.Background(), &Turn{SessionID: "s1"})
	if err == nil {
		t.Error("expected timeout error")
	}
}
