package echoform

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// -----------------------------------------------------------------------------
// Adapter Functions - wrap functions to create Turn processors
// -----------------------------------------------------------------------------

// Do creates a processor from a custom function that can fail.
// This is the easiest way to add custom logic to a turn pipeline.
//
// Example:
//
//	persist := echoform.Do("persist-user", func(ctx context.Context, t *echoform.Turn) (*echoform.Turn, error) {
//	    if err := memory.AppendMessage(ctx, t.SessionID, echoform.RoleUser, t.UserText); err != nil {
//	        return t, err
//	    }
//	    return t, nil
//	})
func Do(name string, fn func(context.Context, *Turn) (*Turn, error)) pipz.Processor[*Turn] {
	return pipz.Apply(pipz.Name(name), fn)
}

// Transform creates a processor from a pure transformation function.
// Use this when your operation cannot fail.
func Transform(name string, fn func(context.Context, *Turn) *Turn) pipz.Processor[*Turn] {
	return pipz.Transform(pipz.Name(name), fn)
}

// Effect creates a processor that performs a side effect without modifying
// the turn. Use this for logging, metrics, or other observational
// operations.
func Effect(name string, fn func(context.Context, *Turn) error) pipz.Processor[*Turn] {
	return pipz.Effect(pipz.Name(name), fn)
}

// -----------------------------------------------------------------------------
// Connectors - compose turn processors
// -----------------------------------------------------------------------------

// Sequence creates a sequential pipeline of turn processors. Each processor
// receives the output of the previous one.
//
// Example:
//
//	pipeline := echoform.Sequence("cognition",
//	    echoform.NewAnalyze("analyze"),
//	    echoform.NewCompress("compress"),
//	    echoform.NewScore("score"),
//	    echoform.NewMutate("mutate"),
//	)
func Sequence(name string, processors ...pipz.Chainable[*Turn]) *pipz.Sequence[*Turn] {
	return pipz.NewSequence(pipz.Name(name), processors...)
}

// Filter creates a conditional processor that either processes or passes
// through. When the predicate returns true, the processor is executed.
func Filter(name string, predicate func(context.Context, *Turn) bool, processor pipz.Chainable[*Turn]) *pipz.Filter[*Turn] {
	return pipz.NewFilter(pipz.Name(name), predicate, processor)
}

// Fallback creates a processor that tries alternatives on failure. Each
// processor is tried in order until one succeeds.
func Fallback(name string, processors ...pipz.Chainable[*Turn]) *pipz.Fallback[*Turn] {
	return pipz.NewFallback(pipz.Name(name), processors...)
}

// Retry creates a processor that retries on failure up to maxAttempts
// times. Immediate retry without delay - for backoff, use Backoff instead.
func Retry(name string, processor pipz.Chainable[*Turn], maxAttempts int) *pipz.Retry[*Turn] {
	return pipz.NewRetry(pipz.Name(name), processor, maxAttempts)
}

// Backoff creates a processor that retries with exponential backoff.
func Backoff(name string, processor pipz.Chainable[*Turn], maxAttempts int, baseDelay time.Duration) *pipz.Backoff[*Turn] {
	return pipz.NewBackoff(pipz.Name(name), processor, maxAttempts, baseDelay)
}

// Timeout creates a processor that enforces a time limit on execution.
func Timeout(name string, processor pipz.Chainable[*Turn], duration time.Duration) *pipz.Timeout[*Turn] {
	return pipz.NewTimeout(pipz.Name(name), processor, duration)
}
