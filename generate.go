package echoform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/zyn"
)

// NoReasoningSentinel is stored in place of reasoning when a degraded
// response carries no extractable reasoning trace. Generators never return
// empty reasoning.
const NoReasoningSentinel = "no explicit reasoning produced"

// reasoningMarker separates the user-facing answer from the reasoning trace
// in remote responses.
const (
	reasoningMarker = "REASONING TRACE:"
	answerLabel     = "MAIN ANSWER:"
)

// Generator produces a reply and the reasoning behind it from a prompt, the
// recent conversation context, and the session's trait vector.
//
// Implementations must never return empty reasoning and must absorb backend
// unavailability internally: ProcessTurn always receives a complete
// (reply, reasoning) pair.
type Generator interface {
	Generate(ctx context.Context, prompt string, history []zyn.Message, traits TraitVector) (reply, reasoning string, err error)
}

// SimulatedGenerator is the offline variant. Its output is deterministic
// given the same prompt and traits, which makes it the testing baseline and
// the terminal fallback for remote failures.
type SimulatedGenerator struct{}

// NewSimulatedGenerator creates the deterministic offline generator.
func NewSimulatedGenerator() *SimulatedGenerator {
	return &SimulatedGenerator{}
}

// Generate implements Generator. It never fails.
func (g *SimulatedGenerator) Generate(_ context.Context, prompt string, _ []zyn.Message, traits TraitVector) (string, string, error) {
	lines := []string{
		"Prompt interpreted: " + prompt,
		"Running in offline simulation mode.",
	}

	if traits.Abstraction > 0.7 {
		lines = append(lines, "High-level conceptual framing applied.")
	} else {
		lines = append(lines, "Direct pragmatic interpretation applied.")
	}

	if traits.Creativity > 0.7 {
		lines = append(lines, "Creative deviation introduced.")
	} else {
		lines = append(lines, "Standard response shaping applied.")
	}

	reply := fmt.Sprintf("[SIMULATION MODE]\n\nYour prompt was: %s\nThis response was generated without a remote model.", prompt)

	return reply, strings.Join(lines, "\n"), nil
}

// RemoteGenerator is the LLM-backed variant. It renders the trait vector
// and conversation context into a structured prompt, calls the resolved
// provider with a bounded retry budget and fixed backoff, and falls back to
// the simulated generator rather than surfacing failure.
type RemoteGenerator struct {
	provider    Provider
	attempts    int
	backoff     time.Duration
	temperature float32
	fallback    *SimulatedGenerator
}

// NewRemoteGenerator creates a remote generator with the default retry
// budget. The provider is resolved at call time through the usual hierarchy
// (generator-level, context, global); with no provider configured every
// turn runs simulated.
func NewRemoteGenerator() *RemoteGenerator {
	return &RemoteGenerator{
		attempts:    DefaultGenerateAttempts,
		backoff:     DefaultGenerateBackoff,
		temperature: DefaultGenerateTemperature,
		fallback:    NewSimulatedGenerator(),
	}
}

// Generate implements Generator. Failures are fully absorbed: after the
// retry budget is exhausted the simulated fallback produces the result.
func (g *RemoteGenerator) Generate(ctx context.Context, prompt string, history []zyn.Message, traits TraitVector) (string, string, error) {
	provider, err := ResolveProvider(ctx, g.provider)
	if err != nil {
		g.emitFallback(ctx, "", 0, err)
		return g.fallback.Generate(ctx, prompt, history, traits)
	}

	messages := buildGenerationMessages(prompt, history, traits)

	var lastErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		resp, err := provider.Call(ctx, messages, g.temperature)
		if err == nil {
			reply, reasoning := splitReasoning(resp.Content)
			return reply, reasoning, nil
		}
		lastErr = err

		if attempt < g.attempts {
			select {
			case <-ctx.Done():
				g.emitFallback(ctx, provider.Name(), attempt, ctx.Err())
				return g.fallback.Generate(ctx, prompt, history, traits)
			case <-time.After(g.backoff):
			}
		}
	}

	g.emitFallback(ctx, provider.Name(), g.attempts, lastErr)
	return g.fallback.Generate(ctx, prompt, history, traits)
}

func (g *RemoteGenerator) emitFallback(ctx context.Context, provider string, attempts int, err error) {
	capitan.Emit(ctx, FallbackEngaged,
		FieldProvider.Field(provider),
		FieldAttempts.Field(attempts),
		FieldError.Field(err),
	)
}

// Builder methods

// WithProvider sets the generator-level provider, which wins over context
// and global providers.
func (g *RemoteGenerator) WithProvider(p Provider) *RemoteGenerator {
	g.provider = p
	return g
}

// WithAttempts sets the retry budget before fallback.
func (g *RemoteGenerator) WithAttempts(n int) *RemoteGenerator {
	g.attempts = n
	return g
}

// WithBackoff sets the fixed delay between attempts.
func (g *RemoteGenerator) WithBackoff(d time.Duration) *RemoteGenerator {
	g.backoff = d
	return g
}

// WithTemperature sets the generation temperature.
func (g *RemoteGenerator) WithTemperature(temp float32) *RemoteGenerator {
	g.temperature = temp
	return g
}

// buildGenerationMessages renders the trait vector, the conversation
// window, and the response contract into provider messages.
func buildGenerationMessages(prompt string, history []zyn.Message, traits TraitVector) []zyn.Message {
	system := fmt.Sprintf(`You are a reflective conversational system.

SYSTEM CONFIGURATION:
Creativity: %.2f
Abstraction: %.2f
Verbosity: %.2f
Formality: %.2f

Use these to guide tone and complexity.

RESPONSE FORMAT (VERY IMPORTANT):
Write your answer in this exact structure:

MAIN ANSWER:
<your response for the user, clearly written>

REASONING TRACE:
<step-by-step explanation of how you arrived at the MAIN ANSWER, including how you used the traits, context and prompt>`,
		traits.Creativity, traits.Abstraction, traits.Verbosity, traits.Formality)

	user := fmt.Sprintf("CONVERSATION CONTEXT:\n%s\n\nUSER PROMPT:\n%s",
		renderContext(history), prompt)

	return []zyn.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

func renderContext(history []zyn.Message) string {
	if len(history) == 0 {
		return "No previous context."
	}
	var b strings.Builder
	for i, msg := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.ToUpper(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// splitReasoning separates the user-facing reply from the reasoning trace.
// Responses without the marker keep the whole text as the reply and carry
// the sentinel as reasoning.
func splitReasoning(text string) (reply, reasoning string) {
	text = strings.TrimSpace(text)

	if before, after, found := strings.Cut(text, reasoningMarker); found {
		reply = before
		reasoning = strings.TrimSpace(after)
	} else {
		reply = text
		reasoning = ""
	}

	reply = strings.TrimSpace(strings.ReplaceAll(reply, answerLabel, ""))

	if reasoning == "" {
		reasoning = NoReasoningSentinel
	}
	return reply, reasoning
}
