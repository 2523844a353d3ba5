// Package echoform runs a per-turn cognition pipeline for conversational
// agents: generate a reply, observe the reasoning behind it, compress that
// reasoning into a compact fingerprint, score the reply, and evolve a
// persistent trait vector that steers future generations.
//
// # Core Types
//
// The package is built around four core concepts:
//
//   - [Turn] - The value flowing through one cognition cycle
//   - [TraitVector] - The evolving four-dimensional personality state
//   - [Memory] - Durable persistence for sessions, messages, snapshots, and evaluations
//   - [Engine] - The orchestrator that sequences the pipeline stages
//
// # Running Turns
//
// Create an Engine over a Memory and a Generator, then drive it one turn at
// a time:
//
//	db, _ := echoform.OpenSQLite("echoform.db")
//	memory, _ := echoform.NewSQLMemory(db)
//	engine := echoform.NewEngine(memory, echoform.NewRemoteGenerator())
//
//	sessionID, _ := engine.NewSession(ctx)
//	result, _ := engine.ProcessTurn(ctx, sessionID, "what is abstraction?")
//	fmt.Println(result.Reply)
//
// # Pipeline Stages
//
// Each cognitive stage is a pipz.Chainable[*Turn] primitive:
//
//   - [NewAnalyze] - Derive cognitive signals (tone, bias, depth, abstraction, risk) from reasoning text
//   - [NewCompress] - Reduce reasoning plus signals into a bounded fingerprint string
//   - [NewScore] - Score the reply across four weighted dimensions
//   - [NewMutate] - Shift the trait vector based on the overall score
//
// The stages are total functions over text: blank or degenerate input
// degrades to documented default signal values, never an error.
//
// # Generation
//
// Reply and reasoning text come from a [Generator]. [RemoteGenerator] calls
// an LLM through the zyn provider seam with a bounded retry budget and falls
// back internally to the deterministic [SimulatedGenerator], so generation
// failures never surface past the generator boundary. Provider resolution
// follows the usual hierarchy:
//
//  1. Generator-level provider (.WithProvider(p))
//  2. Context value (echoform.WithProvider(ctx, p))
//  3. Global default (echoform.SetProvider(p))
//
// # Memory Implementation
//
// [SQLMemory] persists the five record sets (sessions, trait vectors,
// messages, reasoning snapshots, evaluations) in SQLite via sqlx. Schema
// initialization is idempotent and the mutation counter is incremented with
// a single atomic statement.
//
// # Observability
//
// echoform emits capitan signals throughout execution. See [signals.go] for
// the complete list of events including SessionCreated, TurnStarted,
// StageCompleted, TraitsMutated, and FallbackEngaged.
package echoform
