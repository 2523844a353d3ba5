package echoform

import "github.com/zoobzio/capitan"

// Signal definitions for cognition pipeline events.
// Signals follow the pattern: echoform.<entity>.<event>.
var (
	// Session lifecycle signals.
	SessionCreated = capitan.NewSignal(
		"echoform.session.created",
		"New session initialized with default trait vector",
	)

	// Turn lifecycle signals.
	TurnStarted = capitan.NewSignal(
		"echoform.turn.started",
		"User input entered the cognition pipeline",
	)
	TurnCompleted = capitan.NewSignal(
		"echoform.turn.completed",
		"All pipeline stages committed and the result bundle was built",
	)

	// Stage execution signals.
	StageStarted = capitan.NewSignal(
		"echoform.stage.started",
		"Pipeline stage began execution",
	)
	StageCompleted = capitan.NewSignal(
		"echoform.stage.completed",
		"Pipeline stage finished successfully",
	)
	StageFailed = capitan.NewSignal(
		"echoform.stage.failed",
		"Pipeline stage encountered an error",
	)

	// Trait evolution signals.
	TraitsMutated = capitan.NewSignal(
		"echoform.traits.mutated",
		"Trait vector shifted based on the turn's overall score",
	)

	// Generation signals.
	FallbackEngaged = capitan.NewSignal(
		"echoform.generate.fallback",
		"Remote generation exhausted its retry budget; simulated output engaged",
	)
)

// Field keys for echoform event data.
var (
	// Session and turn metadata.
	FieldSessionID     = capitan.NewStringKey("session_id")
	FieldMutationLevel = capitan.NewIntKey("mutation_level")
	FieldTurnDuration  = capitan.NewDurationKey("turn_duration")

	// Stage metadata.
	FieldStageName     = capitan.NewStringKey("stage_name")
	FieldStageType     = capitan.NewStringKey("stage_type") // analyze, compress, score, mutate
	FieldStageDuration = capitan.NewDurationKey("stage_duration")

	// Cognitive signal metadata.
	FieldTone = capitan.NewStringKey("tone")
	FieldBias = capitan.NewStringKey("bias")
	FieldRisk = capitan.NewStringKey("risk")

	// Scoring and mutation metadata.
	FieldOverall = capitan.NewFloat32Key("overall")
	FieldBranch  = capitan.NewStringKey("branch") // upgrade, downgrade, stabilize

	// Generation metadata.
	FieldProvider    = capitan.NewStringKey("provider")
	FieldAttempts    = capitan.NewIntKey("attempts")
	FieldContextSize = capitan.NewIntKey("context_size") // message count

	// Error information.
	FieldError = capitan.NewErrorKey("error")
)
