package echoform

import (
	"context"
	"strings"
	"testing"
)

func TestScoreAccuracy(t *testing.T) {
	signals := Signals{Depth: 0.5, Abstraction: 0.5, Tone: "neutral"}

	if got := ScoreReply("", signals, DefaultWeights).Accuracy; got != 0.2 {
		t.Errorf("blank reply accuracy = %v, want 0.2", got)
	}
	if got := ScoreReply("   \n ", signals, DefaultWeights).Accuracy; got != 0.2 {
		t.Errorf("whitespace reply accuracy = %v, want 0.2", got)
	}
	if got := ScoreReply("An Error occurred somewhere", signals, DefaultWeights).Accuracy; got != 0.4 {
		t.Errorf("error reply accuracy = %v, want 0.4", got)
	}
	if got := ScoreReply("a perfectly ordinary reply", signals, DefaultWeights).Accuracy; got != 0.85 {
		t.Errorf("normal reply accuracy = %v, want 0.85", got)
	}
}

func TestScoreClarity(t *testing.T) {
	signals := Signals{Depth: 0.5, Abstraction: 0.5}

	short := "one two three four five"
	if got := ScoreReply(short, signals, DefaultWeights).Clarity; got != 0.6 {
		t.Errorf("5-word clarity = %v, want 0.6", got)
	}

	medium := strings.Repeat("word ", 100)
	if got := ScoreReply(medium, signals, DefaultWeights).Clarity; got != 0.9 {
		t.Errorf("100-word clarity = %v, want 0.9", got)
	}

	long := strings.Repeat("word ", 400)
	if got := ScoreReply(long, signals, DefaultWeights).Clarity; got != 0.7 {
		t.Errorf("400-word clarity = %v, want 0.7", got)
	}
}

func TestScoreDepthPassThrough(t *testing.T) {
	signals := Signals{Depth: 0.94, Abstraction: 0.5}
	if got := ScoreReply("reply text here", signals, DefaultWeights).Depth; got != 0.94 {
		t.Errorf("depth = %v, want 0.94", got)
	}
}

func TestScoreOriginality(t *testing.T) {
	plain := Signals{Depth: 0.5, Abstraction: 0.6, Tone: "neutral"}
	if got := ScoreReply("reply", plain, DefaultWeights).Originality; got != 0.74 {
		t.Errorf("originality = %v, want 0.74", got)
	}

	creative := Signals{Depth: 0.5, Abstraction: 0.6, Tone: "creative"}
	if got := ScoreReply("reply", creative, DefaultWeights).Originality; got != 0.84 {
		t.Errorf("creative originality = %v, want 0.84", got)
	}

	// Bonus plus saturated abstraction caps at 1.0.
	capped := Signals{Depth: 0.5, Abstraction: 1.0, Tone: "creative"}
	if got := ScoreReply("reply", capped, DefaultWeights).Originality; got != 1.0 {
		t.Errorf("capped originality = %v, want 1.0", got)
	}
}

func TestScoreDefaultsForMissingSignals(t *testing.T) {
	// A zero Signals value means the analyzer never ran.
	scores := ScoreReply("a reply of reasonable quality goes right here to make twenty words in total for clarity scoring today", Signals{}, DefaultWeights)

	if scores.Depth != 0.5 {
		t.Errorf("default depth = %v, want 0.5", scores.Depth)
	}
	if scores.Originality != 0.7 {
		t.Errorf("default originality = %v, want 0.7 (0.5 + 0.5*0.4)", scores.Originality)
	}
}

func TestScoreOverallWeighting(t *testing.T) {
	// accuracy 0.85, clarity 0.9, depth 0.8, originality 0.74:
	// 0.2975 + 0.225 + 0.16 + 0.148 = 0.8305 -> 0.83
	signals := Signals{Depth: 0.8, Abstraction: 0.6, Tone: "neutral"}
	reply := strings.Repeat("word ", 50)

	if got := ScoreReply(reply, signals, DefaultWeights).Overall; got != 0.83 {
		t.Errorf("overall = %v, want 0.83", got)
	}
}

func TestScoreStageWithWeights(t *testing.T) {
	stage := NewScore("score").WithWeights(Weights{Accuracy: 1, Clarity: 0, Depth: 0, Originality: 0})

	turn := &Turn{
		SessionID: "s1",
		Reply:     "a normal reply",
		Signals:   Signals{Depth: 0.5, Abstraction: 0.5},
	}

	result, err := stage.Process(context.Background(), turn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Scores.Overall != 0.85 {
		t.Errorf("accuracy-only overall = %v, want 0.85", result.Scores.Overall)
	}
}
