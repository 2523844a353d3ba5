package echoform

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Signals are the cognitive attributes derived from one turn's reasoning
// text. Tone, bias, and risk are categorical; depth and abstraction are
// floats in [0,1] rounded to two decimals.
type Signals struct {
	Tone        string  `json:"tone"`
	Bias        string  `json:"bias"`
	Depth       float64 `json:"depth"`
	Abstraction float64 `json:"abstraction"`
	Risk        string  `json:"risk"`
}

// Tone keyword tables, checked in order; first match wins.
var toneTables = []struct {
	tone     string
	keywords []string
}{
	{"philosophical", []string{"theory", "concept", "paradigm", "abstract"}},
	{"practical", []string{"example", "practical", "step", "implementation"}},
	{"analytical", []string{"analyze", "reason", "evaluate", "logic"}},
	{"creative", []string{"creative", "imagine", "novel", "unconventional"}},
}

var (
	connectiveKeywords  = []string{"because", "therefore", "however", "thus"}
	abstractionKeywords = []string{"concept", "model", "system", "framework", "abstraction", "layer", "architecture", "theory"}
)

// AnalyzeReasoning derives cognitive signals from a block of reasoning text.
// It is a total function: blank text yields the documented baseline signals
// (neutral tone, no bias, depth 0.3, abstraction 0.4, low risk). All keyword
// matching is case-insensitive substring search over the whole text.
func AnalyzeReasoning(text string) Signals {
	lower := strings.ToLower(text)

	return Signals{
		Tone:        detectTone(lower),
		Bias:        detectBias(lower),
		Depth:       round2(estimateDepth(text, lower)),
		Abstraction: round2(estimateAbstraction(lower)),
		Risk:        estimateRisk(lower),
	}
}

func detectTone(lower string) string {
	for _, entry := range toneTables {
		if containsAny(lower, entry.keywords) {
			return entry.tone
		}
	}
	return "neutral"
}

func detectBias(lower string) string {
	switch {
	case strings.Contains(lower, "always") || strings.Contains(lower, "never"):
		return "overgeneralization"
	case strings.Contains(lower, "obviously"):
		return "confidence bias"
	case strings.Contains(lower, "best") || strings.Contains(lower, "worst"):
		return "extremism"
	}
	return "none"
}

// estimateDepth scores structure: a base of 0.3, a length factor from the
// non-blank line count, and a structure factor counting distinct connectives
// (presence, not occurrences). Capped at 1.0.
func estimateDepth(text, lower string) float64 {
	var lines int
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	lengthFactor := math.Min(1.0, float64(lines)/10)

	var connectives int
	for _, k := range connectiveKeywords {
		if strings.Contains(lower, k) {
			connectives++
		}
	}
	structureFactor := math.Min(1.0, float64(connectives)*0.2)

	return math.Min(1.0, 0.3+lengthFactor*0.4+structureFactor)
}

func estimateAbstraction(lower string) float64 {
	var hits int
	for _, k := range abstractionKeywords {
		if strings.Contains(lower, k) {
			hits++
		}
	}
	return math.Min(1.0, 0.4+float64(hits)*0.1)
}

func estimateRisk(lower string) string {
	switch {
	case strings.Contains(lower, "i am not sure") || strings.Contains(lower, "unclear"):
		return "uncertain"
	case strings.Contains(lower, "guess") || strings.Contains(lower, "probably"):
		return "speculative"
	case strings.Contains(lower, "factually") && !strings.Contains(lower, "source"):
		return "hallucination-risk"
	}
	return "low"
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Analyze is the observation stage. It implements pipz.Chainable[*Turn],
// deriving Signals from the turn's reasoning text.
type Analyze struct {
	identity pipz.Identity
	key      string
}

// NewAnalyze creates a new reasoning analysis stage.
//
// Example:
//
//	analyze := echoform.NewAnalyze("analyze")
//	turn, _ = analyze.Process(ctx, turn)
func NewAnalyze(key string) *Analyze {
	return &Analyze{
		identity: pipz.NewIdentity(key, "Reasoning signal extraction stage"),
		key:      key,
	}
}

// Process implements pipz.Chainable[*Turn].
func (a *Analyze) Process(ctx context.Context, t *Turn) (*Turn, error) {
	start := time.Now()

	capitan.Emit(ctx, StageStarted,
		FieldSessionID.Field(t.SessionID),
		FieldStageName.Field(a.key),
		FieldStageType.Field("analyze"),
	)

	t.Signals = AnalyzeReasoning(t.Reasoning)

	capitan.Emit(ctx, StageCompleted,
		FieldSessionID.Field(t.SessionID),
		FieldStageName.Field(a.key),
		FieldStageType.Field("analyze"),
		FieldStageDuration.Field(time.Since(start)),
		FieldTone.Field(t.Signals.Tone),
		FieldBias.Field(t.Signals.Bias),
		FieldRisk.Field(t.Signals.Risk),
	)

	return t, nil
}

// Identity implements pipz.Chainable[*Turn].
func (a *Analyze) Identity() pipz.Identity {
	return a.identity
}

// Schema implements pipz.Chainable[*Turn].
func (a *Analyze) Schema() pipz.Node {
	return pipz.Node{Identity: a.identity, Type: "analyze"}
}

// Close implements pipz.Chainable[*Turn].
func (a *Analyze) Close() error {
	return nil
}
