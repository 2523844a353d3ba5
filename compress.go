package echoform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// maxKeyPoints bounds the fingerprint so snapshots never bloat memory.
const maxKeyPoints = 5

// KeyPoints extracts the major reasoning steps from a block of text. Text
// containing newlines is split on lines, otherwise on sentence boundaries.
// Fragments are trimmed, deduplicated case-insensitively preserving
// first-seen order, and capped at maxKeyPoints. Blank input yields a single
// placeholder point.
func KeyPoints(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{"No reasoning provided."}
	}

	var fragments []string
	if strings.Contains(text, "\n") {
		fragments = strings.Split(text, "\n")
	} else {
		fragments = strings.Split(text, ".")
	}

	seen := make(map[string]struct{})
	var points []string
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		lower := strings.ToLower(f)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		points = append(points, f)
	}

	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}
	return points
}

// Fingerprint renders the categorical and numeric signals into a compact
// string suitable for SQL storage and fast recall.
func Fingerprint(s Signals) string {
	return fmt.Sprintf("tone=%s | bias=%s | depth=%.2f | abstraction=%.2f",
		s.Tone, s.Bias, s.Depth, s.Abstraction)
}

// CompressReasoning merges the key points, the signal fingerprint, and the
// risk tag into the final delimited snapshot string.
func CompressReasoning(text string, s Signals) string {
	bullets := strings.Join(KeyPoints(text), " || ")
	return fmt.Sprintf("%s >>> %s >>> risk=%s", bullets, Fingerprint(s), s.Risk)
}

// Compress is the fingerprint stage. It implements pipz.Chainable[*Turn],
// reducing the turn's reasoning and signals into a bounded compressed
// string. No LLM call is made.
type Compress struct {
	identity pipz.Identity
	key      string
}

// NewCompress creates a new reasoning compression stage.
//
// Example:
//
//	compress := echoform.NewCompress("compress")
//	turn, _ = compress.Process(ctx, turn)
func NewCompress(key string) *Compress {
	return &Compress{
		identity: pipz.NewIdentity(key, "Reasoning compression stage"),
		key:      key,
	}
}

// Process implements pipz.Chainable[*Turn].
func (c *Compress) Process(ctx context.Context, t *Turn) (*Turn, error) {
	start := time.Now()

	capitan.Emit(ctx, StageStarted,
		FieldSessionID.Field(t.SessionID),
		FieldStageName.Field(c.key),
		FieldStageType.Field("compress"),
	)

	t.Compressed = CompressReasoning(t.Reasoning, t.Signals)

	capitan.Emit(ctx, StageCompleted,
		FieldSessionID.Field(t.SessionID),
		FieldStageName.Field(c.key),
		FieldStageType.Field("compress"),
		FieldStageDuration.Field(time.Since(start)),
	)

	return t, nil
}

// Identity implements pipz.Chainable[*Turn].
func (c *Compress) Identity() pipz.Identity {
	return c.identity
}

// Schema implements pipz.Chainable[*Turn].
func (c *Compress) Schema() pipz.Node {
	return pipz.Node{Identity: c.identity, Type: "compress"}
}

// Close implements pipz.Chainable[*Turn].
func (c *Compress) Close() error {
	return nil
}
