package echoform

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zoobzio/zyn"
)

// mockMemory implements Memory for testing without a database.
type mockMemory struct {
	mu          sync.Mutex
	levels      map[string]int
	traits      map[string]TraitVector
	messages    map[string][]StoredMessage
	snapshots   map[string][]ReasoningSnapshot
	evaluations map[string][]Evaluation
}

func newMockMemory() *mockMemory {
	return &mockMemory{
		levels:      make(map[string]int),
		traits:      make(map[string]TraitVector),
		messages:    make(map[string][]StoredMessage),
		snapshots:   make(map[string][]ReasoningSnapshot),
		evaluations: make(map[string][]Evaluation),
	}
}

func (m *mockMemory) CreateSession(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.levels[id] = 0
	m.traits[id] = DefaultTraits()
	return id, nil
}

func (m *mockMemory) AppendMessage(_ context.Context, sessionID, role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.levels[sessionID]; !ok {
		return ErrNotFound
	}
	m.messages[sessionID] = append(m.messages[sessionID], StoredMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	})
	return nil
}

func (m *mockMemory) RecentContext(_ context.Context, sessionID string, limit int) ([]zyn.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.messages[sessionID]
	if len(stored) > limit {
		stored = stored[len(stored)-limit:]
	}
	messages := make([]zyn.Message, 0, len(stored))
	for _, msg := range stored {
		messages = append(messages, zyn.Message{Role: msg.Role, Content: msg.Content})
	}
	return messages, nil
}

func (m *mockMemory) LoadTraits(_ context.Context, sessionID string) (TraitVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	traits, ok := m.traits[sessionID]
	if !ok {
		return TraitVector{}, ErrNotFound
	}
	return traits, nil
}

func (m *mockMemory) SaveTraits(_ context.Context, sessionID string, traits TraitVector) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.traits[sessionID]; !ok {
		return ErrNotFound
	}
	m.traits[sessionID] = traits
	return nil
}

func (m *mockMemory) AppendReasoningSnapshot(_ context.Context, sessionID, raw, compressed string, _ Signals) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.levels[sessionID]; !ok {
		return ErrNotFound
	}
	m.snapshots[sessionID] = append(m.snapshots[sessionID], ReasoningSnapshot{
		SessionID:  sessionID,
		Raw:        raw,
		Compressed: compressed,
	})
	return nil
}

func (m *mockMemory) AppendEvaluation(_ context.Context, sessionID string, scores Scores) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.levels[sessionID]; !ok {
		return ErrNotFound
	}
	m.evaluations[sessionID] = append(m.evaluations[sessionID], Evaluation{
		SessionID:   sessionID,
		Accuracy:    scores.Accuracy,
		Clarity:     scores.Clarity,
		Depth:       scores.Depth,
		Originality: scores.Originality,
		Overall:     scores.Overall,
	})
	return nil
}

func (m *mockMemory) IncrementMutationLevel(_ context.Context, sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.levels[sessionID]; !ok {
		return 0, ErrNotFound
	}
	m.levels[sessionID]++
	return m.levels[sessionID], nil
}

func (m *mockMemory) MutationLevel(_ context.Context, sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	level, ok := m.levels[sessionID]
	if !ok {
		return 0, ErrNotFound
	}
	return level, nil
}
