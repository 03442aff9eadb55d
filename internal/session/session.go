package session

import (
	"context"
	"sync"
)

type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
)

// State is a user's position in the conversation. The zero value is Idle.
type State struct {
	Phase      Phase  `json:"phase"`
	SourceText string `json:"source_text,omitempty"`
}

func Awaiting(sourceText string) State {
	return State{Phase: PhaseAwaitingConfirmation, SourceText: sourceText}
}

func (s State) IsAwaiting() bool { return s.Phase == PhaseAwaitingConfirmation }

// Store holds conversation state keyed by chat user. Get returns the Idle
// state for unknown keys.
type Store interface {
	Get(ctx context.Context, key string) (State, error)
	Set(ctx context.Context, key string, s State) error
	Delete(ctx context.Context, key string) error
}

type memoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore keeps state for the process lifetime only.
func NewMemoryStore() Store {
	return &memoryStore{states: map[string]State{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[key]
	if !ok {
		return State{Phase: PhaseIdle}, nil
	}
	return s, nil
}

func (m *memoryStore) Set(_ context.Context, key string, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[key] = s
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, key)
	return nil
}
