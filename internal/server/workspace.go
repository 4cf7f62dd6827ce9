package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"airesume/internal/types"
)

// workspaceState is the in-progress document state for one user: the
// current resume layout plus the latest profile analysis.
type workspaceState struct {
	layout   *types.ResumeLayout
	analysis json.RawMessage
}

// Workspace holds per-user working state keyed by user ID, so concurrent
// users never see each other's documents. State is in-memory only; durable
// artifacts go through the history store.
type Workspace struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*workspaceState
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{states: make(map[uuid.UUID]*workspaceState)}
}

// Layout returns the user's current resume layout, or nil if none has been
// generated yet.
func (w *Workspace) Layout(userID uuid.UUID) *types.ResumeLayout {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if state, ok := w.states[userID]; ok {
		return state.layout
	}
	return nil
}

// SetLayout replaces the user's current resume layout.
func (w *Workspace) SetLayout(userID uuid.UUID, layout types.ResumeLayout) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state(userID).layout = &layout
}

// Analysis returns the user's latest profile analysis, or nil.
func (w *Workspace) Analysis(userID uuid.UUID) json.RawMessage {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if state, ok := w.states[userID]; ok {
		return state.analysis
	}
	return nil
}

// SetAnalysis replaces the user's profile analysis.
func (w *Workspace) SetAnalysis(userID uuid.UUID, analysis json.RawMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state(userID).analysis = analysis
}

// Clear drops all working state for the user.
func (w *Workspace) Clear(userID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.states, userID)
}

// state returns the user's state, creating it if needed. Callers hold the
// write lock.
func (w *Workspace) state(userID uuid.UUID) *workspaceState {
	if state, ok := w.states[userID]; ok {
		return state
	}
	state := &workspaceState{}
	w.states[userID] = state
	return state
}
