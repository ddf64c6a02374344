package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// ImplementState contains the runtime state for the implement.
type ImplementState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// AutoMode is the section control mode flag.
	AutoMode bool `json:"auto_mode"`

	// TargetRate is the commanded volume-per-area application rate.
	TargetRate uint32 `json:"target_rate"`

	// SetpointWorkState is the commanded master work state.
	SetpointWorkState bool `json:"setpoint_work_state"`

	// SwitchStates are the local operator switch positions per section.
	SwitchStates []bool `json:"switch_states,omitempty"`
}

// StateStore manages persistence of implement state to a JSON file.
type StateStore struct {
	mu   sync.Mutex
	path string
}

// NewStateStore creates a new implement state store.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Save persists the implement state to disk.
func (s *StateStore) Save(state *ImplementState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the implement state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *StateStore) Load() (*ImplementState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &ImplementState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Clear removes the state file.
func (s *StateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
