// Package auth keeps the demo sign-in flag. It is a name string stored in
// plain text, not a security boundary.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/csheth/proppilot/internal/storage"
)

// StorageKey is where the sign-in flag lives.
const StorageKey = "proppilot_auth"

// ErrInvalidName is returned by Login for a blank or oversized name.
var ErrInvalidName = errors.New("invalid user name")

// State is the persisted sign-in flag.
type State struct {
	Authenticated bool   `json:"isAuthenticated"`
	UserName      string `json:"userName"`
}

// Session mirrors the flag in memory and writes through to the store.
type Session struct {
	store  storage.Store
	logger *zap.Logger
	state  State
}

// NewSession restores the flag from store. Absent, malformed or
// wrong-shaped values count as signed out and are discarded.
func NewSession(store storage.Store, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{store: store, logger: logger.Named("auth")}
	raw, ok, err := store.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", StorageKey, err)
	}
	if !ok {
		return s, nil
	}
	state, err := decode(raw)
	if err != nil {
		s.logger.Warn("discarding stored sign-in", zap.Error(err))
		if err := store.Remove(StorageKey); err != nil {
			return nil, fmt.Errorf("remove %s: %w", StorageKey, err)
		}
		return s, nil
	}
	s.state = state
	return s, nil
}

func decode(raw string) (State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return State{}, err
	}
	if _, ok := fields["isAuthenticated"]; !ok {
		return State{}, errors.New("missing isAuthenticated")
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, err
	}
	if !state.Authenticated {
		return State{}, errors.New("not authenticated")
	}
	state.UserName = strings.TrimSpace(state.UserName)
	if state.UserName == "" {
		return State{}, errors.New("missing userName")
	}
	return state, nil
}

// State returns the current flag.
func (s *Session) State() State { return s.state }

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool { return s.state.Authenticated }

// Login signs name in and persists the flag.
func (s *Session) Login(name string) error {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required, validation.Length(1, 80)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	state := State{Authenticated: true, UserName: name}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.store.Set(StorageKey, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", StorageKey, err)
	}
	s.state = state
	s.logger.Debug("login", zap.String("user", name))
	return nil
}

// Logout removes the flag.
func (s *Session) Logout() error {
	if err := s.store.Remove(StorageKey); err != nil {
		return fmt.Errorf("remove %s: %w", StorageKey, err)
	}
	s.state = State{}
	s.logger.Debug("logout")
	return nil
}
