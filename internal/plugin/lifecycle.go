// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package plugin

import (
	"sync"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// State represents the lifecycle state of a host-side plugin connection.
type State int

const (
	StateLaunching State = iota
	StateHandshaking
	StateRunning
	StateStopping
	StateStopped
	StateError
)

func (s State) String() string {
	switch s {
	case StateLaunching:
		return "launching"
	case StateHandshaking:
		return "handshaking"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// validTransitions defines allowed state transitions as an adjacency list.
var validTransitions = map[State]map[State]bool{
	StateLaunching: {
		StateHandshaking: true,
		StateError:       true,
	},
	StateHandshaking: {
		StateRunning: true,
		StateError:   true,
	},
	StateRunning: {
		StateStopping: true,
		StateError:    true,
	},
	StateStopping: {
		StateStopped: true,
	},
	StateStopped: {},
	StateError: {
		StateStopping: true,
	},
}

// ValidTransition returns true if transitioning from one state to another is allowed.
func ValidTransition(from, to State) bool {
	return validTransitions[from][to]
}

// lifecycle guards a connection's state.
type lifecycle struct {
	mu    sync.RWMutex
	state State
}

func (l *lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// transitionTo moves to newState, or returns an error if the transition is
// not allowed.
func (l *lifecycle) transitionTo(newState State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !ValidTransition(l.state, newState) {
		return glossaryerr.Errorf(glossaryerr.CodePluginLifecycleTransitionInvalid,
			"invalid state transition: %s -> %s", l.state, newState)
	}

	l.state = newState
	return nil
}
