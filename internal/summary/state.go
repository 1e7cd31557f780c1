// internal/summary/state.go
//
// Loanform – shared summary state.
//
// Context
//   The latest computed schedule is read by the results view and written only
//   by the form controller.  State is the single owner of that slot.  The
//   controller receives just the write capability (Setter) at construction, so
//   nothing looks the state up implicitly.
//
//------------------------------------------------------------------------------

package summary

import (
	"sync"

	"github.com/yanizio/loanform/internal/loan"
)

// Setter replaces the shared schedule.  A nil or empty schedule clears it.
type Setter func(loan.Schedule)

// State holds the latest schedule.  Zero value is ready to use.
type State struct {
	mu       sync.RWMutex
	schedule loan.Schedule
	version  uint64
}

// Get returns a copy of the current schedule (never nil).
func (s *State) Get() loan.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule.Clone()
}

// Replace swaps in a copy of sched.
func (s *State) Replace(sched loan.Schedule) {
	c := sched.Clone()
	s.mu.Lock()
	s.schedule = c
	s.version++
	s.mu.Unlock()
}

// Clear empties the schedule.
func (s *State) Clear() { s.Replace(nil) }

// Version counts writes; it increments on every Replace or Clear.
func (s *State) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Setter returns the write capability handed to the controller.
func (s *State) Setter() Setter { return s.Replace }
