package menu

import "github.com/moasq/gridmenu/internal/terminal"

// Outcome records how a menu session ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeConfirmed
	OutcomeCancelled
)

// State is the mutable part of a menu session.
type State struct {
	Options  []string
	Selected int
	Closed   bool
	Outcome  Outcome
}

// NewState returns an open state with the first option selected.
func NewState(options []string) *State {
	return &State{Options: options}
}

// Apply updates the state for one key. Keys arriving after the state is
// closed are ignored.
func (s *State) Apply(key terminal.Key, g Grid) {
	if s.Closed {
		return
	}
	switch key {
	case terminal.KeyUp, terminal.KeyDown, terminal.KeyLeft, terminal.KeyRight:
		s.Selected = g.Next(s.Selected, key)
	case terminal.KeyConfirm:
		s.Closed = true
		s.Outcome = OutcomeConfirmed
	case terminal.KeyCancel:
		s.Closed = true
		s.Outcome = OutcomeCancelled
	}
}

// Choice returns the selected label if the session was confirmed.
func (s *State) Choice() (string, bool) {
	if s.Outcome != OutcomeConfirmed {
		return "", false
	}
	return s.Options[s.Selected], true
}
