// Package agent provides action sources that drive a hand without a human:
// replayed scripts, a passive check/call player, a seeded random player and
// a seeded rule based player.
package agent

import (
	"github.com/pkg/errors"
	"github.com/thoas/go-funk"

	"holdem-hu/holdem"
)

// ErrScriptExhausted is returned when a Scripted source runs out of actions.
var ErrScriptExhausted = errors.New("scripted actions exhausted")

// Func adapts a function to holdem.ActionSource.
type Func func(holdem.Snapshot) (holdem.Action, error)

func (f Func) Decide(s holdem.Snapshot) (holdem.Action, error) { return f(s) }

// Scripted replays a fixed list of actions in order.
type Scripted struct {
	actions []holdem.Action
	next    int
}

func NewScripted(actions ...holdem.Action) *Scripted {
	return &Scripted{actions: append([]holdem.Action(nil), actions...)}
}

func (s *Scripted) Decide(holdem.Snapshot) (holdem.Action, error) {
	if s.next >= len(s.actions) {
		return holdem.Action{}, errors.Wrapf(ErrScriptExhausted, "after %d actions", len(s.actions))
	}
	a := s.actions[s.next]
	s.next++
	return a, nil
}

// Remaining is the number of actions not yet handed out.
func (s *Scripted) Remaining() int { return len(s.actions) - s.next }

// Passive checks when it can and calls otherwise.
type Passive struct{}

func (Passive) Decide(s holdem.Snapshot) (holdem.Action, error) {
	if allows(s.Legal, holdem.ActionCheck) {
		return holdem.Check(), nil
	}
	if allows(s.Legal, holdem.ActionCall) {
		return holdem.Call(), nil
	}
	return holdem.Fold(), nil
}

// PerSeat routes each decision to the source of the seat to act.
type PerSeat [holdem.NumSeats]holdem.ActionSource

func (p PerSeat) Decide(s holdem.Snapshot) (holdem.Action, error) {
	if s.ToAct < 0 || s.ToAct >= holdem.NumSeats || p[s.ToAct] == nil {
		return holdem.Action{}, errors.Errorf("no action source for seat %d", s.ToAct)
	}
	return p[s.ToAct].Decide(s)
}

func allows(l holdem.LegalActions, t holdem.ActionType) bool {
	return funk.Contains(l.Actions, t)
}
