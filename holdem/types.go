package holdem

import (
	"strings"

	"github.com/pkg/errors"
)

// Seats in a heads-up hand. The seat list never changes during a hand;
// everything else refers to players by these indices.
const (
	NumSeats    = 2
	InvalidSeat = -1
)

// Street is the phase of a hand.
type Street byte

const (
	StreetPreflop Street = iota
	StreetFlop
	StreetTurn
	StreetRiver
	StreetShowdown
	StreetComplete
)

var streetNames = [...]string{
	StreetPreflop:  "preflop",
	StreetFlop:     "flop",
	StreetTurn:     "turn",
	StreetRiver:    "river",
	StreetShowdown: "showdown",
	StreetComplete: "complete",
}

func (s Street) String() string {
	if int(s) < len(streetNames) {
		return streetNames[s]
	}
	return "unknown"
}

// Betting reports whether players act on this street.
func (s Street) Betting() bool {
	switch s {
	case StreetPreflop, StreetFlop, StreetTurn, StreetRiver:
		return true
	case StreetShowdown, StreetComplete:
		return false
	}
	return false
}

// boardSize is the number of community cards once the street is dealt.
func (s Street) boardSize() int {
	switch s {
	case StreetPreflop:
		return 0
	case StreetFlop:
		return 3
	case StreetTurn:
		return 4
	case StreetRiver, StreetShowdown, StreetComplete:
		return 5
	}
	return 0
}

func (s Street) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Street) UnmarshalText(text []byte) error {
	for i, name := range streetNames {
		if strings.EqualFold(name, string(text)) {
			*s = Street(i)
			return nil
		}
	}
	return errors.Errorf("unknown street %q", text)
}

// ActionType is the kind of a player decision.
type ActionType byte

const (
	ActionFold ActionType = iota + 1
	ActionCheck
	ActionCall
	ActionBet
	ActionRaise
	ActionAllIn
)

var actionNames = map[ActionType]string{
	ActionFold:  "fold",
	ActionCheck: "check",
	ActionCall:  "call",
	ActionBet:   "bet",
	ActionRaise: "raise",
	ActionAllIn: "allin",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

func (a ActionType) MarshalText() ([]byte, error) {
	if _, ok := actionNames[a]; !ok {
		return nil, errors.Errorf("unknown action type %d", a)
	}
	return []byte(a.String()), nil
}

func (a *ActionType) UnmarshalText(text []byte) error {
	raw := strings.ToLower(strings.TrimSpace(string(text)))
	if raw == "all_in" || raw == "all-in" {
		raw = "allin"
	}
	for t, name := range actionNames {
		if name == raw {
			*a = t
			return nil
		}
	}
	return errors.Errorf("unknown action type %q", text)
}

// Action is one decision submitted for the player to act.
//
// Amount is only read for Bet (the size of the opening bet) and Raise (the
// increment on top of the current bet).
type Action struct {
	Type   ActionType
	Amount int64
}

func Fold() Action             { return Action{Type: ActionFold} }
func Check() Action            { return Action{Type: ActionCheck} }
func Call() Action             { return Action{Type: ActionCall} }
func Bet(amount int64) Action  { return Action{Type: ActionBet, Amount: amount} }
func Raise(delta int64) Action { return Action{Type: ActionRaise, Amount: delta} }
func AllIn() Action            { return Action{Type: ActionAllIn} }

func (a Action) String() string {
	switch a.Type {
	case ActionBet, ActionRaise:
		return a.Type.String() + "(" + itoa(a.Amount) + ")"
	}
	return a.Type.String()
}

// Termination says why a hand ended.
type Termination byte

const (
	TerminationNone Termination = iota
	// TerminationFold: one player folded, no cards shown.
	TerminationFold
	// TerminationShowdown: betting finished on the river.
	TerminationShowdown
	// TerminationAllIn: a stack reached zero, the board was run out without betting.
	TerminationAllIn
)

var terminationNames = [...]string{
	TerminationNone:     "none",
	TerminationFold:     "fold",
	TerminationShowdown: "showdown",
	TerminationAllIn:    "allin_runout",
}

func (t Termination) String() string {
	if int(t) < len(terminationNames) {
		return terminationNames[t]
	}
	return "unknown"
}

func (t Termination) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Termination) UnmarshalText(text []byte) error {
	for i, name := range terminationNames {
		if name == string(text) {
			*t = Termination(i)
			return nil
		}
	}
	return errors.Errorf("unknown termination %q", text)
}

// Category is the class of a five card hand, weakest first.
type Category byte

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	HighCard:      "high card",
	OnePair:       "pair",
	TwoPair:       "two pair",
	ThreeOfAKind:  "three of a kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full house",
	FourOfAKind:   "four of a kind",
	StraightFlush: "straight flush",
}

func (c Category) String() string {
	if c >= HighCard && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(text []byte) error {
	for i, name := range categoryNames {
		if i > 0 && name == string(text) {
			*c = Category(i)
			return nil
		}
	}
	return errors.Errorf("unknown hand category %q", text)
}
