package holdem

import "holdem-hu/card"

// PlayerView is one seat as seen in a Snapshot.
type PlayerView struct {
	Seat      int
	ID        string
	Stack     int64
	StreetBet int64
	Committed int64
	Blind     int64
	Hole      card.CardList
	Folded    bool
	AllIn     bool
}

// LegalActions lists what the player to act may submit. Amounts follow
// Action: MinBet is a bet size, MinRaise/MaxRaise are raise increments.
type LegalActions struct {
	Seat        int
	Actions     []ActionType
	CallAmount  int64
	MinBet      int64
	MinRaise    int64
	MaxRaise    int64
	AllInAmount int64
}

// Allows reports whether t is in the legal set.
func (l LegalActions) Allows(t ActionType) bool {
	for _, a := range l.Actions {
		if a == t {
			return true
		}
	}
	return false
}

// Snapshot is the visible state of a hand after the last applied action.
// It shares nothing with the hand.
type Snapshot struct {
	HandID      string
	Street      Street
	Button      int
	ToAct       int // InvalidSeat once betting is over
	Board       card.CardList
	CurrentBet  int64
	MinRaise    int64
	Pot         int64
	Pots        []Pot
	Players     [NumSeats]PlayerView
	Legal       LegalActions
	Termination Termination
}

// Complete reports whether the hand is over.
func (s Snapshot) Complete() bool { return s.Street == StreetComplete }

// Snapshot projects the current state.
func (h *Hand) Snapshot() Snapshot {
	s := Snapshot{
		HandID:      h.cfg.HandID,
		Street:      h.street,
		Button:      h.button,
		ToAct:       InvalidSeat,
		Board:       h.board.Clone(),
		CurrentBet:  h.curBet,
		MinRaise:    h.minRaise,
		Termination: h.termination,
	}
	contrib, folded := h.contributions()
	for i := range h.seats {
		p := &h.seats[i]
		s.Players[i] = PlayerView{
			Seat:      i,
			ID:        p.id,
			Stack:     p.stack,
			StreetBet: p.streetBet,
			Committed: p.committed,
			Blind:     p.blind,
			Hole:      card.CardList(p.hole[:]).Clone(),
			Folded:    p.folded,
			AllIn:     p.allIn,
		}
	}
	if h.street != StreetComplete {
		s.Pots = BuildPots(contrib, folded)
		s.Pot = PotTotal(s.Pots)
	}
	if h.street.Betting() && h.fatal == nil {
		s.ToAct = h.toAct
		s.Legal = h.legal()
	} else {
		s.Legal = LegalActions{Seat: InvalidSeat}
	}
	return s
}

func (h *Hand) contributions() ([]int64, []bool) {
	contrib := make([]int64, NumSeats)
	folded := make([]bool, NumSeats)
	for i := range h.seats {
		contrib[i] = h.seats[i].committed
		folded[i] = h.seats[i].folded
	}
	return contrib, folded
}
