package holdem

import "holdem-hu/card"

// seat is the per-hand state of one player.
type seat struct {
	id         string
	startStack int64
	blind      int64

	stack     int64
	streetBet int64 // chips put in on the current street
	committed int64 // chips put in this hand, blinds included

	hole   [2]card.Card
	folded bool
	allIn  bool

	// pending: must act before the street can close.
	// canRaise: cleared when a short all-in did not reopen action for a
	// player who had already acted.
	pending  bool
	canRaise bool
}

func (s *seat) commit(amount int64) {
	if amount <= 0 {
		return
	}
	s.stack -= amount
	s.streetBet += amount
	s.committed += amount
	if s.stack == 0 {
		s.allIn = true
	}
}

// live players can still make decisions.
func (s *seat) live() bool { return !s.folded && !s.allIn }

func (s *seat) owed(curBet int64) int64 {
	if curBet > s.streetBet {
		return curBet - s.streetBet
	}
	return 0
}

func (s *seat) startStreet() {
	s.streetBet = 0
	s.pending = s.live()
	s.canRaise = true
}
