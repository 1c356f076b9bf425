package holdem

import "holdem-hu/card"

// trace collects what happened during a hand. It is only appended to;
// the record is assembled from it once, when the hand completes.
type trace struct {
	actions  []ActionRecord
	showdown []ShowdownHand
	pots     []PotRecord
}

func (t *trace) action(r ActionRecord) {
	r.Seq = len(t.actions) + 1
	t.actions = append(t.actions, r)
}

func (h *Hand) assemble() HandRecord {
	rec := HandRecord{
		HandID:      h.cfg.HandID,
		DealID:      DealID(h.cfg.HandID, h.cfg.Seed, h.level.Number),
		Seed:        h.cfg.Seed,
		Level:       h.level.Number,
		SmallBlind:  h.level.SmallBlind,
		BigBlind:    h.level.BigBlind,
		Button:      h.button,
		Players:     make([]PlayerRecord, NumSeats),
		Actions:     append([]ActionRecord(nil), h.trace.actions...),
		Burns:       h.deck.Burned(),
		Board:       h.board.Clone(),
		Pots:        append([]PotRecord(nil), h.trace.pots...),
		Termination: h.termination,
		Timestamp:   h.startedAt,
		Deck:        h.cfg.Deck.Clone(),
	}
	if h.termination != TerminationFold {
		rec.Showdown = append([]ShowdownHand(nil), h.trace.showdown...)
	}
	for i := range h.seats {
		s := &h.seats[i]
		rec.Players[i] = PlayerRecord{
			Seat:       i,
			ID:         s.id,
			StartStack: s.startStack,
			Blind:      s.blind,
			Hole:       card.CardList(s.hole[:]).Clone(),
			EndStack:   s.stack,
			Net:        s.stack - s.startStack,
		}
	}
	return rec
}
