package holdem

import (
	"time"

	"github.com/google/uuid"

	"holdem-hu/card"
)

// HandRecord is the immutable summary of one completed hand. Accessors
// return copies, so a record handed out can never be changed by the engine
// or change the engine. Two hands with the same Config produce identical
// records only when Config.Clock is pinned; Timestamp otherwise comes from
// time.Now.
type HandRecord struct {
	HandID      string         `json:"hand_id"`
	DealID      uuid.UUID      `json:"deal_id"`
	Seed        int64          `json:"seed"`
	Level       int            `json:"level"`
	SmallBlind  int64          `json:"small_blind"`
	BigBlind    int64          `json:"big_blind"`
	Button      int            `json:"button"`
	Players     []PlayerRecord `json:"players"`
	Actions     []ActionRecord `json:"actions"`
	Burns       card.CardList  `json:"burns"`
	Board       card.CardList  `json:"board"`
	Showdown    []ShowdownHand `json:"showdown,omitempty"`
	Pots        []PotRecord    `json:"pots"`
	Termination Termination    `json:"termination"`
	Timestamp   time.Time      `json:"timestamp"`
	// Deck is set when the hand was dealt from a scripted order.
	Deck card.CardList `json:"deck,omitempty"`
}

type PlayerRecord struct {
	Seat       int           `json:"seat"`
	ID         string        `json:"id"`
	StartStack int64         `json:"start_stack"`
	Blind      int64         `json:"blind"`
	Hole       card.CardList `json:"hole"`
	EndStack   int64         `json:"end_stack"`
	Net        int64         `json:"net"`
}

// ActionRecord is one applied action. Amount is what was submitted; Added
// is what actually moved from the stack.
type ActionRecord struct {
	Seq         int        `json:"seq"`
	Street      Street     `json:"street"`
	Seat        int        `json:"seat"`
	Type        ActionType `json:"type"`
	Amount      int64      `json:"amount,omitempty"`
	Added       int64      `json:"added"`
	StreetTotal int64      `json:"street_total"`
	StackAfter  int64      `json:"stack_after"`
	AllIn       bool       `json:"all_in,omitempty"`
}

// Action returns the action as it was submitted.
func (r ActionRecord) Action() Action {
	return Action{Type: r.Type, Amount: r.Amount}
}

type ShowdownHand struct {
	Seat     int           `json:"seat"`
	Hole     card.CardList `json:"hole"`
	Best     card.CardList `json:"best"`
	Category Category      `json:"category"`
	Score    uint16        `json:"score"`
}

type PotRecord struct {
	Amount   int64   `json:"amount"`
	Eligible []int   `json:"eligible"`
	Winners  []int   `json:"winners"`
	Shares   []int64 `json:"shares"`
}

// NetResult returns the chips won (positive) or lost per seat.
func (r HandRecord) NetResult() []int64 {
	out := make([]int64, len(r.Players))
	for i, p := range r.Players {
		out[i] = p.Net
	}
	return out
}

// Config rebuilds the configuration that deals this hand again. The blinds
// come from the record, so hands from any schedule replay the same.
func (r HandRecord) Config() Config {
	cfg := Config{
		Seed:   r.Seed,
		Level:  r.Level,
		Button: r.Button,
		HandID: r.HandID,
		Deck:   r.Deck.Clone(),
	}
	if r.SmallBlind > 0 && r.BigBlind > 0 {
		cfg.Schedule = &Schedule{Levels: []Level{{Number: r.Level, SmallBlind: r.SmallBlind, BigBlind: r.BigBlind}}}
	}
	for i, p := range r.Players {
		if i >= NumSeats {
			break
		}
		cfg.Stacks[i] = p.StartStack
		cfg.PlayerIDs[i] = p.ID
	}
	ts := r.Timestamp
	cfg.Clock = func() time.Time { return ts }
	return cfg
}

// Clone returns a deep copy.
func (r HandRecord) Clone() HandRecord {
	out := r
	out.Players = make([]PlayerRecord, len(r.Players))
	for i, p := range r.Players {
		p.Hole = p.Hole.Clone()
		out.Players[i] = p
	}
	out.Actions = append([]ActionRecord(nil), r.Actions...)
	out.Burns = r.Burns.Clone()
	out.Board = r.Board.Clone()
	if r.Showdown != nil {
		out.Showdown = make([]ShowdownHand, len(r.Showdown))
		for i, s := range r.Showdown {
			s.Hole = s.Hole.Clone()
			s.Best = s.Best.Clone()
			out.Showdown[i] = s
		}
	}
	out.Pots = make([]PotRecord, len(r.Pots))
	for i, p := range r.Pots {
		out.Pots[i] = PotRecord{
			Amount:   p.Amount,
			Eligible: append([]int(nil), p.Eligible...),
			Winners:  append([]int(nil), p.Winners...),
			Shares:   append([]int64(nil), p.Shares...),
		}
	}
	out.Deck = r.Deck.Clone()
	return out
}
