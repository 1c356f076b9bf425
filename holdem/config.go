package holdem

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"holdem-hu/card"
)

// Config describes one hand.
type Config struct {
	// Seed drives the shuffle. The same seed always deals the same cards.
	Seed int64
	// Level is a blind level number in Schedule.
	Level int
	// Stacks are the chip counts of seat 0 and seat 1 at the start of the hand.
	Stacks [NumSeats]int64
	// PlayerIDs name the seats in the record; empty ids become "seat0"/"seat1".
	PlayerIDs [NumSeats]string
	// Button is the seat posting the small blind.
	Button int
	// HandID must match YYYYMMDD-NNNNNN, see HandIDSequencer.
	HandID string

	// Optional
	Schedule *Schedule        // nil => DefaultSchedule()
	Clock    func() time.Time // nil => time.Now; stamps the record, pin it for identical records
	Logger   *zerolog.Logger  // nil => no logging
	Deck     card.CardList    // scripted deal order (52 unique cards); overrides Seed
}

func (c Config) validate() (Level, error) {
	if c.Button < 0 || c.Button >= NumSeats {
		return Level{}, errors.Wrapf(ErrInvalidConfig, "button must be 0 or 1, got %d", c.Button)
	}
	for seat, stack := range c.Stacks {
		if stack <= 0 {
			return Level{}, errors.Wrapf(ErrInvalidConfig, "seat %d stack must be > 0, got %d", seat, stack)
		}
	}
	if !ValidHandID(c.HandID) {
		return Level{}, errors.Wrapf(ErrInvalidConfig, "malformed hand id %q", c.HandID)
	}
	if c.Deck != nil && (len(c.Deck) != card.DeckSize || !c.Deck.Unique()) {
		return Level{}, errors.Wrap(ErrInvalidConfig, "scripted deck must hold 52 unique cards")
	}
	schedule := c.Schedule
	if schedule == nil {
		schedule = DefaultSchedule()
	}
	return schedule.Level(c.Level)
}

func (c Config) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c Config) playerID(seat int) string {
	if c.PlayerIDs[seat] != "" {
		return c.PlayerIDs[seat]
	}
	return "seat" + itoa(int64(seat))
}
