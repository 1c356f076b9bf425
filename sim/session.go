// Package sim plays sequences of heads-up hands: a session carries stacks
// from hand to hand with an alternating button, and a batch runs many
// independent sessions on a bounded set of workers.
package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"holdem-hu/holdem"
	"holdem-hu/logging"
)

// DefaultMaxHands bounds a session that sets no MaxHands.
const DefaultMaxHands = 1000

type SessionConfig struct {
	ID string
	// Seed derives every hand seed of the session.
	Seed      int64
	Level     int
	Stacks    [holdem.NumSeats]int64
	PlayerIDs [holdem.NumSeats]string
	// Button is the button of the first hand; it alternates afterwards.
	Button int
	Source holdem.ActionSource

	// Optional
	MaxHands      int              // 0 => DefaultMaxHands
	HandsPerLevel int              // 0 => blinds never go up
	StartSequence uint64           // first hand id sequence, 0 => 1
	Schedule      *holdem.Schedule // nil => holdem.DefaultSchedule()
	Clock         func() time.Time // nil => time.Now
	Logger        *zerolog.Logger  // nil => no logging
}

type SessionResult struct {
	ID      string
	Records []holdem.HandRecord
	// Stacks after the last completed hand.
	Stacks [holdem.NumSeats]int64
	// Busted is the seat that ran out of chips, or holdem.InvalidSeat.
	Busted int
}

// Hands is the number of completed hands.
func (r SessionResult) Hands() int { return len(r.Records) }

// RunSession plays hands until a stack reaches zero or MaxHands have been
// played. Cancelling ctx stops the session between hands; the hands played
// so far are returned together with the context error.
func RunSession(ctx context.Context, cfg SessionConfig) (SessionResult, error) {
	res := SessionResult{ID: cfg.ID, Stacks: cfg.Stacks, Busted: holdem.InvalidSeat}
	if cfg.Source == nil {
		return res, errors.Wrap(holdem.ErrInvalidConfig, "session needs an action source")
	}
	if cfg.Button < 0 || cfg.Button >= holdem.NumSeats {
		return res, errors.Wrapf(holdem.ErrInvalidConfig, "button must be 0 or 1, got %d", cfg.Button)
	}
	schedule := cfg.Schedule
	if schedule == nil {
		schedule = holdem.DefaultSchedule()
	}
	first, err := levelIndex(schedule, cfg.Level)
	if err != nil {
		return res, err
	}
	maxHands := cfg.MaxHands
	if maxHands <= 0 {
		maxHands = DefaultMaxHands
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	log := logger.With().Str(logging.SessionIDKey, cfg.ID).Logger()

	seeds := rand.New(rand.NewSource(cfg.Seed))
	ids := holdem.NewHandIDSequencer(cfg.StartSequence)
	log.Info().Int64("seed", cfg.Seed).Int("maxHands", maxHands).Msg("session started")

	for n := 0; n < maxHands; n++ {
		if err := ctx.Err(); err != nil {
			log.Info().Int("hands", n).Msg("session cancelled")
			return res, err
		}
		handID, err := ids.Next(clock())
		if err != nil {
			return res, err
		}
		level := schedule.Levels[first].Number
		if cfg.HandsPerLevel > 0 {
			level = schedule.Levels[min(first+n/cfg.HandsPerLevel, len(schedule.Levels)-1)].Number
		}

		h, _, err := holdem.StartHand(holdem.Config{
			Seed:      seeds.Int63(),
			Level:     level,
			Stacks:    res.Stacks,
			PlayerIDs: cfg.PlayerIDs,
			Button:    (cfg.Button + n) % holdem.NumSeats,
			HandID:    handID,
			Schedule:  schedule,
			Clock:     clock,
			Logger:    &log,
		})
		if err != nil {
			return res, errors.Wrapf(err, "session %s hand %s", cfg.ID, handID)
		}
		rec, err := h.PlayToCompletion(cfg.Source)
		if err != nil {
			return res, errors.Wrapf(err, "session %s hand %s", cfg.ID, handID)
		}

		res.Records = append(res.Records, rec)
		for _, p := range rec.Players {
			res.Stacks[p.Seat] = p.EndStack
			if p.EndStack == 0 {
				res.Busted = p.Seat
			}
		}
		if res.Busted != holdem.InvalidSeat {
			break
		}
	}

	log.Info().
		Int("hands", res.Hands()).
		Int("busted", res.Busted).
		Int64("stack0", res.Stacks[0]).
		Int64("stack1", res.Stacks[1]).
		Msg("session finished")
	return res, nil
}

// levelIndex finds the schedule position of blind level n.
func levelIndex(s *holdem.Schedule, n int) (int, error) {
	for i, l := range s.Levels {
		if l.Number == n {
			return i, nil
		}
	}
	return 0, errors.Wrapf(holdem.ErrInvalidConfig, "unknown blind level %d", n)
}
