package agent

import (
	"math/rand"

	"holdem-hu/holdem"
)

// Profile tunes a Rule player. Every field is in [0, 1].
type Profile struct {
	Aggression float64
	Tightness  float64
	Bluffing   float64
	Randomness float64
}

var (
	Calling = Profile{Aggression: 0.2, Tightness: 0.2, Bluffing: 0.1}
	Solid   = Profile{Aggression: 0.5, Tightness: 0.55, Bluffing: 0.2, Randomness: 0.2}
	Maniac  = Profile{Aggression: 0.9, Tightness: 0.1, Bluffing: 0.6, Randomness: 0.4}
)

// Rule plays a fixed heuristic: hole card strength preflop, made hand
// category after the flop, shaded by the profile and a seeded noise stream.
// It never submits an illegal action.
type Rule struct {
	profile Profile
	rng     *rand.Rand
}

func NewRule(profile Profile, seed int64) *Rule {
	return &Rule{profile: profile, rng: rand.New(rand.NewSource(seed))}
}

func (b *Rule) Decide(s holdem.Snapshot) (holdem.Action, error) {
	p := b.profile
	aggression := clamp01(p.Aggression + (b.rng.Float64()-0.5)*p.Randomness*0.4)
	tightness := clamp01(p.Tightness + (b.rng.Float64()-0.5)*p.Randomness*0.3)

	legal := s.Legal
	if len(legal.Actions) == 0 {
		return Passive{}.Decide(s)
	}
	strength := b.strength(s)

	if s.Street == holdem.StreetPreflop && strength < tightness*0.6 && allows(legal, holdem.ActionFold) {
		if allows(legal, holdem.ActionCheck) {
			return holdem.Check(), nil
		}
		return holdem.Fold(), nil
	}

	aggressive := strength > 1.0-aggression*0.5
	bluff := !aggressive && b.rng.Float64() < p.Bluffing*0.3
	if aggressive || bluff {
		size := aggression
		if bluff {
			size = 0.4
		}
		if allows(legal, holdem.ActionRaise) {
			return holdem.Raise(b.raiseSize(s, size)), nil
		}
		if allows(legal, holdem.ActionBet) {
			return holdem.Bet(b.betSize(s, size)), nil
		}
	}

	if allows(legal, holdem.ActionCheck) {
		return holdem.Check(), nil
	}
	if allows(legal, holdem.ActionCall) {
		if strength > tightness*0.4 || b.rng.Float64() < (1.0-tightness)*0.5 {
			return holdem.Call(), nil
		}
		return holdem.Fold(), nil
	}
	if allows(legal, holdem.ActionAllIn) && (strength > 0.6 || b.rng.Float64() < aggression*0.2) {
		return holdem.AllIn(), nil
	}
	return holdem.Fold(), nil
}

// strength is a 0..1 estimate: hole cards preflop, made hand afterwards.
func (b *Rule) strength(s holdem.Snapshot) float64 {
	me := s.Players[s.ToAct]
	if len(me.Hole) < 2 {
		return 0.3
	}
	if len(s.Board) >= 3 {
		if rank, err := holdem.Evaluate(me.Hole, s.Board); err == nil {
			return clamp01(float64(rank.Category)/9.0 + float64(rank.Score%800)/8000.0)
		}
	}

	c0, c1 := me.Hole[0], me.Hole[1]
	r0, r1 := int(c0.Rank()), int(c1.Rank())
	strength := float64(r0+r1) / 28.0
	if r0 == r1 {
		strength += 0.25
	}
	if c0.Suit() == c1.Suit() {
		strength += 0.05
	}
	gap := r0 - r1
	if gap < 0 {
		gap = -gap
	}
	if gap <= 2 {
		strength += 0.05
	}
	return clamp01(strength)
}

// betSize is a third of the pot up to the full pot.
func (b *Rule) betSize(s holdem.Snapshot, aggression float64) int64 {
	bet := int64(float64(s.Pot) * (0.33 + aggression*0.67))
	return clamp(bet, s.Legal.MinBet, s.Legal.AllInAmount)
}

// raiseSize is the increment for a raise to 2x..3.5x the current bet.
func (b *Rule) raiseSize(s holdem.Snapshot, aggression float64) int64 {
	to := int64(float64(s.CurrentBet) * (2.0 + aggression*1.5))
	return clamp(to-s.CurrentBet, s.Legal.MinRaise, s.Legal.MaxRaise)
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
