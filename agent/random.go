package agent

import (
	"math/rand"

	"github.com/pkg/errors"
	"github.com/thoas/go-funk"

	"holdem-hu/holdem"
)

// Random picks uniformly among the legal actions with sizes drawn from the
// legal range. The same seed always makes the same choices for the same
// sequence of snapshots.
type Random struct {
	rng *rand.Rand
	// FoldWeight scales how often fold is considered, 0 never folds unless
	// it is the only choice. 1 treats it like any other action.
	FoldWeight float64
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed)), FoldWeight: 0.25}
}

func (r *Random) Decide(s holdem.Snapshot) (holdem.Action, error) {
	legal := s.Legal
	if len(legal.Actions) == 0 {
		return holdem.Action{}, errors.Errorf("no legal action on %s", s.Street)
	}

	choices := legal.Actions
	if r.rng.Float64() >= r.FoldWeight {
		nonFold := funk.Filter(legal.Actions, func(t holdem.ActionType) bool {
			return t != holdem.ActionFold
		}).([]holdem.ActionType)
		if len(nonFold) > 0 {
			choices = nonFold
		}
	}

	switch t := choices[r.rng.Intn(len(choices))]; t {
	case holdem.ActionFold:
		return holdem.Fold(), nil
	case holdem.ActionCheck:
		return holdem.Check(), nil
	case holdem.ActionCall:
		return holdem.Call(), nil
	case holdem.ActionBet:
		return holdem.Bet(between(r.rng, legal.MinBet, legal.AllInAmount)), nil
	case holdem.ActionRaise:
		return holdem.Raise(between(r.rng, legal.MinRaise, legal.MaxRaise)), nil
	case holdem.ActionAllIn:
		return holdem.AllIn(), nil
	default:
		return holdem.Action{}, errors.Errorf("unexpected legal action %s", t)
	}
}

func between(rng *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int63n(hi-lo+1)
}
