package holdem

import (
	"sort"

	"github.com/pkg/errors"
)

// Pot is a pile of chips and the seats that can win it.
type Pot struct {
	Amount   int64
	Eligible []int // seat indices, ascending
}

func (p Pot) eligible(seat int) bool {
	for _, s := range p.Eligible {
		if s == seat {
			return true
		}
	}
	return false
}

// BuildPots splits the hand's contributions into a main pot and side pots.
//
// contrib[i] is everything seat i put in this hand; folded[i] marks seats
// that gave up their claim. There is one pot per distinct contribution
// level. A seat is eligible for a level when it has not folded and its
// contribution reaches the level. Neighbouring levels with the same
// eligible seats are merged. Chips at a level nobody can win are added to
// the pot below it.
func BuildPots(contrib []int64, folded []bool) []Pot {
	levels := make([]int64, 0, len(contrib))
	for _, c := range contrib {
		if c > 0 {
			levels = append(levels, c)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]Pot, 0, len(levels))
	var orphan int64
	prev := int64(0)
	for _, level := range levels {
		if level == prev {
			continue
		}

		var amount int64
		eligible := make([]int, 0, len(contrib))
		for seat, c := range contrib {
			amount += min64(c, level) - min64(c, prev)
			if !folded[seat] && c >= level {
				eligible = append(eligible, seat)
			}
		}
		prev = level

		switch {
		case len(eligible) == 0 && len(pots) > 0:
			pots[len(pots)-1].Amount += amount
		case len(eligible) == 0:
			orphan += amount
		case len(pots) > 0 && sameSeats(pots[len(pots)-1].Eligible, eligible):
			pots[len(pots)-1].Amount += amount + orphan
			orphan = 0
		default:
			pots = append(pots, Pot{Amount: amount + orphan, Eligible: eligible})
			orphan = 0
		}
	}
	if orphan > 0 {
		pots = append(pots, Pot{Amount: orphan})
	}
	return pots
}

func sameSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PotAward is the outcome of one pot.
type PotAward struct {
	Pot     Pot
	Winners []int   // in odd chip order
	Shares  []int64 // parallel to Winners
}

// DistributePots awards every pot on its own to the strongest eligible
// hand. ranks is indexed by seat; it is only consulted for pots with more
// than one eligible seat. Tied winners split evenly and the odd chips go
// out one at a time following order (seats starting left of the button).
func DistributePots(pots []Pot, ranks []HandRank, order []int) ([]PotAward, error) {
	position := make(map[int]int, len(order))
	for i, seat := range order {
		position[seat] = i
	}

	awards := make([]PotAward, 0, len(pots))
	var total, paid int64
	for i, pot := range pots {
		total += pot.Amount
		if len(pot.Eligible) == 0 {
			return nil, errors.Wrapf(ErrConservation, "pot %d (%d chips) has no eligible seat", i, pot.Amount)
		}

		winners := []int{pot.Eligible[0]}
		if len(pot.Eligible) > 1 {
			var err error
			winners, err = bestSeats(pot.Eligible, ranks)
			if err != nil {
				return nil, errors.Wrapf(err, "pot %d", i)
			}
		}
		sort.Slice(winners, func(a, b int) bool { return position[winners[a]] < position[winners[b]] })

		share := pot.Amount / int64(len(winners))
		odd := pot.Amount % int64(len(winners))
		award := PotAward{
			Pot:     Pot{Amount: pot.Amount, Eligible: append([]int(nil), pot.Eligible...)},
			Winners: winners,
			Shares:  make([]int64, len(winners)),
		}
		for w := range winners {
			award.Shares[w] = share
			if int64(w) < odd {
				award.Shares[w]++
			}
			paid += award.Shares[w]
		}
		awards = append(awards, award)
	}

	if paid != total {
		return nil, errors.Wrapf(ErrConservation, "awarded %d of %d", paid, total)
	}
	return awards, nil
}

func bestSeats(eligible []int, ranks []HandRank) ([]int, error) {
	var winners []int
	var best HandRank
	for _, seat := range eligible {
		if seat < 0 || seat >= len(ranks) || ranks[seat].Score == 0 {
			return nil, errors.Errorf("seat %d contests a pot without an evaluated hand", seat)
		}
		switch cmp := Compare(ranks[seat], best); {
		case winners == nil || cmp > 0:
			best = ranks[seat]
			winners = []int{seat}
		case cmp == 0:
			winners = append(winners, seat)
		}
	}
	return winners, nil
}

// PotTotal sums a set of pots.
func PotTotal(pots []Pot) int64 {
	var total int64
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
