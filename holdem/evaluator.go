package holdem

import (
	"github.com/pkg/errors"

	"holdem-hu/card"
)

// HandRank is the value of a player's best five cards. It is a plain value:
// evaluating the same cards always yields an identical HandRank.
type HandRank struct {
	Score    uint16 // 1..7462, larger is stronger
	Category Category
	Best     [5]card.Card // ordered by rank, then suit
}

// Compare orders two ranks: 1 if a is stronger, -1 if b is, 0 on a tie.
func Compare(a, b HandRank) int {
	switch {
	case a.Score > b.Score:
		return 1
	case a.Score < b.Score:
		return -1
	default:
		return 0
	}
}

func (r HandRank) Beats(o HandRank) bool { return Compare(r, o) > 0 }

func (r HandRank) String() string {
	return r.Category.String() + " " + card.CardList(r.Best[:]).String()
}

// Evaluate returns the best five card hand from the hole cards and board
// (five to seven cards total).
func Evaluate(hole, board []card.Card) (HandRank, error) {
	n := len(hole) + len(board)
	if n < 5 {
		return HandRank{}, errors.Wrapf(ErrNotEnoughCards, "got %d", n)
	}
	if n > 7 {
		return HandRank{}, errors.Errorf("at most seven cards can be evaluated, got %d", n)
	}

	var cards [7]card.Card
	copy(cards[:], hole)
	copy(cards[len(hole):], board)

	var seen uint64
	for i := 0; i < n; i++ {
		idx := cards[i].Index()
		if idx < 0 {
			return HandRank{}, errors.Wrapf(card.ErrInvalidCard, "0x%02x", byte(cards[i]))
		}
		if seen&(1<<uint(idx)) != 0 {
			return HandRank{}, errors.Errorf("duplicate card %s", cards[i])
		}
		seen |= 1 << uint(idx)
	}

	canonicalOrder(&cards, n)
	return bestOfN(&cards, n), nil
}

// canonicalOrder sorts the first n cards by rank descending, suit ascending,
// so the combination search does not depend on input order.
func canonicalOrder(cards *[7]card.Card, n int) {
	for i := 1; i < n; i++ {
		c := cards[i]
		j := i - 1
		for ; j >= 0 && cardBefore(c, cards[j]); j-- {
			cards[j+1] = cards[j]
		}
		cards[j+1] = c
	}
}

func cardBefore(a, b card.Card) bool {
	if a.Rank() != b.Rank() {
		return a.Rank() > b.Rank()
	}
	return a.Suit() < b.Suit()
}

// bestOfN walks every five card subset in lexicographic index order and
// keeps the first one with the best class.
func bestOfN(cards *[7]card.Card, n int) HandRank {
	best := uint16(0)
	var bestIdx [5]int
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						kev := eval5(cards[a], cards[b], cards[c], cards[d], cards[e])
						if best == 0 || kev < best {
							best = kev
							bestIdx = [5]int{a, b, c, d, e}
						}
					}
				}
			}
		}
	}

	out := HandRank{
		Score:    maxHighCard + 1 - best,
		Category: categoryOf(best),
	}
	for i, idx := range bestIdx {
		out.Best[i] = cards[idx]
	}
	return out
}

// eval5 returns the Cactus-Kev class of five distinct cards (1 is best).
func eval5(a, b, c, d, e card.Card) uint16 {
	ra, rb, rc, rd, re := rankIdx(a), rankIdx(b), rankIdx(c), rankIdx(d), rankIdx(e)
	mask := uint16(1)<<ra | uint16(1)<<rb | uint16(1)<<rc | uint16(1)<<rd | uint16(1)<<re

	s := a.Suit()
	if b.Suit() == s && c.Suit() == s && d.Suit() == s && e.Suit() == s {
		return flushLookup[mask]
	}
	if v := uniqueLookup[mask]; v != 0 {
		return v
	}
	return pairedLookup[primes[ra]*primes[rb]*primes[rc]*primes[rd]*primes[re]]
}

func rankIdx(c card.Card) uint {
	return uint(c.Rank() - card.Two)
}
