package holdem

import "math/bits"

// Cactus-Kev equivalence classes: 1 is a royal flush, 7462 is 7-5-4-3-2
// offsuit. Each constant is the worst class of its category.
const (
	maxStraightFlush = 10
	maxFourOfAKind   = 166
	maxFullHouse     = 322
	maxFlush         = 1599
	maxStraight      = 1609
	maxThreeOfAKind  = 2467
	maxTwoPair       = 3325
	maxPair          = 6185
	maxHighCard      = 7462
)

// Prime per rank index (0 = deuce .. 12 = ace).
var primes = [13]uint32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

// Straights by rank bitmask, best first. The last one is the wheel.
var straightMasks = [10]uint16{
	0x1F00, // A K Q J T
	0x0F80,
	0x07C0,
	0x03E0,
	0x01F0,
	0x00F8,
	0x007C,
	0x003E,
	0x001F, // 6 5 4 3 2
	0x100F, // 5 4 3 2 A
}

var (
	// flushLookup and uniqueLookup are indexed by the 13 bit rank mask of a
	// five card hand with five distinct ranks.
	flushLookup  [1 << 13]uint16
	uniqueLookup [1 << 13]uint16
	// pairedLookup is keyed by the product of the rank primes.
	pairedLookup map[uint32]uint16
)

func init() {
	buildLookupTables()
}

func buildLookupTables() {
	pairedLookup = make(map[uint32]uint16, 4888)

	isStraight := func(mask uint16) bool {
		for _, s := range straightMasks {
			if s == mask {
				return true
			}
		}
		return false
	}

	// Five distinct ranks, strongest first. For equal popcount the numeric
	// order of the masks is the high-card order.
	highs := make([]uint16, 0, 1277)
	for m := 1<<13 - 1; m > 0; m-- {
		mask := uint16(m)
		if bits.OnesCount16(mask) == 5 && !isStraight(mask) {
			highs = append(highs, mask)
		}
	}

	for i, s := range straightMasks {
		flushLookup[s] = uint16(1 + i)
		uniqueLookup[s] = uint16(maxFlush + 1 + i)
	}
	for i, h := range highs {
		flushLookup[h] = uint16(maxFullHouse + 1 + i)
		uniqueLookup[h] = uint16(maxPair + 1 + i)
	}

	desc := [13]int{12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	without := func(skip ...int) []int {
		out := make([]int, 0, 13)
	next:
		for _, r := range desc {
			for _, s := range skip {
				if r == s {
					continue next
				}
			}
			out = append(out, r)
		}
		return out
	}

	rank := uint16(maxStraightFlush + 1)
	for _, q := range desc {
		for _, k := range without(q) {
			pairedLookup[pow(q, 4)*primes[k]] = rank
			rank++
		}
	}

	rank = maxFourOfAKind + 1
	for _, t := range desc {
		for _, p := range without(t) {
			pairedLookup[pow(t, 3)*pow(p, 2)] = rank
			rank++
		}
	}

	rank = maxStraight + 1
	for _, t := range desc {
		kickers := without(t)
		for i := 0; i < len(kickers)-1; i++ {
			for j := i + 1; j < len(kickers); j++ {
				pairedLookup[pow(t, 3)*primes[kickers[i]]*primes[kickers[j]]] = rank
				rank++
			}
		}
	}

	rank = maxThreeOfAKind + 1
	for i := 0; i < len(desc)-1; i++ {
		for j := i + 1; j < len(desc); j++ {
			hi, lo := desc[i], desc[j]
			for _, k := range without(hi, lo) {
				pairedLookup[pow(hi, 2)*pow(lo, 2)*primes[k]] = rank
				rank++
			}
		}
	}

	rank = maxTwoPair + 1
	for _, p := range desc {
		kickers := without(p)
		for i := 0; i < len(kickers)-2; i++ {
			for j := i + 1; j < len(kickers)-1; j++ {
				for k := j + 1; k < len(kickers); k++ {
					pairedLookup[pow(p, 2)*primes[kickers[i]]*primes[kickers[j]]*primes[kickers[k]]] = rank
					rank++
				}
			}
		}
	}
}

func pow(rankIdx int, n int) uint32 {
	out := uint32(1)
	for i := 0; i < n; i++ {
		out *= primes[rankIdx]
	}
	return out
}

func categoryOf(kev uint16) Category {
	switch {
	case kev <= maxStraightFlush:
		return StraightFlush
	case kev <= maxFourOfAKind:
		return FourOfAKind
	case kev <= maxFullHouse:
		return FullHouse
	case kev <= maxFlush:
		return Flush
	case kev <= maxStraight:
		return Straight
	case kev <= maxThreeOfAKind:
		return ThreeOfAKind
	case kev <= maxTwoPair:
		return TwoPair
	case kev <= maxPair:
		return OnePair
	default:
		return HighCard
	}
}
