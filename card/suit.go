package card

type Suit byte

const (
	Spade Suit = iota
	Heart
	Club
	Diamond
)

var Suits = [...]Suit{Spade, Heart, Club, Diamond}

func (s Suit) String() string {
	switch s {
	case Spade:
		return "s"
	case Heart:
		return "h"
	case Club:
		return "c"
	case Diamond:
		return "d"
	}
	return "?"
}

func suitFromChar(ch byte) (Suit, bool) {
	switch ch {
	case 's', 'S':
		return Spade, true
	case 'h', 'H':
		return Heart, true
	case 'c', 'C':
		return Club, true
	case 'd', 'D':
		return Diamond, true
	}
	return 0, false
}
