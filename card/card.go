package card

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Card is a single playing card packed into one byte.
//
// Encoding:
//   - high 4 bits: suit (0:Spade, 1:Heart, 2:Club, 3:Diamond)
//   - low 4 bits: rank (2..9, 10:T, 11:J, 12:Q, 13:K, 14:A)
type Card byte

// Rank is the face value of a card, Ace high.
type Rank byte

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

const rankChars = "23456789TJQKA"

var ErrInvalidCard = errors.New("invalid card")

// New builds a card from rank and suit. It does not validate.
func New(r Rank, s Suit) Card {
	return Card(byte(s)<<4 | byte(r))
}

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

// Rank returns 2..14, or 0 for an invalid card.
func (c Card) Rank() Rank {
	if !c.Valid() {
		return 0
	}
	return Rank(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// Index maps the card to 0..51 (suit-major). Invalid cards map to -1.
func (c Card) Index() int {
	if !c.Valid() {
		return -1
	}
	return int(c.Suit())*13 + int(c.Rank()-Two)
}

func (c Card) Valid() bool {
	r := Rank(c & 0x0F)
	return c != CardInvalid && r >= Two && r <= Ace && c.Suit() <= Diamond
}

func (c Card) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return c.Rank().String() + c.Suit().String()
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Wrapf(ErrInvalidCard, "marshal 0x%02x", byte(c))
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse converts strings like "As", "Td" or "10h" into a Card.
func Parse(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return CardInvalid, errors.Wrapf(ErrInvalidCard, "%q", s)
	}

	suit, ok := suitFromChar(s[len(s)-1])
	if !ok {
		return CardInvalid, errors.Wrapf(ErrInvalidCard, "suit %q", s[len(s)-1])
	}

	rankStr := strings.ToUpper(s[:len(s)-1])
	if rankStr == "10" {
		rankStr = "T"
	}
	if len(rankStr) != 1 {
		return CardInvalid, errors.Wrapf(ErrInvalidCard, "rank %q", rankStr)
	}
	idx := strings.IndexByte(rankChars, rankStr[0])
	if idx < 0 {
		return CardInvalid, errors.Wrapf(ErrInvalidCard, "rank %q", rankStr)
	}
	return New(Two+Rank(idx), suit), nil
}

// MustParse is Parse for literals in tests and tables.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("card.MustParse(%q): %v", s, err))
	}
	return c
}

// ParseList parses a space separated list such as "As Kd 7h".
func ParseList(s string) (CardList, error) {
	fields := strings.Fields(s)
	out := make(CardList, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MustParseList is ParseList for literals known to be valid.
func MustParseList(s string) CardList {
	cards, err := ParseList(s)
	if err != nil {
		panic(fmt.Sprintf("card.MustParseList(%q): %v", s, err))
	}
	return cards
}
