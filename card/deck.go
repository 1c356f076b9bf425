package card

import (
	"math/rand"

	"github.com/pkg/errors"
)

var (
	ErrDeckExhausted = errors.New("deck exhausted")
	ErrInvalidDeck   = errors.New("invalid deck order")
)

// Deck is a 52 card shoe for a single hand. Each deck owns its random
// stream, so two decks built from the same seed deal identically.
type Deck struct {
	cards [DeckSize]Card
	next  int
	rng   *rand.Rand

	dealt  CardList
	burned CardList
}

// NewDeck returns a deck shuffled from seed.
func NewDeck(seed int64) *Deck {
	d := &Deck{rng: rand.New(rand.NewSource(seed))}
	d.Shuffle()
	return d
}

// NewDeckFromOrder returns an unshuffled deck that deals cards in the given
// order. The order must hold each of the 52 cards exactly once.
func NewDeckFromOrder(order []Card) (*Deck, error) {
	if len(order) != DeckSize {
		return nil, errors.Wrapf(ErrInvalidDeck, "need %d cards, got %d", DeckSize, len(order))
	}
	if !CardList(order).Unique() {
		return nil, errors.Wrap(ErrInvalidDeck, "duplicate or invalid card")
	}
	d := &Deck{}
	copy(d.cards[:], order)
	d.resetTrace()
	return d, nil
}

// Shuffle restores all 52 cards and permutes them with the deck's seeded
// stream (Fisher-Yates). A scripted deck is only rewound.
func (d *Deck) Shuffle() {
	d.resetTrace()
	if d.rng == nil {
		return
	}
	copy(d.cards[:], FullDeck())
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

func (d *Deck) resetTrace() {
	d.next = 0
	d.dealt = make(CardList, 0, 16)
	d.burned = make(CardList, 0, 3)
}

// Draw removes and returns the next card.
func (d *Deck) Draw() (Card, error) {
	c, err := d.pop()
	if err != nil {
		return CardInvalid, err
	}
	d.dealt = append(d.dealt, c)
	return c, nil
}

// DrawN draws n cards in order.
func (d *Deck) DrawN(n int) (CardList, error) {
	if d.next+n > DeckSize {
		return nil, errors.Wrapf(ErrDeckExhausted, "draw %d with %d left", n, d.Remaining())
	}
	out := make(CardList, 0, n)
	for i := 0; i < n; i++ {
		c, err := d.Draw()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Burn discards the next card face down.
func (d *Deck) Burn() error {
	c, err := d.pop()
	if err != nil {
		return err
	}
	d.burned = append(d.burned, c)
	return nil
}

func (d *Deck) pop() (Card, error) {
	if d.next >= DeckSize {
		return CardInvalid, errors.WithStack(ErrDeckExhausted)
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

func (d *Deck) Remaining() int { return DeckSize - d.next }

// Dealt returns the face-up cards drawn so far, in draw order.
func (d *Deck) Dealt() CardList { return d.dealt.Clone() }

// Burned returns the burn cards, in order.
func (d *Deck) Burned() CardList { return d.burned.Clone() }

// Order returns the full deck order of the current shuffle.
func (d *Deck) Order() CardList {
	out := make(CardList, DeckSize)
	copy(out, d.cards[:])
	return out
}
