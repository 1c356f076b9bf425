package card

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck_SameSeedSameOrder(t *testing.T) {
	a := NewDeck(42)
	b := NewDeck(42)
	assert.Equal(t, a.Order(), b.Order())

	c := NewDeck(43)
	assert.NotEqual(t, a.Order(), c.Order())
}

func TestNewDeck_IsPermutationOfFullDeck(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		order := NewDeck(seed).Order()
		require.Len(t, order, DeckSize)
		require.True(t, order.Unique(), "seed %d", seed)
	}
}

func TestDeck_DrawAndBurnExhaust(t *testing.T) {
	d := NewDeck(7)
	seen := make(map[Card]bool, DeckSize)
	for i := 0; i < DeckSize; i++ {
		var c Card
		if i%4 == 0 {
			require.NoError(t, d.Burn())
			burned := d.Burned()
			c = burned[len(burned)-1]
		} else {
			var err error
			c, err = d.Draw()
			require.NoError(t, err)
		}
		require.False(t, seen[c], "card %s drawn twice", c)
		seen[c] = true
	}
	assert.Equal(t, 0, d.Remaining())

	_, err := d.Draw()
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.True(t, errors.Is(d.Burn(), ErrDeckExhausted))
	assert.Len(t, d.Burned(), 13)
	assert.Len(t, d.Dealt(), 39)
}

func TestDeck_ShuffleRewinds(t *testing.T) {
	d := NewDeck(99)
	first := d.Order()
	_, err := d.DrawN(5)
	require.NoError(t, err)

	d.Shuffle()
	assert.Equal(t, DeckSize, d.Remaining())
	assert.Empty(t, d.Dealt())
	// the stream moved on, so the second shuffle is a different permutation
	assert.NotEqual(t, first, d.Order())
	assert.True(t, d.Order().Unique())
}

func TestNewDeckFromOrder(t *testing.T) {
	order := FullDeck()
	d, err := NewDeckFromOrder(order)
	require.NoError(t, err)
	c, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, CardSpade2, c)

	dup := FullDeck()
	dup[1] = dup[0]
	_, err = NewDeckFromOrder(dup)
	assert.True(t, errors.Is(err, ErrInvalidDeck))

	_, err = NewDeckFromOrder(order[:51])
	assert.True(t, errors.Is(err, ErrInvalidDeck))
}

func TestDeck_DrawNPastEnd(t *testing.T) {
	d := NewDeck(1)
	_, err := d.DrawN(50)
	require.NoError(t, err)
	_, err = d.DrawN(3)
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.Equal(t, 2, d.Remaining())
}
