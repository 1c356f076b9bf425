package card

import "strings"

type CardList []Card

// Count returns the number of cards in the list.
func (ds CardList) Count() int {
	return len(ds)
}

func (ds CardList) Contains(c Card) bool {
	for _, cc := range ds {
		if cc == c {
			return true
		}
	}
	return false
}

// Bytes returns the raw card encoding, one byte per card.
func (ds CardList) Bytes() []byte {
	out := make([]byte, 0, len(ds))
	for _, c := range ds {
		out = append(out, byte(c))
	}
	return out
}

// FromBytes is the inverse of Bytes.
func FromBytes(b []byte) CardList {
	out := make(CardList, 0, len(b))
	for _, v := range b {
		out = append(out, Card(v))
	}
	return out
}

func (ds CardList) Clone() CardList {
	if ds == nil {
		return nil
	}
	out := make(CardList, len(ds))
	copy(out, ds)
	return out
}

// Unique reports whether every card is valid and appears once.
func (ds CardList) Unique() bool {
	var seen uint64
	for _, c := range ds {
		idx := c.Index()
		if idx < 0 {
			return false
		}
		bit := uint64(1) << uint(idx)
		if seen&bit != 0 {
			return false
		}
		seen |= bit
	}
	return true
}

func (ds CardList) String() string {
	parts := make([]string, len(ds))
	for i, c := range ds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// MarshalText writes the list in its String form, so encoders do not treat
// it as raw bytes.
func (ds CardList) MarshalText() ([]byte, error) {
	return []byte(ds.String()), nil
}

func (ds *CardList) UnmarshalText(text []byte) error {
	cards, err := ParseList(string(text))
	if err != nil {
		return err
	}
	*ds = cards
	return nil
}
