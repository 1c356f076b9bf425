package card

const CardInvalid Card = 0

// Spades
const (
	CardSpade2 Card = iota + 0x02
	CardSpade3
	CardSpade4
	CardSpade5
	CardSpade6
	CardSpade7
	CardSpade8
	CardSpade9
	CardSpadeT
	CardSpadeJ
	CardSpadeQ
	CardSpadeK
	CardSpadeA
)

// Hearts
const (
	CardHeart2 Card = iota + 0x12
	CardHeart3
	CardHeart4
	CardHeart5
	CardHeart6
	CardHeart7
	CardHeart8
	CardHeart9
	CardHeartT
	CardHeartJ
	CardHeartQ
	CardHeartK
	CardHeartA
)

// Clubs
const (
	CardClub2 Card = iota + 0x22
	CardClub3
	CardClub4
	CardClub5
	CardClub6
	CardClub7
	CardClub8
	CardClub9
	CardClubT
	CardClubJ
	CardClubQ
	CardClubK
	CardClubA
)

// Diamonds
const (
	CardDiamond2 Card = iota + 0x32
	CardDiamond3
	CardDiamond4
	CardDiamond5
	CardDiamond6
	CardDiamond7
	CardDiamond8
	CardDiamond9
	CardDiamondT
	CardDiamondJ
	CardDiamondQ
	CardDiamondK
	CardDiamondA
)

// FullDeck returns the 52 cards in suit-major, rank-ascending order.
func FullDeck() CardList {
	out := make(CardList, 0, DeckSize)
	for _, s := range Suits {
		for r := Two; r <= Ace; r++ {
			out = append(out, New(r, s))
		}
	}
	return out
}

const DeckSize = 52
