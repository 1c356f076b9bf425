package holdem

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-hu/card"
)

var testTime = time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testTime }

func testConfig(seed int64) Config {
	return Config{
		Seed:      seed,
		Level:     1,
		Stacks:    [NumSeats]int64{10000, 10000},
		PlayerIDs: [NumSeats]string{"alice", "bob"},
		Button:    0,
		HandID:    "20240309-000001",
		Clock:     fixedClock,
	}
}

// scriptedDeck puts the listed cards on top, the rest in FullDeck order.
// With the button on seat 0 the deal is: bb, sb, bb, sb, burn, flop x3,
// burn, turn, burn, river.
func scriptedDeck(t testing.TB, top string) card.CardList {
	t.Helper()
	head := card.MustParseList(top)
	out := append(card.CardList(nil), head...)
	for _, c := range card.FullDeck() {
		if !head.Contains(c) {
			out = append(out, c)
		}
	}
	require.True(t, out.Unique())
	return out
}

func start(t testing.TB, cfg Config) (*Hand, Snapshot) {
	t.Helper()
	h, snap, err := StartHand(cfg)
	require.NoError(t, err)
	return h, snap
}

func apply(t testing.TB, h *Hand, actions ...Action) Snapshot {
	t.Helper()
	var snap Snapshot
	for _, a := range actions {
		var err error
		snap, err = h.Apply(a)
		require.NoError(t, err, "applying %s", a)
	}
	return snap
}

type sourceFunc func(Snapshot) (Action, error)

func (f sourceFunc) Decide(s Snapshot) (Action, error) { return f(s) }

var passive = sourceFunc(func(s Snapshot) (Action, error) {
	if s.Legal.Allows(ActionCheck) {
		return Check(), nil
	}
	return Call(), nil
})

func randomSource(seed int64) ActionSource {
	rng := rand.New(rand.NewSource(seed))
	return sourceFunc(func(s Snapshot) (Action, error) {
		l := s.Legal
		if len(l.Actions) == 0 {
			return Action{}, errors.New("no legal action")
		}
		t := l.Actions[rng.Intn(len(l.Actions))]
		if t == ActionFold && rng.Intn(4) != 0 {
			t = l.Actions[len(l.Actions)-1]
		}
		switch t {
		case ActionBet:
			return Bet(l.MinBet + rng.Int63n(l.AllInAmount-l.MinBet+1)), nil
		case ActionRaise:
			return Raise(l.MinRaise + rng.Int63n(l.MaxRaise-l.MinRaise+1)), nil
		case ActionFold:
			return Fold(), nil
		case ActionCheck:
			return Check(), nil
		case ActionCall:
			return Call(), nil
		case ActionAllIn:
			return AllIn(), nil
		}
		return Action{}, errors.Errorf("unexpected action %s", t)
	})
}

func TestStartHandPostsBlinds(t *testing.T) {
	h, snap := start(t, testConfig(1))

	assert.Equal(t, StreetPreflop, snap.Street)
	assert.Equal(t, 0, snap.ToAct, "button acts first preflop")
	assert.Equal(t, int64(50), snap.Players[0].Blind)
	assert.Equal(t, int64(100), snap.Players[1].Blind)
	assert.Equal(t, int64(9950), snap.Players[0].Stack)
	assert.Equal(t, int64(9900), snap.Players[1].Stack)
	assert.Equal(t, int64(150), snap.Pot)
	assert.Equal(t, int64(100), snap.CurrentBet)
	assert.Empty(t, snap.Board)

	holes := append(snap.Players[0].Hole.Clone(), snap.Players[1].Hole...)
	assert.Len(t, holes, 4)
	assert.True(t, holes.Unique())

	want := LegalActions{
		Seat:        0,
		Actions:     []ActionType{ActionFold, ActionCall, ActionRaise, ActionAllIn},
		CallAmount:  50,
		MinRaise:    100,
		MaxRaise:    9900,
		AllInAmount: 9950,
	}
	if diff := cmp.Diff(want, h.Legal()); diff != "" {
		t.Fatalf("legal actions (-want +got):\n%s", diff)
	}
}

func TestStartHandDealsBigBlindFirst(t *testing.T) {
	cfg := testConfig(1)
	cfg.Deck = scriptedDeck(t, "2c 4c 3d 5d")
	_, snap := start(t, cfg)
	assert.Equal(t, "4c 5d", snap.Players[0].Hole.String())
	assert.Equal(t, "2c 3d", snap.Players[1].Hole.String())

	cfg.Button = 1
	_, snap = start(t, cfg)
	assert.Equal(t, "2c 3d", snap.Players[0].Hole.String())
	assert.Equal(t, "4c 5d", snap.Players[1].Hole.String())
	assert.Equal(t, 1, snap.ToAct)
}

func TestStartHandValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"button", func(c *Config) { c.Button = 2 }},
		{"zero stack", func(c *Config) { c.Stacks[1] = 0 }},
		{"hand id", func(c *Config) { c.HandID = "2024-1" }},
		{"hand id date", func(c *Config) { c.HandID = "20241399-000001" }},
		{"level", func(c *Config) { c.Level = 99 }},
		{"short deck", func(c *Config) { c.Deck = card.FullDeck()[:51] }},
		{"duplicate deck", func(c *Config) {
			d := card.FullDeck()
			d[1] = d[0]
			c.Deck = d
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(1)
			tt.mutate(&cfg)
			_, _, err := StartHand(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestRaiseBelowMinimumIsRejected(t *testing.T) {
	h, _ := start(t, testConfig(3))
	before := h.Snapshot()

	snap, err := h.Apply(Raise(30))
	require.ErrorIs(t, err, ErrBelowMinimumRaise)
	assert.Equal(t, Snapshot{}, snap)

	var ae *ActionError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 0, ae.Seat)
	assert.Equal(t, StreetPreflop, ae.Street)
	assert.False(t, IsFatal(err))

	if diff := cmp.Diff(before, h.Snapshot()); diff != "" {
		t.Fatalf("rejected raise changed state:\n%s", diff)
	}
	assert.Equal(t, 0, h.ToAct())
}

func TestMinRaiseFollowsLastFullRaise(t *testing.T) {
	h, _ := start(t, testConfig(3))

	snap := apply(t, h, Raise(200))
	assert.Equal(t, int64(300), snap.CurrentBet)
	assert.Equal(t, int64(200), snap.MinRaise)

	_, err := h.Apply(Raise(150))
	assert.ErrorIs(t, err, ErrBelowMinimumRaise)

	snap = apply(t, h, Raise(200))
	assert.Equal(t, int64(500), snap.CurrentBet)
	assert.Equal(t, 0, snap.ToAct)
	assert.Equal(t, int64(200), snap.Legal.MinRaise)
	assert.Equal(t, int64(200), snap.Legal.CallAmount)
}

func TestActionLegality(t *testing.T) {
	h, _ := start(t, testConfig(5))

	tests := []struct {
		action Action
		want   error
	}{
		{Check(), ErrInvalidAction},
		{Bet(200), ErrInvalidAction},
		{Raise(20000), ErrInsufficientStack},
		{Raise(0), ErrInvalidAction},
		{Action{Type: 42}, ErrInvalidAction},
	}
	for _, tt := range tests {
		_, err := h.Apply(tt.action)
		assert.ErrorIs(t, err, tt.want, tt.action.String())
	}

	// limp, big blind has the option
	snap := apply(t, h, Call())
	assert.Equal(t, 1, snap.ToAct)
	assert.Equal(t, []ActionType{ActionFold, ActionCheck, ActionRaise, ActionAllIn}, snap.Legal.Actions)
	_, err := h.Apply(Call())
	assert.ErrorIs(t, err, ErrInvalidAction)

	snap = apply(t, h, Check())
	require.Equal(t, StreetFlop, snap.Street)
	assert.Equal(t, 1, snap.ToAct, "big blind acts first after the flop")

	postflop := []struct {
		action Action
		want   error
	}{
		{Call(), ErrInvalidAction},
		{Raise(100), ErrInvalidAction},
		{Bet(50), ErrBelowMinimumRaise},
		{Bet(-5), ErrInvalidAction},
		{Bet(9901), ErrInsufficientStack},
	}
	for _, tt := range postflop {
		_, err := h.Apply(tt.action)
		assert.ErrorIs(t, err, tt.want, tt.action.String())
	}

	snap = apply(t, h, Bet(100))
	assert.Equal(t, 0, snap.ToAct)
	_, err = h.Apply(Check())
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, err = h.Apply(Bet(300))
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestStreetsRunToShowdown(t *testing.T) {
	cfg := testConfig(9)
	h, _ := start(t, cfg)

	want := []struct {
		street Street
		board  int
	}{
		{StreetFlop, 3},
		{StreetTurn, 4},
		{StreetRiver, 5},
	}
	snap := apply(t, h, Call(), Check())
	for _, w := range want {
		require.Equal(t, w.street, snap.Street)
		require.Len(t, snap.Board, w.board)
		require.Equal(t, 1, snap.ToAct)
		snap = apply(t, h, Check(), Check())
	}
	require.True(t, snap.Complete())
	assert.Equal(t, InvalidSeat, snap.ToAct)

	rec, err := h.Record()
	require.NoError(t, err)
	assert.Equal(t, TerminationShowdown, rec.Termination)
	assert.Len(t, rec.Board, 5)
	assert.Len(t, rec.Burns, 3)
	assert.Len(t, rec.Showdown, 2)
	assert.Len(t, rec.Actions, 8)
	assert.Equal(t, int64(0), rec.Players[0].Net+rec.Players[1].Net)

	seen := append(card.CardList(nil), rec.Burns...)
	seen = append(seen, rec.Board...)
	for _, p := range rec.Players {
		seen = append(seen, p.Hole...)
	}
	assert.Len(t, seen, 12)
	assert.True(t, seen.Unique())

	order := h.deck.Order()
	assert.Len(t, order, card.DeckSize)
	assert.True(t, order.Unique())
}

func TestFoldEndsHand(t *testing.T) {
	h, _ := start(t, testConfig(4))
	snap := apply(t, h, Fold())

	require.True(t, snap.Complete())
	assert.Equal(t, TerminationFold, snap.Termination)
	assert.Equal(t, int64(9950), snap.Players[0].Stack)
	assert.Equal(t, int64(10050), snap.Players[1].Stack)

	rec, err := h.Record()
	require.NoError(t, err)
	assert.Equal(t, []int64{-50, 50}, rec.NetResult())
	assert.Empty(t, rec.Board)
	assert.Empty(t, rec.Burns)
	assert.Nil(t, rec.Showdown)
	require.Len(t, rec.Pots, 1)
	assert.Equal(t, []int{1}, rec.Pots[0].Winners)
}

func TestActionAfterCompleteIsRejected(t *testing.T) {
	h, _ := start(t, testConfig(4))
	apply(t, h, Fold())

	for _, a := range []Action{Fold(), Check(), Call(), AllIn()} {
		_, err := h.Apply(a)
		assert.ErrorIs(t, err, ErrGameAlreadyFinished)
		assert.False(t, IsFatal(err))
	}
	assert.Equal(t, InvalidSeat, h.Legal().Seat)
	assert.Equal(t, InvalidSeat, h.ToAct())
}

func TestRecordBeforeComplete(t *testing.T) {
	h, _ := start(t, testConfig(4))
	_, err := h.Record()
	assert.ErrorIs(t, err, ErrHandInProgress)
}

func TestShortAllInDoesNotReopenBetting(t *testing.T) {
	cfg := testConfig(6)
	cfg.Stacks = [NumSeats]int64{10000, 180}
	h, _ := start(t, cfg)

	apply(t, h, Call())
	snap := apply(t, h, AllIn())
	require.Equal(t, 0, snap.ToAct)
	require.True(t, snap.Players[1].AllIn)
	assert.Equal(t, int64(180), snap.CurrentBet)
	assert.Equal(t, int64(100), snap.MinRaise, "a short all-in does not change the minimum raise")

	assert.Equal(t, []ActionType{ActionFold, ActionCall}, snap.Legal.Actions)
	assert.Equal(t, int64(80), snap.Legal.CallAmount)

	_, err := h.Apply(Raise(100))
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, err = h.Apply(AllIn())
	assert.ErrorIs(t, err, ErrInvalidAction)

	snap = apply(t, h, Call())
	require.True(t, snap.Complete())

	rec, err := h.Record()
	require.NoError(t, err)
	assert.Equal(t, TerminationAllIn, rec.Termination)
	assert.Len(t, rec.Board, 5)
	assert.Len(t, rec.Burns, 3)
	assert.Equal(t, int64(10180), rec.Players[0].EndStack+rec.Players[1].EndStack)
}

func TestFullRaiseReopensBetting(t *testing.T) {
	h, _ := start(t, testConfig(6))
	apply(t, h, Call())
	snap := apply(t, h, Raise(100))
	assert.Equal(t, 0, snap.ToAct)
	assert.True(t, snap.Legal.Allows(ActionRaise))
	snap = apply(t, h, Raise(100))
	assert.Equal(t, int64(300), snap.CurrentBet)
}

func TestUnequalAllInsBuildSidePot(t *testing.T) {
	cfg := testConfig(42)
	cfg.Stacks = [NumSeats]int64{5000, 3000}
	h, _ := start(t, cfg)

	apply(t, h, AllIn())
	snap := apply(t, h, AllIn())
	require.True(t, snap.Complete())

	rec, err := h.Record()
	require.NoError(t, err)
	assert.Equal(t, TerminationAllIn, rec.Termination)
	assert.Len(t, rec.Board, 5)
	assert.Len(t, rec.Burns, 3)
	assert.Len(t, rec.Showdown, 2)

	require.Len(t, rec.Pots, 2)
	main, side := rec.Pots[0], rec.Pots[1]
	assert.Equal(t, int64(6000), main.Amount)
	assert.Equal(t, []int{0, 1}, main.Eligible)
	assert.Equal(t, int64(2000), side.Amount)
	assert.Equal(t, []int{0}, side.Eligible)
	assert.Equal(t, []int{0}, side.Winners)
	assert.Equal(t, []int64{2000}, side.Shares)

	var awarded int64
	for _, p := range rec.Pots {
		for _, s := range p.Shares {
			awarded += s
		}
	}
	assert.Equal(t, int64(8000), awarded)
	assert.Equal(t, int64(8000), rec.Players[0].EndStack+rec.Players[1].EndStack)
	assert.Equal(t, int64(0), rec.Players[0].Net+rec.Players[1].Net)

	last := rec.Actions[len(rec.Actions)-1]
	assert.Equal(t, ActionAllIn, last.Type)
	assert.Equal(t, int64(2900), last.Added)
	assert.True(t, last.AllIn)
}

func TestBlindAllInEndsHandAtStart(t *testing.T) {
	cfg := testConfig(8)
	cfg.Stacks = [NumSeats]int64{10000, 30}
	h, snap := start(t, cfg)

	require.True(t, snap.Complete(), "no one can act after a blind all in")
	rec, err := h.Record()
	require.NoError(t, err)
	assert.Empty(t, rec.Actions)
	assert.Equal(t, TerminationAllIn, rec.Termination)
	assert.Len(t, rec.Board, 5)
	require.Len(t, rec.Pots, 2)
	assert.Equal(t, PotRecord{Amount: 20, Eligible: []int{0}, Winners: []int{0}, Shares: []int64{20}}, rec.Pots[1])
	assert.Equal(t, int64(10030), rec.Players[0].EndStack+rec.Players[1].EndStack)
}

func TestBigBlindAllInLeavesCallOrFold(t *testing.T) {
	cfg := testConfig(8)
	cfg.Stacks = [NumSeats]int64{10000, 100}
	_, snap := start(t, cfg)

	require.Equal(t, StreetPreflop, snap.Street)
	assert.Equal(t, []ActionType{ActionFold, ActionCall}, snap.Legal.Actions)
}

func TestSplitPot(t *testing.T) {
	cfg := testConfig(1)
	cfg.Deck = scriptedDeck(t, "2c 4c 3d 5d 6s Ah Kh Qs 7s Jd 8s Tc")
	h, _ := start(t, cfg)

	apply(t, h, Call(), Check(), Bet(200), Call(), Check(), Check(), Check(), Check())
	rec, err := h.Record()
	require.NoError(t, err)

	assert.Equal(t, "Ah Kh Qs Jd Tc", rec.Board.String())
	assert.Equal(t, "6s 7s 8s", rec.Burns.String())
	require.Len(t, rec.Showdown, 2)
	assert.Equal(t, Straight, rec.Showdown[0].Category)
	assert.Equal(t, rec.Showdown[0].Score, rec.Showdown[1].Score)
	assert.Equal(t, []int64{0, 0}, rec.NetResult())
	require.Len(t, rec.Pots, 1)
	assert.Equal(t, []int{1, 0}, rec.Pots[0].Winners, "seat left of the button is paid first")
	assert.Equal(t, []int64{300, 300}, rec.Pots[0].Shares)
	assert.Equal(t, cfg.Deck, rec.Deck)
}

func TestShowdownWinnerTakesPot(t *testing.T) {
	cfg := testConfig(1)
	// seat 1 holds aces, seat 0 kings
	cfg.Deck = scriptedDeck(t, "Ac Kc Ad Kd 2s 7h 8s 3c 3s 9d 4s Jh")
	h, _ := start(t, cfg)

	apply(t, h, Raise(200), Call(), Bet(300), Call(), Check(), Check(), Check(), Check())
	rec, err := h.Record()
	require.NoError(t, err)
	assert.Equal(t, []int64{-600, 600}, rec.NetResult())
	assert.Equal(t, OnePair, rec.Showdown[1].Category)
	assert.Equal(t, "Ac Ad", rec.Players[1].Hole.String())
}

func TestSameSeedSameRecord(t *testing.T) {
	play := func() HandRecord {
		h, _ := start(t, testConfig(77))
		rec, err := h.PlayToCompletion(randomSource(5))
		require.NoError(t, err)
		return rec
	}
	a, b := play(), play()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("records differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, DealID("20240309-000001", 77, 1), a.DealID)
	assert.Equal(t, testTime, a.Timestamp)

	h, _ := start(t, testConfig(78))
	other, err := h.PlayToCompletion(passive)
	require.NoError(t, err)
	assert.NotEqual(t, a.Players[0].Hole, other.Players[0].Hole)
}

func TestChipConservationAcrossSeeds(t *testing.T) {
	for seed := int64(1); seed <= 300; seed++ {
		cfg := testConfig(seed)
		cfg.Button = int(seed % 2)
		cfg.Stacks = [NumSeats]int64{500 + seed*37%4000, 800 + seed*53%6000}
		total := cfg.Stacks[0] + cfg.Stacks[1]

		h, snap := start(t, cfg)
		src := randomSource(seed)
		for !snap.Complete() {
			var sum int64
			for _, p := range snap.Players {
				require.GreaterOrEqual(t, p.Stack, int64(0))
				sum += p.Stack + p.Committed
			}
			require.Equal(t, total, sum, "seed %d", seed)
			a, err := src.Decide(snap)
			require.NoError(t, err)
			snap, err = h.Apply(a)
			require.NoError(t, err, "seed %d action %s", seed, a)
		}

		rec, err := h.Record()
		require.NoError(t, err)
		require.Equal(t, total, rec.Players[0].EndStack+rec.Players[1].EndStack, "seed %d", seed)

		var awarded int64
		for _, p := range rec.Pots {
			require.Len(t, p.Shares, len(p.Winners))
			for _, s := range p.Shares {
				awarded += s
			}
		}
		committed := rec.Players[0].Blind + rec.Players[1].Blind
		for _, a := range rec.Actions {
			committed += a.Added
		}
		require.Equal(t, committed, awarded, "seed %d", seed)
		require.Equal(t, int64(0), rec.Players[0].Net+rec.Players[1].Net)

		switch rec.Termination {
		case TerminationFold:
			require.Nil(t, rec.Showdown)
		case TerminationShowdown, TerminationAllIn:
			require.Len(t, rec.Board, 5)
			require.Len(t, rec.Burns, 3)
			require.Len(t, rec.Showdown, 2)
		default:
			t.Fatalf("seed %d: termination %s", seed, rec.Termination)
		}
		require.Len(t, rec.Burns, burnsFor(len(rec.Board)))
	}
}

func burnsFor(board int) int {
	switch board {
	case 3:
		return 1
	case 4:
		return 2
	case 5:
		return 3
	}
	return 0
}

func TestZeroStackStopsBetting(t *testing.T) {
	for seed := int64(1); seed <= 100; seed++ {
		h, _ := start(t, testConfig(seed))
		snap := apply(t, h, AllIn())
		if snap.Complete() {
			continue
		}
		snap = apply(t, h, Call())
		require.True(t, snap.Complete())
		rec, err := h.Record()
		require.NoError(t, err)
		for _, a := range rec.Actions {
			require.Equal(t, StreetPreflop, a.Street, "no betting after an all in is called")
		}
	}
}

func TestFatalErrorIsSticky(t *testing.T) {
	h, _ := start(t, testConfig(2))
	h.seats[0].stack += 7

	_, err := h.Apply(Call())
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, ErrConservation)

	_, again := h.Apply(Fold())
	assert.Equal(t, err, again)
	_, recErr := h.Record()
	assert.Equal(t, err, recErr)
	_, playErr := h.PlayToCompletion(passive)
	assert.Equal(t, err, playErr)
	assert.Contains(t, errors.Cause(err).Error(), "chip conservation")
}

func TestRecordIsACopy(t *testing.T) {
	h, _ := start(t, testConfig(12))
	rec, err := h.PlayToCompletion(passive)
	require.NoError(t, err)

	rec.Board[0] = card.CardInvalid
	rec.Players[0].Hole[0] = card.CardInvalid
	rec.Actions[0].Added = -1
	rec.Pots[0].Shares[0] = -1

	again, err := h.Record()
	require.NoError(t, err)
	assert.True(t, again.Board[0].Valid())
	assert.True(t, again.Players[0].Hole[0].Valid())
	assert.NotEqual(t, int64(-1), again.Actions[0].Added)
	assert.NotEqual(t, int64(-1), again.Pots[0].Shares[0])
}

func TestSourceErrorStopsPlay(t *testing.T) {
	h, _ := start(t, testConfig(12))
	boom := errors.New("boom")
	_, err := h.PlayToCompletion(sourceFunc(func(Snapshot) (Action, error) { return Action{}, boom }))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StreetPreflop, h.Street())

	_, err = h.PlayToCompletion(sourceFunc(func(Snapshot) (Action, error) { return Check(), nil }))
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.False(t, IsFatal(err))
}

func TestHandLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	cfg := testConfig(3)
	cfg.Logger = &logger

	h, _ := start(t, cfg)
	_, err := h.Apply(Raise(1))
	require.Error(t, err)
	apply(t, h, Fold())
	_, err = h.Apply(Check())
	require.ErrorIs(t, err, ErrGameAlreadyFinished)

	out := buf.String()
	assert.Contains(t, out, `"handID":"20240309-000001"`)
	assert.Contains(t, out, `"dealID":"`+DealID(cfg.HandID, cfg.Seed, 1).String()+`"`)
	assert.Contains(t, out, `"playerID":"alice"`)
	assert.Contains(t, out, "hand started")
	assert.Contains(t, out, "action rejected")
	assert.Contains(t, out, "action applied")
	assert.Contains(t, out, "hand complete")
}
