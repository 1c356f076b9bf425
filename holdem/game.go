package holdem

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"holdem-hu/card"
	"holdem-hu/logging"
)

// ActionSource supplies the decision for the player to act.
type ActionSource interface {
	Decide(s Snapshot) (Action, error)
}

// Hand is the mutable state of one heads-up hand. It is not safe for
// concurrent use; independent hands share nothing and may run in parallel.
type Hand struct {
	cfg   Config
	level Level
	log   zerolog.Logger

	deck   *card.Deck
	seats  [NumSeats]seat
	button int
	total  int64 // chips in play, constant for the whole hand

	street   Street
	toAct    int
	curBet   int64
	minRaise int64 // smallest legal raise increment on this street
	board    card.CardList

	trace       trace
	termination Termination
	startedAt   time.Time

	record *HandRecord
	fatal  error
}

// StartHand shuffles, deals the hole cards and posts the blinds. The
// returned snapshot shows the first decision.
func StartHand(cfg Config) (*Hand, Snapshot, error) {
	level, err := cfg.validate()
	if err != nil {
		return nil, Snapshot{}, err
	}

	var deck *card.Deck
	if cfg.Deck != nil {
		if deck, err = card.NewDeckFromOrder(cfg.Deck); err != nil {
			return nil, Snapshot{}, errors.Wrap(ErrInvalidConfig, err.Error())
		}
	} else {
		deck = card.NewDeck(cfg.Seed)
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	h := &Hand{
		cfg:       cfg,
		level:     level,
		deck:      deck,
		button:    cfg.Button,
		street:    StreetPreflop,
		toAct:     cfg.Button,
		minRaise:  level.BigBlind,
		startedAt: cfg.now().UTC().Round(0),
	}
	h.log = logger.With().
		Str(logging.HandIDKey, cfg.HandID).
		Str(logging.DealIDKey, DealID(cfg.HandID, cfg.Seed, level.Number).String()).
		Logger()
	for i := range h.seats {
		h.seats[i] = seat{
			id:         cfg.playerID(i),
			startStack: cfg.Stacks[i],
			stack:      cfg.Stacks[i],
			pending:    true,
			canRaise:   true,
		}
		h.total += cfg.Stacks[i]
	}

	if err := h.dealHoleCards(); err != nil {
		return nil, Snapshot{}, h.halt(err)
	}
	h.postBlinds()

	h.log.Info().
		Int64("seed", cfg.Seed).
		Int("level", level.Number).
		Int("button", h.button).
		Int64("stack0", cfg.Stacks[0]).
		Int64("stack1", cfg.Stacks[1]).
		Msg("hand started")

	if h.streetClosed() {
		if err := h.advance(); err != nil {
			return nil, Snapshot{}, h.halt(err)
		}
	}
	return h, h.Snapshot(), nil
}

func (h *Hand) playerAt(seat int) string {
	if seat < 0 || seat >= NumSeats {
		return ""
	}
	return h.seats[seat].id
}

func (h *Hand) bigBlindSeat() int { return other(h.button) }

func other(seat int) int { return 1 - seat }

// Cards go out one at a time starting with the big blind.
func (h *Hand) dealHoleCards() error {
	for round := 0; round < 2; round++ {
		for i := 0; i < NumSeats; i++ {
			s := (h.bigBlindSeat() + i) % NumSeats
			c, err := h.deck.Draw()
			if err != nil {
				return invariant(h.cfg.HandID, err, "dealing hole card %d to seat %d", round, s)
			}
			h.seats[s].hole[round] = c
		}
	}
	return nil
}

// Blinds bigger than a stack are posted all in.
func (h *Hand) postBlinds() {
	sb, bb := &h.seats[h.button], &h.seats[h.bigBlindSeat()]
	sb.blind = min64(h.level.SmallBlind, sb.stack)
	bb.blind = min64(h.level.BigBlind, bb.stack)
	sb.commit(sb.blind)
	bb.commit(bb.blind)
	h.curBet = max64(sb.streetBet, bb.streetBet)
	for i := range h.seats {
		h.seats[i].pending = h.seats[i].live()
	}
}

// Apply validates a and applies it for the player to act. A rejected action
// leaves the hand untouched. Once a fatal error has occurred every call
// returns it.
func (h *Hand) Apply(a Action) (Snapshot, error) {
	if h.fatal != nil {
		return Snapshot{}, h.fatal
	}
	m, err := h.plan(a)
	if err != nil {
		h.log.Debug().
			Int(logging.SeatKey, h.toAct).
			Str(logging.PlayerIDKey, h.playerAt(h.toAct)).
			Str(logging.StreetKey, h.street.String()).
			Str(logging.ActionKey, a.String()).
			Err(err).
			Msg("action rejected")
		return Snapshot{}, err
	}
	if err := h.execute(m); err != nil {
		return Snapshot{}, h.halt(err)
	}
	return h.Snapshot(), nil
}

// PlayToCompletion asks src for every remaining decision and returns the
// finished record. An error from src or a rejected action stops the run;
// the hand stays where it was.
func (h *Hand) PlayToCompletion(src ActionSource) (HandRecord, error) {
	for h.street != StreetComplete {
		if h.fatal != nil {
			return HandRecord{}, h.fatal
		}
		snap := h.Snapshot()
		a, err := src.Decide(snap)
		if err != nil {
			return HandRecord{}, errors.Wrapf(err, "action source for seat %d on %s", snap.ToAct, snap.Street)
		}
		if _, err := h.Apply(a); err != nil {
			return HandRecord{}, err
		}
	}
	return h.Record()
}

// Record returns a copy of the finished hand's record.
func (h *Hand) Record() (HandRecord, error) {
	if h.fatal != nil {
		return HandRecord{}, h.fatal
	}
	if h.record == nil {
		return HandRecord{}, errors.Wrapf(ErrHandInProgress, "hand %s is on %s", h.cfg.HandID, h.street)
	}
	return h.record.Clone(), nil
}

// Legal returns the action set of the player to act.
func (h *Hand) Legal() LegalActions {
	if !h.street.Betting() || h.fatal != nil {
		return LegalActions{Seat: InvalidSeat}
	}
	return h.legal()
}

func (h *Hand) Street() Street { return h.street }

func (h *Hand) ToAct() int {
	if !h.street.Betting() {
		return InvalidSeat
	}
	return h.toAct
}

// move is a validated action, ready to execute.
type move struct {
	action Action
	seat   int
	add    int64 // chips leaving the stack
	fold   bool
}

// plan checks a against the current state without changing anything.
func (h *Hand) plan(a Action) (move, error) {
	if !h.street.Betting() {
		return move{}, reject(ErrGameAlreadyFinished, InvalidSeat, h.street, a, "hand %s is %s", h.cfg.HandID, h.street)
	}
	idx := h.toAct
	s := &h.seats[idx]
	owed := s.owed(h.curBet)
	m := move{action: a, seat: idx}

	switch a.Type {
	case ActionFold:
		m.fold = true
		return m, nil

	case ActionCheck:
		if owed > 0 {
			return move{}, reject(ErrInvalidAction, idx, h.street, a, "facing %d to call", owed)
		}
		return m, nil

	case ActionCall:
		if owed == 0 {
			return move{}, reject(ErrInvalidAction, idx, h.street, a, "nothing to call")
		}
		m.add = min64(owed, s.stack)
		return m, nil

	case ActionBet:
		if h.curBet > 0 {
			return move{}, reject(ErrInvalidAction, idx, h.street, a, "a bet of %d is already open, raise instead", h.curBet)
		}
		if err := h.checkAggression(idx, a); err != nil {
			return move{}, err
		}
		if a.Amount <= 0 {
			return move{}, reject(ErrInvalidAction, idx, h.street, a, "bet must be positive")
		}
		if a.Amount > s.stack {
			return move{}, reject(ErrInsufficientStack, idx, h.street, a, "stack is %d", s.stack)
		}
		if a.Amount < s.stack && a.Amount < h.level.BigBlind {
			return move{}, reject(ErrBelowMinimumRaise, idx, h.street, a, "minimum bet is %d", h.level.BigBlind)
		}
		m.add = a.Amount
		return m, nil

	case ActionRaise:
		if h.curBet == 0 {
			return move{}, reject(ErrInvalidAction, idx, h.street, a, "no bet to raise, bet instead")
		}
		if err := h.checkAggression(idx, a); err != nil {
			return move{}, err
		}
		if a.Amount <= 0 {
			return move{}, reject(ErrInvalidAction, idx, h.street, a, "raise must be positive")
		}
		if owed+a.Amount > s.stack {
			return move{}, reject(ErrInsufficientStack, idx, h.street, a, "raise needs %d, stack is %d", owed+a.Amount, s.stack)
		}
		if owed+a.Amount < s.stack && a.Amount < h.minRaise {
			return move{}, reject(ErrBelowMinimumRaise, idx, h.street, a, "minimum raise is %d", h.minRaise)
		}
		m.add = owed + a.Amount
		return m, nil

	case ActionAllIn:
		if s.stack > owed {
			if err := h.checkAggression(idx, a); err != nil {
				return move{}, err
			}
		}
		m.add = s.stack
		return m, nil
	}
	return move{}, reject(ErrInvalidAction, idx, h.street, a, "unknown action type %d", a.Type)
}

// checkAggression rejects bets and raises nobody could answer, and raises
// by a player whose raise right was closed by a short all-in.
func (h *Hand) checkAggression(idx int, a Action) error {
	s := &h.seats[idx]
	if !s.canRaise {
		return reject(ErrInvalidAction, idx, h.street, a, "betting was not reopened, call or fold")
	}
	if h.liveOpponents(idx) == 0 {
		return reject(ErrInvalidAction, idx, h.street, a, "no opponent can respond")
	}
	return nil
}

func (h *Hand) liveOpponents(idx int) int {
	n := 0
	for i := range h.seats {
		if i != idx && h.seats[i].live() {
			n++
		}
	}
	return n
}

func (h *Hand) liveCount() int {
	n := 0
	for i := range h.seats {
		if h.seats[i].live() {
			n++
		}
	}
	return n
}

func (h *Hand) inHand() int {
	n := 0
	for i := range h.seats {
		if !h.seats[i].folded {
			n++
		}
	}
	return n
}

// execute applies a planned move and drives the hand forward until the
// next decision or the end.
func (h *Hand) execute(m move) error {
	s := &h.seats[m.seat]
	street := h.street

	s.pending = false
	if m.fold {
		s.folded = true
	} else {
		s.commit(m.add)
	}

	if s.streetBet > h.curBet {
		delta := s.streetBet - h.curBet
		full := delta >= h.minRaise
		h.curBet = s.streetBet
		if full {
			h.minRaise = delta
		}
		for i := range h.seats {
			o := &h.seats[i]
			if i == m.seat || !o.live() {
				continue
			}
			switch {
			case full:
				o.canRaise = true
			case !o.pending:
				// already acted at this level: a short all-in does not reopen
				o.canRaise = false
			}
			o.pending = true
		}
	}

	h.trace.action(ActionRecord{
		Street:      street,
		Seat:        m.seat,
		Type:        m.action.Type,
		Amount:      m.action.Amount,
		Added:       m.add,
		StreetTotal: s.streetBet,
		StackAfter:  s.stack,
		AllIn:       s.allIn,
	})
	h.log.Debug().
		Int(logging.SeatKey, m.seat).
		Str(logging.PlayerIDKey, s.id).
		Str(logging.StreetKey, street.String()).
		Str(logging.ActionKey, m.action.String()).
		Int64("added", m.add).
		Int64("stack", s.stack).
		Bool("allIn", s.allIn).
		Msg("action applied")

	if err := h.checkChips(); err != nil {
		return err
	}

	if h.inHand() == 1 {
		return h.finishUncontested()
	}
	if !h.streetClosed() {
		h.toAct = h.nextToAct(m.seat)
		return nil
	}
	return h.advance()
}

// streetClosed reports whether no live player still has to act. A pending
// player only has to act when facing a bet or when someone could answer
// a bet of theirs.
func (h *Hand) streetClosed() bool {
	live := h.liveCount()
	for i := range h.seats {
		s := &h.seats[i]
		if s.live() && s.pending && (s.owed(h.curBet) > 0 || live >= 2) {
			return false
		}
	}
	return true
}

func (h *Hand) nextToAct(from int) int {
	for i := 1; i <= NumSeats; i++ {
		seat := (from + i) % NumSeats
		if s := &h.seats[seat]; s.live() && s.pending {
			return seat
		}
	}
	return InvalidSeat
}

// advance moves past closed streets: to the next betting street, or when
// at most one player can act, through a run out to showdown.
func (h *Hand) advance() error {
	for {
		if h.inHand() == 1 {
			return h.finishUncontested()
		}
		if h.street == StreetRiver {
			return h.showdown(TerminationShowdown)
		}
		if h.liveCount() < 2 {
			for h.street < StreetRiver {
				if err := h.nextStreet(); err != nil {
					return err
				}
			}
			return h.showdown(TerminationAllIn)
		}
		if err := h.nextStreet(); err != nil {
			return err
		}
		h.toAct = h.nextToAct(h.button)
		if !h.streetClosed() {
			return nil
		}
	}
}

func (h *Hand) nextStreet() error {
	switch h.street {
	case StreetPreflop, StreetFlop, StreetTurn:
	case StreetRiver, StreetShowdown, StreetComplete:
		return invariant(h.cfg.HandID, errBadTransition, "no street after %s", h.street)
	}
	h.street++
	if err := h.deck.Burn(); err != nil {
		return invariant(h.cfg.HandID, err, "burn before %s", h.street)
	}
	cards, err := h.deck.DrawN(h.street.boardSize() - len(h.board))
	if err != nil {
		return invariant(h.cfg.HandID, err, "dealing %s", h.street)
	}
	h.board = append(h.board, cards...)

	h.curBet = 0
	h.minRaise = h.level.BigBlind
	for i := range h.seats {
		h.seats[i].startStreet()
	}
	h.log.Debug().
		Str(logging.StreetKey, h.street.String()).
		Str("board", h.board.String()).
		Msg("street dealt")
	return nil
}

// oddChipOrder lists seats starting left of the button.
func (h *Hand) oddChipOrder() []int {
	order := make([]int, NumSeats)
	for i := range order {
		order[i] = (h.button + 1 + i) % NumSeats
	}
	return order
}

func (h *Hand) finishUncontested() error {
	contrib, folded := h.contributions()
	awards, err := DistributePots(BuildPots(contrib, folded), nil, h.oddChipOrder())
	if err != nil {
		return invariant(h.cfg.HandID, err, "settling folded hand")
	}
	return h.complete(TerminationFold, awards)
}

func (h *Hand) showdown(term Termination) error {
	h.street = StreetShowdown
	ranks := make([]HandRank, NumSeats)
	for i := range h.seats {
		s := &h.seats[i]
		if s.folded {
			continue
		}
		rank, err := Evaluate(s.hole[:], h.board)
		if err != nil {
			return invariant(h.cfg.HandID, err, "evaluating seat %d", i)
		}
		ranks[i] = rank
		h.trace.showdown = append(h.trace.showdown, ShowdownHand{
			Seat:     i,
			Hole:     card.CardList(s.hole[:]).Clone(),
			Best:     card.CardList(rank.Best[:]).Clone(),
			Category: rank.Category,
			Score:    rank.Score,
		})
	}
	contrib, folded := h.contributions()
	awards, err := DistributePots(BuildPots(contrib, folded), ranks, h.oddChipOrder())
	if err != nil {
		return invariant(h.cfg.HandID, err, "settling showdown")
	}
	return h.complete(term, awards)
}

func (h *Hand) complete(term Termination, awards []PotAward) error {
	for _, award := range awards {
		for w, seat := range award.Winners {
			h.seats[seat].stack += award.Shares[w]
		}
		h.trace.pots = append(h.trace.pots, PotRecord{
			Amount:   award.Pot.Amount,
			Eligible: append([]int(nil), award.Pot.Eligible...),
			Winners:  append([]int(nil), award.Winners...),
			Shares:   append([]int64(nil), award.Shares...),
		})
	}

	var stacks int64
	for i := range h.seats {
		stacks += h.seats[i].stack
	}
	if stacks != h.total {
		return invariant(h.cfg.HandID, ErrConservation, "stacks after settlement %d, started with %d", stacks, h.total)
	}

	h.street = StreetComplete
	h.toAct = InvalidSeat
	h.termination = term
	rec := h.assemble()
	h.record = &rec

	h.log.Info().
		Str(logging.TerminationKey, term.String()).
		Str("board", h.board.String()).
		Int64("net0", rec.Players[0].Net).
		Int64("net1", rec.Players[1].Net).
		Msg("hand complete")
	return nil
}

// checkChips verifies stacks plus committed chips still add up.
func (h *Hand) checkChips() error {
	var sum int64
	for i := range h.seats {
		s := &h.seats[i]
		if s.stack < 0 {
			return invariant(h.cfg.HandID, ErrConservation, "seat %d stack is %d", i, s.stack)
		}
		sum += s.stack + s.committed
	}
	if sum != h.total {
		return invariant(h.cfg.HandID, ErrConservation, "%d chips in play, expected %d", sum, h.total)
	}
	return nil
}

// halt makes err sticky: the hand stops for good.
func (h *Hand) halt(err error) error {
	if !IsFatal(err) {
		err = invariant(h.cfg.HandID, err, "unexpected engine error")
	}
	h.fatal = err
	h.log.Error().Err(err).Str(logging.StreetKey, h.street.String()).Msg("hand halted")
	return err
}

// legal probes plan with the smallest sizing of each action.
func (h *Hand) legal() LegalActions {
	s := &h.seats[h.toAct]
	owed := s.owed(h.curBet)
	l := LegalActions{Seat: h.toAct, AllInAmount: s.stack}

	if _, err := h.plan(Fold()); err == nil {
		l.Actions = append(l.Actions, ActionFold)
	}
	if _, err := h.plan(Check()); err == nil {
		l.Actions = append(l.Actions, ActionCheck)
	}
	if _, err := h.plan(Call()); err == nil {
		l.Actions = append(l.Actions, ActionCall)
		l.CallAmount = min64(owed, s.stack)
	}
	if minBet := min64(h.level.BigBlind, s.stack); minBet > 0 {
		if _, err := h.plan(Bet(minBet)); err == nil {
			l.Actions = append(l.Actions, ActionBet)
			l.MinBet = minBet
		}
	}
	if room := s.stack - owed; room > 0 {
		if _, err := h.plan(Raise(min64(h.minRaise, room))); err == nil {
			l.Actions = append(l.Actions, ActionRaise)
			l.MinRaise = min64(h.minRaise, room)
			l.MaxRaise = room
		}
	}
	if _, err := h.plan(AllIn()); err == nil && s.stack > 0 {
		l.Actions = append(l.Actions, ActionAllIn)
	}
	return l
}
