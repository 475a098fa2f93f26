package game

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-arena/internal/randutil"
	"github.com/lox/holdem-arena/poker"
)

// MaxSeats is the largest table a hand can be dealt to.
const MaxSeats = 10

// HandOption configures a HandState during creation.
type HandOption func(*handOptions)

type handOptions struct {
	deck   *poker.Deck
	logger *log.Logger
	id     string
}

// WithDeck deals from the given deck instead of one shuffled from the seed.
// Hole cards are dealt two at a time in seat order, and a card is burned
// before each street.
func WithDeck(deck *poker.Deck) HandOption {
	return func(o *handOptions) {
		o.deck = deck
	}
}

// WithLogger sets the logger for per-action debug traces.
func WithLogger(logger *log.Logger) HandOption {
	return func(o *handOptions) {
		o.logger = logger
	}
}

// WithHandID sets the identifier exposed to bots as hand_id.
func WithHandID(id string) HandOption {
	return func(o *handOptions) {
		o.id = id
	}
}

// HandState manages the state of a single poker hand.
type HandState struct {
	ID      string
	Seed    int64
	Dealer  int
	Street  Street
	Players []*Player
	Board   []poker.Card

	cfg    HandConfig
	deck   *poker.Deck
	logger *log.Logger

	actor         int // -1 when nobody is to act
	currentBet    int
	lastRaise     int
	acted         []bool
	streetActions int
	pot           int
	chips         int
	sbSeat        int
	bbSeat        int
	startStacks   []int
	actions       []ActionRecord
	pots          []Pot
	complete      bool
	end           EndReason
	err           error
}

// NewHand deals a hand. Seats with a zero stack sit the hand out. If fewer
// than two seats are funded the hand is returned already complete as a no
// contest. Blinds are posted before NewHand returns.
func NewHand(seed int64, dealer int, stacks []int, cfg HandConfig, opts ...HandOption) (*HandState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(stacks) < 2 || len(stacks) > MaxSeats {
		return nil, fmt.Errorf("%w: need 2-%d seats, got %d", ErrConfig, MaxSeats, len(stacks))
	}
	if dealer < 0 || dealer >= len(stacks) {
		return nil, fmt.Errorf("%w: dealer seat %d out of range", ErrConfig, dealer)
	}

	o := handOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.deck == nil {
		o.deck = poker.NewDeck(randutil.New(seed))
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.id == "" {
		o.id = fmt.Sprintf("%016x", uint64(seed))
	}

	h := &HandState{
		ID:          o.id,
		Seed:        seed,
		Dealer:      dealer,
		Street:      Preflop,
		Players:     make([]*Player, len(stacks)),
		cfg:         cfg,
		deck:        o.deck,
		logger:      o.logger,
		actor:       -1,
		lastRaise:   cfg.BigBlind,
		acted:       make([]bool, len(stacks)),
		sbSeat:      -1,
		bbSeat:      -1,
		startStacks: slices.Clone(stacks),
	}
	for i, s := range stacks {
		if s < 0 {
			return nil, fmt.Errorf("%w: seat %d has negative stack %d", ErrConfig, i, s)
		}
		h.Players[i] = &Player{Seat: i, Stack: s}
		h.chips += s
	}

	var funded []int
	for _, p := range h.Players {
		if p.Stack > 0 {
			funded = append(funded, p.Seat)
		}
	}
	if len(funded) < 2 {
		h.complete = true
		h.end = EndNoContest
		return h, nil
	}

	for _, seat := range funded {
		cards := h.deck.Deal(2)
		if cards == nil {
			return nil, fmt.Errorf("%w: deck exhausted dealing hole cards", ErrInvariant)
		}
		h.Players[seat].HoleCards = cards
	}

	h.postBlinds(len(funded))
	if err := h.settle(h.bbSeat); err != nil {
		return nil, err
	}
	return h, nil
}

// postBlinds posts the blinds. Heads-up the dealer posts the small blind;
// otherwise the blinds are the next two funded seats after the dealer.
func (h *HandState) postBlinds(funded int) {
	h.sbSeat = h.nextDealtIn(h.Dealer)
	if funded == 2 && h.Players[h.Dealer].HoleCards != nil {
		h.sbSeat = h.Dealer
	}
	h.bbSeat = h.nextDealtIn(h.sbSeat)

	h.post(h.sbSeat, h.cfg.SmallBlind, "post_sb")
	h.post(h.bbSeat, h.cfg.BigBlind, "post_bb")
	h.currentBet = h.cfg.BigBlind
	h.lastRaise = h.cfg.BigBlind
}

func (h *HandState) post(seat, amount int, kind string) {
	paid := h.Players[seat].commit(amount)
	h.pot += paid
	h.actions = append(h.actions, ActionRecord{Street: Preflop.String(), Seat: seat, Type: kind, Amount: paid})
}

func (h *HandState) nextDealtIn(from int) int {
	n := len(h.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if h.Players[seat].HoleCards != nil {
			return seat
		}
	}
	return -1
}

// IsComplete reports whether the hand has finished.
func (h *HandState) IsComplete() bool {
	return h.complete
}

// ActorSeat returns the seat to act, or -1 once the hand is complete.
func (h *HandState) ActorSeat() int {
	return h.actor
}

// Pot returns the chips committed this hand and not yet awarded.
func (h *HandState) Pot() int {
	return h.pot
}

// CurrentBet returns the street contribution every seat must match.
func (h *HandState) CurrentBet() int {
	return h.currentBet
}

// Actions returns a copy of the action log so far.
func (h *HandState) Actions() []ActionRecord {
	return slices.Clone(h.actions)
}

type legality struct {
	toCall   int
	canCheck bool
	canRaise bool
	minRaise int
	maxRaise int
}

func (h *HandState) legality(seat int) legality {
	p := h.Players[seat]
	l := legality{toCall: max(0, h.currentBet-p.StreetBet)}
	l.canCheck = l.toCall == 0
	if p.Stack > l.toCall {
		l.canRaise = true
		l.maxRaise = p.StreetBet + p.Stack
		l.minRaise = min(h.currentBet+h.lastRaise, l.maxRaise)
	}
	return l
}

// LegalActions returns the actions available to the seat to act. Raise
// bounds are raise-to totals for the street; a seat that cannot reach a full
// raise may still move all in, in which case Min equals Max.
func (h *HandState) LegalActions() []LegalAction {
	if h.complete || h.actor < 0 {
		return nil
	}
	l := h.legality(h.actor)
	out := []LegalAction{{Type: Fold}}
	if l.canCheck {
		out = append(out, LegalAction{Type: Check})
	} else {
		out = append(out, LegalAction{Type: Call, Amount: min(l.toCall, h.Players[h.actor].Stack)})
	}
	if l.canRaise {
		out = append(out, LegalAction{Type: Raise, Min: l.minRaise, Max: l.maxRaise})
	}
	return out
}

// Apply applies an action for the seat to act. Actions that are malformed or
// not legal are handled by the configured RejectPolicy and recorded with a
// note; they are not errors. Apply only fails on ErrInvariant.
func (h *HandState) Apply(a Action) (ActionRecord, error) {
	return h.apply(a, "")
}

func (h *HandState) apply(a Action, note string) (ActionRecord, error) {
	if h.err != nil {
		return ActionRecord{}, h.err
	}
	if h.complete || h.actor < 0 {
		return ActionRecord{}, fmt.Errorf("%w: %s after hand completed", ErrInvariant, a)
	}

	seat := h.actor
	p := h.Players[seat]
	l := h.legality(seat)
	resolved, reason := h.resolve(a, l)
	if reason != "" {
		h.logger.Debug("action not accepted as sent", "seat", seat, "sent", a, "applied", resolved, "reason", reason)
		if note != "" {
			note += "; "
		}
		note += reason
	}

	rec := ActionRecord{Street: h.Street.String(), Seat: seat, Type: string(resolved.Type), Note: note}
	switch resolved.Type {
	case Fold:
		p.Folded = true
	case Call:
		rec.Amount = p.commit(l.toCall)
		h.pot += rec.Amount
	case Raise:
		prev := h.currentBet
		rec.Amount = p.commit(resolved.Amount - p.StreetBet)
		h.pot += rec.Amount
		rec.To = p.StreetBet
		h.currentBet = p.StreetBet
		if inc := h.currentBet - prev; inc >= h.lastRaise {
			h.lastRaise = inc
		}
		clear(h.acted)
	}
	h.acted[seat] = true
	h.streetActions++
	h.actions = append(h.actions, rec)
	h.logger.Debug("action", "seat", seat, "street", h.Street, "action", resolved, "pot", h.pot)

	if err := h.checkChips(); err != nil {
		h.err = err
		return rec, err
	}
	if err := h.settle(seat); err != nil {
		h.err = err
		return rec, err
	}
	return rec, nil
}

func (h *HandState) resolve(a Action, l legality) (Action, string) {
	if err := a.Validate(); err != nil {
		return h.reject(a, l, err.Error())
	}
	switch a.Type {
	case Check:
		if !l.canCheck {
			return h.reject(a, l, fmt.Sprintf("cannot check facing %d to call", l.toCall))
		}
	case Call:
		if l.canCheck {
			return h.reject(a, l, "nothing to call")
		}
		return Action{Type: Call}, ""
	case Raise:
		if !l.canRaise {
			return h.reject(a, l, "no raise available")
		}
		if a.Amount < l.minRaise || a.Amount > l.maxRaise {
			return h.reject(a, l, fmt.Sprintf("raise to %d outside [%d, %d]", a.Amount, l.minRaise, l.maxRaise))
		}
	}
	return a, ""
}

func (h *HandState) reject(a Action, l legality, reason string) (Action, string) {
	if h.cfg.RejectPolicy == RejectCoerce {
		switch a.Type {
		case Check, Call:
			return passive(l), "coerced: " + reason
		case Raise:
			if l.canRaise && a.Amount > 0 {
				return Action{Type: Raise, Amount: min(max(a.Amount, l.minRaise), l.maxRaise)}, "coerced: " + reason
			}
			return passive(l), "coerced: " + reason
		}
	}
	return Action{Type: Fold}, "rejected: " + reason
}

func passive(l legality) Action {
	if l.canCheck {
		return Action{Type: Check}
	}
	return Action{Type: Call}
}

// fallback is applied when a decision could not be obtained at all.
func (h *HandState) fallback() Action {
	if h.legality(h.actor).canCheck {
		return Action{Type: Check}
	}
	return Action{Type: Fold}
}

// settle moves the hand on after from acted: to the next seat that owes a
// decision, or through street changes until one does or the hand ends.
func (h *HandState) settle(from int) error {
	for !h.complete {
		if h.count((*Player).InHand) <= 1 {
			return h.finishFoldedOut()
		}
		if !h.bettingDone() {
			if h.streetActions < h.cfg.MaxActionsPerStreet {
				if next := h.nextToAct(from); next >= 0 {
					h.actor = next
					return nil
				}
			} else {
				h.logger.Warn("street action cap reached", "hand", h.ID, "street", h.Street, "cap", h.cfg.MaxActionsPerStreet)
			}
		}
		h.actor = -1
		if err := h.nextStreet(); err != nil {
			return err
		}
		from = h.button()
	}
	return nil
}

// button is the seat postflop action starts after. Heads-up the small blind
// plays the button even when the dealer seat sat the hand out.
func (h *HandState) button() int {
	if h.count(func(p *Player) bool { return p.HoleCards != nil }) == 2 {
		return h.sbSeat
	}
	return h.Dealer
}

// bettingDone reports whether the street is closed: every seat that can act
// has matched the current bet and acted. A lone seat that can act has nobody
// to bet against, so it only needs to have matched.
func (h *HandState) bettingDone() bool {
	actors := 0
	for _, p := range h.Players {
		if !p.CanAct() {
			continue
		}
		actors++
		if p.StreetBet != h.currentBet {
			return false
		}
	}
	if actors <= 1 {
		return true
	}
	for _, p := range h.Players {
		if p.CanAct() && !h.acted[p.Seat] {
			return false
		}
	}
	return true
}

func (h *HandState) nextToAct(from int) int {
	n := len(h.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		p := h.Players[seat]
		if p.CanAct() && (!h.acted[seat] || p.StreetBet != h.currentBet) {
			return seat
		}
	}
	return -1
}

func (h *HandState) count(pred func(*Player) bool) int {
	n := 0
	for _, p := range h.Players {
		if pred(p) {
			n++
		}
	}
	return n
}

func (h *HandState) nextStreet() error {
	for _, p := range h.Players {
		p.StreetBet = 0
	}
	clear(h.acted)
	h.currentBet = 0
	h.lastRaise = h.cfg.BigBlind
	h.streetActions = 0

	switch h.Street {
	case Preflop:
		return h.dealStreet(Flop, 3)
	case Flop:
		return h.dealStreet(Turn, 1)
	case Turn:
		return h.dealStreet(River, 1)
	default:
		return h.showdown()
	}
}

func (h *HandState) dealStreet(next Street, n int) error {
	if !h.deck.Burn() {
		return fmt.Errorf("%w: deck exhausted before %s", ErrInvariant, next)
	}
	cards := h.deck.Deal(n)
	if cards == nil {
		return fmt.Errorf("%w: deck exhausted dealing %s", ErrInvariant, next)
	}
	h.Board = append(h.Board, cards...)
	h.Street = next
	h.logger.Debug("dealt", "street", next, "board", poker.CardStrings(h.Board))
	return nil
}

func (h *HandState) showdown() error {
	h.Street = Showdown
	n := len(h.Players)
	totals := make([]int, n)
	live := make([]bool, n)
	strengths := make([]poker.HandStrength, n)
	for i, p := range h.Players {
		totals[i] = p.TotalBet
		if !p.InHand() {
			continue
		}
		live[i] = true
		s, err := poker.Best7(append(slices.Clone(p.HoleCards), h.Board...))
		if err != nil {
			return fmt.Errorf("%w: evaluating seat %d: %v", ErrInvariant, i, err)
		}
		strengths[i] = s
	}

	pots, refunds := buildPots(totals, live)
	for seat, amount := range refunds {
		if amount > 0 {
			h.award(seat, amount)
		}
	}
	for i := range pots {
		pot := &pots[i]
		best := pot.Eligible[0]
		for _, seat := range pot.Eligible {
			switch c := strengths[seat].Compare(strengths[best]); {
			case c > 0:
				best = seat
				pot.Winners = []int{seat}
			case c == 0:
				pot.Winners = append(pot.Winners, seat)
			}
		}
		for seat, amount := range splitPot(pot.Amount, pot.Winners, h.Dealer, n) {
			h.award(seat, amount)
		}
	}
	h.pots = pots
	return h.finish(EndShowdown)
}

func (h *HandState) finishFoldedOut() error {
	winner := -1
	capped := 0
	for _, p := range h.Players {
		if p.InHand() {
			winner = p.Seat
		}
		capped = max(capped, p.TotalBet)
	}
	h.pots = []Pot{{Amount: h.pot, Cap: capped, Eligible: []int{winner}, Winners: []int{winner}}}
	h.award(winner, h.pot)
	return h.finish(EndFoldedOut)
}

func (h *HandState) award(seat, amount int) {
	h.Players[seat].Stack += amount
	h.pot -= amount
}

func (h *HandState) finish(reason EndReason) error {
	h.complete = true
	h.end = reason
	h.actor = -1
	if h.pot != 0 {
		return fmt.Errorf("%w: %d chips left unawarded", ErrInvariant, h.pot)
	}
	if err := h.checkChips(); err != nil {
		return err
	}
	h.logger.Debug("hand complete", "hand", h.ID, "end", reason, "board", poker.CardStrings(h.Board))
	return nil
}

// checkChips verifies that stacks plus pot still equal the chips the hand
// started with.
func (h *HandState) checkChips() error {
	sum := h.pot
	for _, p := range h.Players {
		sum += p.Stack
	}
	if sum != h.chips {
		return fmt.Errorf("%w: chips in play %d, expected %d", ErrInvariant, sum, h.chips)
	}
	return nil
}
