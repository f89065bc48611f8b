// session/session.go
package session

import (
	"sync"

	"github.com/wfunc/blackjack/game"
)

// Phase is the session's position in the round lifecycle.
type Phase int

const (
	PhaseBetting Phase = iota
	PhaseAwaitingRoundStart
	PhaseWaitingForTurn
	PhaseMyTurn
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "betting"
	case PhaseAwaitingRoundStart:
		return "awaiting_round_start"
	case PhaseWaitingForTurn:
		return "waiting_for_turn"
	case PhaseMyTurn:
		return "my_turn"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Recommendation is the advisory service's pending suggestion.
type Recommendation struct {
	Action        string
	ExpectedValue float64
}

// Data holds every mutable session field. The capital ledger discipline:
// capital changes only at settlement (signed payout). A placed bet is a
// recorded obligation, not a debit, so a rejected bet restores the
// pre-bet capital simply by being cleared.
type Data struct {
	Capital        int
	Phase          Phase
	Bet            int
	Hand           game.Hand
	DealerUpCard   game.Card
	DealerHand     game.Hand
	Recommendation *Recommendation
}

// Session is the single shared mutable resource of the process. Identity
// is fixed at startup; everything else is read and written only through
// Snapshot and Update, so every read-decide-write sequence is one
// critical section.
type Session struct {
	ID       string
	Nickname string

	mutex sync.RWMutex
	data  Data
}

func New(id, nickname string, initialCapital int) *Session {
	return &Session{
		ID:       id,
		Nickname: nickname,
		data: Data{
			Capital: initialCapital,
			Phase:   PhaseBetting,
		},
	}
}

// Snapshot returns a copy of the session data. Hands are cloned so the
// caller can never alias the live state.
func (s *Session) Snapshot() Data {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snap := s.data
	snap.Hand = s.data.Hand.Clone()
	snap.DealerHand = s.data.DealerHand.Clone()
	if s.data.Recommendation != nil {
		rec := *s.data.Recommendation
		snap.Recommendation = &rec
	}
	return snap
}

// Update runs fn with exclusive access to the session data.
func (s *Session) Update(fn func(*Data)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	fn(&s.data)
}

// ResetRound clears everything a finished or abandoned round leaves
// behind. Idempotent, and it never resurrects an exhausted session.
func (d *Data) ResetRound() {
	d.Hand = nil
	d.DealerHand = nil
	d.DealerUpCard = game.Card{}
	d.Bet = 0
	d.Recommendation = nil
	if d.Phase != PhaseTerminal {
		d.Phase = PhaseBetting
	}
}
