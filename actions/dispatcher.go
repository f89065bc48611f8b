// actions/dispatcher.go
package actions

import (
	"errors"
	"fmt"

	"github.com/wfunc/blackjack/network"
	"github.com/wfunc/blackjack/session"
)

// Local validation failures. These are reported to the operator and never
// reach the wire.
var (
	ErrNotBettingPhase     = errors.New("cannot place a bet while a round is in progress")
	ErrInvalidBetAmount    = errors.New("bet amount must be positive")
	ErrInsufficientCapital = errors.New("insufficient capital")
	ErrCapitalExhausted    = errors.New("capital exhausted, no further bets accepted")
	ErrNotYourTurn         = errors.New("it is not your turn")
	ErrDoubleDownPrecond   = errors.New("double down requires exactly two cards and capital covering twice the bet")
	ErrSplitPrecond        = errors.New("split requires two cards of equal rank and capital covering twice the bet")
	ErrNoRecommendation    = errors.New("no recommendation pending")
)

// Sender delivers one framed message to a peer. The engine implements it
// over the UDP transport; tests implement it with a recorder.
type Sender interface {
	SendToArbiter(msgType string, payload interface{}) error
	SendToAdvisor(msgType string, payload interface{}) error
}

// Dispatcher validates operator-initiated commands against the session
// and sends the resulting messages. Validation and the session mutation
// happen in one critical section; a failed send rolls the mutation back
// so the operator can simply re-issue the command.
type Dispatcher struct {
	sess       *session.Session
	sender     Sender
	listenAddr string
}

func NewDispatcher(sess *session.Session, sender Sender, listenAddr string) *Dispatcher {
	return &Dispatcher{
		sess:       sess,
		sender:     sender,
		listenAddr: listenAddr,
	}
}

// PlaceBet records the wager and sends it to the arbiter. Capital is not
// debited here: settlement applies the signed payout, and a rejected bet
// is refunded by clearing the recorded wager.
func (d *Dispatcher) PlaceBet(amount int) error {
	var precond error
	d.sess.Update(func(s *session.Data) {
		switch {
		case s.Phase == session.PhaseTerminal:
			precond = ErrCapitalExhausted
		case s.Phase != session.PhaseBetting:
			precond = ErrNotBettingPhase
		case amount <= 0:
			precond = ErrInvalidBetAmount
		case amount > s.Capital:
			precond = ErrInsufficientCapital
		default:
			s.Bet = amount
			s.Phase = session.PhaseAwaitingRoundStart
		}
	})
	if precond != nil {
		return precond
	}

	err := d.sender.SendToArbiter(network.MsgTypeBet, network.BetPayload{
		PlayerID:         d.sess.ID,
		PlayerNickname:   d.sess.Nickname,
		Amount:           amount,
		PlayerListenAddr: d.listenAddr,
	})
	if err != nil {
		d.sess.Update(func(s *session.Data) {
			if s.Phase == session.PhaseAwaitingRoundStart {
				s.Bet = 0
				s.Phase = session.PhaseBetting
			}
		})
		return fmt.Errorf("send bet: %w", err)
	}
	return nil
}

// SendTurnAction validates and sends a turn decision. On success the turn
// ends locally: phase returns to waiting and the stored recommendation is
// cleared.
func (d *Dispatcher) SendTurnAction(action Action) error {
	var precond error
	d.sess.Update(func(s *session.Data) {
		if s.Phase != session.PhaseMyTurn {
			precond = ErrNotYourTurn
			return
		}
		switch action {
		case ActionDoubleDown:
			if len(s.Hand) != 2 || s.Capital < 2*s.Bet {
				precond = ErrDoubleDownPrecond
				return
			}
		case ActionSplit:
			if len(s.Hand) != 2 || s.Hand[0].Rank != s.Hand[1].Rank || s.Capital < 2*s.Bet {
				precond = ErrSplitPrecond
				return
			}
		case ActionHit, ActionStand, ActionSurrender:
		default:
			precond = fmt.Errorf("%w: %q", ErrUnknownAction, action)
			return
		}
		s.Recommendation = nil
		s.Phase = session.PhaseWaitingForTurn
	})
	if precond != nil {
		return precond
	}

	err := d.sender.SendToArbiter(network.MsgTypePlayerAction, network.PlayerActionPayload{
		PlayerID: d.sess.ID,
		Action:   string(action),
	})
	if err != nil {
		d.sess.Update(func(s *session.Data) {
			if s.Phase == session.PhaseWaitingForTurn {
				s.Phase = session.PhaseMyTurn
			}
		})
		return fmt.Errorf("send player action: %w", err)
	}
	return nil
}

// ExecuteRecommendation plays the stored advisory action ("auto").
func (d *Dispatcher) ExecuteRecommendation() (Action, error) {
	snap := d.sess.Snapshot()
	if snap.Phase != session.PhaseMyTurn {
		return "", ErrNotYourTurn
	}
	if snap.Recommendation == nil {
		return "", ErrNoRecommendation
	}
	action := Action(snap.Recommendation.Action)
	if err := d.SendTurnAction(action); err != nil {
		return "", err
	}
	return action, nil
}

// RequestStatistics is a fire-and-forget query to the advisory service,
// valid in any phase.
func (d *Dispatcher) RequestStatistics() error {
	return d.sender.SendToAdvisor(network.MsgTypeStatisticsRequest, network.StatisticsRequestPayload{
		RequesterID:         d.sess.ID,
		RequesterListenAddr: d.listenAddr,
	})
}
