// state/router.go
package state

import (
	"encoding/json"

	"github.com/wfunc/blackjack/game"
	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/network"
	"github.com/wfunc/blackjack/session"
)

// Destination names the peer an outbound message is for.
type Destination int

const (
	DestArbiter Destination = iota
	DestAdvisor
)

// Outbound is a message the router wants sent. The router never touches
// the transport itself; the engine performs the send.
type Outbound struct {
	Dest    Destination
	Type    string
	Payload interface{}
}

// Router applies inbound messages to the session. Every Apply call is a
// single transition: one critical section on the session, producing zero
// or more outbound messages. Datagrams may arrive duplicated, reordered
// or misdirected, so every handler filters on identity and every reset is
// idempotent.
type Router struct {
	sess       *session.Session
	listenAddr string
	events     Events
}

func NewRouter(sess *session.Session, listenAddr string, events Events) *Router {
	if events == nil {
		events = NopEvents{}
	}
	return &Router{
		sess:       sess,
		listenAddr: listenAddr,
		events:     events,
	}
}

// Apply dispatches one decoded envelope. Malformed payloads and unknown
// types are logged no-ops; nothing here may terminate the receiver.
func (r *Router) Apply(env *network.Envelope) []Outbound {
	switch env.Type {
	case network.MsgTypeDealCards:
		return r.handleDealCards(env.Payload)
	case network.MsgTypeGameUpdate:
		return r.handleGameUpdate(env.Payload)
	case network.MsgTypeActionRecommendation:
		return r.handleRecommendation(env.Payload)
	case network.MsgTypeGameResult:
		return r.handleGameResult(env.Payload)
	case network.MsgTypeRoundEnded:
		return r.handleRoundEnded()
	case network.MsgTypeRejectBet:
		return r.handleRejectBet(env.Payload)
	case network.MsgTypeStatisticsResponse:
		r.events.StatisticsReceived(env.Payload)
		return nil
	default:
		logger.Log.Warnf("Unknown message type %q, ignoring", env.Type)
		return nil
	}
}

func (r *Router) handleDealCards(raw json.RawMessage) []Outbound {
	var p network.DealCardsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Log.Warnf("Malformed deal_cards payload: %v", err)
		return nil
	}
	if p.PlayerID != r.sess.ID {
		return nil
	}

	hand, err := game.ParseHand(p.PlayerHand)
	if err != nil {
		logger.Log.Warnf("deal_cards with bad card code: %v", err)
		return nil
	}
	upCard, err := game.ParseCard(p.DealerUpCard)
	if err != nil {
		logger.Log.Warnf("deal_cards with bad dealer up-card: %v", err)
		return nil
	}

	started := false
	r.sess.Update(func(d *session.Data) {
		if d.Phase == session.PhaseTerminal {
			return
		}
		d.Hand = hand
		d.DealerUpCard = upCard
		d.DealerHand = nil
		if p.BetAmount > 0 {
			// The arbiter may confirm or adjust the wager.
			d.Bet = p.BetAmount
		}
		d.Recommendation = nil
		d.Phase = session.PhaseWaitingForTurn
		started = true
	})

	if started {
		r.events.RoundStarted(r.sess.Snapshot())
	}
	return nil
}

func (r *Router) handleGameUpdate(raw json.RawMessage) []Outbound {
	var p network.GameUpdatePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Log.Warnf("Malformed game_update payload: %v", err)
		return nil
	}
	if p.PlayerID != r.sess.ID {
		return nil
	}

	var hand game.Hand
	if len(p.AllPlayerHands) > 0 && len(p.AllPlayerHands[0]) > 0 {
		parsed, err := game.ParseHand(p.AllPlayerHands[0])
		if err != nil {
			logger.Log.Warnf("game_update with bad player hand: %v", err)
			return nil
		}
		hand = parsed
	}
	dealerHand, err := game.ParseHand(p.DealerHand)
	if err != nil {
		logger.Log.Warnf("game_update with bad dealer hand: %v", err)
		return nil
	}

	var outbound []Outbound
	applied := false
	myTurn := p.CurrentPlayerTurnID == r.sess.ID

	r.sess.Update(func(d *session.Data) {
		// A settled or exhausted session ignores stale turn updates from
		// an earlier round.
		if d.Phase == session.PhaseBetting || d.Phase == session.PhaseTerminal {
			return
		}
		applied = true

		if hand != nil {
			d.Hand = hand
		}
		if len(dealerHand) > 0 {
			d.DealerHand = dealerHand
			if !dealerHand[0].Concealed() {
				d.DealerUpCard = dealerHand[0]
			}
		}

		if !myTurn {
			d.Phase = session.PhaseWaitingForTurn
			return
		}

		if d.Hand.Value() >= 21 {
			// 21 or bust: no legal improving action exists, stand without
			// waiting for advice.
			outbound = append(outbound, Outbound{
				Dest: DestArbiter,
				Type: network.MsgTypePlayerAction,
				Payload: network.PlayerActionPayload{
					PlayerID: r.sess.ID,
					Action:   "STAND",
				},
			})
			d.Recommendation = nil
			d.Phase = session.PhaseWaitingForTurn
			return
		}

		d.Phase = session.PhaseMyTurn
		outbound = append(outbound, Outbound{
			Dest: DestAdvisor,
			Type: network.MsgTypeRecommendationRequest,
			Payload: network.RecommendationRequestPayload{
				PlayerID:         r.sess.ID,
				PlayerHand:       d.Hand.Codes(),
				DealerUpCard:     d.DealerUpCard.String(),
				PlayerListenAddr: r.listenAddr,
			},
		})
	})

	if applied {
		snap := r.sess.Snapshot()
		r.events.GameUpdated(snap, p.CurrentPlayerTurnNickname, snap.Phase == session.PhaseMyTurn)
	}
	return outbound
}

func (r *Router) handleRecommendation(raw json.RawMessage) []Outbound {
	var p network.ActionRecommendationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Log.Warnf("Malformed action_recommendation payload: %v", err)
		return nil
	}
	if p.RecommendedAction == "" {
		logger.Log.Warn("action_recommendation without a recommended action, ignoring")
		return nil
	}

	stored := false
	r.sess.Update(func(d *session.Data) {
		if d.Phase != session.PhaseMyTurn {
			// The turn already ended, the advice is stale.
			return
		}
		d.Recommendation = &session.Recommendation{
			Action:        p.RecommendedAction,
			ExpectedValue: p.ExpectedValue,
		}
		stored = true
	})

	if stored {
		r.events.RecommendationReceived(session.Recommendation{
			Action:        p.RecommendedAction,
			ExpectedValue: p.ExpectedValue,
		})
	}
	return nil
}

func (r *Router) handleGameResult(raw json.RawMessage) []Outbound {
	var p network.GameResultPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Log.Warnf("Malformed game_result payload: %v", err)
		return nil
	}
	if p.PlayerID != r.sess.ID {
		return nil
	}

	exhausted := false
	r.sess.Update(func(d *session.Data) {
		// Settlement is the only payout-applying path.
		d.Capital += p.Payout
		if d.Capital < 0 {
			d.Capital = 0
		}
		d.ResetRound()
		if d.Capital == 0 {
			d.Phase = session.PhaseTerminal
			exhausted = true
		}
	})

	snap := r.sess.Snapshot()
	r.events.RoundSettled(p.Result, p.Payout, snap, p.PlayerHand, p.DealerHand)
	if exhausted {
		r.events.CapitalExhausted(snap.Capital)
	}
	return nil
}

func (r *Router) handleRoundEnded() []Outbound {
	r.sess.Update(func(d *session.Data) {
		d.ResetRound()
	})
	r.events.RoundReset()
	return nil
}

func (r *Router) handleRejectBet(raw json.RawMessage) []Outbound {
	var p network.RejectBetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Log.Warnf("Malformed reject_bet payload: %v", err)
		return nil
	}

	refunded := false
	r.sess.Update(func(d *session.Data) {
		switch d.Phase {
		case session.PhaseBetting, session.PhaseAwaitingRoundStart:
			// Capital was never debited for the wager, so releasing the
			// recorded bet is the full refund.
			refunded = d.Bet > 0
			d.Bet = 0
			d.Phase = session.PhaseBetting
		default:
			// Late or duplicate rejection after the round started.
		}
	})

	if refunded {
		r.events.BetRejected(p.Reason)
	} else {
		logger.Log.Infof("Ignoring reject_bet (%s): no bet in flight", p.Reason)
	}
	return nil
}
