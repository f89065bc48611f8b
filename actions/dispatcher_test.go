package actions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/blackjack/game"
	"github.com/wfunc/blackjack/network"
	"github.com/wfunc/blackjack/session"
)

type fakeSender struct {
	arbiter  []string
	advisor  []string
	payloads []interface{}
	fail     error
}

func (f *fakeSender) SendToArbiter(msgType string, payload interface{}) error {
	if f.fail != nil {
		return f.fail
	}
	f.arbiter = append(f.arbiter, msgType)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeSender) SendToAdvisor(msgType string, payload interface{}) error {
	if f.fail != nil {
		return f.fail
	}
	f.advisor = append(f.advisor, msgType)
	f.payloads = append(f.payloads, payload)
	return nil
}

func newTestDispatcher(capital int) (*Dispatcher, *session.Session, *fakeSender) {
	sess := session.New("player-1", "tester", capital)
	sender := &fakeSender{}
	return NewDispatcher(sess, sender, "127.0.0.1:9101"), sess, sender
}

func giveTurn(sess *session.Session, codes ...string) {
	hand, err := game.ParseHand(codes)
	if err != nil {
		panic(err)
	}
	sess.Update(func(d *session.Data) {
		d.Hand = hand
		d.Bet = 20
		d.Phase = session.PhaseMyTurn
	})
}

func TestPlaceBet_Success(t *testing.T) {
	d, sess, sender := newTestDispatcher(100)

	require.NoError(t, d.PlaceBet(20))

	snap := sess.Snapshot()
	assert.Equal(t, 20, snap.Bet)
	assert.Equal(t, 100, snap.Capital, "no debit at bet time")
	assert.Equal(t, session.PhaseAwaitingRoundStart, snap.Phase)

	require.Len(t, sender.arbiter, 1)
	assert.Equal(t, network.MsgTypeBet, sender.arbiter[0])
	bet := sender.payloads[0].(network.BetPayload)
	assert.Equal(t, 20, bet.Amount)
	assert.Equal(t, "tester", bet.PlayerNickname)
	assert.Equal(t, "127.0.0.1:9101", bet.PlayerListenAddr)
}

func TestPlaceBet_InsufficientCapital(t *testing.T) {
	// Scenario B: capital 10, bet 50.
	d, sess, sender := newTestDispatcher(10)

	err := d.PlaceBet(50)
	assert.ErrorIs(t, err, ErrInsufficientCapital)
	assert.Empty(t, sender.arbiter, "nothing may reach the wire")

	snap := sess.Snapshot()
	assert.Equal(t, 10, snap.Capital)
	assert.Zero(t, snap.Bet)
	assert.Equal(t, session.PhaseBetting, snap.Phase)
}

func TestPlaceBet_InvalidAmount(t *testing.T) {
	d, _, sender := newTestDispatcher(100)
	assert.ErrorIs(t, d.PlaceBet(0), ErrInvalidBetAmount)
	assert.ErrorIs(t, d.PlaceBet(-5), ErrInvalidBetAmount)
	assert.Empty(t, sender.arbiter)
}

func TestPlaceBet_OutsideBettingPhase(t *testing.T) {
	d, sess, sender := newTestDispatcher(100)
	sess.Update(func(s *session.Data) { s.Phase = session.PhaseWaitingForTurn })

	assert.ErrorIs(t, d.PlaceBet(20), ErrNotBettingPhase)
	assert.Empty(t, sender.arbiter)
}

func TestPlaceBet_TerminalRefused(t *testing.T) {
	d, sess, _ := newTestDispatcher(0)
	sess.Update(func(s *session.Data) { s.Phase = session.PhaseTerminal })

	assert.ErrorIs(t, d.PlaceBet(10), ErrCapitalExhausted)
}

func TestPlaceBet_SendFailureRollsBack(t *testing.T) {
	d, sess, sender := newTestDispatcher(100)
	sender.fail = errors.New("peer unreachable")

	err := d.PlaceBet(20)
	assert.Error(t, err)

	snap := sess.Snapshot()
	assert.Zero(t, snap.Bet)
	assert.Equal(t, session.PhaseBetting, snap.Phase, "operator can re-issue the bet")
}

func TestSendTurnAction_OutsideTurn(t *testing.T) {
	d, _, sender := newTestDispatcher(100)
	assert.ErrorIs(t, d.SendTurnAction(ActionHit), ErrNotYourTurn)
	assert.Empty(t, sender.arbiter)
}

func TestSendTurnAction_EndsTurnLocally(t *testing.T) {
	d, sess, sender := newTestDispatcher(100)
	giveTurn(sess, "D10", "C6")
	sess.Update(func(s *session.Data) {
		s.Recommendation = &session.Recommendation{Action: "HIT"}
	})

	require.NoError(t, d.SendTurnAction(ActionHit))

	snap := sess.Snapshot()
	assert.Equal(t, session.PhaseWaitingForTurn, snap.Phase)
	assert.Nil(t, snap.Recommendation)

	require.Len(t, sender.arbiter, 1)
	assert.Equal(t, network.MsgTypePlayerAction, sender.arbiter[0])
	action := sender.payloads[0].(network.PlayerActionPayload)
	assert.Equal(t, "HIT", action.Action)
}

func TestSendTurnAction_DoubleDownPreconditions(t *testing.T) {
	// Three-card hand is rejected regardless of capital.
	d, sess, sender := newTestDispatcher(1000)
	giveTurn(sess, "D2", "C3", "H4")
	assert.ErrorIs(t, d.SendTurnAction(ActionDoubleDown), ErrDoubleDownPrecond)
	assert.Empty(t, sender.arbiter)
	assert.Equal(t, session.PhaseMyTurn, sess.Snapshot().Phase, "operator is re-prompted")

	// Two cards but not enough capital to double.
	d, sess, sender = newTestDispatcher(30)
	giveTurn(sess, "D10", "C6")
	assert.ErrorIs(t, d.SendTurnAction(ActionDoubleDown), ErrDoubleDownPrecond)
	assert.Empty(t, sender.arbiter)

	// Two cards and capital covering twice the bet.
	d, sess, sender = newTestDispatcher(100)
	giveTurn(sess, "D10", "C6")
	require.NoError(t, d.SendTurnAction(ActionDoubleDown))
	require.Len(t, sender.arbiter, 1)
}

func TestSendTurnAction_SplitPreconditions(t *testing.T) {
	// Mismatched ranks.
	d, sess, sender := newTestDispatcher(100)
	giveTurn(sess, "D10", "C6")
	assert.ErrorIs(t, d.SendTurnAction(ActionSplit), ErrSplitPrecond)
	assert.Empty(t, sender.arbiter)

	// Matching ranks, insufficient capital.
	d, sess, sender = newTestDispatcher(30)
	giveTurn(sess, "D8", "C8")
	assert.ErrorIs(t, d.SendTurnAction(ActionSplit), ErrSplitPrecond)

	// Matching ranks with capital.
	d, sess, sender = newTestDispatcher(100)
	giveTurn(sess, "D8", "C8")
	require.NoError(t, d.SendTurnAction(ActionSplit))
	require.Len(t, sender.arbiter, 1)
}

func TestSendTurnAction_SendFailureRestoresTurn(t *testing.T) {
	d, sess, sender := newTestDispatcher(100)
	giveTurn(sess, "D10", "C6")
	sender.fail = errors.New("peer unreachable")

	assert.Error(t, d.SendTurnAction(ActionStand))
	assert.Equal(t, session.PhaseMyTurn, sess.Snapshot().Phase)
}

func TestExecuteRecommendation(t *testing.T) {
	d, sess, sender := newTestDispatcher(100)
	giveTurn(sess, "D10", "C6")

	_, err := d.ExecuteRecommendation()
	assert.ErrorIs(t, err, ErrNoRecommendation)

	sess.Update(func(s *session.Data) {
		s.Recommendation = &session.Recommendation{Action: "STAND", ExpectedValue: 0.1}
	})
	action, err := d.ExecuteRecommendation()
	require.NoError(t, err)
	assert.Equal(t, ActionStand, action)
	require.Len(t, sender.arbiter, 1)
	assert.Nil(t, sess.Snapshot().Recommendation)
}

func TestExecuteRecommendation_OutsideTurn(t *testing.T) {
	d, _, _ := newTestDispatcher(100)
	_, err := d.ExecuteRecommendation()
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestRequestStatistics_AnyPhase(t *testing.T) {
	d, sess, sender := newTestDispatcher(100)
	require.NoError(t, d.RequestStatistics())

	sess.Update(func(s *session.Data) { s.Phase = session.PhaseMyTurn })
	require.NoError(t, d.RequestStatistics())

	require.Len(t, sender.advisor, 2)
	assert.Equal(t, network.MsgTypeStatisticsRequest, sender.advisor[0])
	req := sender.payloads[0].(network.StatisticsRequestPayload)
	assert.Equal(t, "player-1", req.RequesterID)
	assert.Equal(t, "127.0.0.1:9101", req.RequesterListenAddr)
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input  string
		action Action
	}{
		{"hit", ActionHit},
		{"HIT", ActionHit},
		{"h", ActionHit},
		{"stand", ActionStand},
		{"s", ActionStand},
		{"double-down", ActionDoubleDown},
		{"double_down", ActionDoubleDown},
		{"d", ActionDoubleDown},
		{"split", ActionSplit},
		{"p", ActionSplit},
		{"surrender", ActionSurrender},
	}
	for _, tt := range tests {
		action, err := ParseAction(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.action, action)
	}

	_, err := ParseAction("fold")
	assert.ErrorIs(t, err, ErrUnknownAction)
}
