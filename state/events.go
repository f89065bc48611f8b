// state/events.go
package state

import (
	"encoding/json"

	"github.com/wfunc/blackjack/session"
)

// Events receives operator-facing notifications as the router applies
// inbound messages. Implementations only render; they never touch the
// session.
type Events interface {
	RoundStarted(snap session.Data)
	GameUpdated(snap session.Data, turnNickname string, myTurn bool)
	RecommendationReceived(rec session.Recommendation)
	RoundSettled(result string, payout int, snap session.Data, playerHandCodes, dealerHandCodes []string)
	RoundReset()
	BetRejected(reason string)
	StatisticsReceived(payload json.RawMessage)
	CapitalExhausted(capital int)
}

// NopEvents discards every notification. Used by tests.
type NopEvents struct{}

func (NopEvents) RoundStarted(session.Data)                                  {}
func (NopEvents) GameUpdated(session.Data, string, bool)                     {}
func (NopEvents) RecommendationReceived(session.Recommendation)              {}
func (NopEvents) RoundSettled(string, int, session.Data, []string, []string) {}
func (NopEvents) RoundReset()                                                {}
func (NopEvents) BetRejected(string)                                         {}
func (NopEvents) StatisticsReceived(json.RawMessage)                         {}
func (NopEvents) CapitalExhausted(int)                                       {}
