// console/console.go
package console

import (
	"encoding/json"
	"strings"

	"github.com/pterm/pterm"

	"github.com/wfunc/blackjack/game"
	"github.com/wfunc/blackjack/session"
)

// Console renders game progress and prompts for the operator. It
// implements the router's Events interface and never mutates the session.
type Console struct {
	nickname string
}

func New(nickname string) *Console {
	return &Console{nickname: nickname}
}

func handString(h game.Hand) string {
	if len(h) == 0 {
		return "(empty)"
	}
	return pterm.Sprintf("%s  (value %d)", strings.Join(h.Codes(), " "), h.Value())
}

// codesString renders raw wire card-codes without failing on bad input;
// final hands in a settlement are display-only.
func codesString(codes []string) string {
	hand, err := game.ParseHand(codes)
	if err != nil {
		return strings.Join(codes, " ")
	}
	return handString(hand)
}

func (c *Console) Help() {
	help := pterm.DefaultBox.WithTitle("commands").WithTitleTopCenter()
	help.Println(strings.Join([]string{
		"outside your turn:",
		"  bet <amount>   place a wager for the next round",
		"  stats          ask the card counter for table statistics",
		"  quit           leave the table",
		"",
		"during your turn:",
		"  hit | stand | double-down | split | surrender",
		"  auto           play the recommended action",
	}, "\n"))
}

// Prompt prints the phase-appropriate input prompt.
func (c *Console) Prompt(snap session.Data) {
	switch snap.Phase {
	case session.PhaseBetting:
		suggested := snap.Capital
		if suggested > 50 {
			suggested = 50
		}
		pterm.Printf("%s [capital %d] bet <amount> (e.g. bet %d), stats, quit > ", c.nickname, snap.Capital, suggested)
	case session.PhaseMyTurn:
		hint := ""
		if snap.Recommendation != nil {
			hint = pterm.Sprintf(" (recommended: %s)", snap.Recommendation.Action)
		}
		pterm.Printf("%s your move%s: hit, stand, double-down, split, surrender, auto > ", c.nickname, hint)
	case session.PhaseTerminal:
		pterm.Printf("%s out of capital. stats, quit > ", c.nickname)
	default:
		pterm.Printf("%s waiting... stats, quit > ", c.nickname)
	}
}

func (c *Console) Error(err error) {
	pterm.Error.Println(err.Error())
}

func (c *Console) Infof(format string, args ...interface{}) {
	pterm.Info.Printfln(format, args...)
}

// --- state.Events ---

func (c *Console) RoundStarted(snap session.Data) {
	box := pterm.DefaultBox.WithTitle("new round").WithTitleTopCenter()
	box.Println(pterm.Sprintf("your hand:   %s\ndealer shows: %s\nbet: %d   capital: %d",
		handString(snap.Hand), snap.DealerUpCard, snap.Bet, snap.Capital))
	if snap.Hand.IsBlackjack() {
		pterm.Success.Println("Blackjack! Waiting for the round result.")
	} else if snap.Hand.IsBust() {
		pterm.Warning.Println("Bust on the deal. Waiting for the round result.")
	}
}

func (c *Console) GameUpdated(snap session.Data, turnNickname string, myTurn bool) {
	dealer := "(unknown)"
	if len(snap.DealerHand) > 0 {
		dealer = handString(snap.DealerHand)
	} else if !snap.DealerUpCard.Concealed() {
		dealer = snap.DealerUpCard.String()
	}
	pterm.Info.Printfln("your hand: %s | dealer: %s", handString(snap.Hand), dealer)
	if myTurn {
		pterm.Println(pterm.LightGreen("--- your turn ---"))
	} else if turnNickname != "" {
		pterm.Printfln("waiting for %s to act", turnNickname)
	}
}

func (c *Console) RecommendationReceived(rec session.Recommendation) {
	pterm.Info.Printfln("card counter recommends %s (EV %.2f), type 'auto' to play it", rec.Action, rec.ExpectedValue)
}

func (c *Console) RoundSettled(result string, payout int, snap session.Data, playerHandCodes, dealerHandCodes []string) {
	box := pterm.DefaultBox.WithTitle("round result").WithTitleTopCenter()
	box.Println(pterm.Sprintf("%s\nyour final hand:   %s\ndealer final hand: %s\npayout: %+d   capital: %d",
		strings.ToUpper(result), codesString(playerHandCodes), codesString(dealerHandCodes), payout, snap.Capital))
}

func (c *Console) RoundReset() {
	pterm.Println("Ready for a new round. Place a bet, or type 'quit' to leave.")
}

func (c *Console) BetRejected(reason string) {
	pterm.Warning.Printfln("The croupier rejected your bet: %s. The wager was refunded.", reason)
}

func (c *Console) StatisticsReceived(payload json.RawMessage) {
	var pretty map[string]interface{}
	if err := json.Unmarshal(payload, &pretty); err != nil {
		pterm.Warning.Printfln("unreadable statistics response: %v", err)
		return
	}
	formatted, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return
	}
	pterm.DefaultBox.WithTitle("table statistics").WithTitleTopCenter().Println(string(formatted))
}

func (c *Console) CapitalExhausted(capital int) {
	pterm.Error.Println("Capital exhausted. No further bets will be accepted.")
}
