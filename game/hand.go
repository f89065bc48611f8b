// game/hand.go
package game

// Hand is an ordered sequence of cards. Order matters only for display.
type Hand []Card

// ParseHand decodes a list of wire card-codes. Concealed tokens are kept
// as zero Cards so positions line up with what the arbiter displays.
func ParseHand(codes []string) (Hand, error) {
	hand := make(Hand, 0, len(codes))
	for _, code := range codes {
		card, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		hand = append(hand, card)
	}
	return hand, nil
}

// Codes renders the hand back to wire card-codes.
func (h Hand) Codes() []string {
	codes := make([]string, 0, len(h))
	for _, c := range h {
		codes = append(codes, c.String())
	}
	return codes
}

// Value sums the hand counting Aces as 11, then demotes Aces to 1 one at
// a time while the total is over 21. Concealed cards contribute nothing.
func (h Hand) Value() int {
	value := 0
	aces := 0
	for _, c := range h {
		if c.Concealed() {
			continue
		}
		if c.Rank == Ace {
			aces++
		}
		value += c.Value()
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// IsBlackjack reports a natural: exactly two cards worth 21.
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}

func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// Clone returns an independent copy, so snapshots cannot alias the
// session's live hand.
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	clone := make(Hand, len(h))
	copy(clone, h)
	return clone
}
