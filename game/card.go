// game/card.go
package game

import (
	"fmt"
	"strconv"
)

// HiddenCode is the wire token for a card the arbiter keeps concealed
// (the hole card). It decodes to the zero Card, which counts for nothing.
const HiddenCode = "HIDDEN"

type Suit string

const (
	Spades   Suit = "S"
	Clubs    Suit = "C"
	Hearts   Suit = "H"
	Diamonds Suit = "D"
)

type Rank string

const (
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

var validRanks = map[Rank]bool{
	"2": true, "3": true, "4": true, "5": true, "6": true,
	"7": true, "8": true, "9": true, "10": true,
	Jack: true, Queen: true, King: true, Ace: true,
}

var validSuits = map[Suit]bool{
	Spades: true, Clubs: true, Hearts: true, Diamonds: true,
}

// Card is an immutable suit/rank pair. The zero value represents a
// concealed card.
type Card struct {
	Suit Suit
	Rank Rank
}

func NewCard(suit Suit, rank Rank) (Card, error) {
	if !validSuits[suit] {
		return Card{}, fmt.Errorf("invalid card suit %q", suit)
	}
	if !validRanks[rank] {
		return Card{}, fmt.Errorf("invalid card rank %q", rank)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCard decodes a wire card-code such as "S10" or "HA". The
// concealment token (or an empty code) yields the zero Card without error.
// Any other malformed code is a decode failure, never a panic.
func ParseCard(code string) (Card, error) {
	if code == "" || code == HiddenCode {
		return Card{}, nil
	}
	if len(code) < 2 {
		return Card{}, fmt.Errorf("card code %q too short", code)
	}
	return NewCard(Suit(code[:1]), Rank(code[1:]))
}

func (c Card) Concealed() bool {
	return c.Suit == "" && c.Rank == ""
}

// Value returns the card's blackjack value. Aces count 11 here; demotion
// to 1 happens at the hand level. Concealed cards count for nothing.
func (c Card) Value() int {
	if c.Concealed() {
		return 0
	}
	switch c.Rank {
	case Jack, Queen, King:
		return 10
	case Ace:
		return 11
	default:
		n, err := strconv.Atoi(string(c.Rank))
		if err != nil {
			// Unreachable for cards built via NewCard/ParseCard.
			return 0
		}
		return n
	}
}

func (c Card) String() string {
	if c.Concealed() {
		return HiddenCode
	}
	return string(c.Suit) + string(c.Rank)
}
