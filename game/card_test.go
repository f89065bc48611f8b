package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCard(t *testing.T) {
	card, err := ParseCard("S10")
	require.NoError(t, err)
	assert.Equal(t, Spades, card.Suit)
	assert.Equal(t, Rank("10"), card.Rank)

	card, err = ParseCard("HA")
	require.NoError(t, err)
	assert.Equal(t, Hearts, card.Suit)
	assert.Equal(t, Ace, card.Rank)

	card, err = ParseCard(HiddenCode)
	require.NoError(t, err)
	assert.True(t, card.Concealed())

	card, err = ParseCard("")
	require.NoError(t, err)
	assert.True(t, card.Concealed())
}

func TestParseCard_Malformed(t *testing.T) {
	// Bad card codes are decode failures, never panics.
	for _, code := range []string{"X", "Z5", "S", "H1", "S15", "QQA"} {
		_, err := ParseCard(code)
		assert.Error(t, err, "code %q should not parse", code)
	}
}

func TestNewCard_ClosedEnumerations(t *testing.T) {
	_, err := NewCard("S", "A")
	assert.NoError(t, err)

	_, err = NewCard("X", "A")
	assert.Error(t, err)

	_, err = NewCard("S", "11")
	assert.Error(t, err)
}

func TestCardValue(t *testing.T) {
	tests := []struct {
		code  string
		value int
	}{
		{"S2", 2},
		{"H7", 7},
		{"D10", 10},
		{"CJ", 10},
		{"SQ", 10},
		{"HK", 10},
		{"DA", 11},
		{HiddenCode, 0},
	}
	for _, tt := range tests {
		card, err := ParseCard(tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.value, card.Value(), "value of %s", tt.code)
	}
}

func TestCardString_RoundTrip(t *testing.T) {
	for _, code := range []string{"S10", "HA", "C2", "DK", HiddenCode} {
		card, err := ParseCard(code)
		require.NoError(t, err)
		assert.Equal(t, code, card.String())
	}
}
