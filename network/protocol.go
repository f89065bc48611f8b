// network/protocol.go
package network

import (
	"encoding/json"
	"fmt"
)

// Inbound message types. The arbiter sends everything except the two
// advisory types, which come from the card-counter service.
const (
	MsgTypeDealCards            = "deal_cards"
	MsgTypeGameUpdate           = "game_update"
	MsgTypeGameResult           = "game_result"
	MsgTypeRoundEnded           = "round_ended"
	MsgTypeRejectBet            = "reject_bet"
	MsgTypeActionRecommendation = "action_recommendation"
	MsgTypeStatisticsResponse   = "statistics_response"
)

// Outbound message types.
const (
	MsgTypeBet                   = "bet"
	MsgTypePlayerAction          = "player_action"
	MsgTypeRecommendationRequest = "recommendation_request"
	MsgTypeStatisticsRequest     = "statistics_request"
)

// Envelope is the wire frame: one JSON document per datagram.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode parses a datagram into an envelope. A malformed frame or a frame
// without a type is a decode failure the caller logs and drops.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode datagram: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("decode datagram: missing message type")
	}
	return &env, nil
}

// Encode frames a message for the wire.
func Encode(msgType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// --- Inbound payloads ---

type DealCardsPayload struct {
	PlayerID     string   `json:"player_id"`
	PlayerHand   []string `json:"player_hand"`
	DealerUpCard string   `json:"dealer_up_card"`
	BetAmount    int      `json:"bet_amount"`
}

type GameUpdatePayload struct {
	PlayerID                  string     `json:"player_id"`
	AllPlayerHands            [][]string `json:"all_player_hands"`
	DealerHand                []string   `json:"dealer_hand"`
	CurrentPlayerTurnID       string     `json:"current_player_turn_id"`
	CurrentPlayerTurnNickname string     `json:"current_player_turn_nickname"`
}

type GameResultPayload struct {
	PlayerID   string   `json:"player_id"`
	Result     string   `json:"result"`
	Payout     int      `json:"payout"`
	PlayerHand []string `json:"player_hand"`
	DealerHand []string `json:"dealer_hand"`
}

type RejectBetPayload struct {
	Reason string `json:"reason"`
}

type ActionRecommendationPayload struct {
	RecommendedAction string  `json:"recommended_action"`
	ExpectedValue     float64 `json:"expected_value"`
}

// --- Outbound payloads ---

type BetPayload struct {
	PlayerID         string `json:"player_id"`
	PlayerNickname   string `json:"player_nickname"`
	Amount           int    `json:"amount"`
	PlayerListenAddr string `json:"player_listen_addr"`
}

type PlayerActionPayload struct {
	PlayerID string `json:"player_id"`
	Action   string `json:"action"`
}

type RecommendationRequestPayload struct {
	PlayerID         string   `json:"player_id"`
	PlayerHand       []string `json:"player_hand"`
	DealerUpCard     string   `json:"dealer_up_card"`
	PlayerListenAddr string   `json:"player_listen_addr"`
}

type StatisticsRequestPayload struct {
	RequesterID         string `json:"requester_id"`
	RequesterListenAddr string `json:"requester_listen_addr"`
}
