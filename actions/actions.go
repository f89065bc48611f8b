// actions/actions.go
package actions

import (
	"errors"
	"fmt"
	"strings"
)

// Action is a turn decision sent to the arbiter.
type Action string

const (
	ActionHit        Action = "HIT"
	ActionStand      Action = "STAND"
	ActionDoubleDown Action = "DOUBLE_DOWN"
	ActionSplit      Action = "SPLIT"
	ActionSurrender  Action = "SURRENDER"
)

var ErrUnknownAction = errors.New("unknown action")

// ParseAction maps a case-insensitive operator token to an action.
func ParseAction(input string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "hit", "h":
		return ActionHit, nil
	case "stand", "s":
		return ActionStand, nil
	case "double-down", "double_down", "d":
		return ActionDoubleDown, nil
	case "split", "p":
		return ActionSplit, nil
	case "surrender":
		return ActionSurrender, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, input)
	}
}
