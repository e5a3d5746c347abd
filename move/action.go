package move

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Action is one discrete input sent to the game host.
type Action uint8

const (
	ActionRotateLeft Action = iota
	ActionRotateRight
	ActionShiftLeft
	ActionShiftRight
	ActionDrop
)

var actionNames = []string{
	ActionRotateLeft:  "rotate-left",
	ActionRotateRight: "rotate-right",
	ActionShiftLeft:   "shift-left",
	ActionShiftRight:  "shift-right",
	ActionDrop:        "drop",
}

// Names the host uses on the wire.
var wireNames = []string{
	ActionRotateLeft:  "turnleft",
	ActionRotateRight: "turnright",
	ActionShiftLeft:   "left",
	ActionShiftRight:  "right",
	ActionDrop:        "drop",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Wire returns the host's name for the action.
func (a Action) Wire() string {
	if int(a) < len(wireNames) {
		return wireNames[a]
	}
	return ""
}

// ParseAction accepts either the host's wire name or the long name of an
// action.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range wireNames {
		if wireNames[i] == s || actionNames[i] == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// FormatActions renders actions the way the host expects them: wire names
// joined by commas.
func FormatActions(actions []Action) string {
	return strings.Join(lo.Map(actions, func(a Action, _ int) string {
		return a.Wire()
	}), ",")
}

// ParseActions parses a comma-separated action list.
func ParseActions(s string) ([]Action, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	actions := make([]Action, 0, len(fields))
	for _, f := range fields {
		a, err := ParseAction(f)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}
