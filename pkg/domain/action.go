package domain

import dErrors "worldvault/pkg/domain-errors"

// Action is the vault operation class an agent requests under a token.
// Invariant: the value must be one of the supported actions.
//
// Usage: construct via ParseAction at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// validActions is the single source of truth for valid actions.
var validActions = map[Action]bool{
	ActionRead:  true,
	ActionWrite: true,
}

// ParseAction constructs an Action from external input.
//
// Errors: returns CodeValidation when the value is empty or unsupported; no
// other errors are expected.
func ParseAction(s string) (Action, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "action cannot be empty")
	}
	a := Action(s)
	if !validActions[a] {
		return "", dErrors.New(dErrors.CodeValidation, "action must be read or write")
	}
	return a, nil
}

// IsValid checks if the action is one of the supported enum values.
func (a Action) IsValid() bool {
	return validActions[a]
}

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}
