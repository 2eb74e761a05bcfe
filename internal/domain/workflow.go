package domain

import "fmt"

// Role is the acting role supplied by the caller of a workflow operation.
type Role string

const (
	RoleUser    Role = "User"
	RoleManager Role = "Manager"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleManager }

// ParseRole accepts the canonical role names case-sensitively.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
	return r, nil
}

type State string

const (
	StateDraft         State = "Draft"
	StatePendingReview State = "Pending Manager Review"
	StateApproved      State = "Approved"
)

func (s State) Valid() bool {
	switch s {
	case StateDraft, StatePendingReview, StateApproved:
		return true
	}
	return false
}

type Action string

const (
	ActionSendForReview Action = "send_for_review"
	ActionApprove       Action = "approve"
)

type edge struct {
	from  State
	to    State
	roles []Role
}

// The workflow is forward only. There is no edge back to Draft.
var edges = map[Action]edge{
	ActionSendForReview: {from: StateDraft, to: StatePendingReview, roles: []Role{RoleUser, RoleManager}},
	ActionApprove:       {from: StatePendingReview, to: StateApproved, roles: []Role{RoleManager}},
}

// Transition returns the state reached by applying action to from as role.
func Transition(from State, action Action, role Role) (State, error) {
	e, ok := edges[action]
	if !ok || e.from != from {
		return from, fmt.Errorf("%w: %s from %q", ErrNoTransition, action, from)
	}
	for _, r := range e.roles {
		if r == role {
			return e.to, nil
		}
	}
	return from, fmt.Errorf("%w: %s requires %v, got %q", ErrRoleNotPermitted, action, e.roles, role)
}

// Editable reports whether content fields of a service in state s may change.
func Editable(s State) bool {
	return s != StatePendingReview && s != StateApproved
}

// AvailableActions lists the actions role may apply to a service in state s.
func AvailableActions(s State, role Role) []Action {
	out := []Action{}
	for _, a := range []Action{ActionSendForReview, ActionApprove} {
		if _, err := Transition(s, a, role); err == nil {
			out = append(out, a)
		}
	}
	return out
}
