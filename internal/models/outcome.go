package models

import (
	"time"
)

// OutcomeKind is the result of reconciling one desired entry.
type OutcomeKind string

const (
	// OutcomeAlreadyInDesiredState - observed state equals desired state, nothing was done
	OutcomeAlreadyInDesiredState OutcomeKind = "already-in-desired-state"
	// OutcomeTransitioned - the transition task succeeded
	OutcomeTransitioned OutcomeKind = "transitioned"
	// OutcomeTransitionFailed - the task was accepted and later failed
	OutcomeTransitionFailed OutcomeKind = "transition-failed"
	// OutcomeTaskCreationFailed - the endpoint rejected the request
	OutcomeTaskCreationFailed OutcomeKind = "task-creation-failed"
	// OutcomeNotFound - the vm is not in the inventory
	OutcomeNotFound OutcomeKind = "not-found"
)

func (o OutcomeKind) IsFailure() bool {
	return o == OutcomeTransitionFailed || o == OutcomeTaskCreationFailed
}

// Action is the endpoint operation chosen for a vm.
type Action string

const (
	ActionNone          Action = "none"
	ActionPowerOn       Action = "power-on"
	ActionShutdownGuest Action = "shutdown-guest"
	ActionPowerOff      Action = "power-off"
)

// Outcome is the record of reconciling one desired entry.
type Outcome struct {
	VM       string
	Kind     OutcomeKind
	Desired  PowerState
	Observed PowerState // empty when the vm was not found
	Action   Action
	Detail   string
	Duration time.Duration
}
