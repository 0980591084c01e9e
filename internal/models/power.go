package models

import (
	"fmt"
	"strings"
)

// PowerState is the observed or desired power state of a virtual machine.
type PowerState string

const (
	PowerStateOn  PowerState = "on"
	PowerStateOff PowerState = "off"
)

func ParsePowerState(s string) (PowerState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return PowerStateOn, nil
	case "off":
		return PowerStateOff, nil
	default:
		return "", fmt.Errorf("invalid power state: %q", s)
	}
}

func (p PowerState) String() string {
	return string(p)
}

// ShutdownPolicy selects how a powered on machine is brought down.
type ShutdownPolicy string

const (
	// ShutdownPolicyGraceful asks the guest OS to shut down
	ShutdownPolicyGraceful ShutdownPolicy = "graceful"
	// ShutdownPolicyForced cuts the power
	ShutdownPolicyForced ShutdownPolicy = "forced"
)

func ParseShutdownPolicy(s string) (ShutdownPolicy, error) {
	switch ShutdownPolicy(s) {
	case ShutdownPolicyGraceful, ShutdownPolicyForced:
		return ShutdownPolicy(s), nil
	default:
		return "", fmt.Errorf("invalid shutdown policy %q: must be %q or %q", s, ShutdownPolicyGraceful, ShutdownPolicyForced)
	}
}
