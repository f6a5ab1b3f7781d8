// internal/domain/models/decision.go
package models

import (
	"fmt"
	"strconv"
)

// Decision is what an approver chose for one pending request.
type Decision int

const (
	DecisionDefer   Decision = 0
	DecisionDecline Decision = 1
	DecisionApprove Decision = 2
)

// ParseDecision converts a posted decision code.
func ParseDecision(s string) (Decision, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("decision %q is not a number", s)
	}
	d := Decision(n)
	if !d.Valid() {
		return 0, fmt.Errorf("decision %d is not one of 0, 1, 2", n)
	}
	return d, nil
}

// Valid reports whether d is one of the three known codes.
func (d Decision) Valid() bool {
	return d == DecisionDefer || d == DecisionDecline || d == DecisionApprove
}

func (d Decision) String() string {
	switch d {
	case DecisionDefer:
		return "defer"
	case DecisionDecline:
		return "decline"
	case DecisionApprove:
		return "approve"
	}
	return "invalid"
}

// Decisions maps a requesting user's ID to the decision made for them.
type Decisions map[int64]Decision

// Actionable reports whether any decision would change a request.
func (ds Decisions) Actionable() bool {
	for _, d := range ds {
		if d != DecisionDefer {
			return true
		}
	}
	return false
}
