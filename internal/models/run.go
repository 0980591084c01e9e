package models

import "time"

// RunReport summarizes one reconciliation pass.
type RunReport struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Excluded   []string
	Outcomes   []Outcome
}

// Count returns the number of outcomes of the given kind.
func (r *RunReport) Count(kind OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Failed returns the number of vms that did not reach their desired state.
func (r *RunReport) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind.IsFailure() {
			n++
		}
	}
	return n
}

// RunRecord is a run as stored in the journal.
type RunRecord struct {
	ID         string
	VCenter    string
	StartedAt  time.Time
	FinishedAt *time.Time
	Error      string
}
