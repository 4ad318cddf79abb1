package models

import "time"

// RunState is the position of a run in its state machine:
// Idle → Attempting → {Success, Retrying → Attempting, Exhausted}.
type RunState string

const (
	StateIdle       RunState = "idle"
	StateAttempting RunState = "attempting"
	StateRetrying   RunState = "retrying"
	StateSuccess    RunState = "success"
	StateExhausted  RunState = "exhausted"
)

// Terminal reports whether no further transitions are possible.
func (s RunState) Terminal() bool {
	return s == StateSuccess || s == StateExhausted
}

// AttemptOutcome is the uniform result of one attempt. Exactly one of
// Change and Err is set.
type AttemptOutcome struct {
	Attempt int
	Pair    *QuotePair
	Change  *Change
	Err     error
}

// Succeeded reports whether the attempt produced a quote comparison.
func (o AttemptOutcome) Succeeded() bool {
	return o.Err == nil && o.Change != nil
}

// RunReport summarises a whole run.
type RunReport struct {
	State       RunState         `json:"state"`
	Attempts    int              `json:"attempts"`
	MaxAttempts int              `json:"max_attempts"`
	Pair        *QuotePair       `json:"quotes,omitempty"`
	Change      *Change          `json:"change,omitempty"`
	Message     string           `json:"message,omitempty"`
	LastError   string           `json:"last_error,omitempty"`
	Outcomes    []AttemptOutcome `json:"-"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
}
