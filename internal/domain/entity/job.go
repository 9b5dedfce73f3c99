package entity

import "time"

// JobState tracks one wallet job through a batch run.
// Transitions are Pending -> Running -> {Completed, Failed}; terminal states
// are final and never affect sibling jobs.
type JobState int

const (
	JobPending JobState = iota
	JobRunning
	JobCompleted
	JobFailed
)

func (s JobState) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobRunning:
		return "running"
	case JobCompleted:
		return "completed"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// JobResult is the terminal outcome for exactly one wallet. A failed job
// carries the causing error and contributes no records.
type JobResult struct {
	Wallet  Wallet          `json:"wallet"`
	State   JobState        `json:"-"`
	Records []BalanceRecord `json:"records,omitempty"`
	Err     error           `json:"-"`
	Elapsed time.Duration   `json:"-"`
}
