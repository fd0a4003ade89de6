// Package jobs tracks collection and match runs as explicit objects.
package jobs

import (
	"errors"
	"time"
)

// Kind of work a job performs.
type Kind string

const (
	KindCollect Kind = "collect"
	KindMatch   Kind = "match"
)

// Status of a job.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

var (
	// ErrAlreadyRunning is returned when a job of the same kind is in flight.
	ErrAlreadyRunning = errors.New("job already running")
	// ErrJobNotFound is returned for unknown job ids.
	ErrJobNotFound = errors.New("job not found")
)

// Job is a snapshot of one run.
type Job struct {
	ID         string     `json:"id"`
	Kind       Kind       `json:"kind"`
	Status     Status     `json:"status"`
	Collected  int        `json:"collected"`
	Persisted  int        `json:"persisted"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Terminal reports whether the job has finished.
func (j Job) Terminal() bool {
	return j.Status == StatusDone || j.Status == StatusFailed
}

// Counts carries progress figures reported into a running job.
type Counts struct {
	Collected int
	Persisted int
	Failed    int
}
