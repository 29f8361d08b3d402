package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeFullReindex    JobType = "full_reindex"
	JobTypeIncremental    JobType = "incremental"
	JobTypeSingleDocument JobType = "single_document"
	JobTypeBulk           JobType = "bulk"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

var jobStatuses = map[JobStatus]bool{
	JobStatusPending:   true,
	JobStatusRunning:   true,
	JobStatusCompleted: true,
	JobStatusFailed:    true,
}

// ParseJobStatus validates a raw job status value.
func ParseJobStatus(s string) (JobStatus, error) {
	js := JobStatus(s)
	if !jobStatuses[js] {
		return "", fmt.Errorf("unknown job status: %q", s)
	}
	return js, nil
}

// IndexJob tracks one unit of indexing work. Status moves
// pending -> running -> completed|failed; both end states are terminal,
// recovery is always a new job.
type IndexJob struct {
	ID                 uuid.UUID
	JobType            JobType
	Status             JobStatus
	SourceService      *string
	DocumentsProcessed int
	DocumentsFailed    int
	ErrorMessage       *string
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
}

// Start moves the job into the running state.
func (j *IndexJob) Start(now time.Time) error {
	if j.Status != JobStatusPending {
		return fmt.Errorf("cannot start job in status %s", j.Status)
	}
	j.Status = JobStatusRunning
	j.StartedAt = &now
	return nil
}

// Finish records the run totals and moves the job to its terminal state:
// completed when nothing failed, failed otherwise.
func (j *IndexJob) Finish(processed, failed int, errMsg string, now time.Time) error {
	if j.Status != JobStatusRunning {
		return fmt.Errorf("cannot finish job in status %s", j.Status)
	}
	j.DocumentsProcessed = processed
	j.DocumentsFailed = failed
	if failed == 0 {
		j.Status = JobStatusCompleted
	} else {
		j.Status = JobStatusFailed
	}
	if errMsg != "" {
		j.ErrorMessage = &errMsg
	}
	j.CompletedAt = &now
	return nil
}
