package httpapi

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mslscheduler/internal/model"
	"mslscheduler/internal/report"
)

// JobStatus is a solve job's lifecycle state, grounded on this
// codebase's bulk-operation status enum but narrowed to the statuses a
// solve can actually reach.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobRunning    JobStatus = "running"
	JobFeasible   JobStatus = "feasible"
	JobInfeasible JobStatus = "infeasible"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

// Job tracks one asynchronous solve request end to end (spec §5
// "long-running strategies run off the request goroutine").
type Job struct {
	ID           uuid.UUID
	InstanceHash string
	Strategy     string
	Status       JobStatus
	CreatedAt    time.Time
	FinishedAt   time.Time
	Error        string
	Report       *report.Report
	Schedule     map[uuid.UUID][model.Days][]*model.BoundaryAssignment

	cancel context.CancelFunc
}
