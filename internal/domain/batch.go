package domain

import (
	"time"

	"github.com/google/uuid"
)

// Batch is a named collection of fetch tasks submitted together. Its identity
// is the instance name, unique among concurrently queued or running batches.
// The batch owns its working directory for its whole lifetime.
type Batch struct {
	Instance     string     `json:"instance"`
	SubmissionID uuid.UUID  `json:"submission_id"`
	WorkingDir   string     `json:"working_dir"`
	MaxRunning   int        `json:"max_running"`
	Tasks        []TaskSpec `json:"tasks"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BatchHandle is returned after a successful submission and carries the
// scheduler-assigned identifier the operator tracks the batch by.
type BatchHandle struct {
	Instance     string
	ClusterID    string
	SubmissionID uuid.UUID
	WorkingDir   string
	NumTasks     int
}
