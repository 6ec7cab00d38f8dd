package errors

import "errors"

var (
	// ErrDuplicateInstance means the scheduler already has a queued or running
	// batch under the requested instance name.
	ErrDuplicateInstance = errors.New("active batch with this instance name already exists")

	// ErrWorkingDirExists means the batch working directory was left behind by
	// an earlier run. It is never reused; the operator must clean it up or pick
	// a new path.
	ErrWorkingDirExists = errors.New("working directory already exists")

	// ErrEmptyBatch means the measurement list produced no tasks.
	ErrEmptyBatch = errors.New("measurement list produced no tasks")

	// ErrUnimplemented marks batch lifecycle commands that are not supported.
	ErrUnimplemented = errors.New("sub-command not implemented")
)
