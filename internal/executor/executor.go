// Package executor talks to the batch workload scheduler. The scheduler is a
// black box consumed through two operations: submit a materialized batch
// descriptor and count queued or running batches by name.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Executor is the scheduler surface the orchestration core depends on.
type Executor interface {
	// SubmitBatch hands a descriptor file to the scheduler under the given
	// batch name with maxRunning as the concurrency throttle (0 = scheduler
	// default). Returns the scheduler-assigned cluster identifier.
	SubmitBatch(ctx context.Context, descriptorPath, name string, maxRunning int) (string, error)

	// CountActiveBatches returns how many queued or running batches carry
	// exactly the given name.
	CountActiveBatches(ctx context.Context, name string) (int, error)
}

// Runner executes an external command and returns its combined standard
// output. Command failures carry the captured standard error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

// NewRunner returns a Runner backed by os/exec.
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", name, err)
	}

	return stdout.Bytes(), nil
}
