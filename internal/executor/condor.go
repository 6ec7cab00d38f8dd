package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
)

var clusterRe = regexp.MustCompile(`submitted to cluster (\d+)`)

// CondorExecutor drives an HTCondor pool through its command-line tools.
// Batches are DAGs handed to condor_submit_dag; the duplicate-instance query
// goes through condor_q filtered on the batch name.
type CondorExecutor struct {
	runner Runner
	logger *slog.Logger
}

// NewCondorExecutor creates a CondorExecutor using the given Runner for
// subprocess invocations.
func NewCondorExecutor(runner Runner, logger *slog.Logger) *CondorExecutor {
	return &CondorExecutor{runner: runner, logger: logger}
}

// SubmitBatch submits the DAG descriptor under the given batch name.
func (e *CondorExecutor) SubmitBatch(ctx context.Context, descriptorPath, name string, maxRunning int) (string, error) {
	args := []string{"-batch-name", name}
	if maxRunning > 0 {
		args = append(args, "-maxjobs", strconv.Itoa(maxRunning))
	}
	args = append(args, descriptorPath)

	out, err := e.runner.Run(ctx, "condor_submit_dag", args...)
	if err != nil {
		return "", fmt.Errorf("submit batch %q: %w", name, err)
	}

	m := clusterRe.FindSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("submit batch %q: cluster id not found in scheduler output", name)
	}
	clusterID := string(m[1])

	e.logger.Info("batch submitted",
		"batch_name", name,
		"cluster_id", clusterID,
		"descriptor", descriptorPath,
	)
	return clusterID, nil
}

// CountActiveBatches counts the distinct clusters in the queue whose batch
// name equals name. The match is exact and case-sensitive.
func (e *CondorExecutor) CountActiveBatches(ctx context.Context, name string) (int, error) {
	out, err := e.runner.Run(ctx, "condor_q",
		"-json",
		"-attributes", "ClusterId,JobBatchName",
		"-constraint", fmt.Sprintf("JobBatchName == %q", name),
	)
	if err != nil {
		return 0, fmt.Errorf("query batches %q: %w", name, err)
	}

	// condor_q prints nothing at all when the constraint matches no jobs.
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return 0, nil
	}

	var rows []struct {
		ClusterID int    `json:"ClusterId"`
		BatchName string `json:"JobBatchName"`
	}
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return 0, fmt.Errorf("query batches %q: parse scheduler output: %w", name, err)
	}

	clusters := make(map[int]struct{})
	for _, row := range rows {
		if row.BatchName == name {
			clusters[row.ClusterID] = struct{}{}
		}
	}
	return len(clusters), nil
}
