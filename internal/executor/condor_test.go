package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	out  []byte
	err  error
	name string
	args []string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.name = name
	r.args = args
	return r.out, r.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCondorExecutor_SubmitBatch(t *testing.T) {
	runner := &fakeRunner{out: []byte(
		"Submitting job(s).\n1 job(s) submitted to cluster 4821.\n",
	)}
	e := NewCondorExecutor(runner, newTestLogger())

	clusterID, err := e.SubmitBatch(context.Background(), "run1/measurements.dag", "run1", 20)
	require.NoError(t, err)
	assert.Equal(t, "4821", clusterID)
	assert.Equal(t, "condor_submit_dag", runner.name)
	assert.Equal(t, []string{"-batch-name", "run1", "-maxjobs", "20", "run1/measurements.dag"}, runner.args)
}

func TestCondorExecutor_SubmitBatch_NoThrottle(t *testing.T) {
	runner := &fakeRunner{out: []byte("1 job(s) submitted to cluster 7.\n")}
	e := NewCondorExecutor(runner, newTestLogger())

	_, err := e.SubmitBatch(context.Background(), "d.dag", "run1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"-batch-name", "run1", "d.dag"}, runner.args)
}

func TestCondorExecutor_SubmitBatch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{
			name:   "command failure",
			runner: &fakeRunner{err: errors.New("condor_submit_dag: exit status 1")},
		},
		{
			name:   "unparseable output",
			runner: &fakeRunner{out: []byte("something unexpected")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewCondorExecutor(tt.runner, newTestLogger())
			_, err := e.SubmitBatch(context.Background(), "d.dag", "run1", 0)
			assert.Error(t, err)
		})
	}
}

func TestCondorExecutor_CountActiveBatches(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want int
	}{
		{
			name: "no matching jobs",
			out:  "",
			want: 0,
		},
		{
			name: "one batch with several jobs",
			out:  `[{"ClusterId":10,"JobBatchName":"run1"},{"ClusterId":10,"JobBatchName":"run1"}]`,
			want: 1,
		},
		{
			name: "two distinct clusters",
			out:  `[{"ClusterId":10,"JobBatchName":"run1"},{"ClusterId":11,"JobBatchName":"run1"}]`,
			want: 2,
		},
		{
			name: "case differs, no match",
			out:  `[{"ClusterId":10,"JobBatchName":"RUN1"}]`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{out: []byte(tt.out)}
			e := NewCondorExecutor(runner, newTestLogger())

			n, err := e.CountActiveBatches(context.Background(), "run1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestCondorExecutor_CountActiveBatches_QueryFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("condor_q: failed to connect to schedd")}
	e := NewCondorExecutor(runner, newTestLogger())

	_, err := e.CountActiveBatches(context.Background(), "run1")
	assert.Error(t, err)
}
