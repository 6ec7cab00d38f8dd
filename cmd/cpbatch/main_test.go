package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbockelm/cellpainting-download/internal/executor"
)

// stubExecutor stands in for the scheduler in submit tests.
type stubExecutor struct {
	active    int
	clusterID string
}

func (s *stubExecutor) SubmitBatch(ctx context.Context, descriptorPath, name string, maxRunning int) (string, error) {
	return s.clusterID, nil
}

func (s *stubExecutor) CountActiveBatches(ctx context.Context, name string) (int, error) {
	return s.active, nil
}

func withStubExecutor(t *testing.T, stub *stubExecutor) {
	t.Helper()
	orig := newExecutor
	newExecutor = func(*slog.Logger) executor.Executor { return stub }
	t.Cleanup(func() { newExecutor = orig })
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no arguments", nil, ExitGeneralError},
		{"help", []string{"help"}, ExitSuccess},
		{"unknown command", []string{"frobnicate"}, ExitGeneralError},
		{"resubmit not implemented", []string{"resubmit"}, ExitUnimplemented},
		{"cancel not implemented", []string{"cancel"}, ExitUnimplemented},
		{"status not implemented", []string{"status"}, ExitUnimplemented},
		{"submit without required flags", []string{"submit"}, ExitGeneralError},
		{"submit missing destination", []string{"submit", "-instance", "run1"}, ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}

func TestRun_Submit_DuplicateInstance(t *testing.T) {
	withStubExecutor(t, &stubExecutor{active: 1})

	dir := t.TempDir()
	list := filepath.Join(dir, "measurements.txt")
	require.NoError(t, os.WriteFile(list, []byte("plate1/wellA\n"), 0o644))
	workingDir := filepath.Join(dir, "run1")

	code := run([]string{"submit",
		"-instance", "run1",
		"-working-dir", workingDir,
		"-measurements", list,
		"-destination", dir,
	})
	assert.Equal(t, ExitDuplicateInstance, code)

	// The guard fired before any batch state was materialized.
	assert.NoDirExists(t, workingDir)
}

func TestRun_Submit_Success(t *testing.T) {
	withStubExecutor(t, &stubExecutor{clusterID: "42"})

	dir := t.TempDir()
	list := filepath.Join(dir, "measurements.txt")
	require.NoError(t, os.WriteFile(list, []byte("plate1/wellA\nplate1/wellB\n"), 0o644))
	workingDir := filepath.Join(dir, "run1")

	code := run([]string{"submit",
		"-instance", "run1",
		"-working-dir", workingDir,
		"-measurements", list,
		"-destination", dir,
	})
	assert.Equal(t, ExitSuccess, code)
	assert.FileExists(t, filepath.Join(workingDir, "measurements.dag"))
}
