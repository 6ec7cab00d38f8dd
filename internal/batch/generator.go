// Package batch turns a measurement list into a scheduled batch of fetch
// tasks and hands it to the executor.
package batch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/bbockelm/cellpainting-download/internal/config"
	"github.com/bbockelm/cellpainting-download/internal/domain"
	errpkg "github.com/bbockelm/cellpainting-download/internal/errors"
	"github.com/bbockelm/cellpainting-download/internal/executor"
	"github.com/bbockelm/cellpainting-download/internal/metrics"
)

// Options carries everything a single batch generation needs.
type Options struct {
	Instance        string
	WorkingDir      string
	MeasurementList string
	Destination     string
	MaxRunning      int
	MaxMeasurements int
}

// Generator builds batches: one task per measurement, a fresh working
// directory, a written task-graph descriptor, one submission call.
type Generator struct {
	exec   executor.Executor
	cfg    *config.Config
	logger *slog.Logger
}

// NewGenerator creates a Generator submitting through exec.
func NewGenerator(exec executor.Executor, cfg *config.Config, logger *slog.Logger) *Generator {
	return &Generator{exec: exec, cfg: cfg, logger: logger}
}

// Generate reads the measurement list, materializes the batch in a brand-new
// working directory and submits it. The working directory must not pre-exist:
// state from a prior run is never reused or merged.
func (g *Generator) Generate(ctx context.Context, opts Options) (*domain.BatchHandle, error) {
	measurements, err := ReadMeasurements(opts.MeasurementList, opts.MaxMeasurements)
	if err != nil {
		return nil, err
	}
	if len(measurements) == 0 {
		return nil, fmt.Errorf("%w: %s", errpkg.ErrEmptyBatch, opts.MeasurementList)
	}

	batch := &domain.Batch{
		Instance:     opts.Instance,
		SubmissionID: uuid.New(),
		WorkingDir:   opts.WorkingDir,
		MaxRunning:   opts.MaxRunning,
		Tasks:        g.buildTasks(measurements, opts.Destination),
		CreatedAt:    time.Now(),
	}

	if err := os.Mkdir(opts.WorkingDir, 0o755); err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", errpkg.ErrWorkingDirExists, opts.WorkingDir)
		}
		return nil, fmt.Errorf("create working directory: %w", err)
	}

	dagPath, err := WriteDescriptor(batch, g.cfg.FetchExecutable)
	if err != nil {
		return nil, err
	}

	// The working directory is deliberately left in place on submission
	// failure so the operator can inspect it.
	clusterID, err := g.exec.SubmitBatch(ctx, dagPath, opts.Instance, opts.MaxRunning)
	if err != nil {
		return nil, err
	}

	metrics.BatchesSubmitted.Inc()
	metrics.TasksGenerated.Add(float64(len(batch.Tasks)))

	g.logger.Info("batch generated",
		"instance", opts.Instance,
		"cluster_id", clusterID,
		"tasks", len(batch.Tasks),
		"working_dir", opts.WorkingDir,
	)

	return &domain.BatchHandle{
		Instance:     opts.Instance,
		ClusterID:    clusterID,
		SubmissionID: batch.SubmissionID,
		WorkingDir:   opts.WorkingDir,
		NumTasks:     len(batch.Tasks),
	}, nil
}

func (g *Generator) buildTasks(measurements []string, destination string) []domain.TaskSpec {
	resources := domain.ResourceRequest{
		CPUs:     g.cfg.RequestCPUs,
		MemoryMB: g.cfg.RequestMemoryMB,
		DiskKB:   g.cfg.RequestDiskKB,
	}

	tasks := make([]domain.TaskSpec, len(measurements))
	for i, m := range measurements {
		tasks[i] = domain.TaskSpec{
			Name:        domain.TaskName(i),
			Measurement: m,
			Destination: destination,
			Retries:     g.cfg.Retries,
			Resources:   resources,
			Requirement: g.cfg.Requirement,
		}
	}
	return tasks
}
