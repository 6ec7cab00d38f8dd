// Package service ties the instance guard and the batch generator together
// behind the submission driver.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bbockelm/cellpainting-download/internal/batch"
	"github.com/bbockelm/cellpainting-download/internal/domain"
	errpkg "github.com/bbockelm/cellpainting-download/internal/errors"
	"github.com/bbockelm/cellpainting-download/internal/executor"
	"github.com/bbockelm/cellpainting-download/internal/validation"
)

// BatchGenerator builds and submits one batch.
type BatchGenerator interface {
	Generate(ctx context.Context, opts batch.Options) (*domain.BatchHandle, error)
}

// SubmitService guards against duplicate concurrent instances and delegates
// batch materialization to the generator.
type SubmitService struct {
	exec   executor.Executor
	gen    BatchGenerator
	logger *slog.Logger
}

// NewSubmitService creates a SubmitService.
func NewSubmitService(exec executor.Executor, gen BatchGenerator, logger *slog.Logger) *SubmitService {
	return &SubmitService{exec: exec, gen: gen, logger: logger}
}

// HasActiveBatch reports whether the scheduler already tracks a queued or
// running batch under exactly this name. A query failure propagates:
// proceeding without the check risks duplicate, resource-wasting submissions.
func (s *SubmitService) HasActiveBatch(ctx context.Context, name string) (bool, error) {
	n, err := s.exec.CountActiveBatches(ctx, name)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Submit runs the duplicate-instance check and, when clear, generates and
// submits the batch. On ErrDuplicateInstance the generator is never invoked.
func (s *SubmitService) Submit(ctx context.Context, opts batch.Options) (*domain.BatchHandle, error) {
	if err := validation.ValidateInstanceName(opts.Instance); err != nil {
		return nil, err
	}

	active, err := s.HasActiveBatch(ctx, opts.Instance)
	if err != nil {
		return nil, fmt.Errorf("duplicate-instance check: %w", err)
	}
	if active {
		return nil, fmt.Errorf("%w: %s", errpkg.ErrDuplicateInstance, opts.Instance)
	}

	handle, err := s.gen.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}

	s.logger.Info("submission complete",
		"instance", handle.Instance,
		"cluster_id", handle.ClusterID,
		"tasks", handle.NumTasks,
	)
	return handle, nil
}
