// Package fetch implements the per-measurement worker logic: mirror the
// remote prefix, pack it into one archive, place the archive atomically.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bbockelm/cellpainting-download/internal/archive"
	"github.com/bbockelm/cellpainting-download/internal/domain"
	"github.com/bbockelm/cellpainting-download/internal/metrics"
)

// Pipeline runs one measurement fetch end to end. Run is idempotent: when the
// artifact already exists it returns immediately without transferring or
// packing anything.
type Pipeline struct {
	transfer   Transferer
	move       Mover
	scratchDir string
	logger     *slog.Logger

	mu     sync.Mutex
	status domain.FetchStatus
}

// NewPipeline creates a Pipeline mirroring through transfer and staging under
// scratchDir.
func NewPipeline(transfer Transferer, scratchDir string, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		transfer:   transfer,
		move:       NewRenameMover(),
		scratchDir: scratchDir,
		logger:     logger,
		status:     domain.FetchStatus{Stage: domain.StageIdle},
	}
}

// SetMover overrides the default rename-based Mover.
func (p *Pipeline) SetMover(m Mover) {
	p.move = m
}

// Status returns a snapshot of the pipeline for the status endpoint.
func (p *Pipeline) Status() domain.FetchStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Pipeline) setStage(stage domain.FetchStage) {
	p.mu.Lock()
	p.status.Stage = stage
	p.mu.Unlock()
}

// Run fetches one measurement into destinationRoot. Any failure is fatal for
// this attempt; re-attempting is entirely the scheduler's responsibility.
func (p *Pipeline) Run(ctx context.Context, measurement, destinationRoot string) error {
	p.mu.Lock()
	p.status = domain.FetchStatus{
		Measurement: measurement,
		Stage:       domain.StageIdle,
		StartedAt:   time.Now(),
	}
	p.mu.Unlock()

	artifact := ArtifactPath(destinationRoot, measurement)
	if IsComplete(artifact) {
		p.setStage(domain.StageDone)
		metrics.FetchesSkipped.Inc()
		p.logger.Info("artifact already present, nothing to do",
			"measurement", measurement,
			"artifact", artifact,
		)
		return nil
	}

	start := time.Now()
	stem := Flatten(measurement)
	localDir := filepath.Join(p.scratchDir, stem)

	p.setStage(domain.StageMirroring)
	if err := p.transfer.Mirror(ctx, measurement, localDir); err != nil {
		metrics.FetchesFailed.Inc()
		return err
	}

	// The partial archive lives beside the artifact so the final move is a
	// same-filesystem rename. Its name is unique per attempt: retries of the
	// same measurement under differently-named batches may share a
	// destination root, and must never write through the same partial file.
	p.setStage(domain.StagePacking)
	tmp, err := os.CreateTemp(destinationRoot, "."+stem+".*.zip.partial")
	if err != nil {
		metrics.FetchesFailed.Inc()
		return fmt.Errorf("stage partial archive for %s: %w", measurement, err)
	}
	partial := tmp.Name()
	tmp.Close()

	packed, err := archive.PackDir(localDir, partial)
	if err != nil {
		os.Remove(partial)
		metrics.FetchesFailed.Inc()
		return fmt.Errorf("pack %s: %w", measurement, err)
	}

	p.setStage(domain.StagePlacing)
	if err := p.move.Move(partial, artifact); err != nil {
		os.Remove(partial)
		metrics.FetchesFailed.Inc()
		return fmt.Errorf("place artifact %s: %w", artifact, err)
	}

	// Only empty directories remain after packing; their removal is best
	// effort and does not affect correctness.
	if err := os.RemoveAll(localDir); err != nil {
		p.logger.Warn("failed to clean scratch directory", "path", localDir, "error", err)
	}

	p.setStage(domain.StageDone)
	metrics.FetchesCompleted.Inc()
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("measurement archived",
		"measurement", measurement,
		"artifact", artifact,
		"files", packed,
		"elapsed", time.Since(start).Round(time.Second).String(),
	)
	return nil
}
