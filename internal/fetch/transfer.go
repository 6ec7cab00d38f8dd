package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/bbockelm/cellpainting-download/internal/config"
)

// Transferer mirrors a remote measurement prefix into a local directory.
// Implementations are injected so tests never spawn real processes or touch
// real buckets.
type Transferer interface {
	Mirror(ctx context.Context, measurement, localDir string) error
}

// Mover places a completed archive at its final path. The default moves by
// rename, which is atomic within a filesystem; that atomicity is the one
// concurrency primitive the idempotency contract relies on.
type Mover interface {
	Move(oldpath, newpath string) error
}

type renameMover struct{}

// NewRenameMover returns the os.Rename-backed Mover.
func NewRenameMover() Mover {
	return renameMover{}
}

func (renameMover) Move(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Runner executes an external command and returns its standard output.
// Satisfied by executor.NewRunner.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecTransferer shells out to an mc-compatible object storage client in
// mirror mode. The client's alias configuration is created on first use.
type ExecTransferer struct {
	runner    Runner
	binary    string
	configDir string
	alias     string
	endpoint  string
	bucket    string
	logger    *slog.Logger
}

// NewExecTransferer builds an ExecTransferer from config.
func NewExecTransferer(runner Runner, cfg *config.Config, logger *slog.Logger) *ExecTransferer {
	return &ExecTransferer{
		runner:    runner,
		binary:    cfg.TransferBinary,
		configDir: cfg.TransferConfigDir,
		alias:     cfg.AliasName,
		endpoint:  cfg.EndpointURL,
		bucket:    cfg.Bucket,
		logger:    logger,
	}
}

// Mirror recursively copies the remote prefix into localDir. The mirror is
// not idempotent on its own; the client reconciles existing local files
// against the remote listing on re-attempts.
func (t *ExecTransferer) Mirror(ctx context.Context, measurement, localDir string) error {
	if err := EnsureAliasConfig(t.configDir, t.alias, t.endpoint); err != nil {
		return fmt.Errorf("prepare transfer config: %w", err)
	}

	src := t.alias + "/" + path.Join(t.bucket, measurement)
	t.logger.Info("mirroring measurement", "source", src, "local_dir", localDir)

	_, err := t.runner.Run(ctx, t.binary,
		"--config-dir", t.configDir,
		"mirror", "--quiet",
		src, localDir,
	)
	if err != nil {
		return fmt.Errorf("mirror %s: %w", src, err)
	}
	return nil
}
