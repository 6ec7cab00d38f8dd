package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "gocloud.dev/blob/s3blob"

	h "github.com/bbockelm/cellpainting-download/internal/api/http"
	cfgpkg "github.com/bbockelm/cellpainting-download/internal/config"
	"github.com/bbockelm/cellpainting-download/internal/executor"
	"github.com/bbockelm/cellpainting-download/internal/fetch"
	"github.com/bbockelm/cellpainting-download/internal/validation"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, `Usage: cpfetch <measurement> <destination-root>

Mirror one measurement prefix from object storage, pack it into a single zip
archive and place the archive under the destination root. A no-op when the
archive already exists; a non-zero exit hands the retry to the scheduler.`)
		return 1
	}
	measurement, destinationRoot := args[0], args[1]

	cfg, err := cfgpkg.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}
	cfgpkg.SetupLogger(cfg)

	if err := validation.ValidateMeasurement(measurement); err != nil {
		slog.Error("refusing to fetch", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var transferer fetch.Transferer
	switch cfg.TransferBackend {
	case cfgpkg.BackendBlob:
		transferer = fetch.NewBlobTransferer(cfg.BucketURL, cfg.TransferWorkers, slog.Default())
	default:
		transferer = fetch.NewExecTransferer(executor.NewRunner(), cfg, slog.Default())
	}

	pipeline := fetch.NewPipeline(transferer, cfg.ScratchDir, slog.Default())

	if cfg.MetricsAddr != "" {
		go func() {
			router := h.NewRouter(pipeline, slog.Default())
			if err := http.ListenAndServe(cfg.MetricsAddr, router); err != nil {
				slog.Warn("status endpoint stopped", "error", err)
			}
		}()
	}

	if err := pipeline.Run(ctx, measurement, destinationRoot); err != nil {
		slog.Error("fetch failed", "measurement", measurement, "error", err)
		return 1
	}
	return 0
}
