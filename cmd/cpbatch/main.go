package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bbockelm/cellpainting-download/internal/batch"
	cfgpkg "github.com/bbockelm/cellpainting-download/internal/config"
	errpkg "github.com/bbockelm/cellpainting-download/internal/errors"
	"github.com/bbockelm/cellpainting-download/internal/executor"
	"github.com/bbockelm/cellpainting-download/internal/service"
)

// Exit codes
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitDuplicateInstance = 2
	ExitUnimplemented     = 3
)

// newExecutor builds the scheduler client; tests substitute a fake here.
var newExecutor = func(logger *slog.Logger) executor.Executor {
	return executor.NewCondorExecutor(executor.NewRunner(), logger)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitGeneralError
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "submit":
		return runSubmit(cmdArgs)
	case "resubmit", "cancel", "status":
		fmt.Fprintf(os.Stderr, "Error: %s: %v; use the scheduler's native tooling\n",
			command, errpkg.ErrUnimplemented)
		return ExitUnimplemented
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", command)
		printUsage()
		return ExitGeneralError
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: cpbatch <command> [options]

Commands:
  submit     Submit a batch of measurement fetch tasks to the scheduler
  resubmit   (not implemented)
  cancel     (not implemented)
  status     (not implemented)

Run 'cpbatch submit -h' for submit options.`)
}

func runSubmit(args []string) int {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)

	instance := fs.String("instance", "", "Batch instance name, unique among active batches (required)")
	workingDir := fs.String("working-dir", "", "Batch working directory (default: the instance name)")
	measurements := fs.String("measurements", "measurements.txt", "Measurement list file, one prefix per line")
	destination := fs.String("destination", "", "Destination root for measurement archives (required)")
	maxRunning := fs.Int("max-running", 0, "Maximum concurrently running tasks (0 = scheduler default)")
	maxMeasurements := fs.Int("max-measurements", 0, "Cap on scheduled measurements (0 = all)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: cpbatch submit [options]

Build one fetch task per measurement in the list file and submit them as a
single named batch. Refuses to run while a batch with the same instance name
is still queued or running.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitGeneralError
	}

	if *instance == "" || *destination == "" {
		fmt.Fprintln(os.Stderr, "Error: -instance and -destination are required")
		fs.Usage()
		return ExitGeneralError
	}
	if *workingDir == "" {
		*workingDir = *instance
	}

	cfg, err := cfgpkg.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return ExitGeneralError
	}
	cfgpkg.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exec := newExecutor(slog.Default())
	gen := batch.NewGenerator(exec, cfg, slog.Default())
	svc := service.NewSubmitService(exec, gen, slog.Default())

	handle, err := svc.Submit(ctx, batch.Options{
		Instance:        *instance,
		WorkingDir:      *workingDir,
		MeasurementList: *measurements,
		Destination:     *destination,
		MaxRunning:      *maxRunning,
		MaxMeasurements: *maxMeasurements,
	})
	if err != nil {
		switch {
		case errors.Is(err, errpkg.ErrDuplicateInstance):
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitDuplicateInstance
		default:
			slog.Error("submission failed", "instance", *instance, "error", err)
			return ExitGeneralError
		}
	}

	fmt.Printf("Submitted batch %q as cluster %s (%d tasks)\n",
		handle.Instance, handle.ClusterID, handle.NumTasks)
	fmt.Printf("Working directory: %s\n", handle.WorkingDir)
	return ExitSuccess
}
