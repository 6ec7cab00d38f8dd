package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bbockelm/cellpainting-download/internal/domain"
)

const (
	dagFileName      = "measurements.dag"
	submitFileName   = "fetch.sub"
	manifestFileName = "batch.json"
	logsDirName      = "logs"
)

// WriteDescriptor materializes the batch's task graph inside its working
// directory: the DAG file listing one node per measurement, the shared task
// submit description, a logs directory for per-attempt stdout/stderr, and a
// JSON manifest recording what was generated. Returns the DAG path to hand to
// the scheduler.
func WriteDescriptor(b *domain.Batch, fetchExecutable string) (string, error) {
	if err := os.Mkdir(filepath.Join(b.WorkingDir, logsDirName), 0o755); err != nil {
		return "", fmt.Errorf("create logs directory: %w", err)
	}

	submitPath := filepath.Join(b.WorkingDir, submitFileName)
	if err := os.WriteFile(submitPath, []byte(submitDescription(b, fetchExecutable)), 0o644); err != nil {
		return "", fmt.Errorf("write submit description: %w", err)
	}

	dagPath := filepath.Join(b.WorkingDir, dagFileName)
	if err := os.WriteFile(dagPath, []byte(dagDescription(b)), 0o644); err != nil {
		return "", fmt.Errorf("write dag descriptor: %w", err)
	}

	if err := writeManifest(b); err != nil {
		return "", err
	}

	return dagPath, nil
}

// submitDescription renders the submit file shared by every node. Each
// attempt's stdout/stderr is indexed by task name and retry number so failed
// attempts can be inspected individually.
func submitDescription(b *domain.Batch, fetchExecutable string) string {
	res := b.Tasks[0].Resources

	var sb strings.Builder
	fmt.Fprintf(&sb, "executable = %s\n", fetchExecutable)
	sb.WriteString("arguments = \"$(measurement) $(destination)\"\n")
	fmt.Fprintf(&sb, "output = %s/$(task).$(RETRY).out\n", logsDirName)
	fmt.Fprintf(&sb, "error = %s/$(task).$(RETRY).err\n", logsDirName)
	fmt.Fprintf(&sb, "log = %s/batch.log\n", logsDirName)
	fmt.Fprintf(&sb, "request_cpus = %d\n", res.CPUs)
	fmt.Fprintf(&sb, "request_memory = %dMB\n", res.MemoryMB)
	fmt.Fprintf(&sb, "request_disk = %dKB\n", res.DiskKB)
	if req := b.Tasks[0].Requirement; req != "" {
		fmt.Fprintf(&sb, "requirements = %s\n", req)
	}
	sb.WriteString("should_transfer_files = NO\n")
	sb.WriteString("queue\n")
	return sb.String()
}

func dagDescription(b *domain.Batch) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# batch %s (%s)\n", b.Instance, b.SubmissionID)
	for _, t := range b.Tasks {
		fmt.Fprintf(&sb, "JOB %s %s\n", t.Name, submitFileName)
		fmt.Fprintf(&sb, "VARS %s task=\"%s\" measurement=\"%s\" destination=\"%s\"\n",
			t.Name, t.Name, escapeVar(t.Measurement), escapeVar(t.Destination))
		fmt.Fprintf(&sb, "RETRY %s %d\n", t.Name, t.Retries)
	}
	return sb.String()
}

// escapeVar escapes double quotes for DAG VARS values.
func escapeVar(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// writeManifest persists the generated batch as JSON for operator inspection,
// written to a temporary file first so a crash cannot leave a torn manifest.
func writeManifest(b *domain.Batch) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch manifest: %w", err)
	}

	path := filepath.Join(b.WorkingDir, manifestFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write batch manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename batch manifest: %w", err)
	}
	return nil
}
