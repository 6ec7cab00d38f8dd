package fetch

import (
	"os"
	"path/filepath"
	"strings"
)

// Flatten maps a hierarchical measurement prefix to a flat-safe file stem:
// "plate/well/field" becomes "plate_well_field".
func Flatten(measurement string) string {
	return strings.ReplaceAll(strings.Trim(measurement, "/"), "/", "_")
}

// ArtifactPath returns the deterministic archive path for a measurement under
// the destination root.
func ArtifactPath(destinationRoot, measurement string) string {
	return filepath.Join(destinationRoot, Flatten(measurement)+".zip")
}

// IsComplete reports whether the artifact already exists at path. Artifact
// existence is the sole idempotency marker: the scheduler may retry a task
// whose output landed but whose process died before reporting success, and
// such a retry must be a no-op.
func IsComplete(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
