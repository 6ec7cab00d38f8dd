package domain

import "fmt"

// ResourceRequest holds the per-task scheduler resource requests. Every task in
// a batch uses the same fixed values, sized for the largest expected
// measurement archive.
type ResourceRequest struct {
	CPUs     int
	MemoryMB int64
	DiskKB   int64
}

// TaskSpec describes one unit of work: download a single measurement prefix
// into the destination root and leave one archive behind.
type TaskSpec struct {
	Name        string
	Measurement string
	Destination string
	Retries     int
	Resources   ResourceRequest
	// Requirement is the scheduler placement expression pinning the task to a
	// worker class. A throughput optimization, not a correctness requirement.
	Requirement string
}

// TaskName returns the deterministic name for the task at the given position
// in the measurement list. Regenerating from an identical list yields
// identical names.
func TaskName(index int) string {
	return fmt.Sprintf("Measurement-%d", index)
}
