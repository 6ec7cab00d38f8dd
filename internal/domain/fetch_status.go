package domain

import "time"

// FetchStage names the step a running fetch task is currently in.
type FetchStage string

const (
	StageIdle      FetchStage = "idle"
	StageMirroring FetchStage = "mirroring"
	StagePacking   FetchStage = "packing"
	StagePlacing   FetchStage = "placing"
	StageDone      FetchStage = "done"
)

// FetchStatus is a point-in-time snapshot of a fetch task, served by the
// optional status endpoint while long mirrors run.
type FetchStatus struct {
	Measurement string     `json:"measurement"`
	Stage       FetchStage `json:"stage"`
	StartedAt   time.Time  `json:"started_at"`
}
