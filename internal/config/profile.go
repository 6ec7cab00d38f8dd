package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile overrides the per-task resource requests and the placement
// requirement from a YAML file, so operators can retarget a batch at a
// different worker class without rebuilding.
type Profile struct {
	RequestCPUs     int    `yaml:"request_cpus"`
	RequestMemoryMB int64  `yaml:"request_memory_mb"`
	RequestDiskKB   int64  `yaml:"request_disk_kb"`
	Requirement     string `yaml:"requirement"`
}

// LoadProfile reads a resource profile from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	return &profile, nil
}

// applyProfile overlays non-zero profile values onto the config.
func (c *Config) applyProfile(p *Profile) {
	if p.RequestCPUs > 0 {
		c.RequestCPUs = p.RequestCPUs
	}
	if p.RequestMemoryMB > 0 {
		c.RequestMemoryMB = p.RequestMemoryMB
	}
	if p.RequestDiskKB > 0 {
		c.RequestDiskKB = p.RequestDiskKB
	}
	if p.Requirement != "" {
		c.Requirement = p.Requirement
	}
}
