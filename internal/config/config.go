package config

import "fmt"

// Transfer backends.
const (
	BackendExec = "exec"
	BackendBlob = "blob"
)

// Config holds all application configuration settings shared by the
// submission driver and the fetch task binary.
type Config struct {
	Environment string `envconfig:"ENV" default:"production"`

	// Batch generation.
	FetchExecutable string `envconfig:"FETCH_EXECUTABLE" default:"/usr/local/bin/cpfetch"`
	Retries         int    `envconfig:"RETRIES" default:"3"`
	RequestCPUs     int    `envconfig:"REQUEST_CPUS" default:"1"`
	RequestMemoryMB int64  `envconfig:"REQUEST_MEMORY_MB" default:"2048"`
	RequestDiskKB   int64  `envconfig:"REQUEST_DISK_KB" default:"52428800"`
	// Requirement pins tasks to the high-network-capacity worker class.
	Requirement string `envconfig:"REQUIREMENT" default:"(HasLargeNetworkPipe =?= true)"`
	// ProfileFile optionally overrides the resource requests and the placement
	// requirement from a YAML file.
	ProfileFile string `envconfig:"PROFILE_FILE" default:""`

	// Fetch task.
	ScratchDir      string `envconfig:"SCRATCH_DIR" default:"."`
	TransferBackend string `envconfig:"TRANSFER_BACKEND" default:"exec"`
	TransferWorkers int    `envconfig:"TRANSFER_WORKERS" default:"8"`

	// exec backend: mc-compatible client invoked in mirror mode.
	TransferBinary    string `envconfig:"TRANSFER_BINARY" default:"mc"`
	TransferConfigDir string `envconfig:"TRANSFER_CONFIG_DIR" default:".mc"`
	AliasName         string `envconfig:"ALIAS_NAME" default:"cpg"`
	EndpointURL       string `envconfig:"ENDPOINT_URL" default:"https://s3.amazonaws.com"`
	Bucket            string `envconfig:"BUCKET" default:"cellpainting-gallery"`

	// blob backend: direct object-store access.
	BucketURL string `envconfig:"BUCKET_URL" default:"s3://cellpainting-gallery?region=us-east-1"`

	// MetricsAddr, when set, serves /health, /status and /metrics from the
	// fetch task while it runs.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.FetchExecutable == "" {
		return fmt.Errorf("fetch executable cannot be empty")
	}

	if c.Retries < 0 {
		return fmt.Errorf("retries cannot be negative: %d", c.Retries)
	}

	if c.RequestCPUs <= 0 {
		return fmt.Errorf("request cpus must be positive: %d", c.RequestCPUs)
	}
	if c.RequestMemoryMB <= 0 {
		return fmt.Errorf("request memory must be positive: %d", c.RequestMemoryMB)
	}
	if c.RequestDiskKB <= 0 {
		return fmt.Errorf("request disk must be positive: %d", c.RequestDiskKB)
	}

	if c.TransferBackend != BackendExec && c.TransferBackend != BackendBlob {
		return fmt.Errorf("unknown transfer backend: %q", c.TransferBackend)
	}
	if c.TransferWorkers <= 0 {
		return fmt.Errorf("transfer workers must be positive: %d", c.TransferWorkers)
	}

	if c.ScratchDir == "" {
		return fmt.Errorf("scratch directory cannot be empty")
	}

	switch c.TransferBackend {
	case BackendExec:
		if c.TransferBinary == "" {
			return fmt.Errorf("transfer binary cannot be empty")
		}
		if c.AliasName == "" {
			return fmt.Errorf("alias name cannot be empty")
		}
		if c.EndpointURL == "" {
			return fmt.Errorf("endpoint URL cannot be empty")
		}
		if c.Bucket == "" {
			return fmt.Errorf("bucket cannot be empty")
		}
	case BackendBlob:
		if c.BucketURL == "" {
			return fmt.Errorf("bucket URL cannot be empty")
		}
	}

	return nil
}
