package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const aliasConfigName = "config.json"

type aliasEntry struct {
	URL  string `json:"url"`
	API  string `json:"api"`
	Path string `json:"path"`
}

type clientConfig struct {
	Version string                `json:"version"`
	Aliases map[string]aliasEntry `json:"aliases"`
}

// EnsureAliasConfig writes the transfer client's alias configuration under
// configDir if it does not exist yet. An existing configuration is left
// untouched, so calling this on every task attempt is safe.
func EnsureAliasConfig(configDir, alias, endpointURL string) error {
	path := filepath.Join(configDir, aliasConfigName)

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat transfer config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create transfer config dir: %w", err)
	}

	cfg := clientConfig{
		Version: "10",
		Aliases: map[string]aliasEntry{
			alias: {
				URL:  endpointURL,
				API:  "S3v4",
				Path: "auto",
			},
		},
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transfer config: %w", err)
	}

	// Write-then-rename so a concurrent attempt never reads a torn config.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write transfer config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename transfer config: %w", err)
	}
	return nil
}
