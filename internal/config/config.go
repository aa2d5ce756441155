package config

import (
	"log"
	"os"
	"path/filepath"
)

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `json:"listen_addr"`
	Debug      bool   `json:"debug"`

	// Directories
	DataDirectory      string `json:"data_directory"`
	SnapshotsDirectory string `json:"snapshots_directory"`

	// Passphrase for a sealed dataset directory, never persisted
	DataPassword string `json:"-"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:         ":8080",
		Debug:              false,
		DataDirectory:      filepath.Join(wd, "data"),
		SnapshotsDirectory: filepath.Join(wd, "data", "snapshots"),
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := DefaultConfig()

	if addr := os.Getenv("SHOPDASH_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if debug := os.Getenv("SHOPDASH_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}
	if dataDir := os.Getenv("SHOPDASH_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
		cfg.SnapshotsDirectory = filepath.Join(dataDir, "snapshots")
	}
	if snapDir := os.Getenv("SHOPDASH_SNAPSHOTS_DIR"); snapDir != "" {
		cfg.SnapshotsDirectory = snapDir
	}
	cfg.DataPassword = os.Getenv("SHOPDASH_PASSWORD")

	cfg.ensureDirectories()

	return cfg
}

// ensureDirectories creates required directories if they don't exist
func (c *Config) ensureDirectories() {
	dirs := []string{
		c.DataDirectory,
		c.SnapshotsDirectory,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Warning: could not create directory %s: %v", dir, err)
		}
	}
}
