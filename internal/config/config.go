// Package config loads CLI settings from a TOML file and CONTACTS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds every setting the CLI reads from the file and environment.
type Config struct {
	File       string `toml:"file"`                // CONTACTS_FILE (default "contacts.json")
	Backend    string `toml:"backend"`             // CONTACTS_BACKEND (json or sqlite)
	SQLitePath string `toml:"sqlite_path"`         // CONTACTS_SQLITE_PATH (default "contacts.db")
	NATSURL    string `toml:"nats_url,omitempty"`  // CONTACTS_NATS_URL (optional, empty = no events)

	Log    LogConfig    `toml:"log"`
	Backup BackupConfig `toml:"backup"`
}

// LogConfig controls where and how the CLI logs.
type LogConfig struct {
	Level  string `toml:"level"`          // CONTACTS_LOG_LEVEL (default "warn")
	Format string `toml:"format"`         // CONTACTS_LOG_FORMAT (text or json)
	File   string `toml:"file,omitempty"` // CONTACTS_LOG_FILE (rotated; empty = stderr)
}

// BackupConfig configures the backup command and its destinations.
type BackupConfig struct {
	Format   string `toml:"format"`             // CONTACTS_BACKUP_FORMAT (json, jsonl or yaml)
	Interval string `toml:"interval,omitempty"` // CONTACTS_BACKUP_INTERVAL (e.g. "1h"; empty = one-shot)
	Dir      string `toml:"dir,omitempty"`      // CONTACTS_BACKUP_DIR (enables directory snapshots)
	Keep     int    `toml:"keep"`               // CONTACTS_BACKUP_KEEP (snapshots kept in Dir; 0 = all)

	S3Bucket   string `toml:"s3_bucket,omitempty"`   // CONTACTS_BACKUP_S3_BUCKET (enables S3 when set)
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // CONTACTS_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region   string `toml:"s3_region"`             // CONTACTS_BACKUP_S3_REGION (default "us-east-1")
	S3Key      string `toml:"s3_key,omitempty"`      // CONTACTS_BACKUP_S3_KEY (default "contacts.<format>")

	GitRepo   string `toml:"git_repo,omitempty"` // CONTACTS_BACKUP_GIT_REPO (enables git when set; path to clone)
	GitFile   string `toml:"git_file,omitempty"` // CONTACTS_BACKUP_GIT_FILE (default "contacts.<format>")
	GitBranch string `toml:"git_branch"`         // CONTACTS_BACKUP_GIT_BRANCH (default "main")
}

// Default returns the settings used when neither a file nor the environment says otherwise.
func Default() *Config {
	return &Config{
		File:       "contacts.json",
		Backend:    BackendJSON,
		SQLitePath: "contacts.db",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Backup: BackupConfig{
			Format:    "jsonl",
			Keep:      10,
			S3Region:  "us-east-1",
			GitBranch: "main",
		},
	}
}

// DefaultPath returns $CONTACTS_CONFIG, or config.toml under the user config
// directory ($XDG_CONFIG_HOME/contacts or ~/.config/contacts).
func DefaultPath() (string, error) {
	if p := os.Getenv("CONTACTS_CONFIG"); p != "" {
		return p, nil
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "contacts", "config.toml"), nil
}

// Load reads path (a missing file is not an error), applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.File = envOrDefault("CONTACTS_FILE", c.File)
	c.Backend = envOrDefault("CONTACTS_BACKEND", c.Backend)
	c.SQLitePath = envOrDefault("CONTACTS_SQLITE_PATH", c.SQLitePath)
	c.NATSURL = envOrDefault("CONTACTS_NATS_URL", c.NATSURL)

	c.Log.Level = envOrDefault("CONTACTS_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOrDefault("CONTACTS_LOG_FORMAT", c.Log.Format)
	c.Log.File = envOrDefault("CONTACTS_LOG_FILE", c.Log.File)

	b := &c.Backup
	b.Format = envOrDefault("CONTACTS_BACKUP_FORMAT", b.Format)
	b.Interval = envOrDefault("CONTACTS_BACKUP_INTERVAL", b.Interval)
	b.Dir = envOrDefault("CONTACTS_BACKUP_DIR", b.Dir)
	b.S3Bucket = envOrDefault("CONTACTS_BACKUP_S3_BUCKET", b.S3Bucket)
	b.S3Endpoint = envOrDefault("CONTACTS_BACKUP_S3_ENDPOINT", b.S3Endpoint)
	b.S3Region = envOrDefault("CONTACTS_BACKUP_S3_REGION", b.S3Region)
	b.S3Key = envOrDefault("CONTACTS_BACKUP_S3_KEY", b.S3Key)
	b.GitRepo = envOrDefault("CONTACTS_BACKUP_GIT_REPO", b.GitRepo)
	b.GitFile = envOrDefault("CONTACTS_BACKUP_GIT_FILE", b.GitFile)
	b.GitBranch = envOrDefault("CONTACTS_BACKUP_GIT_BRANCH", b.GitBranch)

	if v := os.Getenv("CONTACTS_BACKUP_KEEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CONTACTS_BACKUP_KEEP: %w", err)
		}
		b.Keep = n
	}
	return nil
}

// Validate checks enumerated values and durations.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("backend %q: must be %s or %s", c.Backend, BackendJSON, BackendSQLite)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format %q: must be text or json", c.Log.Format)
	}
	if _, err := c.BackupInterval(); err != nil {
		return err
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup keep must not be negative, got %d", c.Backup.Keep)
	}
	return nil
}

// BackupInterval parses Backup.Interval. Empty means zero (no schedule).
func (c *Config) BackupInterval() (time.Duration, error) {
	if c.Backup.Interval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Backup.Interval)
	if err != nil {
		return 0, fmt.Errorf("backup interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("backup interval must not be negative, got %s", d)
	}
	return d, nil
}

// Save writes c to path as TOML, creating the parent directory.
func Save(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
