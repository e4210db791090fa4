package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for fuizlet.
type Config struct {
	DataDir string           `toml:"data_dir"`
	LogDir  string           `toml:"log_dir"`
	Local   LocalStoreConfig `toml:"local"`
	Remote  RemoteConfig     `toml:"remote"`
}

// LocalStoreConfig configures the key/value store behind the local backend.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type LocalStoreConfig struct {
	Type string `toml:"type"`           // "sqlite" or "memory"
	Path string `toml:"path,omitempty"` // only used for type=sqlite
}

// RemoteConfig holds the endpoint and access key for the hosted backend.
// Both must be present for cloud mode; otherwise every operation is served
// locally.
type RemoteConfig struct {
	URL string `toml:"url"` // postgres DSN of the hosted service
	Key string `toml:"key"` // access key; also signs session tokens
}

// Configured reports whether a remote endpoint/key pair is present.
func (r RemoteConfig) Configured() bool {
	return r.URL != "" && r.Key != ""
}

// NewConfig creates a new Config with the provided base directory and
// default local store settings.
func NewConfig(baseDir string) *Config {
	return &Config{
		DataDir: filepath.Join(baseDir, "data"),
		LogDir:  filepath.Join(baseDir, "log"),
		Local: LocalStoreConfig{
			Type: "sqlite",
			Path: filepath.Join(baseDir, "data", "fuizlet.db"),
		},
	}
}

// ApplyEnv overlays environment variables onto the config. Environment
// values win over file values so a deployment can switch backends without
// editing the config file.
//   - FUIZLET_REMOTE_URL: remote endpoint DSN
//   - FUIZLET_REMOTE_KEY: remote access key
func (c *Config) ApplyEnv() {
	if url := os.Getenv("FUIZLET_REMOTE_URL"); url != "" {
		c.Remote.URL = url
	}
	if key := os.Getenv("FUIZLET_REMOTE_KEY"); key != "" {
		c.Remote.Key = key
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path and applies
// environment overrides.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the
// provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
