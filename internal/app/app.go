// Package app wires configuration into a ready-to-use data store for the
// CLI: key/value store, local and remote backends, availability probe and
// facade.
package app

import (
	"fmt"
	"os"

	"fuizlet/internal/config"
	"fuizlet/internal/kv"
	"fuizlet/internal/local"
	"fuizlet/internal/remote"
	"fuizlet/internal/store"
)

// App holds the wired components for one CLI invocation. The caller must
// call Close when done.
type App struct {
	cfg     *config.Config
	kvStore kv.Store
	probe   *remote.Probe
	facade  *store.Facade
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "AddSet", "SignIn") and tags
// every log line.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	logger, logFile, err := newLogger(cfg.LogDir, operation)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	kvStore, err := kv.NewStoreFromConfig(cfg.Local)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating local store: %w", err)
	}

	localStore := local.New(kvStore, store.RealClock{}, store.NanoIDGenerator{}, log)
	probe := remote.NewProbe(func() config.RemoteConfig { return cfg.Remote }, kvStore, store.RealClock{}, log)
	facade := store.NewFacade(localStore, probe)

	return &App{
		cfg:     cfg,
		kvStore: kvStore,
		probe:   probe,
		facade:  facade,
		logFile: logFile,
	}, nil
}

// Store returns the unified data store for this invocation.
func (a *App) Store() *store.Facade {
	return a.facade
}

// IsCloud reports whether operations are currently served remotely.
func (a *App) IsCloud() bool {
	return a.facade.IsCloud()
}

// Close releases the key/value store and the log file.
func (a *App) Close() error {
	var firstErr error

	if err := a.kvStore.Close(); err != nil {
		firstErr = fmt.Errorf("closing local store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
