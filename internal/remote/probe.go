package remote

import (
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fuizlet/internal/config"
	"fuizlet/internal/kv"
	"fuizlet/internal/store"
)

// Probe decides, at call time, whether the remote backend is available:
// an endpoint/key pair must be configured and a client constructible.
//
// Availability is re-evaluated on every call so configuration can change
// mid-session, but the constructed client handle is memoized per
// endpoint/key pair — construction opens connections and provisions
// tables, which is too expensive to repeat per operation. A failed
// construction is not memoized: the next call retries, so a transient
// outage at first contact does not pin the session to local mode.
// Misconfiguration downgrades to local mode, it is never fatal.
type Probe struct {
	conf     func() config.RemoteConfig
	sessions kv.Store
	clock    store.Clock
	logger   store.Logger

	mu        sync.Mutex
	cachedURL string
	cachedKey string
	cached    *Store
}

// NewProbe creates a probe that reads the remote configuration through conf
// on every check.
func NewProbe(conf func() config.RemoteConfig, sessions kv.Store, clock store.Clock, logger store.Logger) *Probe {
	return &Probe{conf: conf, sessions: sessions, clock: clock, logger: logger}
}

// Available reports whether the remote backend can serve calls right now.
func (p *Probe) Available() bool {
	return p.Client() != nil
}

// Client returns the remote backend, constructing and memoizing it on first
// use, or nil when the remote service is unconfigured or unreachable.
func (p *Probe) Client() *Store {
	cfg := p.conf()
	if !cfg.Configured() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && p.cachedURL == cfg.URL && p.cachedKey == cfg.Key {
		return p.cached
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err == nil {
		err = migrate(db)
	}
	if err != nil {
		p.logger.Warn("remote backend unavailable, using local storage", "error", err)
		p.cachedURL = ""
		p.cachedKey = ""
		p.cached = nil
		return nil
	}

	p.cachedURL = cfg.URL
	p.cachedKey = cfg.Key
	p.cached = New(db, p.sessions, cfg.Key, p.clock, p.logger)
	return p.cached
}

// Remote adapts the probe to the facade's RemoteSource contract.
func (p *Probe) Remote() store.Store {
	if c := p.Client(); c != nil {
		return c
	}
	return nil
}

// Compile-time check that Probe implements the facade's remote source
var _ store.RemoteSource = (*Probe)(nil)
