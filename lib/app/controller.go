package app

import (
	"errors"
	"sync"

	"github.com/go-i2p/logger"
	"github.com/go-i2p/settingsync/lib/config"
	"github.com/go-i2p/settingsync/lib/keystore"
	"github.com/go-i2p/settingsync/lib/metadata"
	"github.com/go-i2p/settingsync/lib/panel"
	"github.com/go-i2p/settingsync/lib/settings"
	"github.com/go-i2p/settingsync/lib/util"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

var (
	ErrAlreadyRunning = errors.New("app: controller is already running")
	ErrRunning        = errors.New("app: cannot close a running controller")
)

// Options wires a Controller. Store is required. A nil Metadata behaves as an
// empty manifest. An empty PanelPath disables the settings panel.
type Options struct {
	Store      keystore.Store
	Metadata   settings.MetadataSource
	PanelPath  string
	WatchPanel bool
}

// RestartHook is called after every restart with the new generation.
type RestartHook func(generation uint64)

// Controller owns the application lifecycle. It is the settings.Restarter
// handed to the reconciler.
type Controller struct {
	// mu serializes store writers; see Apply.
	mu sync.Mutex

	store      keystore.Store
	reconciler *settings.Reconciler
	gate       *settings.FirstRunGate
	bridge     *panel.Bridge
	watchPanel bool

	// state guards the fields below. It is separate from mu because Restart
	// runs while mu is held.
	state      sync.RWMutex
	running    bool
	closed     bool
	generation uint64
	hooks      []RestartHook
	done       chan struct{}
}

// New builds a Controller from opts. The controller is idle until Start.
func New(opts Options) (*Controller, error) {
	c := &Controller{
		store:      opts.Store,
		watchPanel: opts.WatchPanel,
		done:       make(chan struct{}),
	}
	if opts.Store == nil {
		return nil, oops.Wrapf(settings.ErrStoreUnavailable, "cannot build controller")
	}

	r, err := settings.NewReconciler(opts.Store, opts.Metadata, c)
	if err != nil {
		return nil, err
	}
	c.reconciler = r
	c.gate = settings.NewFirstRunGate(opts.Store)

	if opts.PanelPath != "" {
		c.bridge = panel.New(opts.PanelPath, opts.Store, c.Apply)
	}

	log.WithFields(logger.Fields{
		"at":    "app.New",
		"panel": opts.PanelPath,
		"watch": opts.WatchPanel,
	}).Debug("controller created")
	return c, nil
}

// NewFromConfig opens the file store and metadata named by cfg and builds a
// Controller around them. The store is registered with util.RegisterCloser
// so that util.CloseAll flushes it on exit.
func NewFromConfig(cfg *config.AppConfig) (*Controller, error) {
	if cfg == nil {
		return nil, oops.Errorf("configuration is nil")
	}
	store, err := keystore.OpenFileStore(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	util.RegisterCloser(store)

	meta, err := loadMetadata(cfg.MetadataPath)
	if err != nil {
		return nil, err
	}

	return New(Options{
		Store:      store,
		Metadata:   meta,
		PanelPath:  cfg.PanelPath,
		WatchPanel: cfg.PanelWatch,
	})
}

func loadMetadata(path string) (*metadata.Manifest, error) {
	if path == "" {
		return metadata.Embedded()
	}
	log.WithField("path", path).Debug("loading metadata override")
	return metadata.Load(path)
}

// Start runs the startup pass: it imports pending panel edits, initializes
// the reconciler and exports the panel. The panel watcher is started last
// when enabled.
func (c *Controller) Start() error {
	c.state.Lock()
	if c.running {
		c.state.Unlock()
		return ErrAlreadyRunning
	}
	if c.closed {
		c.state.Unlock()
		return oops.Errorf("cannot start a closed controller")
	}
	c.running = true
	c.state.Unlock()

	log.WithFields(logger.Fields{
		"at":     "Controller.Start",
		"phase":  "startup",
		"reason": "initializing settings",
	}).Info("starting settings controller")

	err := c.Apply(func() error {
		if c.bridge != nil {
			if err := c.bridge.Import(); err != nil {
				log.WithError(err).WithField("path", c.bridge.Path()).Warn("ignoring unreadable settings panel")
			}
		}
		c.reconciler.Initialize()
		if c.bridge != nil {
			return c.bridge.Export()
		}
		return nil
	})
	if err != nil {
		c.markStopped()
		return oops.Wrapf(err, "failed to start controller")
	}

	if c.bridge != nil && c.watchPanel {
		if err := c.bridge.Watch(); err != nil {
			c.markStopped()
			return oops.Wrapf(err, "failed to watch settings panel")
		}
	}

	log.WithFields(logger.Fields{
		"at":       "Controller.Start",
		"phase":    "running",
		"endpoint": c.endpointOrEmpty(),
	}).Info("settings controller started")
	return nil
}

// Restart re-initializes the application after a reset. It is called by the
// reconciler from inside a store notification, so the caller already holds
// the write lock when the write came through Apply.
func (c *Controller) Restart() {
	log.WithFields(logger.Fields{
		"at":     "Controller.Restart",
		"reason": "settings reset",
	}).Info("restarting")

	c.reconciler.Initialize()

	c.state.Lock()
	c.generation++
	gen := c.generation
	hooks := make([]RestartHook, len(c.hooks))
	copy(hooks, c.hooks)
	c.state.Unlock()

	for _, hook := range hooks {
		hook(gen)
	}
	log.WithField("generation", gen).Debug("restart complete")
}

// Reload takes the write lock, imports the settings panel and restarts.
// SIGHUP handlers use it. When the import carries a reset, the reconciler
// has already restarted and Reload does not restart again.
func (c *Controller) Reload() {
	_ = c.Apply(func() error {
		before := c.Generation()
		if c.bridge != nil {
			if err := c.bridge.Import(); err != nil {
				log.WithError(err).Warn("failed to import settings panel on reload")
			}
		}
		if c.Generation() != before {
			log.WithField("generation", c.Generation()).Debug("panel import restarted, skipping reload restart")
			return nil
		}
		c.Restart()
		return nil
	})
}

// Apply runs fn while holding the write lock. Store writes made by fn, and
// every reconciler reaction to them, complete before Apply returns.
func (c *Controller) Apply(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn()
}

// Set writes a single key through the write lock.
func (c *Controller) Set(key keystore.Key, value keystore.Value) error {
	return c.Apply(func() error { return c.store.Set(key, value) })
}

// RequestReset raises the reset flag. The reconciler performs the reset and
// restart before RequestReset returns.
func (c *Controller) RequestReset() error {
	return c.Set(settings.SettingReset, keystore.BoolValue(true))
}

// Stop marks the controller stopped and releases Wait. It is safe to call
// more than once.
func (c *Controller) Stop() error {
	c.state.RLock()
	running := c.running
	c.state.RUnlock()
	if !running {
		log.WithFields(logger.Fields{
			"at":     "Controller.Stop",
			"phase":  "shutdown",
			"reason": "controller is not running",
		}).Debug("stop called on non-running controller")
		return nil
	}

	log.WithFields(logger.Fields{
		"at":    "Controller.Stop",
		"phase": "shutdown",
	}).Info("stopping settings controller")
	c.markStopped()
	return nil
}

func (c *Controller) markStopped() {
	c.state.Lock()
	defer c.state.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.done)
	c.done = make(chan struct{})
}

// Wait blocks until Stop is called. It returns at once when the controller
// is not running.
func (c *Controller) Wait() {
	c.state.RLock()
	running := c.running
	done := c.done
	c.state.RUnlock()
	if !running {
		return
	}
	<-done
}

// Close stops observing the store. The controller must be stopped first.
func (c *Controller) Close() error {
	c.state.Lock()
	if c.running {
		c.state.Unlock()
		return ErrRunning
	}
	if c.closed {
		c.state.Unlock()
		return nil
	}
	c.closed = true
	c.state.Unlock()

	// mu before state is the order Restart uses; never hold both here.
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bridge != nil {
		c.bridge.Close()
	}
	c.reconciler.Close()
	log.WithField("at", "Controller.Close").Debug("controller closed")
	return nil
}

// OnRestart registers a hook called after every restart.
func (c *Controller) OnRestart(hook RestartHook) {
	if hook == nil {
		return
	}
	c.state.Lock()
	defer c.state.Unlock()
	c.hooks = append(c.hooks, hook)
}

func (c *Controller) Store() keystore.Store { return c.store }

func (c *Controller) FirstRun() *settings.FirstRunGate { return c.gate }

func (c *Controller) Panel() *panel.Bridge { return c.bridge }

// Endpoint returns the endpoint the user sees, if any.
func (c *Controller) Endpoint() (string, bool) {
	return c.reconciler.Endpoint()
}

func (c *Controller) endpointOrEmpty() string {
	e, _ := c.Endpoint()
	return e
}

// Generation counts completed restarts.
func (c *Controller) Generation() uint64 {
	c.state.RLock()
	defer c.state.RUnlock()
	return c.generation
}

// IsRunning returns true between Start and Stop.
func (c *Controller) IsRunning() bool {
	c.state.RLock()
	defer c.state.RUnlock()
	return c.running
}

func (c *Controller) HasCompletedFirstRun() bool {
	return c.gate.HasCompletedFirstRun()
}

// CompleteFirstRun dismisses the welcome interaction.
func (c *Controller) CompleteFirstRun() error {
	return c.Apply(c.gate.MarkFirstRunComplete)
}

var _ settings.Restarter = (*Controller)(nil)
