// Package panel bridges the user-editable settings file to the key store.
//
// The settings file plays the role of an OS settings panel: it shows the
// Setting namespace (build, version, copyright, reset, endpoint) and the
// user may edit the reset flag and the endpoint. Edits are imported into the
// store, where the reconciler picks them up through its change
// notification. Store changes to Setting keys are exported back to the file
// so the panel always shows the current state.
package panel

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-i2p/logger"
	"github.com/go-i2p/settingsync/lib/keystore"
	"github.com/go-i2p/settingsync/lib/settings"
	"github.com/go-i2p/settingsync/lib/util"
	"github.com/samber/oops"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

var log = logger.GetGoI2PLogger()

// ImportInterval is the minimum spacing between watcher-triggered imports.
// Editors often produce several file events per save.
const ImportInterval = 50 * time.Millisecond

// ApplyFunc runs fn with exclusive access to the store.
type ApplyFunc func(fn func() error) error

// Bridge keeps a settings file and a key store in step.
type Bridge struct {
	path  string
	store keystore.Store
	apply ApplyFunc
	// v delivers watch events; reads use a fresh instance.
	v *viper.Viper

	limiter *rate.Limiter

	// mu guards file reads and writes; the watcher goroutine, signal
	// handlers and store observers may all reach them.
	mu       sync.Mutex
	subID    keystore.SubscriptionID
	watching bool
}

// New creates a bridge for the settings file at path and starts exporting
// Setting-key changes from store. A nil apply runs functions directly.
func New(path string, store keystore.Store, apply ApplyFunc) *Bridge {
	if apply == nil {
		apply = func(fn func() error) error { return fn() }
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	b := &Bridge{
		path:    path,
		store:   store,
		apply:   apply,
		v:       v,
		limiter: rate.NewLimiter(rate.Every(ImportInterval), 1),
	}
	b.subID = store.Subscribe(b.onStoreChanged)
	return b
}

// Path returns the settings file location.
func (b *Bridge) Path() string { return b.path }

func (b *Bridge) onStoreChanged(ev keystore.Event) {
	if _, ok := settings.LookupSettingKey(ev.Key); !ok {
		return
	}
	if err := b.Export(); err != nil {
		log.WithError(err).WithField("path", b.path).Warn("failed to export settings panel")
	}
}

// Export writes the current Setting namespace to the file. Absent keys are
// omitted. The write is skipped when the file already has this content.
func (b *Bridge) Export() error {
	view := make(map[string]interface{})
	for _, key := range settings.SettingKeys() {
		v, ok := b.store.Get(key)
		if !ok {
			continue
		}
		if key == settings.SettingReset {
			flag, _ := v.AsBool()
			view[key.Name()] = flag
			continue
		}
		view[key.Name()] = v.Interface()
	}
	data, err := yaml.Marshal(view)
	if err != nil {
		return oops.Wrapf(err, "failed to encode settings panel")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	current, err := os.ReadFile(b.path)
	if err == nil && bytes.Equal(current, data) {
		return nil
	}
	if err := util.WriteFileAtomic(b.path, data, 0o644, 0o755); err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		"at":   "Bridge.Export",
		"path": b.path,
		"keys": len(view),
	}).Debug("exported settings panel")
	return nil
}

// Import reads the editable keys from the file and writes the ones that
// differ into the store. Display-only keys are ignored, and a key missing
// from the file is never treated as a removal. A missing file imports
// nothing.
func (b *Bridge) Import() error {
	b.mu.Lock()
	resetRaw, endpointRaw, err := b.readEditable()
	b.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if resetRaw != nil {
		if err := b.importReset(resetRaw); err != nil {
			return err
		}
	}
	if endpointRaw != nil {
		if err := b.importEndpoint(endpointRaw); err != nil {
			return err
		}
	}
	return nil
}

// readEditable decodes the file with its own viper instance. The watching
// instance re-reads the file on its own goroutine and is only used for
// change events.
func (b *Bridge) readEditable() (reset, endpoint interface{}, err error) {
	v := viper.New()
	v.SetConfigFile(b.path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, err
		}
		return nil, nil, oops.Wrapf(err, "failed to read settings panel %s", b.path)
	}
	if v.IsSet(settings.SettingReset.Name()) {
		reset = v.Get(settings.SettingReset.Name())
	}
	if v.IsSet(settings.SettingEndpoint.Name()) {
		endpoint = v.Get(settings.SettingEndpoint.Name())
	}
	return reset, endpoint, nil
}

func (b *Bridge) importReset(raw interface{}) error {
	value, ok := keystore.ValueOf(raw)
	if !ok {
		log.WithField("key", settings.SettingReset.Name()).Warn("ignoring unsupported reset value in settings panel")
		return nil
	}
	flag, ok := value.AsBool()
	if !ok {
		log.WithField("value", value.String()).Warn("ignoring unparsable reset value in settings panel")
		return nil
	}
	if current, ok := b.store.Get(settings.SettingReset); ok {
		if cur, ok := current.AsBool(); ok && cur == flag {
			return nil
		}
	}
	log.WithFields(logger.Fields{
		"at":    "Bridge.Import",
		"reset": flag,
	}).Debug("importing reset flag from settings panel")
	return b.store.Set(settings.SettingReset, keystore.BoolValue(flag))
}

func (b *Bridge) importEndpoint(raw interface{}) error {
	value, ok := keystore.ValueOf(raw)
	if !ok {
		return nil
	}
	endpoint, ok := value.AsString()
	if !ok || endpoint == "" {
		return nil
	}
	if current, ok := b.store.Get(settings.SettingEndpoint); ok {
		if cur, ok := current.AsString(); ok && cur == endpoint {
			return nil
		}
	}
	log.WithFields(logger.Fields{
		"at":       "Bridge.Import",
		"endpoint": endpoint,
	}).Debug("importing endpoint from settings panel")
	return b.store.Set(settings.SettingEndpoint, keystore.StringValue(endpoint))
}

// Watch starts watching the settings file. Every change is imported through
// the bridge's ApplyFunc. The file is exported first if it does not exist,
// since the watcher needs something to watch.
func (b *Bridge) Watch() error {
	b.mu.Lock()
	if b.watching {
		b.mu.Unlock()
		return nil
	}
	b.watching = true
	b.mu.Unlock()

	if _, err := os.Stat(b.path); err != nil {
		if err := b.Export(); err != nil {
			return err
		}
	}

	b.v.OnConfigChange(func(e fsnotify.Event) {
		log.WithFields(logger.Fields{
			"at":   "Bridge.Watch",
			"file": e.Name,
			"op":   e.Op.String(),
		}).Debug("settings panel changed")
		if err := b.limiter.Wait(context.Background()); err != nil {
			log.WithError(err).Debug("import throttle failed")
		}
		if err := b.apply(b.Import); err != nil {
			log.WithError(err).Warn("failed to import settings panel")
		}
	})
	b.v.WatchConfig()
	log.WithField("path", b.path).Debug("watching settings panel")
	return nil
}

// Close stops exporting store changes. Viper offers no way to stop its
// watcher; after Close an import may still run but the bridge no longer
// reacts to the store.
func (b *Bridge) Close() {
	b.store.Unsubscribe(b.subID)
}
