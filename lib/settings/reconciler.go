package settings

import (
	"errors"

	"github.com/go-i2p/logger"
	"github.com/go-i2p/settingsync/lib/keystore"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

// DefaultEndpoint is written to both endpoint keys when no endpoint exists
// anywhere at cold start.
const DefaultEndpoint = "https://server0.t8m.dev"

// MaxReconcileDepth bounds how deeply OnStoreChanged may nest through
// re-entrant store notifications before events are dropped.
const MaxReconcileDepth = 16

var (
	// ErrLifecycleUnavailable is returned when the reconciler is built without
	// a lifecycle controller to restart the application after a reset. This is
	// the only unrecoverable configuration error; callers abort startup on it.
	ErrLifecycleUnavailable = errors.New("settings: lifecycle controller unavailable")

	// ErrStoreUnavailable is returned when the reconciler is built without a
	// key store.
	ErrStoreUnavailable = errors.New("settings: key store unavailable")
)

// MetadataSource answers build-time metadata queries. Missing keys report
// ok == false.
type MetadataSource interface {
	String(key InfoKey) (string, bool)
}

// Restarter is implemented by the lifecycle controller. Restart must call
// Initialize again before the application is usable.
type Restarter interface {
	Restart()
}

// Reconciler keeps the Setting namespace consistent with build metadata and
// the runtime store, executes reset requests, and keeps the two copies of the
// endpoint in step.
//
// Endpoint direction differs by phase: on cold start the Info copy seeds the
// Setting copy, while live edits flow from Setting to Info.
//
// A Reconciler is not safe for concurrent use. All store writers must be
// serialized by the caller; store notifications arrive re-entrantly on the
// writing goroutine.
type Reconciler struct {
	store     keystore.Store
	meta      MetadataSource
	restarter Restarter

	subscribed bool
	subID      keystore.SubscriptionID

	// settling is set while Reset runs so that the writes it makes do not
	// re-enter the policy.
	settling bool
	depth    int
}

// NewReconciler builds a Reconciler. A nil meta behaves as an empty source.
func NewReconciler(store keystore.Store, meta MetadataSource, restarter Restarter) (*Reconciler, error) {
	if store == nil {
		return nil, oops.Wrapf(ErrStoreUnavailable, "cannot build reconciler")
	}
	if restarter == nil {
		return nil, oops.Wrapf(ErrLifecycleUnavailable, "cannot build reconciler")
	}
	if meta == nil {
		meta = emptySource{}
	}
	return &Reconciler{
		store:     store,
		meta:      meta,
		restarter: restarter,
	}, nil
}

// Initialize runs the startup pass. It is called once per process start and
// again by the lifecycle controller after every restart.
func (r *Reconciler) Initialize() {
	log.WithFields(logger.Fields{
		"at":         "Reconciler.Initialize",
		"subscribed": r.subscribed,
	}).Debug("reconciling settings")

	if r.resetRequested() {
		log.WithField("at", "Reconciler.Initialize").Info("reset flag set at startup")
		r.Reset()
	}

	r.syncStatic()
	r.seedEndpoint()
	r.observe()
}

// syncStatic copies build, version and copyright from metadata into the
// Setting namespace on every pass. Missing metadata values are skipped.
func (r *Reconciler) syncStatic() {
	for _, key := range StaticInfoKeys {
		value, ok := nonEmpty(r.meta.String(key))
		if !ok {
			log.WithField("key", key.Name()).Debug("no metadata value, skipping")
			continue
		}
		mirror, _ := key.Mirror()
		r.set(mirror, keystore.StringValue(value))
	}
}

func (r *Reconciler) seedEndpoint() {
	if endpoint, ok := r.stringValue(InfoEndpoint); ok {
		r.set(SettingEndpoint, keystore.StringValue(endpoint))
		return
	}
	log.WithFields(logger.Fields{
		"at":       "Reconciler.seedEndpoint",
		"endpoint": DefaultEndpoint,
	}).Debug("no stored endpoint, using default")
	r.set(SettingEndpoint, keystore.StringValue(DefaultEndpoint))
	r.set(InfoEndpoint, keystore.StringValue(DefaultEndpoint))
}

// observe subscribes to store changes once. Restarts reuse the existing
// subscription.
func (r *Reconciler) observe() {
	if r.subscribed {
		return
	}
	r.subID = r.store.Subscribe(r.OnStoreChanged)
	r.subscribed = true
}

// OnStoreChanged applies policy after any store write, from any writer,
// including writes made by the reconciler itself.
func (r *Reconciler) OnStoreChanged(ev keystore.Event) {
	if r.settling {
		return
	}
	if r.depth >= MaxReconcileDepth {
		log.WithFields(logger.Fields{
			"at":    "Reconciler.OnStoreChanged",
			"key":   ev.Key,
			"depth": r.depth,
		}).Warn("reconcile depth exceeded, dropping event")
		return
	}
	r.depth++
	defer func() { r.depth-- }()

	if r.resetRequested() {
		log.WithFields(logger.Fields{
			"at":     "Reconciler.OnStoreChanged",
			"reason": "reset flag set",
		}).Info("resetting settings and restarting")
		r.Reset()
		r.restarter.Restart()
		return
	}

	setting, okSetting := r.stringValue(SettingEndpoint)
	info, okInfo := r.stringValue(InfoEndpoint)
	if okSetting && okInfo && setting != info {
		log.WithFields(logger.Fields{
			"at":   "Reconciler.OnStoreChanged",
			"from": info,
			"to":   setting,
		}).Debug("propagating edited endpoint")
		r.set(InfoEndpoint, keystore.StringValue(setting))
	}
}

// Reset clears the reset flag and every mutable key the reconciler tracks,
// returning the application to its first-run state. Build, version and
// copyright are left alone; the next Initialize rewrites them. Reset is
// idempotent.
func (r *Reconciler) Reset() {
	prev := r.settling
	r.settling = true
	defer func() { r.settling = prev }()

	r.set(SettingReset, keystore.BoolValue(false))
	r.remove(SettingEndpoint)
	r.remove(InfoDidOpenApp)
	r.remove(InfoEndpoint)
}

// Endpoint returns the effective endpoint shown to the user.
func (r *Reconciler) Endpoint() (string, bool) {
	return r.stringValue(SettingEndpoint)
}

// Close stops observing the store.
func (r *Reconciler) Close() {
	if !r.subscribed {
		return
	}
	r.store.Unsubscribe(r.subID)
	r.subscribed = false
}

func (r *Reconciler) resetRequested() bool {
	v, ok := r.store.Get(SettingReset)
	if !ok {
		return false
	}
	b, ok := v.AsBool()
	return ok && b
}

func (r *Reconciler) stringValue(key keystore.Key) (string, bool) {
	v, ok := r.store.Get(key)
	if !ok {
		return "", false
	}
	return nonEmpty(v.AsString())
}

// set and remove log and swallow store errors; reconciliation degrades to a
// no-op rather than failing the caller.
func (r *Reconciler) set(key keystore.Key, value keystore.Value) {
	if err := r.store.Set(key, value); err != nil {
		log.WithError(err).WithField("key", key.Name()).Warn("failed to write setting")
	}
}

func (r *Reconciler) remove(key keystore.Key) {
	if err := r.store.Remove(key); err != nil {
		log.WithError(err).WithField("key", key.Name()).Warn("failed to remove setting")
	}
}

// nonEmpty normalizes an empty string to absent.
func nonEmpty(s string, ok bool) (string, bool) {
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

type emptySource struct{}

func (emptySource) String(InfoKey) (string, bool) { return "", false }
