package settings

import (
	"github.com/go-i2p/settingsync/lib/keystore"
)

// FirstRunGate tracks whether the one-time welcome interaction has been
// dismissed. The flag lives in the store at InfoDidOpenApp; only Reset
// clears it.
type FirstRunGate struct {
	store keystore.Store
}

func NewFirstRunGate(store keystore.Store) *FirstRunGate {
	return &FirstRunGate{store: store}
}

// HasCompletedFirstRun is true iff the did-open-app flag reads as true.
func (g *FirstRunGate) HasCompletedFirstRun() bool {
	v, ok := g.store.Get(InfoDidOpenApp)
	if !ok {
		return false
	}
	b, ok := v.AsBool()
	return ok && b
}

// MarkFirstRunComplete records that the welcome interaction was dismissed.
func (g *FirstRunGate) MarkFirstRunComplete() error {
	log.WithField("at", "FirstRunGate.MarkFirstRunComplete").Debug("welcome dismissed")
	return g.store.Set(InfoDidOpenApp, keystore.BoolValue(true))
}
