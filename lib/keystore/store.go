package keystore

import (
	"sort"
	"sync"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// Key names an entry in a Store. Typed key enumerations implement it so that
// callers cannot pass arbitrary strings by accident.
type Key interface {
	Name() string
}

// RawKey is an untyped Key, used where the key arrives as text (CLI input,
// panel files).
type RawKey string

func (k RawKey) Name() string { return string(k) }

// Op is the kind of write that produced an Event.
type Op int

const (
	OpSet Op = iota + 1
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event describes a single completed write. Value is the zero Value for
// OpRemove.
type Event struct {
	Key   string
	Op    Op
	Value Value
}

// Observer receives change events synchronously on the writing goroutine.
type Observer func(Event)

// SubscriptionID identifies a registered Observer.
type SubscriptionID int

// Store is the persistence interface the settings core depends on.
type Store interface {
	Get(key Key) (Value, bool)
	Set(key Key, value Value) error
	Remove(key Key) error
	Subscribe(fn Observer) SubscriptionID
	Unsubscribe(id SubscriptionID)
	Snapshot() map[string]Value
}

type subscription struct {
	id SubscriptionID
	fn Observer
}

// observers is an ordered observer list. Delivery iterates over a snapshot so
// observers may subscribe or unsubscribe while an event is being delivered.
type observers struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID SubscriptionID
}

func (o *observers) subscribe(fn Observer) SubscriptionID {
	if fn == nil {
		return -1
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextID
	o.nextID++
	o.subs = append(o.subs, subscription{id: id, fn: fn})
	return id
}

func (o *observers) unsubscribe(id SubscriptionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, s := range o.subs {
		if s.id == id {
			o.subs = append(o.subs[:i], o.subs[i+1:]...)
			return
		}
	}
}

func (o *observers) notify(ev Event) {
	o.mu.RLock()
	snapshot := make([]subscription, len(o.subs))
	copy(snapshot, o.subs)
	o.mu.RUnlock()
	for _, s := range snapshot {
		s.fn(ev)
	}
}

// mapStore is the shared implementation behind MemoryStore and FileStore.
// persist, when set, is called with the would-be contents before a write is
// applied; an error aborts the write and suppresses the event.
type mapStore struct {
	mu      sync.RWMutex
	values  map[string]Value
	persist func(map[string]Value) error
	observers
}

func (s *mapStore) Get(key Key) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key.Name()]
	return v, ok
}

func (s *mapStore) Set(key Key, value Value) error {
	if !value.IsValid() {
		return errInvalidValue(key.Name())
	}
	name := key.Name()
	if err := s.write(func(m map[string]Value) { m[name] = value }); err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		"at":    "keystore.Set",
		"key":   name,
		"value": value.String(),
	}).Debug("stored value")
	s.notify(Event{Key: name, Op: OpSet, Value: value})
	return nil
}

func (s *mapStore) Remove(key Key) error {
	name := key.Name()
	if err := s.write(func(m map[string]Value) { delete(m, name) }); err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		"at":  "keystore.Remove",
		"key": name,
	}).Debug("removed value")
	s.notify(Event{Key: name, Op: OpRemove})
	return nil
}

func (s *mapStore) write(mutate func(map[string]Value)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persist == nil {
		mutate(s.values)
		return nil
	}
	next := make(map[string]Value, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	mutate(next)
	if err := s.persist(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *mapStore) Subscribe(fn Observer) SubscriptionID { return s.subscribe(fn) }

func (s *mapStore) Unsubscribe(id SubscriptionID) { s.unsubscribe(id) }

// Snapshot returns a copy of all entries.
func (s *mapStore) Snapshot() map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// SortedKeys returns the keys of a snapshot in lexical order.
func SortedKeys(snapshot map[string]Value) []string {
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MemoryStore is a non-persistent Store.
type MemoryStore struct {
	mapStore
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.values = make(map[string]Value)
	return s
}
