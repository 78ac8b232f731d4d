package keystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetAbsentKey(t *testing.T) {
	s := NewMemoryStore()
	_, ok := s.Get(RawKey("missing"))
	assert.False(t, ok, "absent key must report ok == false")
}

func TestMemoryStore_SetGetRemove(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(RawKey("a"), StringValue("x")))

	v, ok := s.Get(RawKey("a"))
	require.True(t, ok)
	str, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "x", str)

	require.NoError(t, s.Remove(RawKey("a")))
	_, ok = s.Get(RawKey("a"))
	assert.False(t, ok)
}

func TestMemoryStore_EmptyStringIsPresent(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(RawKey("a"), StringValue("")))
	v, ok := s.Get(RawKey("a"))
	require.True(t, ok, "the store itself does not normalize empty strings")
	str, _ := v.AsString()
	assert.Equal(t, "", str)
}

func TestMemoryStore_RejectsZeroValue(t *testing.T) {
	s := NewMemoryStore()
	var events int
	s.Subscribe(func(Event) { events++ })

	err := s.Set(RawKey("a"), Value{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Zero(t, events)
}

func TestMemoryStore_NotifiesSynchronously(t *testing.T) {
	s := NewMemoryStore()
	var got []Event
	s.Subscribe(func(ev Event) { got = append(got, ev) })

	require.NoError(t, s.Set(RawKey("a"), BoolValue(true)))
	require.Len(t, got, 1, "event must be delivered before Set returns")
	assert.Equal(t, "a", got[0].Key)
	assert.Equal(t, OpSet, got[0].Op)
	assert.True(t, got[0].Value.Equal(BoolValue(true)))

	require.NoError(t, s.Remove(RawKey("a")))
	require.Len(t, got, 2)
	assert.Equal(t, OpRemove, got[1].Op)
}

func TestMemoryStore_RedundantWritesStillNotify(t *testing.T) {
	s := NewMemoryStore()
	var count int
	s.Subscribe(func(Event) { count++ })

	require.NoError(t, s.Set(RawKey("a"), StringValue("same")))
	require.NoError(t, s.Set(RawKey("a"), StringValue("same")))
	require.NoError(t, s.Remove(RawKey("never-set")))
	assert.Equal(t, 3, count)
}

func TestMemoryStore_ObserversInRegistrationOrder(t *testing.T) {
	s := NewMemoryStore()
	var order []int
	s.Subscribe(func(Event) { order = append(order, 1) })
	s.Subscribe(func(Event) { order = append(order, 2) })
	s.Subscribe(func(Event) { order = append(order, 3) })

	require.NoError(t, s.Set(RawKey("a"), StringValue("x")))
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestMemoryStore_ReentrantWriteFromObserver(t *testing.T) {
	s := NewMemoryStore()
	s.Subscribe(func(ev Event) {
		if ev.Key == "source" {
			require.NoError(t, s.Set(RawKey("mirror"), ev.Value))
		}
	})

	require.NoError(t, s.Set(RawKey("source"), StringValue("v")))
	v, ok := s.Get(RawKey("mirror"))
	require.True(t, ok, "re-entrant write must complete within the outer Set")
	assert.True(t, v.Equal(StringValue("v")))
}

func TestMemoryStore_Unsubscribe(t *testing.T) {
	s := NewMemoryStore()
	var count int
	id := s.Subscribe(func(Event) { count++ })
	require.NoError(t, s.Set(RawKey("a"), StringValue("x")))
	s.Unsubscribe(id)
	require.NoError(t, s.Set(RawKey("a"), StringValue("y")))
	assert.Equal(t, 1, count)
}

func TestMemoryStore_NilObserverIgnored(t *testing.T) {
	s := NewMemoryStore()
	assert.Equal(t, SubscriptionID(-1), s.Subscribe(nil))
	require.NoError(t, s.Set(RawKey("a"), StringValue("x")))
}

func TestMemoryStore_SnapshotIsCopy(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(RawKey("b"), StringValue("2")))
	require.NoError(t, s.Set(RawKey("a"), BoolValue(false)))

	snap := s.Snapshot()
	snap["c"] = StringValue("leak")
	_, ok := s.Get(RawKey("c"))
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, SortedKeys(s.Snapshot()))
}
