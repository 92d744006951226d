package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSubscriber implements Subscriber for testing.
type mockSubscriber struct {
	mu       sync.Mutex
	events   []Event
	isClosed bool
}

func (m *mockSubscriber) Receive(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *mockSubscriber) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isClosed
}

func (m *mockSubscriber) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Event, len(m.events))
	copy(cp, m.events)
	return cp
}

func TestBusEmit(t *testing.T) {
	bus := NewBus()
	a, b := &mockSubscriber{}, &mockSubscriber{}
	bus.Subscribe(a)
	bus.Subscribe(b)

	bus.Emit(Event{Type: EvParsed, Input: "take lamp", Verb: "take", Kind: "ok"})

	for _, sub := range []*mockSubscriber{a, b} {
		evs := sub.Events()
		require.Len(t, evs, 1)
		assert.Equal(t, "take lamp", evs[0].Input)
		assert.Equal(t, EvParsed, evs[0].Type)
		assert.False(t, evs[0].Time.IsZero(), "emit should stamp the time")
	}
}

func TestBusSkipsClosed(t *testing.T) {
	bus := NewBus()
	open, closed := &mockSubscriber{}, &mockSubscriber{isClosed: true}
	bus.Subscribe(open)
	bus.Subscribe(closed)

	bus.Emit(Event{Type: EvRejected})
	assert.Len(t, open.Events(), 1)
	assert.Empty(t, closed.Events())

	bus.Cleanup()
	assert.Equal(t, 1, bus.Len())
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	sub := &mockSubscriber{}
	bus.Subscribe(sub)
	bus.Unsubscribe(sub)
	bus.Emit(Event{Type: EvOutput, Text: "hello"})
	assert.Empty(t, sub.Events())
	assert.Equal(t, 0, bus.Len())
}

func TestSubscriberFunc(t *testing.T) {
	bus := NewBus()
	var got []EventType
	bus.Subscribe(SubscriberFunc(func(ev Event) { got = append(got, ev.Type) }))
	bus.Emit(Event{Type: EvPrompted})
	bus.Emit(Event{Type: EvReplayed})
	assert.Equal(t, []EventType{EvPrompted, EvReplayed}, got)
	assert.Equal(t, "replayed", EvReplayed.String())
}
