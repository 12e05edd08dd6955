package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(line, origin string) Item {
	return Item{Line: []byte(line), Origin: origin}
}

func TestFanOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Publish(item("one\n", "127.0.0.1:9000"))

	got := <-a.C()
	assert.Equal(t, "one\n", string(got.Line))
	assert.Equal(t, "127.0.0.1:9000", got.Origin)

	got = <-b.C()
	assert.Equal(t, "one\n", string(got.Line))
}

func TestDeliveryOrder(t *testing.T) {
	h := NewHub()
	s := h.Subscribe()

	h.Publish(item("one\n", "a"))
	h.Publish(item("two\n", "b"))
	h.Publish(item("three\n", "c"))

	require.Equal(t, "one\n", string((<-s.C()).Line))
	require.Equal(t, "two\n", string((<-s.C()).Line))
	require.Equal(t, "three\n", string((<-s.C()).Line))
}

func TestNoReplayForLateSubscriber(t *testing.T) {
	h := NewHub()
	h.Publish(item("gone\n", "a"))

	s := h.Subscribe()
	assert.Len(t, s.C(), 0)
}

func TestSlowSubscriberDropsItems(t *testing.T) {
	h := NewHubWithCapacity(1)
	s := h.Subscribe()

	h.Publish(item("kept\n", "a"))
	h.Publish(item("dropped\n", "a"))

	require.Equal(t, "kept\n", string((<-s.C()).Line))
	assert.Len(t, s.C(), 0)
}

func TestClosedSubscriptionStopsReceiving(t *testing.T) {
	h := NewHub()
	s := h.Subscribe()
	s.Close()
	s.Close() // second close is a no-op

	h.Publish(item("one\n", "a"))
	assert.Len(t, s.C(), 0)
}
