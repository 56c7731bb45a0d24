package manager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveness_PingThenLastPing(t *testing.T) {
	l := NewLiveness()
	_, ok := l.LastPing("alice_at_example_com")
	assert.False(t, ok)

	l.Ping("alice_at_example_com")
	ts, ok := l.LastPing("alice_at_example_com")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Second)
}

func TestLiveness_PingAtBackfillsExplicitTime(t *testing.T) {
	l := NewLiveness()
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.PingAt("alice_at_example_com", want)

	got, ok := l.LastPing("alice_at_example_com")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestLiveness_Forget(t *testing.T) {
	l := NewLiveness()
	l.Ping("alice_at_example_com")
	l.Forget("alice_at_example_com")

	_, ok := l.LastPing("alice_at_example_com")
	assert.False(t, ok)
}

func TestLiveness_Count(t *testing.T) {
	l := NewLiveness()
	assert.Equal(t, 0, l.Count())

	l.Ping("alice_at_example_com")
	l.Ping("bob_at_example_com")
	assert.Equal(t, 2, l.Count())

	l.Forget("alice_at_example_com")
	assert.Equal(t, 1, l.Count())
}

func TestLiveness_ReconcileRemovesUnobservedEntries(t *testing.T) {
	l := NewLiveness()
	l.Ping("alice_at_example_com")
	l.Ping("bob_at_example_com")
	l.Ping("carol_at_example_com")

	l.Reconcile(map[string]struct{}{"alice_at_example_com": {}, "carol_at_example_com": {}})

	_, ok := l.LastPing("alice_at_example_com")
	assert.True(t, ok)
	_, ok = l.LastPing("bob_at_example_com")
	assert.False(t, ok)
	_, ok = l.LastPing("carol_at_example_com")
	assert.True(t, ok)
}

func TestLiveness_ReconcileWithEmptyObservedClearsEverything(t *testing.T) {
	l := NewLiveness()
	l.Ping("alice_at_example_com")
	l.Reconcile(map[string]struct{}{})
	assert.Equal(t, 0, l.Count())
}
