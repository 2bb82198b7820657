package airtable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_SingleUse(t *testing.T) {
	s := NewStateStore()
	s.Save("state1", "verifier1")

	got, ok := s.Consume("state1")
	require.True(t, ok)
	assert.Equal(t, "verifier1", got)

	// replay fails
	_, ok = s.Consume("state1")
	assert.False(t, ok)
}

func TestStateStore_UnknownState(t *testing.T) {
	s := NewStateStore()
	_, ok := s.Consume("never-saved")
	assert.False(t, ok)
}

func TestStateStore_Expiry(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s := NewStateStore()
	s.now = func() time.Time { return clock }

	s.Save("state1", "verifier1")

	clock = clock.Add(StateTTL + time.Second)
	_, ok := s.Consume("state1")
	assert.False(t, ok)
}

func TestStateStore_Sweep(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s := NewStateStore()
	s.now = func() time.Time { return clock }

	s.Save("old", "v1")
	clock = clock.Add(StateTTL - time.Minute)
	s.Save("fresh", "v2")

	clock = clock.Add(2 * time.Minute)
	s.Sweep()

	_, ok := s.Consume("old")
	assert.False(t, ok)
	got, ok := s.Consume("fresh")
	require.True(t, ok)
	assert.Equal(t, "v2", got)
}
