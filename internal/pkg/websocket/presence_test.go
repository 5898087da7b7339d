package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceAddAndList(t *testing.T) {
	p := NewPresenceTracker()

	p.Add(1, 10)
	p.Add(1, 11)
	p.Add(2, 10)

	assert.ElementsMatch(t, []int64{10, 11}, p.List(1))
	assert.ElementsMatch(t, []int64{10}, p.List(2))
	assert.Empty(t, p.List(3))
	assert.Equal(t, 2, p.Count(1))
}

func TestPresenceAddIsIdempotent(t *testing.T) {
	p := NewPresenceTracker()

	p.Add(1, 10)
	p.Add(1, 10)

	assert.Equal(t, 1, p.Count(1))
}

func TestPresenceRemove(t *testing.T) {
	p := NewPresenceTracker()

	p.Add(1, 10)
	p.Add(1, 11)

	assert.True(t, p.Remove(1, 10))
	assert.ElementsMatch(t, []int64{11}, p.List(1))

	// Removing again reports absence
	assert.False(t, p.Remove(1, 10))
	assert.False(t, p.Remove(99, 10))

	// Emptying a room drops its entry
	assert.True(t, p.Remove(1, 11))
	assert.Equal(t, 0, p.Count(1))
}

func TestPresenceTeamsOf(t *testing.T) {
	p := NewPresenceTracker()

	p.Add(1, 10)
	p.Add(2, 10)
	p.Add(3, 11)

	assert.ElementsMatch(t, []int64{1, 2}, p.TeamsOf(10))
	assert.ElementsMatch(t, []int64{3}, p.TeamsOf(11))
	assert.Empty(t, p.TeamsOf(12))
}
