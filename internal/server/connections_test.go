package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test: Add, count and remove connections
// Why: "total" in the occupancy snapshot comes straight from this count
func TestConnectionManager_AddRemoveCount(t *testing.T) {
	cm := NewConnectionManager()

	assert.Equal(t, 0, cm.Count())

	cm.AddConnection("conn-1", nil)
	cm.AddConnection("conn-2", nil)
	assert.Equal(t, 2, cm.Count())

	cm.RemoveConnection("conn-1")
	assert.Equal(t, 1, cm.Count())

	// Removing twice is harmless
	cm.RemoveConnection("conn-1")
	assert.Equal(t, 1, cm.Count())
}

// Test: Connections returns a snapshot, not the live map
// Why: Broadcast loops iterate without holding the manager lock
func TestConnectionManager_Snapshot(t *testing.T) {
	cm := NewConnectionManager()

	cm.AddConnection("conn-1", nil)
	snapshot := cm.Connections()
	assert.Len(t, snapshot, 1)

	cm.AddConnection("conn-2", nil)
	assert.Len(t, snapshot, 1, "snapshot should not see later additions")
	assert.Len(t, cm.Connections(), 2)
}

func TestConnectionManager_GetMissing(t *testing.T) {
	cm := NewConnectionManager()
	assert.Nil(t, cm.GetConnection("nope"))
}
