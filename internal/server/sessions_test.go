package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test: Create, read, destroy lifecycle
// Why: Sessions exist from connect to disconnect, nothing outlives that
func TestSessionManager_Lifecycle(t *testing.T) {
	sm := NewSessionManager()

	sm.CreateSession("conn-1")

	room, exists := sm.CurrentRoom("conn-1")
	assert.True(t, exists)
	assert.Empty(t, room, "new session should start in the menu")

	sm.SetRoom("conn-1", "level_3")
	room, exists = sm.CurrentRoom("conn-1")
	assert.True(t, exists)
	assert.Equal(t, "level_3", room)

	sm.RemoveSession("conn-1")
	_, exists = sm.CurrentRoom("conn-1")
	assert.False(t, exists)
}

// Test: Setting the menu sentinel clears the room
func TestSessionManager_BackToMenu(t *testing.T) {
	sm := NewSessionManager()

	sm.CreateSession("conn-1")
	sm.SetRoom("conn-1", "level_2")
	sm.SetRoom("conn-1", "")

	room, exists := sm.CurrentRoom("conn-1")
	assert.True(t, exists)
	assert.Empty(t, room)
}

// Test: SetRoom on a destroyed session is dropped
// Why: A join_level racing a disconnect must not resurrect the session
func TestSessionManager_SetRoomAfterRemove(t *testing.T) {
	sm := NewSessionManager()

	sm.CreateSession("conn-1")
	sm.RemoveSession("conn-1")
	sm.SetRoom("conn-1", "level_1")

	_, exists := sm.CurrentRoom("conn-1")
	assert.False(t, exists)
	assert.Equal(t, 0, sm.Count())
}

func TestSessionManager_Count(t *testing.T) {
	sm := NewSessionManager()

	sm.CreateSession("conn-1")
	sm.CreateSession("conn-2")
	assert.Equal(t, 2, sm.Count())

	sm.RemoveSession("conn-1")
	assert.Equal(t, 1, sm.Count())
}
