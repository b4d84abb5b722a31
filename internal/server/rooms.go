package server

import (
	"fmt"
	"sync"
)

// TotalLevels is the number of race tracks, and therefore the number of rooms
// reported in every occupancy snapshot.
const TotalLevels = 6

// roomName maps a level number to its room identifier.
func roomName(level int) string {
	return fmt.Sprintf("level_%d", level)
}

// RoomRegistry is the in-memory index of room membership: room → member set,
// plus a reverse index so a connection can never be counted in two rooms.
// Nothing here is persisted; a restarted server starts with empty rooms.
type RoomRegistry struct {
	rooms   map[string]map[string]bool // room → set of connection IDs
	members map[string]string          // connection ID → room
	mu      sync.RWMutex
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:   make(map[string]map[string]bool),
		members: make(map[string]string),
	}
}

// Join adds a connection to a room. Idempotent for the same room; if the
// connection is still indexed under another room it is moved, which keeps the
// one-room-per-connection invariant even if a caller skips the leave step.
func (rr *RoomRegistry) Join(connectionID, room string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if previous, ok := rr.members[connectionID]; ok {
		if previous == room {
			return
		}
		rr.removeLocked(connectionID, previous)
	}

	if rr.rooms[room] == nil {
		rr.rooms[room] = make(map[string]bool)
	}
	rr.rooms[room][connectionID] = true
	rr.members[connectionID] = room
}

// Leave removes a connection from a room. Safe to call when the connection is
// not a member; that is a no-op, not an error.
func (rr *RoomRegistry) Leave(connectionID, room string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.members[connectionID] != room {
		return
	}
	rr.removeLocked(connectionID, room)
}

// Remove vacates whatever room the connection is in. Used on disconnect, when
// the caller no longer cares which room that was.
func (rr *RoomRegistry) Remove(connectionID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if room, ok := rr.members[connectionID]; ok {
		rr.removeLocked(connectionID, room)
	}
}

// removeLocked requires rr.mu to be held.
func (rr *RoomRegistry) removeLocked(connectionID, room string) {
	delete(rr.members, connectionID)

	set := rr.rooms[room]
	delete(set, connectionID)
	if len(set) == 0 {
		delete(rr.rooms, room)
	}
}

// SizeOf returns the current member count; zero for never-populated or
// fully-vacated rooms.
func (rr *RoomRegistry) SizeOf(room string) int {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return len(rr.rooms[room])
}

// Members returns a snapshot of the room's member connection IDs.
func (rr *RoomRegistry) Members(room string) []string {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	set := rr.rooms[room]
	members := make([]string, 0, len(set))
	for id := range set {
		members = append(members, id)
	}
	return members
}

// RoomOf returns the room a connection is currently indexed under, "" if none.
func (rr *RoomRegistry) RoomOf(connectionID string) string {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.members[connectionID]
}
