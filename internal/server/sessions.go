package server

import "sync"

// Session is the per-connection mutable record: which room the connection is
// currently in, "" meaning the menu. Created on connect, mutated only by that
// connection's own join_level events, read on disconnect to know which room to
// vacate, destroyed when the connection goes away.
type Session struct {
	CurrentRoom string
}

type SessionManager struct {
	sessions map[string]Session // connectionID → session
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]Session),
	}
}

// CreateSession registers a fresh session with no current room.
func (sm *SessionManager) CreateSession(connectionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[connectionID] = Session{}
}

// SetRoom records the connection's current room; "" puts it back in the menu.
func (sm *SessionManager) SetRoom(connectionID, room string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[connectionID]; !exists {
		return
	}
	sm.sessions[connectionID] = Session{CurrentRoom: room}
}

// CurrentRoom returns the connection's room ("" for menu) and whether the
// session exists at all.
func (sm *SessionManager) CurrentRoom(connectionID string) (string, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[connectionID]
	return session.CurrentRoom, exists
}

// RemoveSession destroys the session on disconnect.
func (sm *SessionManager) RemoveSession(connectionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, connectionID)
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}
