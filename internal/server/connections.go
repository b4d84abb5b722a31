package server

import (
	"sync"

	"github.com/coder/websocket"
)

// ConnectionManager tracks every live websocket by connection ID. It is the
// audience for global broadcasts and the source of the server-wide total in
// the occupancy snapshot.
type ConnectionManager struct {
	connections map[string]*websocket.Conn // connectionID → socket
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
	}
}

func (cm *ConnectionManager) AddConnection(id string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[id] = conn
}

func (cm *ConnectionManager) RemoveConnection(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.connections, id)
}

// GetConnection returns the websocket for connectionID, nil if gone.
func (cm *ConnectionManager) GetConnection(id string) *websocket.Conn {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return cm.connections[id]
}

// Count returns the number of live connections, including menu-only ones.
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return len(cm.connections)
}

// Connections returns a snapshot of all live connections. Broadcast loops
// iterate the copy so sends never hold the manager lock.
func (cm *ConnectionManager) Connections() map[string]*websocket.Conn {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	snapshot := make(map[string]*websocket.Conn, len(cm.connections))
	for id, conn := range cm.connections {
		snapshot[id] = conn
	}
	return snapshot
}
