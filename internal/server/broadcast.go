package server

import (
	"context"
	"log"
	"strconv"
)

// buildRoomCounts snapshots the occupancy of every level room plus the
// server-wide connection total, keyed the way clients expect: level numbers
// as strings plus "total".
func (s *Server) buildRoomCounts() RoomCounts {
	counts := make(RoomCounts, TotalLevels+1)
	for level := 1; level <= TotalLevels; level++ {
		counts[strconv.Itoa(level)] = s.roomRegistry.SizeOf(roomName(level))
	}
	counts["total"] = s.connectionManager.Count()
	return counts
}

// broadcastRoomCounts pushes a fresh occupancy snapshot to every connection,
// menu players included: the level-select screen needs live counts too.
// Triggered on connect, every join/leave, and disconnect.
func (s *Server) broadcastRoomCounts() {
	s.broadcastToAll(ServerMessage{
		Type:    "room_counts",
		Payload: s.buildRoomCounts(),
	})
}

// broadcastToAll sends a message to every live connection. Best-effort: a
// failed send is logged and the rest of the audience still gets the message.
func (s *Server) broadcastToAll(msg ServerMessage) {
	for id, conn := range s.connectionManager.Connections() {
		// Use background context for broadcasts
		if err := s.sendMessage(conn, context.Background(), msg); err != nil {
			log.Printf("Failed to broadcast %s to %s: %v", msg.Type, id, err)
		}
	}
}

// broadcastToRoom sends a message to every member of a room except
// excludeID, normally the sender.
func (s *Server) broadcastToRoom(room, excludeID string, msg ServerMessage) {
	for _, id := range s.roomRegistry.Members(room) {
		if id == excludeID {
			continue
		}

		conn := s.connectionManager.GetConnection(id)
		if conn == nil {
			continue // raced with a disconnect
		}

		if err := s.sendMessage(conn, context.Background(), msg); err != nil {
			log.Printf("Failed to broadcast %s to %s: %v", msg.Type, id, err)
		}
	}
}
