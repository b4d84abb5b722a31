package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("/", s.InfoHandler)

	mux.HandleFunc("/health", s.healthHandler)

	mux.HandleFunc("/websocket", s.websocketHandler)

	// Wrap the mux with CORS middleware
	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Echo the origin back only when it is on the allow-list
		if origin := r.Header.Get("Origin"); originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) InfoHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"message": "Multiplayer racing relay"}
	jsonResp, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(jsonResp); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]string{"status": "up", "database": "none"}
	if s.db != nil {
		health = s.db.Health()
	}

	resp, err := json.Marshal(health)
	if err != nil {
		http.Error(w, "Failed to marshal health check response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !originAllowed(origin) {
		log.Printf("Blocked connection from unauthorized origin: %q", origin)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origin verified against the allow-list above
		InsecureSkipVerify: true,
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer socket.Close(websocket.StatusGoingAway, "Server closing")

	ctx := r.Context()

	connectionID := uuid.New().String()
	log.Printf("Player connected: %s", connectionID)
	s.connectionManager.AddConnection(connectionID, socket)
	s.sessions.CreateSession(connectionID)
	defer s.handleDisconnect(connectionID)

	// Immediately tell the new player the current counts
	s.broadcastRoomCounts()

	for {
		// Read from client
		msgType, data, err := socket.Read(ctx)

		if err != nil {
			log.Printf("Connection %s read error: %v", connectionID, err)
			return
		}

		if msgType != websocket.MessageText {
			log.Printf("Non-text input from %s", connectionID)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Invalid JSON from %s: %v", connectionID, err)
			s.sendError(socket, ctx, "Invalid JSON")
			continue
		}

		// Route the message
		switch msg.Type {
		case "ping":
			s.handlePing(socket, ctx, connectionID, msg.Payload)

		case "join_level":
			s.handleJoinLevel(socket, ctx, connectionID, msg.Payload)

		case "player_update":
			s.handlePlayerUpdate(socket, ctx, connectionID, msg.Payload)

		case "request_leaderboard":
			s.handleRequestLeaderboard(socket, ctx, connectionID, msg.Payload)

		case "submit_time":
			s.handleSubmitTime(socket, ctx, connectionID, msg.Payload)

		default:
			log.Printf("Unknown message type '%s' from %s", msg.Type, connectionID)
			s.sendError(socket, ctx, fmt.Sprintf("Unknown message type: %s", msg.Type))
		}
	}
}

// handleDisconnect vacates the departing connection's room and tells everyone.
// The registry and connection removals happen before any broadcast so the
// occupancy snapshot and the remaining-member fan-out never count the dead
// connection.
func (s *Server) handleDisconnect(connectionID string) {
	room, _ := s.sessions.CurrentRoom(connectionID)

	s.roomRegistry.Remove(connectionID)
	s.connectionManager.RemoveConnection(connectionID)
	s.sessions.RemoveSession(connectionID)
	log.Printf("Player disconnected: %s", connectionID)

	if room != "" {
		s.broadcastToRoom(room, connectionID, ServerMessage{
			Type:    "phantom_leave",
			Payload: PhantomLeave{ID: connectionID},
		})
	}

	s.broadcastRoomCounts()
}

func (s *Server) handlePing(socket *websocket.Conn, ctx context.Context, connectionID string, msg json.RawMessage) {
	// No payload to parse

	response := ServerMessage{
		Type:    "pong",
		Payload: struct{}{},
	}

	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send pong to %s: %v", connectionID, err)
	}
}

// handleJoinLevel moves the connection between rooms. Leave-before-join keeps
// a connection out of two rooms at once, and the phantom_leave lets peers in
// the vacated room retire the player's ghost immediately instead of waiting
// for a disconnect timeout.
func (s *Server) handleJoinLevel(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req JoinLevelRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "Invalid join_level payload")
		return
	}

	// Leave previous level if they were in one
	if previous, _ := s.sessions.CurrentRoom(connectionID); previous != "" {
		s.roomRegistry.Leave(connectionID, previous)
		s.broadcastToRoom(previous, connectionID, ServerMessage{
			Type:    "phantom_leave",
			Payload: PhantomLeave{ID: connectionID},
		})
	}

	if req.Level.Menu {
		s.sessions.SetRoom(connectionID, "")
		s.broadcastRoomCounts()
		return
	}

	room := roomName(req.Level.Level)
	s.sessions.SetRoom(connectionID, room)
	s.roomRegistry.Join(connectionID, room)
	log.Printf("%s joined %s", connectionID, room)

	s.broadcastRoomCounts()
}

// handlePlayerUpdate relays a position update to everyone ELSE in the same
// room. Fire-and-forget: a connection with no room has nothing to relay to,
// so the update is silently dropped.
func (s *Server) handlePlayerUpdate(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	room, _ := s.sessions.CurrentRoom(connectionID)
	if room == "" {
		return
	}

	var update PlayerUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		log.Printf("Invalid player_update from %s: %v", connectionID, err)
		return
	}

	update.ID = connectionID
	s.broadcastToRoom(room, connectionID, ServerMessage{
		Type:    "phantom_update",
		Payload: update,
	})
}

// handleRequestLeaderboard answers with the level's top times, sent only to
// the requesting connection.
func (s *Server) handleRequestLeaderboard(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req LeaderboardRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "Invalid request_leaderboard payload")
		return
	}

	entries, err := s.scores.TopTimes(ctx, req.Level)
	if err != nil {
		log.Printf("Failed to load leaderboard for level %d: %v", req.Level, err)
		s.sendError(socket, ctx, "Failed to load leaderboard")
		return
	}

	response := ServerMessage{
		Type:    fmt.Sprintf("leaderboard_data_%d", req.Level),
		Payload: entries,
	}
	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send leaderboard to %s: %v", connectionID, err)
	}
}

// handleSubmitTime stores a finished run and, when it actually improved the
// board, broadcasts the fresh top 10 to every connection. Below-floor and
// non-improving submissions change nothing and nobody is notified.
func (s *Server) handleSubmitTime(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req SubmitTimeRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "Invalid submit_time payload")
		return
	}

	accepted, err := s.scores.SubmitTime(ctx, ScoreSubmission{
		Level:    req.Level,
		PlayerID: req.PlayerID,
		Name:     req.Name,
		Color:    req.Color,
		Time:     req.Time,
	})
	if err != nil {
		log.Printf("Failed to save time from %s: %v", connectionID, err)
		return
	}
	if !accepted {
		return
	}

	entries, err := s.scores.TopTimes(ctx, req.Level)
	if err != nil {
		log.Printf("Failed to load leaderboard for level %d: %v", req.Level, err)
		return
	}

	// Broadcast the updated top 10 to everyone so the UI updates instantly
	s.broadcastToAll(ServerMessage{
		Type:    fmt.Sprintf("leaderboard_data_%d", req.Level),
		Payload: entries,
	})
}

func (s *Server) sendMessage(socket *websocket.Conn, ctx context.Context, msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	return socket.Write(ctx, websocket.MessageText, data)
}

func (s *Server) sendError(socket *websocket.Conn, ctx context.Context, msg string) {
	response := ServerMessage{
		Type: "error",
		Payload: ErrorMessage{
			Message: msg,
		},
	}

	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send error message: %v", err)
	}
}
