package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"gametje-server/internal/database"
)

type Server struct {
	port              int
	db                database.Service
	connectionManager *ConnectionManager
	roomRegistry      *RoomRegistry
	sessions          *SessionManager
	scores            ScoreStore
}

func NewServer() (*Server, *http.Server) {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 3333
	}

	var (
		dbService database.Service
		scores    ScoreStore
	)

	if database.Configured() {
		dbService = database.New()

		store := NewPostgresScoreStore(dbService.Pool())
		if err := store.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to prepare score schema: %v", err)
		}
		scores = store
	} else {
		log.Println("GAMETJE_DB_HOST not set, best times will not survive a restart")
		scores = NewMemoryScoreStore()
	}

	newServer := &Server{
		port:              port,
		db:                dbService,
		connectionManager: NewConnectionManager(),
		roomRegistry:      NewRoomRegistry(),
		sessions:          NewSessionManager(),
		scores:            scores,
	}

	// Declare Server config
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", newServer.port),
		Handler:      newServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return newServer, httpServer
}

// Shutdown releases server-held resources. Live websockets are closed by the
// HTTP server's own shutdown; room and session state is in-memory only and
// needs no saving.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("Shutting down with %d connections in %d sessions",
		s.connectionManager.Count(), s.sessions.Count())

	if s.db != nil {
		s.db.Close()
	}
	return nil
}
