// Package database provides the pgx connection pool behind the score store.
package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
)

// Service wraps the connection pool with health reporting so the HTTP layer
// never touches pgx directly.
type Service interface {
	// Health reports the state of the database connection and pool stats.
	Health() map[string]string

	// Pool exposes the underlying pgx pool for the score store.
	Pool() *pgxpool.Pool

	// Close terminates the pool. The service is unusable afterwards.
	Close()
}

type service struct {
	pool *pgxpool.Pool
}

var (
	dbname     = os.Getenv("GAMETJE_DB_DATABASE")
	password   = os.Getenv("GAMETJE_DB_PASSWORD")
	username   = os.Getenv("GAMETJE_DB_USERNAME")
	port       = os.Getenv("GAMETJE_DB_PORT")
	host       = os.Getenv("GAMETJE_DB_HOST")
	dbInstance *service
)

// Configured reports whether database connection settings are present.
// Without them the server falls back to the in-memory score store.
func Configured() bool {
	return host != ""
}

func New() Service {
	// Reuse connection pool
	if dbInstance != nil {
		return dbInstance
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		username, password, host, port, dbname)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}

	dbInstance = &service{pool: pool}
	return dbInstance
}

// Health pings the database with a short timeout and returns a status map
// suitable for the /health endpoint.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("Database health check failed: %v", err)
		return stats
	}

	poolStats := s.pool.Stat()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["total_connections"] = strconv.FormatInt(int64(poolStats.TotalConns()), 10)
	stats["idle_connections"] = strconv.FormatInt(int64(poolStats.IdleConns()), 10)
	stats["acquired_connections"] = strconv.FormatInt(int64(poolStats.AcquiredConns()), 10)

	return stats
}

func (s *service) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *service) Close() {
	log.Printf("Disconnected from database: %s", dbname)
	s.pool.Close()
}
