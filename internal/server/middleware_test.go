package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Why table-driven: the allow-list is all edge cases, enumerate them
func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		origin  string
		allowed bool
	}{
		// Production domain and subdomains
		{"https://gametje.com", true},
		{"http://gametje.com", true},
		{"https://play.gametje.com", true},
		{"https://deep.sub.gametje.com", true},

		// Lookalike domains must not pass
		{"https://evilgametje.com", false},
		{"https://gametje.com.evil.com", false},

		// Local dev
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"http://127.0.0.1", true},
		{"http://127.0.0.1:8080", true},
		{"https://localhost:5173", false},

		// Local network
		{"http://192.168.1.42", true},
		{"http://192.168.1.42:3000", true},
		{"http://10.0.0.1", false},

		// No origin (server-to-server, curl) is blocked
		{"", false},
		{"https://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.allowed, originAllowed(tt.origin), "origin %q", tt.origin)
		})
	}
}
