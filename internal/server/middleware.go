package server

import "regexp"

// Origin allow-list for websocket handshakes and CORS. Connections with no
// Origin header or a non-matching one are refused at the handshake.
var allowedOrigins = []*regexp.Regexp{
	// Production: gametje.com and any subdomain, http or https
	regexp.MustCompile(`^https?://(?:[a-zA-Z0-9-]+\.)*gametje\.com$`),

	// Local dev: localhost / loopback at any port
	regexp.MustCompile(`^http://localhost(:\d+)?$`),
	regexp.MustCompile(`^http://127\.0\.0\.1(:\d+)?$`),

	// Local network dev: 192.x.x.x, for testing on a phone
	regexp.MustCompile(`^http://192\.\d{1,3}\.\d{1,3}\.\d{1,3}(:\d+)?$`),
}

// originAllowed reports whether an Origin header value is on the allow-list.
// An empty origin (server-to-server, curl) is never allowed.
func originAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	for _, pattern := range allowedOrigins {
		if pattern.MatchString(origin) {
			return true
		}
	}
	return false
}
