package webclient

import "time"

// Config carries the transport settings of the net/http backend.
type Config struct {
	// Timeout is the client-wide deadline for a single round trip,
	// response body included. Zero means 30s.
	Timeout time.Duration

	// FollowRedirects lets the client follow 3xx responses. The scenario
	// runners leave it off so redirects stay assertable.
	FollowRedirects bool
}
