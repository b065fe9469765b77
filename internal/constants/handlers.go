package constants

import "time"

// Web server constants
const (
	// DefaultWebPort is the port the UI listens on when WEB_PORT is unset
	DefaultWebPort = 8080

	// DefaultWebHost binds to loopback; the UI drives a local camera and door
	DefaultWebHost = "127.0.0.1"

	// RequestTimeout bounds a single API request, including capture and encoding
	RequestTimeout = time.Minute

	// MaxUploadSize is the maximum size of an uploaded frame
	MaxUploadSize = 16 << 20
)
