package canary

import "errors"

var (
	// Connection errors.
	ErrConnClosed = errors.New("canary: connection has been closed")
	ErrNoEndpoint = errors.New("canary: no endpoint configured")

	// Data errors.
	ErrNotFound        = errors.New("canary: key not found")
	ErrInvalidSnapshot = errors.New("canary: invalid job snapshot")
	ErrInvalidEntry    = errors.New("canary: invalid encoded entry")

	// Poller errors.
	ErrPollerRunning    = errors.New("canary: poller already running")
	ErrPollerNotRunning = errors.New("canary: poller not running")

	// Configuration errors.
	ErrInvalidConfig = errors.New("canary: invalid config")
)
