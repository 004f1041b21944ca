package joblog

import (
	"fmt"
	"math"

	"github.com/mmadhavan/canary"
)

// WindowMode selects the score range a non-first read covers.
type WindowMode int

const (
	// WindowSinceLastRead returns entries scored after the last-read marker
	// and at or before now. This is the default.
	WindowSinceLastRead WindowMode = iota

	// WindowLegacy reproduces the range older readers used,
	// [now - marker, now]. The marker is an absolute timestamp, so the
	// lower bound is a small number and nearly the whole history is
	// returned on every read. Use it only when byte-for-byte parity with
	// the old readers matters.
	WindowLegacy
)

// String returns the mode name.
func (m WindowMode) String() string {
	switch m {
	case WindowSinceLastRead:
		return "since-last-read"
	case WindowLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// lowerBound returns the inclusive minimum score for a read at now, given
// the stored marker. The marker was written with the previous read's upper
// bound, so the next representable score above it starts the new window
// without returning any entry twice.
func (m WindowMode) lowerBound(now, marker float64) float64 {
	if m == WindowLegacy {
		return now - marker
	}
	return math.Nextafter(marker, math.Inf(1))
}

// ParseWindowMode parses the name returned by WindowMode.String. An empty
// name selects the default.
func ParseWindowMode(name string) (WindowMode, error) {
	switch name {
	case "", "since-last-read":
		return WindowSinceLastRead, nil
	case "legacy":
		return WindowLegacy, nil
	default:
		return 0, fmt.Errorf("%w: unknown window mode %q", canary.ErrInvalidConfig, name)
	}
}
