// Package params holds the process-wide runtime-tunable reservation
// parameters. Values seed from configuration at startup and can be
// changed at runtime through the admin API.
package params

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/Jomkit/KitchenSync/pkg/errors"
)

// Bounds enforced on runtime updates, in seconds.
const (
	TTLMinSeconds = 60
	TTLMaxSeconds = 900

	WarningMinSeconds = 5
	WarningMaxSeconds = 120
)

// Registry is a thread-safe pair of independent cells: the reservation
// TTL and the expiry-warning threshold. Each cell has its own lock so a
// slow reader of one never blocks a writer of the other.
type Registry struct {
	ttlMu      sync.RWMutex
	ttlSeconds int

	warnMu      sync.RWMutex
	warnSeconds int
}

// New creates a registry seeded with the configured defaults. Seed values
// are taken as-is; bounds apply only to runtime updates.
func New(ttlSeconds, warningSeconds int) *Registry {
	return &Registry{
		ttlSeconds:  ttlSeconds,
		warnSeconds: warningSeconds,
	}
}

// TTLSeconds returns the current reservation TTL in seconds.
func (r *Registry) TTLSeconds() int {
	r.ttlMu.RLock()
	defer r.ttlMu.RUnlock()
	return r.ttlSeconds
}

// TTL returns the current reservation TTL as a duration.
func (r *Registry) TTL() time.Duration {
	return time.Duration(r.TTLSeconds()) * time.Second
}

// SetTTLSeconds updates the reservation TTL. Values outside
// [TTLMinSeconds, TTLMaxSeconds] are rejected.
func (r *Registry) SetTTLSeconds(seconds int) error {
	if seconds < TTLMinSeconds || seconds > TTLMaxSeconds {
		return apperrors.OutOfRange(fmt.Sprintf(
			"ttl must be between %d and %d seconds", TTLMinSeconds, TTLMaxSeconds))
	}

	r.ttlMu.Lock()
	defer r.ttlMu.Unlock()
	r.ttlSeconds = seconds
	return nil
}

// WarningSeconds returns the current expiry-warning threshold in seconds.
func (r *Registry) WarningSeconds() int {
	r.warnMu.RLock()
	defer r.warnMu.RUnlock()
	return r.warnSeconds
}

// SetWarningSeconds updates the expiry-warning threshold. Values outside
// [WarningMinSeconds, WarningMaxSeconds] are rejected.
func (r *Registry) SetWarningSeconds(seconds int) error {
	if seconds < WarningMinSeconds || seconds > WarningMaxSeconds {
		return apperrors.OutOfRange(fmt.Sprintf(
			"warning_threshold_seconds must be between %d and %d", WarningMinSeconds, WarningMaxSeconds))
	}

	r.warnMu.Lock()
	defer r.warnMu.Unlock()
	r.warnSeconds = seconds
	return nil
}
