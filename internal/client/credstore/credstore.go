// Package credstore is the device-local credential store: a scoped string
// key-value capability that survives process restarts. It holds the session
// token, the cached role, and the configurable API base URL.
package credstore

import (
	"context"
	"errors"
)

// Keys used by the session layer.
const (
	KeyAccessToken = "accessToken"
	KeyUserRole    = "userRole"
	KeyAPIBaseURL  = "API_BASE_URL"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("credstore: key not found")

// Store abstracts scoped key-value persistence so the session manager can
// run against the on-device SQLite file or an in-memory map in tests.
type Store interface {
	// Get retrieves the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
