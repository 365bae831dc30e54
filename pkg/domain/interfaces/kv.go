package interfaces

import "context"

// KV is the pluggable key/value persistence behind per-client session
// state (user ID, interaction history). Implementations are scoped to a
// single client: the cookie backend is bound to one request/response
// pair, the memory backend to one session key.
type KV interface {
	// Get returns the stored value and whether the key was present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores the value under the key
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
