package files

import (
	"time"

	"blob-gateway/core/storage"
)

// DefaultSignedURLTTL is the lifetime of a protected download URL.
const DefaultSignedURLTTL = 30 * 24 * time.Hour

// PolicyBuilder returns the signed URL policy for a protected retrieval
// requested at now.
type PolicyBuilder func(now time.Time) storage.SignedURLPolicy

// ReadOnlyFor grants read access until now+ttl. A non-positive ttl
// falls back to DefaultSignedURLTTL.
func ReadOnlyFor(ttl time.Duration) PolicyBuilder {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	return func(now time.Time) storage.SignedURLPolicy {
		return storage.SignedURLPolicy{
			Permissions: storage.ReadOnly,
			ExpiresOn:   now.Add(ttl),
		}
	}
}
