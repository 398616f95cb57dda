package storage

import (
	"context"
	"io"
	"strings"
	"time"
)

// Container defines the operations the gateway needs from one container
// (bucket) of an object storage backend. Implementations must be safe for
// concurrent use.
type Container interface {
	// Name returns the container name.
	Name() string
	// ObjectURL returns the stable, unsigned URL of an object.
	ObjectURL(key string) string
	// Upload streams r into the object, overwriting any existing one.
	Upload(ctx context.Context, key string, r io.Reader) error
	// Download opens the object for reading. Returns ErrNotFound if missing.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// DeleteIfExists removes the object. It returns false and no error
	// when the object was already gone.
	DeleteIfExists(ctx context.Context, key string) (bool, error)
	// SignURL returns a time-limited URL for the object.
	SignURL(ctx context.Context, key string, policy SignedURLPolicy) (string, error)
}

// Verifier is implemented by containers that can check their existence on
// the backend and create themselves when missing.
type Verifier interface {
	Exists(ctx context.Context) (bool, error)
	Create(ctx context.Context) error
}

// Permissions is the set of operations a signed URL grants.
type Permissions struct {
	Read   bool
	Add    bool
	Create bool
	Write  bool
	Delete bool
}

// ReadOnly grants only read access.
var ReadOnly = Permissions{Read: true}

// String renders the permissions in canonical "racwd" order.
func (p Permissions) String() string {
	var b strings.Builder
	if p.Read {
		b.WriteByte('r')
	}
	if p.Add {
		b.WriteByte('a')
	}
	if p.Create {
		b.WriteByte('c')
	}
	if p.Write {
		b.WriteByte('w')
	}
	if p.Delete {
		b.WriteByte('d')
	}
	return b.String()
}

// SignedTimeFormat is the UTC timestamp layout used in SAS-style query parameters.
const SignedTimeFormat = "2006-01-02T15:04:05Z"

// SignedURLPolicy describes the access a signed URL grants.
type SignedURLPolicy struct {
	Permissions Permissions
	// StartsOn is optional; zero means valid immediately.
	StartsOn  time.Time
	ExpiresOn time.Time
}

// TTL returns the remaining lifetime of the policy relative to now.
func (p SignedURLPolicy) TTL(now time.Time) time.Duration {
	return p.ExpiresOn.Sub(now)
}
