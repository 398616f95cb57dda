package storage

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// MaxSigV4TTL is the longest lifetime AWS Signature V4 accepts for a
// presigned URL.
const MaxSigV4TTL = 7 * 24 * time.Hour

// ErrPolicyExpired is returned when a policy expires before it can be used.
var ErrPolicyExpired = errors.New("signed url policy already expired")

// SigV4Presign maps a policy onto what a SigV4 presigned URL can express:
// the HTTP method and a lifetime clamped to MaxSigV4TTL. Read presigns a
// GET; Write without Read presigns a PUT. StartsOn is not expressible and
// is ignored.
func SigV4Presign(policy SignedURLPolicy, now time.Time) (string, time.Duration, error) {
	ttl := policy.TTL(now)
	if ttl < time.Second {
		return "", 0, ErrPolicyExpired
	}
	if ttl > MaxSigV4TTL {
		ttl = MaxSigV4TTL
	}

	p := policy.Permissions
	switch {
	case p.Add || p.Create || p.Delete:
		return "", 0, fmt.Errorf("%w: %q", ErrUnsupportedPolicy, p.String())
	case p.Read:
		return http.MethodGet, ttl, nil
	case p.Write:
		return http.MethodPut, ttl, nil
	default:
		return "", 0, fmt.Errorf("%w: no permissions", ErrUnsupportedPolicy)
	}
}
