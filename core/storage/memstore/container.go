package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"blob-gateway/core/storage"
)

// DefaultBaseURL is used when no BaseURL is configured.
const DefaultBaseURL = "memory://local"

// Container keeps objects in a map. It exists for development and tests.
type Container struct {
	mu      sync.RWMutex
	name    string
	baseURL string
	objects map[string][]byte
}

var _ storage.Container = (*Container)(nil)

// NewContainer creates an empty container. An empty baseURL selects DefaultBaseURL.
func NewContainer(name, baseURL string) *Container {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Container{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: map[string][]byte{},
	}
}

func (c *Container) Name() string { return c.name }

func (c *Container) ObjectURL(key string) string {
	return c.baseURL + "/" + c.name + "/" + url.PathEscape(key)
}

// Upload reads r fully before publishing the object, so readers never see
// a partial write.
func (c *Container) Upload(ctx context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &storage.BackendError{Op: "upload", Container: c.name, Key: key, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return &storage.BackendError{Op: "upload", Container: c.name, Key: key, Err: err}
	}

	c.mu.Lock()
	c.objects[key] = data
	c.mu.Unlock()
	return nil
}

func (c *Container) Download(_ context.Context, key string) (io.ReadCloser, error) {
	c.mu.RLock()
	data, ok := c.objects[key]
	c.mu.RUnlock()
	if !ok {
		return nil, &storage.BackendError{Op: "download", Container: c.name, Key: key, Err: storage.ErrNotFound}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (c *Container) DeleteIfExists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.objects[key]; !ok {
		return false, nil
	}
	delete(c.objects, key)
	return true, nil
}

// SignURL mimics a SAS URL: sp carries the permissions, se the expiry.
func (c *Container) SignURL(_ context.Context, key string, policy storage.SignedURLPolicy) (string, error) {
	perms := policy.Permissions.String()
	if perms == "" {
		return "", &storage.BackendError{
			Op: "sign", Container: c.name, Key: key,
			Err: fmt.Errorf("%w: no permissions", storage.ErrUnsupportedPolicy),
		}
	}

	q := url.Values{}
	if !policy.StartsOn.IsZero() {
		q.Set("st", policy.StartsOn.UTC().Format(storage.SignedTimeFormat))
	}
	q.Set("se", policy.ExpiresOn.UTC().Format(storage.SignedTimeFormat))
	q.Set("sp", perms)
	return c.ObjectURL(key) + "?" + q.Encode(), nil
}

// Len reports the number of stored objects.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}
