package memstore_test

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"blob-gateway/core/storage"
	"blob-gateway/core/storage/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := memstore.NewContainer("public", "")

	require.NoError(t, c.Upload(ctx, "a.txt", strings.NewReader("hello")))
	require.NoError(t, c.Upload(ctx, "a.txt", strings.NewReader("world")))
	assert.Equal(t, 1, c.Len())

	rc, err := c.Download(ctx, "a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))
}

func TestContainer_Missing(t *testing.T) {
	ctx := context.Background()
	c := memstore.NewContainer("public", "")

	_, err := c.Download(ctx, "nope")
	assert.True(t, storage.IsNotFound(err))

	deleted, err := c.DeleteIfExists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestContainer_Delete(t *testing.T) {
	ctx := context.Background()
	c := memstore.NewContainer("public", "")
	require.NoError(t, c.Upload(ctx, "a.txt", bytes.NewReader([]byte("x"))))

	deleted, err := c.DeleteIfExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = c.DeleteIfExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestContainer_URLs(t *testing.T) {
	c := memstore.NewContainer("protected", "http://files.local/")
	assert.Equal(t, "http://files.local/protected/a%20b.txt", c.ObjectURL("a b.txt"))

	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	raw, err := c.SignURL(context.Background(), "a.txt", storage.SignedURLPolicy{
		Permissions: storage.ReadOnly,
		ExpiresOn:   expires,
	})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "r", u.Query().Get("sp"))
	assert.Equal(t, "2030-01-02T03:04:05Z", u.Query().Get("se"))

	_, err = c.SignURL(context.Background(), "a.txt", storage.SignedURLPolicy{ExpiresOn: expires})
	assert.ErrorIs(t, err, storage.ErrUnsupportedPolicy)
}

func TestContainer_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := memstore.NewContainer("public", "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			_ = c.Upload(ctx, key, strings.NewReader("data"))
			_, _ = c.DeleteIfExists(ctx, key)
		}(i)
	}
	wg.Wait()
}
