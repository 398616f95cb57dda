package miniostore_test

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"blob-gateway/core/storage"
	"blob-gateway/core/storage/miniostore"
	"blob-gateway/core/storage/miniostore/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errNoSuchKey = minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404, Message: "The specified key does not exist."}

func newContainer() (*miniostore.Container, *mocks.Client) {
	client := new(mocks.Client)
	return miniostore.NewContainer(client, "assets", "us-east-1"), client
}

func TestContainer_ObjectURL(t *testing.T) {
	c, client := newContainer()
	client.On("EndpointURL").Return(&url.URL{Scheme: "http", Host: "localhost:9000"})

	assert.Equal(t, "http://localhost:9000/assets/photo.png", c.ObjectURL("photo.png"))
	assert.Equal(t, "http://localhost:9000/assets/my%20file.txt", c.ObjectURL("my file.txt"))
}

func TestContainer_Upload(t *testing.T) {
	c, client := newContainer()
	body := bytes.NewReader([]byte("hello"))
	client.On("PutObject", mock.Anything, "assets", "a.txt", body, int64(-1), mock.Anything).
		Return(minio.UploadInfo{Key: "a.txt"}, nil)

	require.NoError(t, c.Upload(context.Background(), "a.txt", body))
	client.AssertExpectations(t)
}

func TestContainer_Download(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		c, client := newContainer()
		client.On("StatObject", mock.Anything, "assets", "a.txt", mock.Anything).Return(minio.ObjectInfo{Key: "a.txt"}, nil)
		client.On("GetObject", mock.Anything, "assets", "a.txt", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("hello"))), nil)

		rc, err := c.Download(context.Background(), "a.txt")
		require.NoError(t, err)
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("Missing", func(t *testing.T) {
		c, client := newContainer()
		client.On("StatObject", mock.Anything, "assets", "nope", mock.Anything).Return(minio.ObjectInfo{}, errNoSuchKey)

		rc, err := c.Download(context.Background(), "nope")
		assert.Nil(t, rc)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestContainer_DeleteIfExists(t *testing.T) {
	t.Run("Existing", func(t *testing.T) {
		c, client := newContainer()
		client.On("StatObject", mock.Anything, "assets", "a.txt", mock.Anything).Return(minio.ObjectInfo{Key: "a.txt"}, nil)
		client.On("RemoveObject", mock.Anything, "assets", "a.txt", mock.Anything).Return(nil)

		deleted, err := c.DeleteIfExists(context.Background(), "a.txt")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("Missing", func(t *testing.T) {
		c, client := newContainer()
		client.On("StatObject", mock.Anything, "assets", "a.txt", mock.Anything).Return(minio.ObjectInfo{}, errNoSuchKey)

		deleted, err := c.DeleteIfExists(context.Background(), "a.txt")
		require.NoError(t, err)
		assert.False(t, deleted)
		client.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BackendFailure", func(t *testing.T) {
		c, client := newContainer()
		client.On("StatObject", mock.Anything, "assets", "a.txt", mock.Anything).Return(minio.ObjectInfo{}, assert.AnError)

		deleted, err := c.DeleteIfExists(context.Background(), "a.txt")
		assert.False(t, deleted)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestContainer_SignURL(t *testing.T) {
	signed := &url.URL{Scheme: "http", Host: "localhost:9000", Path: "/assets/a.txt", RawQuery: "X-Amz-Expires=604800"}

	t.Run("ReadClampedToSevenDays", func(t *testing.T) {
		c, client := newContainer()
		client.On("PresignedGetObject", mock.Anything, "assets", "a.txt", storage.MaxSigV4TTL, mock.Anything).Return(signed, nil)

		u, err := c.SignURL(context.Background(), "a.txt", storage.SignedURLPolicy{
			Permissions: storage.ReadOnly,
			ExpiresOn:   time.Now().Add(30 * 24 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, signed.String(), u)
	})

	t.Run("WriteOnlyPresignsPut", func(t *testing.T) {
		c, client := newContainer()
		client.On("PresignedPutObject", mock.Anything, "assets", "a.txt", mock.Anything).Return(signed, nil)

		_, err := c.SignURL(context.Background(), "a.txt", storage.SignedURLPolicy{
			Permissions: storage.Permissions{Write: true},
			ExpiresOn:   time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		client.AssertCalled(t, "PresignedPutObject", mock.Anything, "assets", "a.txt", mock.Anything)
	})

	t.Run("DeleteUnsupported", func(t *testing.T) {
		c, _ := newContainer()
		_, err := c.SignURL(context.Background(), "a.txt", storage.SignedURLPolicy{
			Permissions: storage.Permissions{Read: true, Delete: true},
			ExpiresOn:   time.Now().Add(time.Hour),
		})
		assert.ErrorIs(t, err, storage.ErrUnsupportedPolicy)
	})
}

func TestContainer_Verify(t *testing.T) {
	c, client := newContainer()
	client.On("BucketExists", mock.Anything, "assets").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "assets", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)

	ok, err := c.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.Create(context.Background()))
}
