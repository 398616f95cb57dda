package miniostore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"blob-gateway/core/storage"

	"github.com/minio/minio-go/v7"
)

// partSize bounds the memory minio buffers per part for uploads of unknown size.
const partSize = 5 << 20

// Container is a storage.Container backed by one bucket.
type Container struct {
	client Client
	bucket string
	region string
	now    func() time.Time
}

var (
	_ storage.Container = (*Container)(nil)
	_ storage.Verifier  = (*Container)(nil)
)

// NewContainer binds a client to a bucket.
func NewContainer(client Client, bucket, region string) *Container {
	return &Container{client: client, bucket: bucket, region: region, now: time.Now}
}

func (c *Container) Name() string { return c.bucket }

// ObjectURL returns the path-style URL of key.
func (c *Container) ObjectURL(key string) string {
	u := *c.client.EndpointURL()
	u.Path = path.Join("/", c.bucket, key)
	u.RawQuery = ""
	return u.String()
}

func (c *Container) Upload(ctx context.Context, key string, r io.Reader) error {
	_, err := c.client.PutObject(ctx, c.bucket, key, r, -1, minio.PutObjectOptions{PartSize: partSize})
	if err != nil {
		return c.wrap("upload", key, err)
	}
	return nil
}

// Download stats the object first because GetObject defers the request
// until the first read.
func (c *Container) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if _, err := c.client.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, c.wrap("download", key, err)
	}
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.wrap("download", key, err)
	}
	return obj, nil
}

func (c *Container) DeleteIfExists(ctx context.Context, key string) (bool, error) {
	if _, err := c.client.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, c.wrap("delete", key, err)
	}
	if err := c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, c.wrap("delete", key, err)
	}
	return true, nil
}

func (c *Container) SignURL(ctx context.Context, key string, policy storage.SignedURLPolicy) (string, error) {
	method, ttl, err := storage.SigV4Presign(policy, c.now())
	if err != nil {
		return "", c.wrap("sign", key, err)
	}

	var u *url.URL
	if method == http.MethodPut {
		u, err = c.client.PresignedPutObject(ctx, c.bucket, key, ttl)
	} else {
		u, err = c.client.PresignedGetObject(ctx, c.bucket, key, ttl, nil)
	}
	if err != nil {
		return "", c.wrap("sign", key, err)
	}
	return u.String(), nil
}

func (c *Container) Exists(ctx context.Context) (bool, error) {
	ok, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return false, c.wrap("verify", "", err)
	}
	return ok, nil
}

func (c *Container) Create(ctx context.Context) error {
	if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return c.wrap("create", "", err)
	}
	return nil
}

func (c *Container) wrap(op, key string, err error) error {
	if isNotFound(err) {
		err = errors.Join(storage.ErrNotFound, err)
	}
	return &storage.BackendError{Op: op, Container: c.bucket, Key: key, Err: err}
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
