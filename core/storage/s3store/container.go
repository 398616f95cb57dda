package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blob-gateway/core/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Container is a storage.Container backed by an S3 bucket.
type Container struct {
	client   *s3.Client
	presign  *s3.PresignClient
	uploader *manager.Uploader
	bucket   string
	endpoint Endpoint
	now      func() time.Time
}

var (
	_ storage.Container = (*Container)(nil)
	_ storage.Verifier  = (*Container)(nil)
)

// NewContainer binds a client to a bucket.
func NewContainer(client *s3.Client, bucket string, endpoint Endpoint) *Container {
	return &Container{
		client:   client,
		presign:  s3.NewPresignClient(client),
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		endpoint: endpoint,
		now:      time.Now,
	}
}

func (c *Container) Name() string { return c.bucket }

// ObjectURL returns the virtual-hosted URL of key, or the path-style URL
// when the endpoint asks for it.
func (c *Container) ObjectURL(key string) string {
	base := c.endpoint.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://s3.%s.amazonaws.com", c.endpoint.Region)
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return ""
	}
	if c.endpoint.PathStyle {
		u.Path += "/" + c.bucket + "/" + key
	} else {
		u.Host = c.bucket + "." + u.Host
		u.Path += "/" + key
	}
	return u.String()
}

// Upload streams r through the multipart uploader; only the in-flight
// parts are buffered.
func (c *Container) Upload(ctx context.Context, key string, r io.Reader) error {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return c.wrap("upload", key, err)
	}
	return nil
}

func (c *Container) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, c.wrap("download", key, err)
	}
	return out.Body, nil
}

// DeleteIfExists heads the object first; S3 deletes succeed on missing keys
// and would not tell us whether anything was removed.
func (c *Container) DeleteIfExists(ctx context.Context, key string) (bool, error) {
	_, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, c.wrap("delete", key, err)
	}

	_, err = c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, c.wrap("delete", key, err)
	}
	return true, nil
}

func (c *Container) SignURL(ctx context.Context, key string, policy storage.SignedURLPolicy) (string, error) {
	method, ttl, err := storage.SigV4Presign(policy, c.now())
	if err != nil {
		return "", c.wrap("sign", key, err)
	}

	var req *v4.PresignedHTTPRequest
	if method == http.MethodPut {
		req, err = c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(ttl))
	} else {
		req, err = c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(ttl))
	}
	if err != nil {
		return "", c.wrap("sign", key, err)
	}
	return req.URL, nil
}

func (c *Container) Exists(ctx context.Context) (bool, error) {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, c.wrap("verify", "", err)
	}
	return true, nil
}

func (c *Container) Create(ctx context.Context) error {
	in := &s3.CreateBucketInput{Bucket: aws.String(c.bucket)}
	if c.endpoint.Region != "" && c.endpoint.Region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.endpoint.Region),
		}
	}
	if _, err := c.client.CreateBucket(ctx, in); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
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
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}
