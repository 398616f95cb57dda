package miniostore

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blob-gateway/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client is the part of *minio.Client the driver calls. GetObject returns
// io.ReadCloser so tests can stub it without a live *minio.Object.
type Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	EndpointURL() *url.URL
}

// Config holds the connection settings parsed from the connection string.
type Config struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	Region         string
	TimeoutSeconds int
}

// ParseConfig reads Endpoint, AccessKey, SecretKey, Region and UseSSL from a
// connection string. An http:// or https:// endpoint scheme sets UseSSL
// unless UseSSL is given explicitly.
func ParseConfig(connectionString string, timeoutSeconds int) (Config, error) {
	cs, err := storage.ParseConnectionString(connectionString)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{TimeoutSeconds: timeoutSeconds, Region: cs.Get("Region")}
	if cfg.Endpoint, err = cs.Require("Endpoint"); err != nil {
		return Config{}, err
	}
	if cfg.AccessKey, err = cs.Require("AccessKey"); err != nil {
		return Config{}, err
	}
	if cfg.SecretKey, err = cs.Require("SecretKey"); err != nil {
		return Config{}, err
	}
	if cfg.UseSSL, err = cs.Bool("UseSSL", strings.HasPrefix(cfg.Endpoint, "https://")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultTimeout applies when TimeoutSeconds is unset.
const defaultTimeout = 30 * time.Second

// NewClient builds a MinIO client. The connection is lazy, so a wrong
// endpoint only surfaces on the first call or during container verification.
func NewClient(cfg Config) (Client, error) {
	host := strings.TrimRight(strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://"), "/")

	mc, err := minio.New(host, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(cfg.timeout()),
	})
	if err != nil {
		return nil, &storage.ConfigError{Field: "connection_string", Err: fmt.Errorf("failed to create minio client: %w", err)}
	}
	return &minioClientWrapper{Client: mc}, nil
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// newTransport bounds dial, TLS and first-byte waits; body transfer is
// bounded by the caller's context.
func newTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: time.Second,
		ResponseHeaderTimeout: timeout,
	}
}

// minioClientWrapper narrows GetObject's *minio.Object to io.ReadCloser.
type minioClientWrapper struct {
	*minio.Client
}

func (c *minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}
