package files

import (
	"context"
	"fmt"
	"io"
	"time"

	"blob-gateway/core/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultStreamBuffer bounds the bytes held between a stream writer and the backend.
const DefaultStreamBuffer = 64 << 10

// FileService is the file storage contract the host application consumes.
type FileService interface {
	Upload(ctx context.Context, r io.Reader, originalName string) (UploadResult, error)
	UploadProtected(ctx context.Context, r io.Reader, originalName string) (UploadResult, error)
	Delete(ctx context.Context, key string) DeleteResult
	OpenUploadStream(ctx context.Context, desc UploadStreamDescriptor) (*UploadStream, error)
	OpenDownloadStream(ctx context.Context, key string, visibility Visibility) (io.ReadCloser, error)
	GetRetrievalURL(ctx context.Context, key string, visibility Visibility) (string, error)
}

// UploadResult identifies a stored file. URL is the canonical object URL
// and is not fetchable when the container is private.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ContainerDeletion is the outcome of deleting a key from one container.
// Deleted=false with a nil Err means the key was already gone.
type ContainerDeletion struct {
	Deleted bool  `json:"deleted"`
	Err     error `json:"-"`
}

// DeleteResult reports both deletion attempts. Delete never fails; callers
// that need to tell "already gone" from "could not delete" inspect this.
type DeleteResult struct {
	Public    ContainerDeletion `json:"public"`
	Protected ContainerDeletion `json:"protected"`
}

// Deleted reports whether the key was removed from either container.
func (r DeleteResult) Deleted() bool {
	return r.Public.Deleted || r.Protected.Deleted
}

// Failed reports whether either attempt hit a backend error.
func (r DeleteResult) Failed() bool {
	return r.Public.Err != nil || r.Protected.Err != nil
}

// Service is the gateway between the host application and the two storage
// containers. It is built once per process and safe for concurrent use.
type Service struct {
	public       storage.Container
	protected    storage.Container
	logger       *zap.Logger
	policy       PolicyBuilder
	now          func() time.Time
	keys         *keyClock
	streamBuffer int
}

var _ FileService = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithPolicyBuilder replaces the signed URL policy for protected retrievals.
func WithPolicyBuilder(b PolicyBuilder) Option {
	return func(s *Service) {
		if b != nil {
			s.policy = b
		}
	}
}

// WithStreamBuffer sets the stream upload buffer size in bytes.
func WithStreamBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.streamBuffer = n
		}
	}
}

// WithClock replaces time.Now, for key stamps and policy times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new file service over the public and protected containers.
func NewService(public, protected storage.Container, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		public:       public,
		protected:    protected,
		logger:       logger,
		policy:       ReadOnlyFor(DefaultSignedURLTTL),
		now:          time.Now,
		streamBuffer: DefaultStreamBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.keys = &keyClock{now: s.now}
	return s
}

func (s *Service) container(v Visibility) storage.Container {
	if v == Public {
		return s.public
	}
	return s.protected
}

// Upload stores r in the public container under the original filename.
func (s *Service) Upload(ctx context.Context, r io.Reader, originalName string) (UploadResult, error) {
	key, err := PublicKey(originalName)
	if err != nil {
		return UploadResult{}, err
	}
	return s.put(ctx, s.public, key, r)
}

// UploadProtected stores r in the protected container under a
// timestamp-suffixed key.
func (s *Service) UploadProtected(ctx context.Context, r io.Reader, originalName string) (UploadResult, error) {
	key, err := ProtectedKey(originalName, s.keys.next())
	if err != nil {
		return UploadResult{}, err
	}
	return s.put(ctx, s.protected, key, r)
}

func (s *Service) put(ctx context.Context, c storage.Container, key string, r io.Reader) (UploadResult, error) {
	if err := c.Upload(ctx, key, r); err != nil {
		return UploadResult{}, fmt.Errorf("failed to upload file: %w", err)
	}
	url := c.ObjectURL(key)
	s.logger.Info("File uploaded",
		zap.String("container", c.Name()),
		zap.String("key", key))
	return UploadResult{URL: url, Key: key}, nil
}

// Delete removes key from both containers concurrently. Failures are logged
// per container and never propagated; a missing key counts as success.
func (s *Service) Delete(ctx context.Context, key string) DeleteResult {
	var res DeleteResult
	if key == "" {
		err := fmt.Errorf("%w: empty key", ErrInvalidKey)
		res.Public.Err, res.Protected.Err = err, err
		s.logger.Warn("Delete skipped", zap.Error(err))
		return res
	}

	var g errgroup.Group
	g.Go(func() error {
		res.Public = s.deleteFrom(ctx, s.public, key)
		return nil
	})
	g.Go(func() error {
		res.Protected = s.deleteFrom(ctx, s.protected, key)
		return nil
	})
	_ = g.Wait()
	return res
}

func (s *Service) deleteFrom(ctx context.Context, c storage.Container, key string) ContainerDeletion {
	deleted, err := c.DeleteIfExists(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to delete file",
			zap.String("container", c.Name()),
			zap.String("key", key),
			zap.Error(err))
		return ContainerDeletion{Err: err}
	}
	if deleted {
		s.logger.Info("File deleted", zap.String("container", c.Name()), zap.String("key", key))
	}
	return ContainerDeletion{Deleted: deleted}
}

// OpenUploadStream returns a writable stream immediately; the backend
// upload runs in the background until the stream is closed.
func (s *Service) OpenUploadStream(ctx context.Context, desc UploadStreamDescriptor) (*UploadStream, error) {
	key, err := StreamKey(desc.Name, desc.Ext)
	if err != nil {
		return nil, err
	}
	c := s.container(desc.Visibility)
	s.logger.Debug("Upload stream opened",
		zap.String("container", c.Name()),
		zap.String("key", key))
	return startUploadStream(ctx, c, key, s.streamBuffer), nil
}

// OpenDownloadStream opens the stored object for reading.
func (s *Service) OpenDownloadStream(ctx context.Context, key string, visibility Visibility) (io.ReadCloser, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	rc, err := s.container(visibility).Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open download stream: %w", err)
	}
	return rc, nil
}

// GetRetrievalURL returns the plain object URL for public files and a
// signed, time-limited URL for protected ones.
func (s *Service) GetRetrievalURL(ctx context.Context, key string, visibility Visibility) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	c := s.container(visibility)
	if visibility == Public {
		return c.ObjectURL(key), nil
	}

	url, err := c.SignURL(ctx, key, s.policy(s.now()))
	if err != nil {
		return "", fmt.Errorf("failed to sign url: %w", err)
	}
	return url, nil
}
