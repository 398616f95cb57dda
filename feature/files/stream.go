package files

import (
	"bufio"
	"context"
	"io"
	"sync"

	"blob-gateway/core/storage"
)

// UploadStreamDescriptor names the object a stream upload writes.
type UploadStreamDescriptor struct {
	Name       string
	Ext        string
	Visibility Visibility
}

// UploadStream is the writable end of a background upload. Bytes written
// pass through a bounded buffer into the backend, so a slow backend blocks
// Write instead of growing memory. Close ends the object; Wait reports
// whether the backend stored it.
type UploadStream struct {
	URL string
	Key string

	mu  sync.Mutex
	buf *bufio.Writer
	pw  *io.PipeWriter

	done chan struct{}
	err  error
}

func startUploadStream(ctx context.Context, c storage.Container, key string, bufSize int) *UploadStream {
	pr, pw := io.Pipe()
	s := &UploadStream{
		URL:  c.ObjectURL(key),
		Key:  key,
		buf:  bufio.NewWriterSize(pw, bufSize),
		pw:   pw,
		done: make(chan struct{}),
	}

	go func() {
		err := c.Upload(ctx, key, pr)
		// Unblocks a writer still waiting on a backend that gave up.
		pr.CloseWithError(err)
		s.err = err
		close(s.done)
	}()
	return s
}

// Write buffers p for the backend. It blocks while the buffer is full.
func (s *UploadStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// Close flushes buffered bytes and signals end of object. It does not
// wait for the backend; use Wait for that.
func (s *UploadStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.buf.Flush(); err != nil {
		s.pw.CloseWithError(err)
		return err
	}
	return s.pw.Close()
}

// Abort cancels the upload; the backend sees err instead of end of object.
func (s *UploadStream) Abort(err error) {
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	s.pw.CloseWithError(err)
}

// Done is closed once the backend upload has finished.
func (s *UploadStream) Done() <-chan struct{} { return s.done }

// Err returns the upload result. Only meaningful after Done is closed.
func (s *UploadStream) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the backend acknowledges the object or ctx ends.
// It may be called before any byte is written.
func (s *UploadStream) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
