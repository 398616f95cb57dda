package files

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync/atomic"
	"time"
)

// ErrInvalidKey is returned when a filename or key is empty or unusable.
var ErrInvalidKey = errors.New("invalid file key")

// splitName strips any directory from an uploaded filename and splits it
// into stem and extension (".png"). Dotfiles keep their full name as stem.
func splitName(originalName string) (stem, ext string, err error) {
	base := path.Base(strings.ReplaceAll(originalName, `\`, "/"))
	if base == "/" || base == "" || isDotSegment(base) {
		return "", "", fmt.Errorf("%w: filename %q", ErrInvalidKey, originalName)
	}
	ext = path.Ext(base)
	stem = strings.TrimSuffix(base, ext)
	if stem == "" {
		return base, "", nil
	}
	return stem, ext, nil
}

// PublicKey derives the key for a public upload: the bare filename.
// Uploading the same name twice overwrites the first object.
func PublicKey(originalName string) (string, error) {
	stem, ext, err := splitName(originalName)
	if err != nil {
		return "", err
	}
	return stem + ext, nil
}

// ProtectedKey derives the key for a protected upload: stem-<millis>.ext.
func ProtectedKey(originalName string, millis int64) (string, error) {
	stem, ext, err := splitName(originalName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d%s", stem, millis, ext), nil
}

// StreamKey derives the key for a stream upload: name.ext, no suffix.
// An empty ext yields the bare name.
func StreamKey(name, ext string) (string, error) {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || isDotSegment(name) {
		return "", fmt.Errorf("%w: name %q", ErrInvalidKey, name)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return name, nil
	}
	return name + "." + ext, nil
}

// isDotSegment reports path segments that object stores and URL joins
// resolve relative to the container.
func isDotSegment(s string) bool {
	return s == "." || s == ".."
}

// keyClock hands out strictly increasing epoch milliseconds, so two
// protected uploads in the same millisecond still get distinct keys.
type keyClock struct {
	now  func() time.Time
	last atomic.Int64
}

func (k *keyClock) next() int64 {
	for {
		ms := k.now().UnixMilli()
		last := k.last.Load()
		if ms <= last {
			ms = last + 1
		}
		if k.last.CompareAndSwap(last, ms) {
			return ms
		}
	}
}
