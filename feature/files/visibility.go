package files

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidVisibility is returned for an unrecognised visibility string.
var ErrInvalidVisibility = errors.New("invalid visibility")

// Visibility selects the container a key lives in. The zero value is
// Protected, so an unspecified visibility never exposes a file publicly.
type Visibility int

const (
	Protected Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "protected"
}

// ParseVisibility accepts "public", "protected", "private" and the empty
// string (Protected), case-insensitively.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "protected", "private":
		return Protected, nil
	case "public":
		return Public, nil
	default:
		return Protected, fmt.Errorf("%w: %q", ErrInvalidVisibility, s)
	}
}
