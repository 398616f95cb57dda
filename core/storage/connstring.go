package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// ConnectionString is a parsed Key=Value;Key=Value connection string.
// Keys are matched case-insensitively.
type ConnectionString map[string]string

// ParseConnectionString parses the Azure-style connection string format that
// every driver accepts. Empty segments are skipped; a segment without '=' or
// with an empty key is a ConfigError.
func ParseConnectionString(s string) (ConnectionString, error) {
	cs := ConnectionString{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, &ConfigError{
				Field: "connection_string",
				Err:   fmt.Errorf("%w: segment %q", ErrMalformedConnectionString, k),
			}
		}
		cs[strings.ToLower(k)] = strings.TrimSpace(v)
	}
	return cs, nil
}

// Get returns the value for key.
func (cs ConnectionString) Get(key string) string {
	return cs[strings.ToLower(key)]
}

// Require returns the value for key or a ConfigError when it is empty.
func (cs ConnectionString) Require(key string) (string, error) {
	v := cs.Get(key)
	if v == "" {
		return "", &ConfigError{
			Field: "connection_string",
			Err:   fmt.Errorf("%w: missing %s", ErrMalformedConnectionString, key),
		}
	}
	return v, nil
}

// Bool returns the boolean value for key, or def when absent.
func (cs ConnectionString) Bool(key string, def bool) (bool, error) {
	v := cs.Get(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &ConfigError{
			Field: "connection_string",
			Err:   fmt.Errorf("%w: %s=%q is not a boolean", ErrMalformedConnectionString, key, v),
		}
	}
	return b, nil
}
