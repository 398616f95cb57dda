package storage

import "time"

// Drivers understood by the gateway.
const (
	DriverAzure  = "azure"
	DriverMinio  = "minio"
	DriverS3     = "s3"
	DriverMemory = "memory"
)

// Config holds configuration for the storage provider.
type Config struct {
	// Driver selects the backend (azure, minio, s3, memory).
	Driver string `mapstructure:"driver" default:"azure"`
	// ConnectionString carries endpoint and credentials in Key=Value; form.
	ConnectionString string `mapstructure:"connection_string" default:""`
	// PublicContainer is the publicly readable container.
	PublicContainer string `mapstructure:"public_container" default:"public"`
	// ProtectedContainer is the access-restricted container.
	ProtectedContainer string `mapstructure:"protected_container" default:"protected"`
	// SignedURLTTL is how long a protected download URL stays valid.
	SignedURLTTL time.Duration `mapstructure:"signed_url_ttl" default:"720h"`
	// VerifyContainers checks at startup that both containers exist.
	VerifyContainers bool `mapstructure:"verify_containers" default:"false"`
	// CreateContainers creates missing containers during verification.
	CreateContainers bool `mapstructure:"create_containers" default:"false"`
	// StreamBufferBytes bounds the buffer between a stream writer and the backend.
	StreamBufferBytes int `mapstructure:"stream_buffer_bytes" default:"65536"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Validate reports the first missing or invalid setting as a ConfigError.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverAzure, DriverMinio, DriverS3, DriverMemory:
	default:
		return &ConfigError{Field: "driver", Err: ErrUnknownDriver}
	}
	if c.PublicContainer == "" {
		return &ConfigError{Field: "public_container", Err: ErrEmptyContainer}
	}
	if c.ProtectedContainer == "" {
		return &ConfigError{Field: "protected_container", Err: ErrEmptyContainer}
	}
	if c.Driver != DriverMemory && c.ConnectionString == "" {
		return &ConfigError{Field: "connection_string", Err: ErrMalformedConnectionString}
	}
	return nil
}
