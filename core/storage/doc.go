// Package storage defines the object storage contract the file gateway is
// built on.
//
// A Container is one named partition (bucket, blob container) of a backend.
// The gateway holds two of them, public and protected, and never talks to a
// vendor SDK directly. Drivers live in subpackages:
//
//   - azurestore: Azure Blob Storage (connection string, SAS URLs)
//   - miniostore: any S3-compatible service through minio-go
//   - s3store: AWS S3 through aws-sdk-go-v2
//   - memstore: in-process containers for development and tests
//
// # Errors
//
// Drivers wrap backend failures in *BackendError. A missing object always
// satisfies errors.Is(err, ErrNotFound). Startup failures are *ConfigError.
//
// # Connection strings
//
// Every driver reads its credentials from a Key=Value;Key=Value string, the
// format Azure uses natively:
//
//	Endpoint=http://localhost:9000;AccessKey=minioadmin;SecretKey=minioadmin
package storage
