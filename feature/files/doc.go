// Package files implements the file storage gateway.
//
// The Service fronts two storage containers, one public and one protected,
// and satisfies the FileService contract the host application expects:
//
//   - Upload: public container, key is the original filename (overwrites).
//   - UploadProtected: protected container, key is name-<millis>.ext.
//   - Delete: best effort on both containers; never returns an error.
//   - OpenUploadStream: writable stream backed by a background upload.
//   - OpenDownloadStream: the stored bytes, NotFound when missing.
//   - GetRetrievalURL: object URL (public) or signed URL (protected).
//
// # Components
//
//   - Service: The gateway itself, built by Open from storage configuration.
//   - Handler: Exposes the operations over HTTP.
//   - Feature: Registers the handler with the application loader.
//
// # HTTP Endpoints
//
//   - POST /files?filename=&visibility= : Upload the raw body.
//   - PUT /files/stream/:name?ext=&visibility= : Stream upload.
//   - GET /files/:key?visibility= : Download.
//   - GET /files/:key/url?visibility= : Retrieval URL.
//   - DELETE /files/:key : Delete from both containers.
package files
