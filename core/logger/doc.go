// Package logger builds the zap logger shared by the server and the CLI.
//
// Level "debug" selects zap's development preset; any other level uses the
// production preset at that level. Format "console" gives colored human
// output, anything else JSON. Every entry carries service=blob-gateway.
//
// Request handlers derive a per-request logger with WithRayID, which adds
// the ray_id set by the rayid middleware:
//
//	l := logger.WithRayID(log, c)
//	l.Warn("Download failed", zap.Error(err))
package logger
