// Package loader registers the HTTP features of the gateway and mounts them
// on the Fiber app at startup.
//
// A feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager keeps features in registration order. LoadAll skips disabled ones
// and aborts on the first Load error, so a half-mounted router never serves.
package loader
