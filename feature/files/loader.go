package files

import (
	"blob-gateway/core/loader"

	"github.com/gofiber/fiber/v2"
)

// Feature exposes the file service over HTTP.
type Feature struct {
	service *Service
}

var _ loader.Feature = (*Feature)(nil)

// NewFeature creates the files feature.
func NewFeature(service *Service) *Feature {
	return &Feature{service: service}
}

func (f *Feature) Name() string { return "files" }

// IsEnabled is false when no storage gateway could be built.
func (f *Feature) IsEnabled() bool { return f.service != nil }

func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
