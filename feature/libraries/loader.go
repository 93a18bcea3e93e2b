package libraries

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the libraries feature.
func NewFeature(libs *Libraries, boot *Bootstrap, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(libs, boot, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "libraries"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
