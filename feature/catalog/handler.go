package catalog

import (
	"errors"

	"improved-initiative/core/catalog"
	"improved-initiative/core/items"
	"improved-initiative/core/library"
	"improved-initiative/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the published catalog.
type Handler struct {
	source catalog.Source
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(source catalog.Source, logger *zap.Logger) *Handler {
	return &Handler{source: source, logger: logger}
}

// RegisterRoutes mounts an index and an item route for every kind with a catalog.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	for _, kc := range items.Kinds() {
		if !kc.HasCatalog() {
			continue
		}
		group := app.Group(kc.CatalogPath)
		group.Get("/", h.HandleGetIndex(kc.CatalogPath))
		group.Get("/:id", h.HandleGetItem(kc.CatalogPath))
	}
}

// HandleGetIndex returns the listings of one catalog path.
// @Summary Catalog listings
// @Description Listings published for a kind. An unpublished kind yields an empty list.
// @Tags catalog
// @Produce json
// @Success 200 {array} library.ListingMeta
// @Failure 502 {object} map[string]string "Catalog unavailable"
// @Router /statblocks/ [get]
// @Router /spells/ [get]
func (h *Handler) HandleGetIndex(catalogPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		metas, err := h.source.FetchCatalog(c.Context(), catalogPath)
		if err != nil {
			logger.WithRayID(h.logger, c).Error("Catalog index read failed", zap.String("path", catalogPath), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		if metas == nil {
			metas = []library.ListingMeta{}
		}
		return c.JSON(metas)
	}
}

// HandleGetItem returns one catalog item as stored.
// @Summary Catalog item
// @Tags catalog
// @Produce json
// @Param id path string true "Item id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Not published"
// @Failure 502 {object} map[string]string "Catalog unavailable"
// @Router /statblocks/{id} [get]
// @Router /spells/{id} [get]
func (h *Handler) HandleGetItem(catalogPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		body, err := h.source.Fetch(c.Context(), catalogPath, id)
		if errors.Is(err, library.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
		}
		if err != nil {
			logger.WithRayID(h.logger, c).Error("Catalog item read failed",
				zap.String("path", catalogPath), zap.String("id", id), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}
}
