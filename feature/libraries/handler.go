package libraries

import (
	"encoding/json"
	"strings"

	"improved-initiative/core/items"
	"improved-initiative/core/library"
	"improved-initiative/core/logger"
	"improved-initiative/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const filterPrefix = "filter."

// Handler serves the libraries over HTTP.
type Handler struct {
	libs   *Libraries
	boot   *Bootstrap
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(libs *Libraries, boot *Bootstrap, logger *zap.Logger) *Handler {
	return &Handler{libs: libs, boot: boot, logger: logger}
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/libraries")
	group.Get("/sync", h.HandleGetSync)
	group.Get("/:kind", h.HandleListListings)
	group.Get("/:kind/:id", h.HandleGetItem)
	group.Put("/:kind/:id", h.HandleSaveItem)
	group.Delete("/:kind/:id", h.HandleDeleteItem)
	group.Patch("/persistentcharacters/:id", h.HandleUpdateCharacter)
}

// HandleGetSync returns the last bootstrap report.
// @Summary Library sync report
// @Description Result of the most recent catalog, local and account load.
// @Tags libraries
// @Produce json
// @Success 200 {object} Report
// @Failure 404 {object} map[string]string "Bootstrap has not run"
// @Router /libraries/sync [get]
func (h *Handler) HandleGetSync(c *fiber.Ctx) error {
	report := h.boot.Last()
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "bootstrap has not run"})
	}
	return c.JSON(report)
}

// HandleListListings returns the listings of one kind.
// @Summary List library listings
// @Description Listings of a kind, optionally fuzzy searched, filtered by dimension and grouped.
// @Tags libraries
// @Produce json
// @Param kind path string true "Kind slug (statblocks, spells, encounters, persistentcharacters)"
// @Param q query string false "Fuzzy search over name and search hint"
// @Param group query string false "Group by 'path' or a filter dimension such as 'Level'"
// @Success 200 {array} library.ListingMeta
// @Failure 404 {object} map[string]string "Unknown kind"
// @Router /libraries/{kind} [get]
func (h *Handler) HandleListListings(c *fiber.Ctx) error {
	coll, err := h.libs.Collection(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	filter := library.FilterDimensions{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		if dim, ok := strings.CutPrefix(string(key), filterPrefix); ok && dim != "" {
			filter[dim] = string(value)
		}
	})

	metas := coll.Search(c.Query("q"), filter)
	if by := c.Query("group"); by != "" {
		return c.JSON(GroupBy(metas, by))
	}
	return c.JSON(metas)
}

// HandleGetItem returns one full item.
// @Summary Get library item
// @Description Full item for a listing. Missing backend data yields the kind default carrying the listing metadata.
// @Tags libraries
// @Produce json
// @Param kind path string true "Kind slug"
// @Param id path string true "Item id"
// @Param refresh query bool false "Drop the cached item and fetch again"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Unknown kind or id"
// @Router /libraries/{kind}/{id} [get]
func (h *Handler) HandleGetItem(c *fiber.Ctx) error {
	kind, id := c.Params("kind"), c.Params("id")
	coll, err := h.libs.Collection(kind)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	item, ok := coll.Item(c.Context(), id, utils.ToBool(c.Query("refresh")))
	if !ok {
		logger.WithRayID(h.logger, c).Debug("Unknown library item", zap.String("kind", kind), zap.String("id", id))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	return c.JSON(item)
}

// HandleSaveItem stores a full item under id.
// @Summary Save library item
// @Description Decodes the body over the kind default and saves it locally and, when configured, to the account. Unknown ids are created.
// @Tags libraries
// @Accept json
// @Produce json
// @Param kind path string true "Kind slug"
// @Param id path string true "Item id"
// @Param item body object true "Full item"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Body is not a valid item"
// @Failure 404 {object} map[string]string "Unknown kind"
// @Router /libraries/{kind}/{id} [put]
func (h *Handler) HandleSaveItem(c *fiber.Ctx) error {
	kind, id := c.Params("kind"), c.Params("id")
	coll, err := h.libs.Collection(kind)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := coll.Save(c.Context(), id, c.Body())
	if err != nil {
		logger.WithRayID(h.logger, c).Debug("Rejected library item", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(item)
}

// HandleDeleteItem removes an item.
// @Summary Delete library item
// @Description Removes the listing and deletes the item from local storage and the account.
// @Tags libraries
// @Param kind path string true "Kind slug"
// @Param id path string true "Item id"
// @Success 204
// @Failure 404 {object} map[string]string "Unknown kind or id"
// @Router /libraries/{kind}/{id} [delete]
func (h *Handler) HandleDeleteItem(c *fiber.Ctx) error {
	coll, err := h.libs.Collection(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if !coll.Delete(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUpdateCharacter merges a partial update into a persistent character.
// @Summary Update persistent character
// @Description Fields left out keep their current values. A new StatBlock also replaces Name, Path and Version.
// @Tags libraries
// @Accept json
// @Produce json
// @Param id path string true "Character id"
// @Param update body items.PersistentCharacterUpdate true "Fields to change"
// @Success 200 {object} items.PersistentCharacter
// @Failure 400 {object} map[string]string "Body is not a valid update"
// @Router /libraries/persistentcharacters/{id} [patch]
func (h *Handler) HandleUpdateCharacter(c *fiber.Ctx) error {
	var updates items.PersistentCharacterUpdate
	if err := json.Unmarshal(c.Body(), &updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(h.libs.UpdatePersistentCharacter(c.Context(), c.Params("id"), updates))
}
