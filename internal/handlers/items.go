package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dquiroga/segundavida/internal/database"
	"github.com/dquiroga/segundavida/internal/models"
	"github.com/dquiroga/segundavida/internal/services"
)

// ItemResponse decorates an item with its resolved display image. The
// stored main image index is re-validated here, at the read site.
type ItemResponse struct {
	*models.Item
	MainImage string `json:"main_image"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ItemDetailResponse adds the contact deep link shown on the detail page.
type ItemDetailResponse struct {
	ItemResponse
	ContactLink string `json:"contact_link,omitempty"`
}

func (h *Handler) itemResponse(item *models.Item) ItemResponse {
	main := item.MainImage()
	resp := ItemResponse{
		Item:      item,
		MainImage: main,
	}
	if main != "" {
		resp.Thumbnail = h.images.ThumbnailURL(main)
	}
	return resp
}

// ListItems returns the catalog. Query parameters:
//
//	include_sold     - also request sold items from the store (default false)
//	category         - narrow to a category tag, e.g. Ropa
//	include_reserved - show reserved-but-unsold items (default false)
//
// The store query narrows the transferred set (sold, category); the
// in-memory stage applies the sold/reserved visibility rules again so both
// toggles behave identically whether or not the server already filtered.
func (h *Handler) ListItems(c *fiber.Ctx) error {
	includeSold := c.QueryBool("include_sold", false)
	includeReserved := c.QueryBool("include_reserved", false)

	params := models.ListParams{
		IncludeSold:     includeSold,
		Category:        c.Query("category"),
		IncludeReserved: includeReserved,
	}

	items, err := h.items.ListItems(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "no se pudieron cargar los artículos")
	}

	visible := models.FilterVisible(items, includeSold, includeReserved)

	resp := make([]ItemResponse, 0, len(visible))
	for _, item := range visible {
		resp = append(resp, h.itemResponse(item))
	}

	return Success(c, resp)
}

// GetItem returns a single item with its contact link
func (h *Handler) GetItem(c *fiber.Ctx) error {
	id := c.Params("id")

	item, err := h.items.GetItemByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrItemNotFound) {
			return Error(c, fiber.StatusNotFound, "artículo no encontrado")
		}
		return Error(c, fiber.StatusInternalServerError, "no se pudo cargar el artículo")
	}

	return Success(c, ItemDetailResponse{
		ItemResponse: h.itemResponse(item),
		ContactLink:  services.ContactLink(h.cfg.WhatsAppNumber, item.Name, item.Price),
	})
}
