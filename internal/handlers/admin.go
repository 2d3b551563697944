package handlers

import (
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dquiroga/segundavida/internal/database"
	"github.com/dquiroga/segundavida/internal/imaging"
	"github.com/dquiroga/segundavida/internal/models"
	"github.com/dquiroga/segundavida/internal/monitoring"
	"github.com/dquiroga/segundavida/internal/services"
)

// maxImageSize caps a single uploaded image at 10MB.
const maxImageSize = 10 * 1024 * 1024

// CreateItem handles the admin "add item" form: a multipart request with
// the item fields and one or more image files. Images are uploaded first;
// the item row is written afterwards referencing the resulting URLs. If the
// row insert fails the uploaded objects are deleted best-effort (the
// reconciliation sweep catches whatever slips through).
func (h *Handler) CreateItem(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "formulario no válido")
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "el precio debe ser un número")
	}

	req := &models.CreateItemRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
		Dimensions:  optional(c.FormValue("dimensions")),
		Condition:   optional(c.FormValue("condition")),
		Category:    optional(c.FormValue("category")),
	}
	if idxStr := c.FormValue("main_image_index"); idxStr != "" {
		if idx, err := strconv.Atoi(idxStr); err == nil {
			req.MainImageIndex = idx
		}
	}

	fileHeaders := form.File["images"]
	if len(fileHeaders) == 0 {
		return Error(c, fiber.StatusBadRequest, "se requiere al menos una imagen")
	}

	files := make([]services.ImageFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		contentType := fh.Header.Get("Content-Type")
		if !imaging.ValidType(contentType) {
			return Error(c, fiber.StatusBadRequest, "formato de imagen no válido (JPEG, PNG o WebP)")
		}
		if fh.Size > maxImageSize {
			return Error(c, fiber.StatusBadRequest, "la imagen supera el tamaño máximo de 10MB")
		}

		src, err := fh.Open()
		if err != nil {
			return Error(c, fiber.StatusInternalServerError, "no se pudo leer la imagen")
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return Error(c, fiber.StatusInternalServerError, "no se pudo leer la imagen")
		}

		files = append(files, services.ImageFile{
			Name:        fh.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	// Validate before uploading so a bad form never leaves objects behind.
	req.Images = make([]string, len(files)) // placeholder for count-dependent checks
	if msg := req.Validate(); msg != "" {
		return Error(c, fiber.StatusBadRequest, msg)
	}

	urls, err := h.images.UploadImages(c.Context(), files)
	if err != nil {
		log.Printf("Error uploading images: %v", err)
		return Error(c, fiber.StatusInternalServerError, "no se pudieron subir las imágenes")
	}
	monitoring.ImageUploadsTotal.Add(float64(len(urls)))

	req.Images = urls
	item, err := h.items.CreateItem(c.Context(), req)
	if err != nil {
		log.Printf("Error creating item: %v", err)
		// Clean up storage on failure
		for _, u := range urls {
			if delErr := h.images.DeleteImage(c.Context(), u); delErr != nil {
				log.Printf("Warning: failed to clean up uploaded image %s: %v", u, delErr)
			}
		}
		return Error(c, fiber.StatusInternalServerError, "no se pudo crear el artículo")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    h.itemResponse(item),
	})
}

// UpdateSoldStatus toggles the sold flag
func (h *Handler) UpdateSoldStatus(c *fiber.Ctx) error {
	var req struct {
		Sold bool `json:"sold"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := h.items.SetItemSold(c.Context(), c.Params("id"), req.Sold)
	return h.mutationResult(c, err, "no se pudo actualizar el estado de venta")
}

// UpdateReservedStatus toggles the reserved flag
func (h *Handler) UpdateReservedStatus(c *fiber.Ctx) error {
	var req struct {
		Reserved bool `json:"reserved"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := h.items.SetItemReserved(c.Context(), c.Params("id"), req.Reserved)
	return h.mutationResult(c, err, "no se pudo actualizar el estado de reserva")
}

// UpdateMainImage changes which image the catalog shows first
func (h *Handler) UpdateMainImage(c *fiber.Ctx) error {
	var req struct {
		MainImageIndex int `json:"main_image_index"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := h.items.SetItemMainImage(c.Context(), c.Params("id"), req.MainImageIndex)
	return h.mutationResult(c, err, "no se pudo actualizar la imagen principal")
}

// UpdateNotes replaces the admin-authored notes shown on the detail page
func (h *Handler) UpdateNotes(c *fiber.Ctx) error {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := h.items.SetItemNotes(c.Context(), c.Params("id"), req.Notes)
	return h.mutationResult(c, err, "no se pudieron guardar las notas")
}

// DeleteItem removes an item. Its stored images are not removed here; the
// reconciliation sweep owns that cleanup.
func (h *Handler) DeleteItem(c *fiber.Ctx) error {
	err := h.items.DeleteItem(c.Context(), c.Params("id"))
	return h.mutationResult(c, err, "no se pudo eliminar el artículo")
}

// DeleteImage removes a stored image object by its public URL
func (h *Handler) DeleteImage(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.images.DeleteImage(c.Context(), req.URL); err != nil {
		log.Printf("Error deleting image %s: %v", req.URL, err)
		return Error(c, fiber.StatusBadRequest, "no se pudo eliminar la imagen")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "imagen eliminada",
	})
}

// GetCatalogStats returns the counts for the admin dashboard
func (h *Handler) GetCatalogStats(c *fiber.Ctx) error {
	stats, err := h.items.GetCatalogStats(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "no se pudieron cargar las estadísticas")
	}
	return Success(c, stats)
}

// mutationResult maps a partial-update error to the response
func (h *Handler) mutationResult(c *fiber.Ctx, err error, failMsg string) error {
	if err != nil {
		if errors.Is(err, database.ErrItemNotFound) {
			return Error(c, fiber.StatusNotFound, "artículo no encontrado")
		}
		log.Printf("Error updating item: %v", err)
		return Error(c, fiber.StatusInternalServerError, failMsg)
	}
	return c.JSON(fiber.Map{"success": true})
}

// optional converts an empty form value to a nil pointer
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
