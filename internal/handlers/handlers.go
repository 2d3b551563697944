package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dquiroga/segundavida/internal/config"
	"github.com/dquiroga/segundavida/internal/models"
	"github.com/dquiroga/segundavida/internal/services"
)

// ItemStore is the persistence contract the handlers depend on.
// *database.DB satisfies it; tests substitute fakes.
type ItemStore interface {
	CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error)
	ListItems(ctx context.Context, params models.ListParams) ([]*models.Item, error)
	GetItemByID(ctx context.Context, id string) (*models.Item, error)
	SetItemSold(ctx context.Context, id string, sold bool) error
	SetItemReserved(ctx context.Context, id string, reserved bool) error
	SetItemMainImage(ctx context.Context, id string, index int) error
	SetItemNotes(ctx context.Context, id string, notes string) error
	DeleteItem(ctx context.Context, id string) error
	GetCatalogStats(ctx context.Context) (*models.CatalogStats, error)
}

// UserStore is the user-lookup contract for the auth endpoints.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	UpdateUserLastLogin(ctx context.Context, id int) error
}

// ImageStorage is the object-storage contract for image upload and removal.
type ImageStorage interface {
	UploadImages(ctx context.Context, files []services.ImageFile) ([]string, error)
	DeleteImage(ctx context.Context, url string) error
	ThumbnailURL(url string) string
}

// Handler holds all handler dependencies
type Handler struct {
	items  ItemStore
	users  UserStore
	images ImageStorage
	cfg    *config.Config
}

// New creates a new Handler instance
func New(items ItemStore, users UserStore, images ImageStorage, cfg *config.Config) *Handler {
	return &Handler{
		items:  items,
		users:  users,
		images: images,
		cfg:    cfg,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}
