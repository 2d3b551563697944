package models

import (
	"time"
)

// CategoryRopa marks clothing items; the /ropa catalog page lists only these.
// Items without a category are furniture and appear on the home catalog.
const CategoryRopa = "Ropa"

// Conditions is the fixed set of accepted condition labels.
var Conditions = []string{
	"Nuevo",
	"Como Nuevo",
	"Excelente",
	"Bueno",
	"Regular",
	"Deficiente",
}

// Item represents a catalog entry (a piece of furniture or clothing).
type Item struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Dimensions     *string   `json:"dimensions,omitempty"`
	Condition      *string   `json:"condition,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Images         []string  `json:"images"`
	MainImageIndex int       `json:"main_image_index"`
	Sold           bool      `json:"sold"`
	Reserved       bool      `json:"reserved"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MainImage returns the URL of the designated display image. Stored indexes
// are re-validated on every read; anything out of range falls back to the
// first image. Returns "" when the item has no images.
func (i *Item) MainImage() string {
	if len(i.Images) == 0 {
		return ""
	}
	idx := i.MainImageIndex
	if idx < 0 || idx >= len(i.Images) {
		idx = 0
	}
	return i.Images[idx]
}

// IsRopa reports whether the item is tagged as clothing.
func (i *Item) IsRopa() bool {
	return i.Category != nil && *i.Category == CategoryRopa
}

// ValidCondition reports whether s is one of the accepted condition labels.
func ValidCondition(s string) bool {
	for _, c := range Conditions {
		if c == s {
			return true
		}
	}
	return false
}

// CreateItemRequest carries the fields for a new item. Images must already
// be uploaded; the request references their public URLs.
type CreateItemRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Dimensions     *string  `json:"dimensions,omitempty"`
	Condition      *string  `json:"condition,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Images         []string `json:"images"`
	MainImageIndex int      `json:"main_image_index"`
}

// Validate checks the required fields for item creation and normalizes the
// main image index. The returned message is user-facing (Spanish UI);
// empty means valid.
func (r *CreateItemRequest) Validate() string {
	if r.Name == "" {
		return "el nombre es obligatorio"
	}
	if r.Description == "" {
		return "la descripción es obligatoria"
	}
	if r.Price < 0 {
		return "el precio no puede ser negativo"
	}
	if len(r.Images) == 0 {
		return "se requiere al menos una imagen"
	}
	if r.Condition != nil && *r.Condition != "" && !ValidCondition(*r.Condition) {
		return "condición no válida"
	}
	if r.MainImageIndex < 0 || r.MainImageIndex >= len(r.Images) {
		r.MainImageIndex = 0
	}
	return ""
}

// ListParams selects the server-side filter stage for listing items: sold
// and category narrowing happen in SQL, ordered by creation time descending.
// The reserved toggle belongs to the in-memory stage (FilterVisible) and
// never changes the query.
type ListParams struct {
	IncludeSold     bool
	Category        string
	IncludeReserved bool
}

// FilterVisible is the in-memory filter stage applied after the server
// query. It exists so UI toggles (show sold / show reserved) map directly
// onto request parameters without widening the SQL contract:
//   - sold items are hidden unless showSold
//   - reserved items are hidden unless showReserved, but only while unsold;
//     once an item is sold the sold rule alone decides visibility
func FilterVisible(items []*Item, showSold, showReserved bool) []*Item {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		if !showSold && it.Sold {
			continue
		}
		if !showReserved && it.Reserved && !it.Sold {
			continue
		}
		out = append(out, it)
	}
	return out
}

// CatalogStats holds aggregate counts for the admin dashboard.
type CatalogStats struct {
	TotalItems    int `json:"total_items"`
	SoldItems     int `json:"sold_items"`
	ReservedItems int `json:"reserved_items"`
	RopaItems     int `json:"ropa_items"`
}
