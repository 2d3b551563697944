package models

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestMainImageFallback(t *testing.T) {
	images := []string{"a.jpg", "b.jpg", "c.jpg"}

	tests := []struct {
		name   string
		images []string
		index  int
		want   string
	}{
		{"valid index", images, 1, "b.jpg"},
		{"zero index", images, 0, "a.jpg"},
		{"last index", images, 2, "c.jpg"},
		{"negative index falls back", images, -1, "a.jpg"},
		{"too-large index falls back", images, 7, "a.jpg"},
		{"no images", nil, 0, ""},
		{"no images with stale index", nil, 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{Images: tt.images, MainImageIndex: tt.index}
			if got := item.MainImage(); got != tt.want {
				t.Errorf("MainImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterVisible(t *testing.T) {
	available := &Item{ID: "1"}
	reserved := &Item{ID: "2", Reserved: true}
	sold := &Item{ID: "3", Sold: true}
	soldAndReserved := &Item{ID: "4", Sold: true, Reserved: true}
	all := []*Item{available, reserved, sold, soldAndReserved}

	ids := func(items []*Item) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.ID)
		}
		return out
	}

	tests := []struct {
		name         string
		showSold     bool
		showReserved bool
		want         []string
	}{
		{"default hides sold and reserved", false, false, []string{"1"}},
		{"show reserved keeps unsold reservations", false, true, []string{"1", "2"}},
		// Sold overrides reserved: once sold, only the sold toggle matters.
		{"show sold includes sold reservations", true, false, []string{"1", "3", "4"}},
		{"show everything", true, true, []string{"1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterVisible(all, tt.showSold, tt.showReserved))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFilterVisibleNeverReturnsNil(t *testing.T) {
	got := FilterVisible(nil, false, false)
	if got == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no items, got %d", len(got))
	}
}

func TestCreateItemRequestValidate(t *testing.T) {
	valid := func() *CreateItemRequest {
		return &CreateItemRequest{
			Name:        "Silla de Madera",
			Description: "Silla en buen estado",
			Price:       25,
			Images:      []string{"a.jpg"},
		}
	}

	if msg := valid().Validate(); msg != "" {
		t.Errorf("expected valid request, got %q", msg)
	}

	tests := []struct {
		name   string
		mutate func(*CreateItemRequest)
	}{
		{"missing name", func(r *CreateItemRequest) { r.Name = "" }},
		{"missing description", func(r *CreateItemRequest) { r.Description = "" }},
		{"negative price", func(r *CreateItemRequest) { r.Price = -1 }},
		{"no images", func(r *CreateItemRequest) { r.Images = nil }},
		{"unknown condition", func(r *CreateItemRequest) { r.Condition = strPtr("Destruido") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			if msg := req.Validate(); msg == "" {
				t.Error("expected validation error, got none")
			}
		})
	}
}

func TestValidateNormalizesMainImageIndex(t *testing.T) {
	req := &CreateItemRequest{
		Name:           "Mesa",
		Description:    "Mesa de comedor",
		Price:          80,
		Images:         []string{"a.jpg", "b.jpg"},
		MainImageIndex: 5,
	}
	if msg := req.Validate(); msg != "" {
		t.Fatalf("unexpected validation error: %q", msg)
	}
	if req.MainImageIndex != 0 {
		t.Errorf("expected out-of-range index reset to 0, got %d", req.MainImageIndex)
	}
}

func TestValidCondition(t *testing.T) {
	for _, c := range Conditions {
		if !ValidCondition(c) {
			t.Errorf("expected %q to be a valid condition", c)
		}
	}
	if ValidCondition("Perfecto") {
		t.Error("expected unknown label to be rejected")
	}
}

func TestIsRopa(t *testing.T) {
	ropa := &Item{Category: strPtr(CategoryRopa)}
	if !ropa.IsRopa() {
		t.Error("expected Ropa item to be clothing")
	}
	mueble := &Item{CreatedAt: time.Now()}
	if mueble.IsRopa() {
		t.Error("expected uncategorized item to not be clothing")
	}
}
