package domain

import (
	"time"

	"github.com/google/uuid"
)

// Jewellery is a finished jewellery product listing.
type Jewellery struct {
	ID            uuid.UUID     `json:"id"`
	JewelleryName string        `json:"jewelleryName"`
	Brand         string        `json:"brand"`
	Color         string        `json:"color"`
	Size          string        `json:"size"`
	SKU           string        `json:"sku"`
	Price         *float64      `json:"price"`
	Description   string        `json:"description"`
	Images        []string      `json:"images"`
	CategoryID    uuid.UUID     `json:"category"`
	Status        ProductStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// JewelleryWithCategory embeds the resolved category for by-slug lookups.
type JewelleryWithCategory struct {
	Jewellery
	Category *Category `json:"category"`
}
