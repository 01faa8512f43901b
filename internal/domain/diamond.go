package domain

import (
	"time"

	"github.com/google/uuid"
)

// Diamond is a lab-grown diamond listing. CategoryID must reference an
// existing category.
type Diamond struct {
	ID          uuid.UUID     `json:"id"`
	DiamondName string        `json:"diamondName"`
	Brand       string        `json:"brand"`
	DiamondType string        `json:"diamondType"`
	Color       string        `json:"color"`
	Weight      string        `json:"weight"`
	Size        string        `json:"size"`
	Clarity     string        `json:"clarity"`
	Shape       string        `json:"shape"`
	Cut         string        `json:"cut"`
	Description string        `json:"description"`
	Images      []string      `json:"images"`
	CategoryID  uuid.UUID     `json:"category"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// DiamondWithCategory embeds the resolved category for by-slug lookups.
// The explicit Category field shadows the embedded CategoryID's "category"
// JSON key, matching the populated wire shape.
type DiamondWithCategory struct {
	Diamond
	Category *Category `json:"category"`
}
