package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the catalog taxonomy. Parent is nil for top-level
// categories; when set it must reference an existing category.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Parent    *uuid.UUID `json:"parent"`
	Images    []string   `json:"images"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CategoryWithParentName decorates a category with its parent's display name
// for list views that ask for parent population.
type CategoryWithParentName struct {
	Category
	ParentName *string `json:"parentName,omitempty"`
}
