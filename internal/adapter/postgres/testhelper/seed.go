package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/risinglab/rising-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedCategory creates a category with a unique name and returns it fully populated.
func SeedCategory(t *testing.T, pool *pgxpool.Pool, parent *uuid.UUID) domain.Category {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	c := domain.Category{
		Name:   "Category " + suffix,
		Slug:   "category-" + suffix,
		Parent: parent,
		Images: []string{},
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO categories (name, slug, parent_id, images)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Slug, c.Parent, c.Images,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory: %v", err)
	}

	return c
}

// SeedDiamond creates a diamond in the given category and returns it fully populated.
func SeedDiamond(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID) domain.Diamond {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	d := domain.Diamond{
		DiamondName: "Diamond " + suffix,
		Brand:       "Test Brand",
		DiamondType: "lab-grown",
		Color:       "D",
		Weight:      "1.25",
		Clarity:     "VS1",
		Shape:       "round",
		Cut:         "excellent",
		Images:      []string{},
		CategoryID:  categoryID,
		Status:      domain.ProductStatusActive,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO diamonds (diamond_name, brand, diamond_type, color, weight, clarity, shape, cut, images, category_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		d.DiamondName, d.Brand, d.DiamondType, d.Color, d.Weight, d.Clarity, d.Shape, d.Cut,
		d.Images, d.CategoryID, string(d.Status),
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedDiamond: %v", err)
	}

	return d
}

// SeedJewellery creates a jewellery item in the given category and returns it
// fully populated.
func SeedJewellery(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID) domain.Jewellery {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	price := 499.99
	j := domain.Jewellery{
		JewelleryName: "Jewellery " + suffix,
		Brand:         "Test Brand",
		Color:         "gold",
		SKU:           "SKU-" + suffix,
		Price:         &price,
		Images:        []string{},
		CategoryID:    categoryID,
		Status:        domain.ProductStatusActive,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO jewellery (jewellery_name, brand, color, sku, price, images, category_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		j.JewelleryName, j.Brand, j.Color, j.SKU, j.Price, j.Images, j.CategoryID, string(j.Status),
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedJewellery: %v", err)
	}

	return j
}

// SeedContact creates a pending contact submission and returns it fully populated.
func SeedContact(t *testing.T, pool *pgxpool.Pool) domain.Contact {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	c := domain.Contact{
		Name:    "Contact " + suffix,
		Email:   "contact-" + suffix + "@example.com",
		Phone:   "+1-555-0100",
		Subject: "Subject " + suffix,
		Message: "Message " + suffix,
		Status:  domain.ContactStatusPending,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, phone, subject, message, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Email, c.Phone, c.Subject, c.Message, string(c.Status),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedContact: %v", err)
	}

	return c
}

// SeedUser creates a credentials user with the given role and returns it
// fully populated. The password hash is a bcrypt hash of "password".
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.UserRole) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	// bcrypt("password"), cost 10
	hash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	u := domain.User{
		Email:        "user-" + suffix + "@example.com",
		Name:         "User " + suffix,
		PasswordHash: &hash,
		Role:         role,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.Name, u.PasswordHash, string(u.Role),
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return u
}
