package rest

import (
	"log/slog"
	"net/http"

	"github.com/risinglab/rising-backend/internal/domain"
	"github.com/risinglab/rising-backend/internal/transport/middleware"
)

// categoryRepo is the item-route surface of the category adapter; list and
// create go through the catalog service instead.
type categoryRepo interface {
	Getter[domain.Category]
	Updater[domain.Category]
	Deleter
}

// productRepo is the full CRUD surface shared by diamonds and jewellery.
type productRepo[T any] interface {
	Lister[T]
	Creator[T]
	Getter[T]
	Updater[T]
	Deleter
}

// contactRepo deliberately lacks Deleter: contact submissions are never
// deleted by the application.
type contactRepo interface {
	Lister[domain.Contact]
	Getter[domain.Contact]
	Updater[domain.Contact]
}

// catalogService combines the category and product deviations of the
// catalog service.
type catalogService interface {
	categoryService
	productService
}

// Deps bundles everything the route table needs.
type Deps struct {
	Log     *slog.Logger
	Payload *Normalizer

	Categories categoryRepo
	Diamonds   productRepo[domain.Diamond]
	Jewellery  productRepo[domain.Jewellery]
	Contacts   contactRepo

	Catalog     catalogService
	ContactForm contactFormService
	Auth        authService
	Health      *HealthHandler

	// ContactLimit rate-limits the public contact POST. Nil disables it.
	ContactLimit middleware.Middleware
}

// NewRouter builds the route table. Global middleware (request id, logging,
// recovery, CORS, token resolution) wraps the returned mux at the app level;
// per-route auth requirements and the contact rate limit are applied here.
func NewRouter(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	category := NewCategoryHandler(d.Catalog, d.Payload, d.Log)
	products := NewProductsHandler(d.Catalog, d.Log)
	contact := NewContactHandler(d.ContactForm, d.Contacts, d.Payload, d.Log)
	authHandler := NewAuthHandler(d.Auth, d.Log)

	limit := d.ContactLimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	mux.HandleFunc("GET /api/apps/category", category.List)
	mux.Handle("POST /api/apps/category", middleware.RequireAuth(http.HandlerFunc(category.Create)))
	mux.HandleFunc("GET /api/apps/category/{id}", Get[domain.Category](d.Categories, d.Log))
	mux.Handle("PATCH /api/apps/category/{id}", middleware.RequireAuth(Patch[domain.Category](d.Categories, d.Payload, d.Log)))
	mux.Handle("DELETE /api/apps/category/{id}", middleware.RequireAuth(Delete(d.Categories, d.Log)))

	mux.HandleFunc("GET /api/apps/diamond", List[domain.Diamond](d.Diamonds, d.Log))
	mux.Handle("POST /api/apps/diamond", middleware.RequireAuth(Create[domain.Diamond](d.Diamonds, d.Payload, "Diamond", d.Log)))
	mux.HandleFunc("GET /api/apps/diamond/category/{slug}", products.DiamondsByCategory)
	mux.HandleFunc("GET /api/apps/diamond/{id}", Get[domain.Diamond](d.Diamonds, d.Log))
	mux.Handle("PATCH /api/apps/diamond/{id}", middleware.RequireAuth(Patch[domain.Diamond](d.Diamonds, d.Payload, d.Log)))
	mux.Handle("DELETE /api/apps/diamond/{id}", middleware.RequireAuth(Delete(d.Diamonds, d.Log)))

	mux.HandleFunc("GET /api/apps/jewellery", List[domain.Jewellery](d.Jewellery, d.Log))
	mux.Handle("POST /api/apps/jewellery", middleware.RequireAuth(Create[domain.Jewellery](d.Jewellery, d.Payload, "Jewellery", d.Log)))
	mux.HandleFunc("GET /api/apps/jewellery/category/{slug}", products.JewelleryByCategory)
	mux.HandleFunc("GET /api/apps/jewellery/{id}", Get[domain.Jewellery](d.Jewellery, d.Log))
	mux.Handle("PATCH /api/apps/jewellery/{id}", middleware.RequireAuth(Patch[domain.Jewellery](d.Jewellery, d.Payload, d.Log)))
	mux.Handle("DELETE /api/apps/jewellery/{id}", middleware.RequireAuth(Delete(d.Jewellery, d.Log)))

	// The contact inbox is admin-only; a plain token is not enough.
	mux.Handle("POST /api/apps/contact", limit(http.HandlerFunc(contact.Submit)))
	mux.Handle("GET /api/apps/contact", middleware.RequireAuth(middleware.RequireAdmin(http.HandlerFunc(contact.List))))
	mux.Handle("GET /api/apps/contact/{id}", middleware.RequireAuth(middleware.RequireAdmin(Get[domain.Contact](d.Contacts, d.Log))))
	mux.Handle("PATCH /api/apps/contact/{id}", middleware.RequireAuth(middleware.RequireAdmin(Patch[domain.Contact](d.Contacts, d.Payload, d.Log))))

	mux.HandleFunc("POST /api/auth/login", authHandler.LoginWithGoogle)
	mux.HandleFunc("POST /api/auth/login/password", authHandler.LoginWithPassword)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	mux.HandleFunc("GET /health", d.Health.Health)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /live", d.Health.Live)

	return mux
}
