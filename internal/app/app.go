// Package app wires configuration, adapters, services, and the HTTP
// transport into a running server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/risinglab/rising-backend/internal/adapter/cloudinary"
	"github.com/risinglab/rising-backend/internal/adapter/mailer"
	postgres "github.com/risinglab/rising-backend/internal/adapter/postgres"
	categoryrepo "github.com/risinglab/rising-backend/internal/adapter/postgres/category"
	contactrepo "github.com/risinglab/rising-backend/internal/adapter/postgres/contact"
	diamondrepo "github.com/risinglab/rising-backend/internal/adapter/postgres/diamond"
	jewelleryrepo "github.com/risinglab/rising-backend/internal/adapter/postgres/jewellery"
	tokenrepo "github.com/risinglab/rising-backend/internal/adapter/postgres/token"
	userrepo "github.com/risinglab/rising-backend/internal/adapter/postgres/user"
	"github.com/risinglab/rising-backend/internal/adapter/provider/google"
	redislimiter "github.com/risinglab/rising-backend/internal/adapter/redis"
	"github.com/risinglab/rising-backend/internal/auth"
	"github.com/risinglab/rising-backend/internal/config"
	authservice "github.com/risinglab/rising-backend/internal/service/auth"
	"github.com/risinglab/rising-backend/internal/service/catalog"
	"github.com/risinglab/rising-backend/internal/service/contactform"
	"github.com/risinglab/rising-backend/internal/transport/middleware"
	"github.com/risinglab/rising-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, builds the
// dependency graph, and serves HTTP until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	categories := categoryrepo.New(pool)
	diamonds := diamondrepo.New(pool)
	jewellery := jewelleryrepo.New(pool)
	contacts := contactrepo.New(pool)
	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)

	uploader := cloudinary.New(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
		cfg.Cloudinary.Folder,
		logger,
	)

	var mail *mailer.Mailer
	if cfg.Mail.HasMailer() {
		mail = mailer.New(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.AdminEmail, logger)
	} else {
		logger.Warn("mail not configured, contact notifications disabled")
	}

	var oauth *google.Verifier
	if cfg.Auth.HasGoogleOAuth() {
		oauth = google.NewVerifier(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleRedirectURI, logger)
	} else {
		logger.Warn("google oauth not configured, oauth login disabled")
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	// A typed nil adapter must not reach the services; their disabled-path
	// checks compare against an untyped nil interface.
	var authSvc *authservice.Service
	if oauth != nil {
		authSvc = authservice.NewService(logger, users, tokens, oauth, jwtManager, cfg.Auth)
	} else {
		authSvc = authservice.NewService(logger, users, tokens, nil, jwtManager, cfg.Auth)
	}

	catalogSvc := catalog.NewService(logger, categories, diamonds, jewellery)

	var contactSvc *contactform.Service
	if mail != nil {
		contactSvc = contactform.NewService(logger, contacts, mail)
	} else {
		contactSvc = contactform.NewService(logger, contacts, nil)
	}

	contactLimit, stopLimiter := buildContactLimiter(cfg, logger)
	defer stopLimiter()

	router := rest.NewRouter(rest.Deps{
		Log:          logger,
		Payload:      rest.NewNormalizer(uploader, logger),
		Categories:   categories,
		Diamonds:     diamonds,
		Jewellery:    jewellery,
		Contacts:     contacts,
		Catalog:      catalogSvc,
		ContactForm:  contactSvc,
		Auth:         authSvc,
		Health:       rest.NewHealthHandler(pool, BuildVersion()),
		ContactLimit: contactLimit,
	})

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(authSvc),
	)(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}



// buildContactLimiter picks the rate-limit backend for the public contact
// endpoint: Redis when configured so the limit holds across replicas, the
// in-memory token bucket otherwise.
func buildContactLimiter(cfg *config.Config, logger *slog.Logger) (middleware.Middleware, func()) {
	perMinute := cfg.RateLimit.ContactPerMinute

	if cfg.Redis.Addr != "" {
		store, err := redislimiter.NewLimiter(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, falling back to in-memory rate limiting",
				slog.String("error", err.Error()))
		} else {
			return middleware.LimitWith(store, perMinute, logger), func() {
				if err := store.Close(); err != nil {
					logger.Warn("close redis", slog.String("error", err.Error()))
				}
			}
		}
	}

	rl := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	return rl.Limit(perMinute), rl.Stop
}
