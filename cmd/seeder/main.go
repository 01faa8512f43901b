// Command seeder bootstraps a fresh database: it creates the two root
// catalog categories and an admin account for the panel.
//
// Flags:
//
//	--admin-email     admin account email (default from SEED_ADMIN_EMAIL)
//	--admin-password  admin account password (default from SEED_ADMIN_PASSWORD)
//	--admin-name      admin display name
//
// Seeding is idempotent: existing categories and users are left as is.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	postgres "github.com/risinglab/rising-backend/internal/adapter/postgres"
	categoryrepo "github.com/risinglab/rising-backend/internal/adapter/postgres/category"
	userrepo "github.com/risinglab/rising-backend/internal/adapter/postgres/user"
	"github.com/risinglab/rising-backend/internal/app"
	"github.com/risinglab/rising-backend/internal/config"
	"github.com/risinglab/rising-backend/internal/domain"
)

// rootCategories are the fixed top-level catalog entries every deployment
// starts with. Product categories are created under them via the API.
var rootCategories = []string{"Diamond", "Lab-Grown Diamonds"}

func main() {
	emailFlag := flag.String("admin-email", os.Getenv("SEED_ADMIN_EMAIL"), "admin account email")
	passwordFlag := flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin account password")
	nameFlag := flag.String("admin-name", "Admin", "admin display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	categories := categoryrepo.New(pool)
	for _, name := range rootCategories {
		created, err := seedCategory(ctx, categories, name)
		if err != nil {
			logger.Error("seed category", slog.String("name", name), slog.String("error", err.Error()))
			os.Exit(1)
		}
		if created {
			logger.Info("category created", slog.String("name", name))
		} else {
			logger.Info("category already present", slog.String("name", name))
		}
	}

	if *emailFlag == "" || *passwordFlag == "" {
		logger.Warn("admin email or password not provided, skipping admin user")
		return
	}

	users := userrepo.New(pool)
	created, err := seedAdmin(ctx, users, *emailFlag, *passwordFlag, *nameFlag)
	if err != nil {
		logger.Error("seed admin user", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if created {
		logger.Info("admin user created", slog.String("email", *emailFlag))
	} else {
		logger.Info("admin user already present", slog.String("email", *emailFlag))
	}
}

func seedCategory(ctx context.Context, repo *categoryrepo.Repo, name string) (bool, error) {
	_, err := repo.Create(ctx, domain.Fields{"name": name})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func seedAdmin(ctx context.Context, repo *userrepo.Repo, email, password, name string) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	hashed := string(hash)
	_, err = repo.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: &hashed,
		Role:         domain.UserRoleAdmin,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
