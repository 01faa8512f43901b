package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/risinglab/rising-backend/internal/adapter/postgres/category"
	"github.com/risinglab/rising-backend/internal/adapter/postgres/testhelper"
	"github.com/risinglab/rising-backend/internal/domain"
)

func newRepo(t *testing.T) (*category.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return category.New(pool), pool
}

func TestRepo_Create_AndFindByID(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.Fields{
		"name":   "Rings " + uuid.NewString()[:8],
		"images": []string{"https://example.com/a.png"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Slug == "" {
		t.Error("Create: slug not derived from name")
	}
	if created.Parent != nil {
		t.Errorf("Create: parent = %v, want nil", created.Parent)
	}

	got, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Name != created.Name {
		t.Errorf("FindByID: name = %q, want %q", got.Name, created.Name)
	}
}

func TestRepo_Create_MissingName(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Create(context.Background(), domain.Fields{"images": []string{}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Create: err = %v, want ErrValidation", err)
	}
}

func TestRepo_Create_DuplicateName(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	existing := testhelper.SeedCategory(t, pool, nil)

	_, err := repo.Create(ctx, domain.Fields{"name": existing.Name})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("Create: err = %v, want ErrAlreadyExists", err)
	}
}

func TestRepo_FindByName_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.FindByName(context.Background(), "no-such-category-"+uuid.NewString())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindByName: err = %v, want ErrNotFound", err)
	}
}

func TestRepo_FindBySlug(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedCategory(t, pool, nil)

	got, err := repo.FindBySlug(ctx, seeded.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if got.ID != seeded.ID {
		t.Errorf("FindBySlug: id = %s, want %s", got.ID, seeded.ID)
	}
}

func TestRepo_Find_FilterByParent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	root := testhelper.SeedCategory(t, pool, nil)
	child := testhelper.SeedCategory(t, pool, &root.ID)

	got, err := repo.Find(ctx, domain.ListQuery{
		Filter: domain.Fields{"parent": root.ID.String()},
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].ID != child.ID {
		t.Errorf("Find: got %d categories, want the one child", len(got))
	}
}

func TestRepo_FindWithParentName(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	root := testhelper.SeedCategory(t, pool, nil)
	child := testhelper.SeedCategory(t, pool, &root.ID)

	got, err := repo.FindWithParentName(ctx, domain.ListQuery{
		Filter: domain.Fields{"parent": root.ID.String()},
	})
	if err != nil {
		t.Fatalf("FindWithParentName: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("FindWithParentName: got %d rows, want 1", len(got))
	}
	if got[0].ID != child.ID {
		t.Errorf("FindWithParentName: id = %s, want %s", got[0].ID, child.ID)
	}
	if got[0].ParentName == nil || *got[0].ParentName != root.Name {
		t.Errorf("FindWithParentName: parentName = %v, want %q", got[0].ParentName, root.Name)
	}
}

func TestRepo_UpdateByID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedCategory(t, pool, nil)

	updated, err := repo.UpdateByID(ctx, seeded.ID, domain.Fields{
		"images": []string{"https://example.com/new.png"},
	})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if len(updated.Images) != 1 || updated.Images[0] != "https://example.com/new.png" {
		t.Errorf("UpdateByID: images = %v", updated.Images)
	}
	if !updated.UpdatedAt.After(seeded.UpdatedAt) {
		t.Error("UpdateByID: updated_at not bumped")
	}
}

func TestRepo_UpdateByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.UpdateByID(context.Background(), uuid.New(), domain.Fields{"name": "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateByID: err = %v, want ErrNotFound", err)
	}
}

func TestRepo_DeleteByID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedCategory(t, pool, nil)

	if err := repo.DeleteByID(ctx, seeded.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}

	if _, err := repo.FindByID(ctx, seeded.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindByID after delete: err = %v, want ErrNotFound", err)
	}

	if err := repo.DeleteByID(ctx, seeded.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("DeleteByID twice: err = %v, want ErrNotFound", err)
	}
}
