package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/data/repos/testutil"
	"github.com/skillforge/skillforge-backend/internal/domain"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	backend := testutil.SeedCourse(t, ctx, tx, "backend")
	frontend := testutil.SeedCourse(t, ctx, tx, "frontend")
	unpublished := &domain.Course{ID: uuid.New(), Title: "draft", Category: "backend", Level: domain.LevelAll, Published: false}
	if _, err := repo.Create(ctx, tx, []*domain.Course{unpublished}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, err := repo.GetByID(ctx, tx, backend.ID); err != nil || got == nil || got.ID != backend.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByID(ctx, tx, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID unknown: got=%v err=%v", got, err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{backend.ID, frontend.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListPublished(ctx, tx, ""); err != nil || len(rows) != 2 {
		t.Fatalf("ListPublished: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListPublished(ctx, tx, "backend"); err != nil || len(rows) != 1 {
		t.Fatalf("ListPublished category: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListByCategories(ctx, tx, []string{"backend", "frontend"}); err != nil || len(rows) != 2 {
		t.Fatalf("ListByCategories: err=%v len=%d", err, len(rows))
	}
}

func TestPreferenceRepoGetByUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPreferenceRepo(db, testutil.Logger(t))

	user := uuid.New()
	testutil.SeedPreference(t, ctx, tx, user, []domain.Interest{
		{CategoryID: "backend", CategoryName: "Backend", Priority: 5},
	})

	got, err := repo.GetByUser(ctx, tx, user)
	if err != nil || got == nil {
		t.Fatalf("GetByUser: got=%v err=%v", got, err)
	}
	interests, err := got.InterestList()
	if err != nil || len(interests) != 1 || interests[0].Priority != 5 {
		t.Fatalf("InterestList: err=%v interests=%v", err, interests)
	}

	if got, err := repo.GetByUser(ctx, tx, uuid.New()); err != nil || got != nil {
		t.Fatalf("unknown user: got=%v err=%v", got, err)
	}
}
