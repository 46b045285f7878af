package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/data/repos/testutil"
	"github.com/skillforge/skillforge-backend/internal/domain"
)

func TestRecommendationRepoReplaceAndMarkStale(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecommendationRepo(db, testutil.Logger(t))

	user := uuid.New()
	course := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	row := &domain.UserRecommendation{UserID: user, GeneratedAt: now}
	if err := row.SetItemList([]domain.RecommendedItem{
		{CourseID: course, Score: 0.8, Reason: domain.ReasonCollaborative},
	}); err != nil {
		t.Fatalf("SetItemList: %v", err)
	}
	if err := repo.Replace(ctx, tx, row); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := repo.GetByUser(ctx, tx, user)
	if err != nil || got == nil || got.Stale {
		t.Fatalf("GetByUser: got=%v err=%v", got, err)
	}

	if err := repo.MarkStale(ctx, tx, user); err != nil {
		t.Fatalf("MarkStale: %v", err)
	}
	got, err = repo.GetByUser(ctx, tx, user)
	if err != nil || got == nil || !got.Stale {
		t.Fatalf("after MarkStale: got=%v err=%v", got, err)
	}
	items, err := got.ItemList()
	if err != nil || len(items) != 1 {
		t.Fatalf("MarkStale must not touch items: err=%v len=%d", err, len(items))
	}

	// Replace clears the stale flag along with the items.
	row2 := &domain.UserRecommendation{UserID: user, GeneratedAt: now.Add(time.Minute), Stale: false}
	if err := row2.SetItemList(nil); err != nil {
		t.Fatalf("SetItemList: %v", err)
	}
	if err := repo.Replace(ctx, tx, row2); err != nil {
		t.Fatalf("second Replace: %v", err)
	}
	got, err = repo.GetByUser(ctx, tx, user)
	if err != nil || got == nil || got.Stale {
		t.Fatalf("after second Replace: got=%v err=%v", got, err)
	}

	// Unknown user reads as nil, not error.
	if got, err := repo.GetByUser(ctx, tx, uuid.New()); err != nil || got != nil {
		t.Fatalf("unknown user: got=%v err=%v", got, err)
	}
}
