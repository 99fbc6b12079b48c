package service

import (
	"context"
	"testing"

	"github.com/frederickespin/osi-plus-sub000/internal/config"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/repository"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/testutil"
)

// Deleting a draft must also drop its entry from the per-draft lock table,
// otherwise the table grows for the lifetime of the process.
func TestDraftDeleteEvictsPlanLock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewServices(repos, nil, &config.Config{})
	ctx := context.Background()

	testutil.SeedSettingsVersion(t, db)
	draft := testutil.SeedDraft(t, db, "customer-001")

	// Any plan operation materializes the draft's lock entry.
	if _, err := svc.Plan.ClearOverride(ctx, draft.ID, "no-such-box"); err != nil {
		t.Fatalf("ClearOverride failed: %v", err)
	}
	if _, ok := svc.Plan.locks.Load(draft.ID); !ok {
		t.Fatal("expected a lock entry after a plan operation")
	}

	if err := svc.Draft.Delete(ctx, draft.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := svc.Plan.locks.Load(draft.ID); ok {
		t.Error("lock entry survived draft deletion")
	}
}
