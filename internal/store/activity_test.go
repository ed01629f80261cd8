package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"folio/internal/models"
)

func TestActivityStoreLogAndRecent(t *testing.T) {
	db := testDB(t)
	s := NewActivityStore(db)
	ctx := context.Background()

	id := uuid.New()
	actor := "tester-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanRows(t, db, "activity_log", "actor", actor) })

	s.Log(ctx, models.ActivityEntry{Actor: actor, Action: "create", EntityType: "category", EntityID: &id})

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	var found bool
	for _, e := range entries {
		if e.Actor == actor && e.EntityID != nil && *e.EntityID == id {
			found = true
		}
	}
	if !found {
		t.Error("logged entry not found in recent activity")
	}
	if len(entries) > 10 {
		t.Errorf("limit not applied: got %d entries", len(entries))
	}
}
