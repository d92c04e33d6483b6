package api

import (
	"context"
	"testing"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/stores"
)

// No database is configured in tests, so hydrateLedger returning nil proves
// it short-circuited on the ledger's hydration flag instead of querying.
func TestHydrateLedger_SkipsOnlyHydratedEntities(t *testing.T) {
	s := stores.NewSession("hq", false, false, nil)

	// An entry appended before the first listing must not satisfy the
	// skip guard; the persisted history still has to be loaded.
	s.Ledger.Append(models.EntityTypeContract, 7, models.Activity{
		Type:        models.ActivityTypeStatusChange,
		Description: "Status changed: draft → pending_approval",
	})
	if s.Ledger.Hydrated(models.EntityTypeContract, 7) {
		t.Fatalf("in-session append marked the timeline hydrated")
	}

	s.Ledger.Hydrate(models.EntityTypeContract, 7, []models.Activity{
		{ID: 11, Type: models.ActivityTypeComment, Description: "from db"},
		{ID: 12, Type: models.ActivityTypeComment, Description: "also from db"},
	})
	if err := hydrateLedger(context.Background(), s, "hq", models.EntityTypeContract, 7); err != nil {
		t.Fatalf("hydrated entity should skip the query: %v", err)
	}
	if got := s.Ledger.Len(models.EntityTypeContract, 7); got != 2 {
		t.Fatalf("expected the 2 persisted entries, got %d", got)
	}
}
