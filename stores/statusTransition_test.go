package stores

import (
	"strings"
	"testing"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
)

func newContractFixture(strict bool) (*Store[*models.Contract], *ActivityLedger, *Transitioner[*models.Contract]) {
	store := NewStore[*models.Contract]()
	ledger := NewActivityLedger()
	tr := NewTransitioner(store, ledger, models.EntityTypeContract, models.ContractStatusRules, strict, "tenant-1", nil)
	return store, ledger, tr
}

func TestTransition_RoundTrip(t *testing.T) {
	store, ledger, tr := newContractFixture(false)
	store.Add(&models.Contract{ID: 1, Status: models.ContractStatusDraft})

	entry, err := tr.Transition(1, "pending_approval", 7, "Ada")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	c, ok := store.Get(1)
	if !ok || c.Status != models.ContractStatusPendingApproval {
		t.Fatalf("expected status pending_approval, got %v", c.Status)
	}

	entries := ledger.ListFor(models.EntityTypeContract, 1)
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Type != models.ActivityTypeStatusChange {
		t.Fatalf("expected status_change, got %s", got.Type)
	}
	if got.OldStatus != "draft" || got.NewStatus != "pending_approval" {
		t.Fatalf("old/new mismatch: %q -> %q", got.OldStatus, got.NewStatus)
	}
	if got.CreatedBy != 7 || got.CreatedByName != "Ada" {
		t.Fatalf("actor mismatch: %d %q", got.CreatedBy, got.CreatedByName)
	}
	if !strings.Contains(got.Description, "draft") || !strings.Contains(got.Description, "pending_approval") {
		t.Fatalf("description does not mention both statuses: %q", got.Description)
	}
	if got.ID != entry.ID {
		t.Fatalf("returned entry id %d != stored id %d", entry.ID, got.ID)
	}
}

func TestTransition_MissingEntityIsNoOp(t *testing.T) {
	store, ledger, tr := newContractFixture(false)
	store.Add(&models.Contract{ID: 1, Status: models.ContractStatusDraft})

	before := store.List()

	_, err := tr.Transition(999, "active", 1, "X")
	if err != utils.ErrorRecordNotFound {
		t.Fatalf("expected ErrorRecordNotFound, got %v", err)
	}

	after := store.List()
	if len(after) != len(before) {
		t.Fatalf("entity collection changed: %d -> %d", len(before), len(after))
	}
	if after[0].Status != models.ContractStatusDraft {
		t.Fatalf("existing entity mutated: %v", after[0].Status)
	}
	if n := ledger.Len(models.EntityTypeContract, 999); n != 0 {
		t.Fatalf("ledger entry appended for missing entity: %d", n)
	}
}

func TestTransition_UnknownStatusRejected(t *testing.T) {
	store, _, tr := newContractFixture(false)
	store.Add(&models.Contract{ID: 1, Status: models.ContractStatusDraft})

	if _, err := tr.Transition(1, "banana", 1, "X"); err != utils.ErrorIllegalStatus {
		t.Fatalf("expected ErrorIllegalStatus, got %v", err)
	}
	c, _ := store.Get(1)
	if c.Status != models.ContractStatusDraft {
		t.Fatalf("status mutated on rejected transition: %v", c.Status)
	}
}

func TestTransition_PermissiveByDefault(t *testing.T) {
	store, _, tr := newContractFixture(false)
	store.Add(&models.Contract{ID: 1, Status: models.ContractStatusExpired})

	// Nothing prevents expired -> draft when strict mode is off.
	if _, err := tr.Transition(1, "draft", 1, "X"); err != nil {
		t.Fatalf("permissive mode rejected transition: %v", err)
	}
	c, _ := store.Get(1)
	if c.Status != models.ContractStatusDraft {
		t.Fatalf("expected draft, got %v", c.Status)
	}
}

func TestTransition_StrictModeRejectsIllegalEdge(t *testing.T) {
	store, ledger, tr := newContractFixture(true)
	store.Add(&models.Contract{ID: 1, Status: models.ContractStatusExpired})

	if _, err := tr.Transition(1, "draft", 1, "X"); err != utils.ErrorInvalidTransition {
		t.Fatalf("expected ErrorInvalidTransition, got %v", err)
	}
	c, _ := store.Get(1)
	if c.Status != models.ContractStatusExpired {
		t.Fatalf("status mutated on rejected strict transition: %v", c.Status)
	}
	if n := ledger.Len(models.EntityTypeContract, 1); n != 0 {
		t.Fatalf("ledger entry appended for rejected transition: %d", n)
	}
}

func TestTransition_StrictModeAllowsLegalChain(t *testing.T) {
	store, ledger, tr := newContractFixture(true)
	store.Add(&models.Contract{ID: 1, Status: models.ContractStatusDraft})

	chain := []string{"pending_approval", "approved", "active", "terminated"}
	for _, next := range chain {
		if _, err := tr.Transition(1, next, 2, "Reviewer"); err != nil {
			t.Fatalf("legal edge to %q rejected: %v", next, err)
		}
	}

	entries := ledger.ListFor(models.EntityTypeContract, 1)
	if len(entries) != len(chain) {
		t.Fatalf("expected %d entries, got %d", len(chain), len(entries))
	}
	// Each entry's old status must be the previous entry's new status.
	prev := "draft"
	for i, e := range entries {
		if e.OldStatus != prev {
			t.Fatalf("entry %d old status %q, expected %q", i, e.OldStatus, prev)
		}
		prev = e.NewStatus
	}
}
