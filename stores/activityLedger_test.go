package stores

import (
	"fmt"
	"testing"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
)

func TestLedger_AppendOnly_OrderAndCount(t *testing.T) {
	l := NewActivityLedger()

	const n = 10
	for i := 0; i < n; i++ {
		l.Append(models.EntityTypeContract, 1, models.Activity{
			Type:        models.ActivityTypeComment,
			Description: fmt.Sprintf("comment %d", i),
		})
	}

	entries := l.ListFor(models.EntityTypeContract, 1)
	if len(entries) != n {
		t.Fatalf("expected %d entries, got %d", n, len(entries))
	}
	for i, e := range entries {
		want := fmt.Sprintf("comment %d", i)
		if e.Description != want {
			t.Fatalf("entry %d out of order: expected %q, got %q", i, want, e.Description)
		}
	}
}

func TestLedger_EarlierEntriesUnchangedAfterAppend(t *testing.T) {
	l := NewActivityLedger()

	first := l.Append(models.EntityTypeRental, 5, models.Activity{
		Type:        models.ActivityTypeComment,
		Description: "first",
	})
	l.Append(models.EntityTypeRental, 5, models.Activity{
		Type:        models.ActivityTypeComment,
		Description: "second",
	})

	entries := l.ListFor(models.EntityTypeRental, 5)
	if entries[0].ID != first.ID || entries[0].Description != "first" {
		t.Fatalf("first entry changed after later append: %+v", entries[0])
	}
}

func TestLedger_MonotonicIDs_NoCollisions(t *testing.T) {
	l := NewActivityLedger()

	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		e := l.Append(models.EntityTypeRoyalty, 9, models.Activity{Type: models.ActivityTypeOther})
		if seen[e.ID] {
			t.Fatalf("duplicate ledger id %d", e.ID)
		}
		if e.ID <= 0 {
			t.Fatalf("non-positive ledger id %d", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestLedger_ListFor_UnknownEntityIsEmpty(t *testing.T) {
	l := NewActivityLedger()
	if got := l.ListFor(models.EntityTypeContract, 404); len(got) != 0 {
		t.Fatalf("expected empty list for unknown entity, got %d entries", len(got))
	}
}

func TestLedger_ListFor_ReturnsCopy(t *testing.T) {
	l := NewActivityLedger()
	l.Append(models.EntityTypeContract, 2, models.Activity{
		Type:        models.ActivityTypeComment,
		Description: "original",
	})

	got := l.ListFor(models.EntityTypeContract, 2)
	got[0].Description = "mutated"

	again := l.ListFor(models.EntityTypeContract, 2)
	if again[0].Description != "original" {
		t.Fatalf("ledger entry mutated through returned slice")
	}
}

func TestLedger_Hydrate_KeepsPersistedIDsAndAdvancesCounter(t *testing.T) {
	l := NewActivityLedger()
	l.Hydrate(models.EntityTypeOnboarding, 3, []models.Activity{
		{ID: 41, Type: models.ActivityTypeComment, Description: "from db"},
		{ID: 42, Type: models.ActivityTypeComment, Description: "also from db"},
	})

	appended := l.Append(models.EntityTypeOnboarding, 3, models.Activity{
		Type:        models.ActivityTypeComment,
		Description: "new",
	})
	if appended.ID <= 42 {
		t.Fatalf("expected synthetic id above hydrated ids, got %d", appended.ID)
	}

	entries := l.ListFor(models.EntityTypeOnboarding, 3)
	if len(entries) != 3 || entries[0].ID != 41 || entries[1].ID != 42 {
		t.Fatalf("hydrated entries disturbed: %+v", entries)
	}
}

func TestLedger_AppendDoesNotMarkHydrated(t *testing.T) {
	l := NewActivityLedger()
	l.Append(models.EntityTypeContract, 1, models.Activity{
		Type:        models.ActivityTypeComment,
		Description: "early",
	})
	if l.Hydrated(models.EntityTypeContract, 1) {
		t.Fatalf("append alone marked the entity hydrated")
	}
}

func TestLedger_HydratedIsPerEntity(t *testing.T) {
	l := NewActivityLedger()
	l.Hydrate(models.EntityTypeContract, 1, []models.Activity{
		{ID: 4, Type: models.ActivityTypeComment, Description: "from db"},
	})

	if !l.Hydrated(models.EntityTypeContract, 1) {
		t.Fatalf("hydrated entity not reported as hydrated")
	}
	if l.Hydrated(models.EntityTypeContract, 2) {
		t.Fatalf("sibling entity reported hydrated")
	}
	if l.Hydrated(models.EntityTypeRental, 1) {
		t.Fatalf("same id under another module reported hydrated")
	}
}

func TestLedger_HydrateEmptyHistoryStillMarks(t *testing.T) {
	l := NewActivityLedger()
	l.Hydrate(models.EntityTypeRoyalty, 8, nil)
	if !l.Hydrated(models.EntityTypeRoyalty, 8) {
		t.Fatalf("entity with no persisted rows not marked hydrated")
	}
}

func TestLedger_PerEntityIsolation(t *testing.T) {
	l := NewActivityLedger()
	l.Append(models.EntityTypeContract, 1, models.Activity{Type: models.ActivityTypeComment, Description: "a"})
	l.Append(models.EntityTypeContract, 2, models.Activity{Type: models.ActivityTypeComment, Description: "b"})
	// Same numeric id under a different module must not mix.
	l.Append(models.EntityTypeRental, 1, models.Activity{Type: models.ActivityTypeComment, Description: "c"})

	if n := l.Len(models.EntityTypeContract, 1); n != 1 {
		t.Fatalf("contract 1: expected 1 entry, got %d", n)
	}
	if n := l.Len(models.EntityTypeRental, 1); n != 1 {
		t.Fatalf("rental 1: expected 1 entry, got %d", n)
	}
}
