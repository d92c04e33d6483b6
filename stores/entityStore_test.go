package stores

import (
	"testing"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
)

func TestStore_SetAllReplacesCollection(t *testing.T) {
	s := NewStore[*models.Rental]()
	s.Add(&models.Rental{ID: 1})

	s.SetAll([]*models.Rental{{ID: 10}, {ID: 11}})
	if s.Len() != 2 {
		t.Fatalf("expected 2 entities, got %d", s.Len())
	}
	if _, ok := s.Get(1); ok {
		t.Fatalf("old entity survived SetAll")
	}
}

func TestStore_PatchMergesFields(t *testing.T) {
	s := NewStore[*models.Rental]()
	s.Add(&models.Rental{ID: 1, Status: models.RentalStatusDraft, PropertyAddress: "12 High St"})

	found := s.Patch(1, func(r *models.Rental) {
		r.Status = models.RentalStatusActive
	})
	if !found {
		t.Fatalf("patch reported miss for existing entity")
	}
	r, _ := s.Get(1)
	if r.Status != models.RentalStatusActive {
		t.Fatalf("status not patched: %v", r.Status)
	}
	if r.PropertyAddress != "12 High St" {
		t.Fatalf("untouched field changed: %q", r.PropertyAddress)
	}
}

func TestStore_PatchMissingIDIsNoOp(t *testing.T) {
	s := NewStore[*models.Rental]()
	s.Add(&models.Rental{ID: 1})

	if found := s.Patch(2, func(r *models.Rental) { r.Status = models.RentalStatusActive }); found {
		t.Fatalf("patch reported hit for missing entity")
	}
	if s.Len() != 1 {
		t.Fatalf("collection size changed on missed patch: %d", s.Len())
	}
}

func TestStore_DuplicateIDsFirstMatchWins(t *testing.T) {
	s := NewStore[*models.Rental]()
	s.Add(&models.Rental{ID: 1, PropertyAddress: "first"})
	s.Add(&models.Rental{ID: 1, PropertyAddress: "second"})

	r, ok := s.Get(1)
	if !ok || r.PropertyAddress != "first" {
		t.Fatalf("expected first match, got %+v", r)
	}
}

func TestStore_SubscribersNotifiedOnMutation(t *testing.T) {
	s := NewStore[*models.Rental]()
	calls := 0
	s.Subscribe(func() { calls++ })

	s.Add(&models.Rental{ID: 1})
	s.Patch(1, func(r *models.Rental) { r.Status = models.RentalStatusActive })
	s.SetAll(nil)

	if calls != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls)
	}
	// A missed patch must not notify.
	s.Patch(99, func(r *models.Rental) {})
	if calls != 3 {
		t.Fatalf("missed patch notified subscribers")
	}
}
