package stores

import (
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
)

type ledgerKey struct {
	entityType models.EntityType
	entityID   int
}

// ActivityLedger maintains an ordered, append-only list of activity entries
// per entity. Entries are never reordered or removed; the list for a given
// entity only grows. IDs come from a monotonic counter, not wall-clock time,
// so rapid successive appends never collide.
type ActivityLedger struct {
	nextID   int
	entries  map[ledgerKey][]models.Activity
	hydrated map[ledgerKey]bool
}

func NewActivityLedger() *ActivityLedger {
	return &ActivityLedger{
		nextID:   1,
		entries:  make(map[ledgerKey][]models.Activity),
		hydrated: make(map[ledgerKey]bool),
	}
}

// Append assigns the entry a synthetic ID (unless it already carries a
// persisted one) and pushes it to the end of the entity's list. The stored
// entry is returned.
func (l *ActivityLedger) Append(entityType models.EntityType, entityID int, entry models.Activity) models.Activity {
	if entry.ID == 0 {
		entry.ID = l.nextID
		l.nextID++
	} else if entry.ID >= l.nextID {
		l.nextID = entry.ID + 1
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.EntityType = entityType
	entry.EntityId = entityID

	key := ledgerKey{entityType: entityType, entityID: entityID}
	l.entries[key] = append(l.entries[key], entry)
	return entry
}

// ListFor returns the entity's entries oldest first, or an empty slice if
// none exist yet. The returned slice is a copy; mutating it cannot disturb
// the ledger.
func (l *ActivityLedger) ListFor(entityType models.EntityType, entityID int) []models.Activity {
	key := ledgerKey{entityType: entityType, entityID: entityID}
	src := l.entries[key]
	out := make([]models.Activity, len(src))
	copy(out, src)
	return out
}

// Hydrate seeds an entity's list from persisted rows, keeping their DB IDs
// and advancing the counter past them.
func (l *ActivityLedger) Hydrate(entityType models.EntityType, entityID int, entries []models.Activity) {
	key := ledgerKey{entityType: entityType, entityID: entityID}
	l.entries[key] = nil
	for _, e := range entries {
		if e.ID >= l.nextID {
			l.nextID = e.ID + 1
		}
		l.entries[key] = append(l.entries[key], e)
	}
	l.hydrated[key] = true
}

// Hydrated reports whether an entity's list was seeded from persisted rows.
// In-session appends alone do not count; a timeline that has only seen this
// session's entries still owes the caller its persisted history.
func (l *ActivityLedger) Hydrated(entityType models.EntityType, entityID int) bool {
	return l.hydrated[ledgerKey{entityType: entityType, entityID: entityID}]
}

// Len reports how many entries an entity's list holds.
func (l *ActivityLedger) Len(entityType models.EntityType, entityID int) int {
	return len(l.entries[ledgerKey{entityType: entityType, entityID: entityID}])
}
