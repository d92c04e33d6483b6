package stores

// Entity is implemented by the lifecycle entities a Store can hold
// (contracts, rentals, royalty statements, onboardings).
type Entity interface {
	GetID() int
	GetStatus() string
	SetStatus(string)
}

// Store holds the authoritative in-memory collection of one module's
// entities for one session. Mutations run synchronously to completion; the
// owning Session serializes access, so the store itself carries no lock.
type Store[T Entity] struct {
	entities    []T
	subscribers []func()
}

func NewStore[T Entity]() *Store[T] {
	return &Store[T]{}
}

// SetAll replaces the entire collection. Used on hydration; no validation
// is performed.
func (s *Store[T]) SetAll(entities []T) {
	s.entities = make([]T, len(entities))
	copy(s.entities, entities)
	s.notify()
}

// Add appends a new entity. The caller is responsible for ID uniqueness;
// lookups return the first match.
func (s *Store[T]) Add(entity T) {
	s.entities = append(s.entities, entity)
	s.notify()
}

// Get returns the first entity matching id.
func (s *Store[T]) Get(id int) (T, bool) {
	for _, e := range s.entities {
		if e.GetID() == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// List returns the collection in insertion order.
func (s *Store[T]) List() []T {
	out := make([]T, len(s.entities))
	copy(out, s.entities)
	return out
}

// Len reports the collection size.
func (s *Store[T]) Len() int {
	return len(s.entities)
}

// Patch applies a partial update to the entity matching id and reports
// whether a match was found. A miss leaves the collection untouched; the
// caller decides whether to surface that.
func (s *Store[T]) Patch(id int, apply func(T)) bool {
	for _, e := range s.entities {
		if e.GetID() == id {
			apply(e)
			s.notify()
			return true
		}
	}
	return false
}

// Subscribe registers a callback invoked after every mutation. This is the
// seam dependent views (progress bars, timeline panels) re-render from.
func (s *Store[T]) Subscribe(fn func()) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store[T]) notify() {
	for _, fn := range s.subscribers {
		fn()
	}
}
