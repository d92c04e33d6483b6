package stores

import (
	"sync"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"github.com/sirupsen/logrus"
)

// Session is one authenticated session's lifecycle state: a store per
// module, a shared activity ledger, the transitioners wired over them, and
// the onboarding progress aggregator. Construction is explicit and the
// lifetime is scoped to the session token; there is no hidden module-level
// singleton store.
//
// Mutations within a session are serialized by the session mutex, giving
// the single-threaded execution model the stores assume.
type Session struct {
	mu       sync.Mutex
	TenantId string

	Contracts   *Store[*models.Contract]
	Rentals     *Store[*models.Rental]
	Royalties   *Store[*models.Royalty]
	Onboardings *Store[*models.BranchOnboarding]
	Tasks       *TaskSet
	Ledger      *ActivityLedger

	ContractTransitions   *Transitioner[*models.Contract]
	RentalTransitions     *Transitioner[*models.Rental]
	RoyaltyTransitions    *Transitioner[*models.Royalty]
	OnboardingTransitions *Transitioner[*models.BranchOnboarding]
	Progress              *ProgressAggregator

	hydrated map[models.EntityType]bool
	lastSeen time.Time
}

func NewSession(tenantId string, strictTransitions bool, enforceDeps bool, logger *logrus.Logger) *Session {
	s := &Session{
		TenantId:    tenantId,
		Contracts:   NewStore[*models.Contract](),
		Rentals:     NewStore[*models.Rental](),
		Royalties:   NewStore[*models.Royalty](),
		Onboardings: NewStore[*models.BranchOnboarding](),
		Tasks:       NewTaskSet(),
		Ledger:      NewActivityLedger(),
		hydrated:    make(map[models.EntityType]bool),
		lastSeen:    time.Now(),
	}
	s.ContractTransitions = NewTransitioner(s.Contracts, s.Ledger, models.EntityTypeContract, models.ContractStatusRules, strictTransitions, tenantId, logger)
	s.RentalTransitions = NewTransitioner(s.Rentals, s.Ledger, models.EntityTypeRental, models.RentalStatusRules, strictTransitions, tenantId, logger)
	s.RoyaltyTransitions = NewTransitioner(s.Royalties, s.Ledger, models.EntityTypeRoyalty, models.RoyaltyStatusRules, strictTransitions, tenantId, logger)
	s.OnboardingTransitions = NewTransitioner(s.Onboardings, s.Ledger, models.EntityTypeOnboarding, models.OnboardingStatusRules, strictTransitions, tenantId, logger)
	s.Progress = NewProgressAggregator(s.Onboardings, s.Tasks, enforceDeps, logger)
	return s
}

// Do runs fn with the session lock held. All handler access to the
// session's stores goes through here.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn()
}

// Hydrated reports whether a module's entities were loaded this session.
func (s *Session) Hydrated(entityType models.EntityType) bool {
	return s.hydrated[entityType]
}

// MarkHydrated records that a module's entities were loaded.
func (s *Session) MarkHydrated(entityType models.EntityType) {
	s.hydrated[entityType] = true
}

// Registry maps session tokens to their Session, creating on first touch.
type Registry struct {
	mu                sync.Mutex
	sessions          map[string]*Session
	strictTransitions bool
	enforceDeps       bool
	logger            *logrus.Logger
}

func NewRegistry(strictTransitions bool, enforceDeps bool, logger *logrus.Logger) *Registry {
	return &Registry{
		sessions:          make(map[string]*Session),
		strictTransitions: strictTransitions,
		enforceDeps:       enforceDeps,
		logger:            logger,
	}
}

// ForToken returns the session for a token, constructing one scoped to the
// tenant on first use.
func (r *Registry) ForToken(token string, tenantId string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		return s
	}
	s := NewSession(tenantId, r.strictTransitions, r.enforceDeps, r.logger)
	r.sessions[token] = s
	return s
}

// PruneIdle drops sessions not touched within maxAge and reports how many
// were removed. Called periodically from main.
func (r *Registry) PruneIdle(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for token, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}
