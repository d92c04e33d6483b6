package stores

import (
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/sirupsen/logrus"
)

// Transitioner changes an entity's status and records the transition as an
// activity entry in one synchronous step. A requested status must always be
// part of the module's enumeration; the legal-transition graph is only
// consulted when strict mode is on, matching the dashboard's permissive
// default.
type Transitioner[T Entity] struct {
	store      *Store[T]
	ledger     *ActivityLedger
	entityType models.EntityType
	rules      models.StatusRuleSet
	strict     bool
	tenantId   string
	logger     *logrus.Logger
}

func NewTransitioner[T Entity](
	store *Store[T],
	ledger *ActivityLedger,
	entityType models.EntityType,
	rules models.StatusRuleSet,
	strict bool,
	tenantId string,
	logger *logrus.Logger,
) *Transitioner[T] {
	return &Transitioner[T]{
		store:      store,
		ledger:     ledger,
		entityType: entityType,
		rules:      rules,
		strict:     strict,
		tenantId:   tenantId,
		logger:     logger,
	}
}

// Transition looks up the entity, patches its status, and appends a
// status_change entry with the old and new values. On a missing entity
// nothing changes: no entity is created and no ledger entry is appended;
// the miss is logged and reported so callers can surface feedback instead
// of dropping the action silently.
func (t *Transitioner[T]) Transition(entityID int, newStatus string, actorID int, actorName string) (models.Activity, error) {
	entity, ok := t.store.Get(entityID)
	if !ok {
		if t.logger != nil {
			config.LogWarn(t.logger, "stores", "Transition", "entity not found", map[string]any{
				"entity_type": t.entityType,
				"entity_id":   entityID,
				"new_status":  newStatus,
			})
		}
		return models.Activity{}, utils.ErrorRecordNotFound
	}

	if !t.rules.IsKnown(newStatus) {
		return models.Activity{}, utils.ErrorIllegalStatus
	}

	oldStatus := entity.GetStatus()
	if t.strict && !t.rules.CanTransition(oldStatus, newStatus) {
		return models.Activity{}, utils.ErrorInvalidTransition
	}

	t.store.Patch(entityID, func(e T) {
		e.SetStatus(newStatus)
	})

	meta, _ := models.EncodeMeta(models.StatusChangeMeta{OldStatus: oldStatus, NewStatus: newStatus})
	entry := t.ledger.Append(t.entityType, entityID, models.Activity{
		TenantId:      t.tenantId,
		Type:          models.ActivityTypeStatusChange,
		Description:   models.DescribeStatusChange(oldStatus, newStatus),
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		CreatedBy:     actorID,
		CreatedByName: actorName,
		Metadata:      meta,
		CreatedAt:     time.Now(),
	})
	return entry, nil
}
