package workflow

import (
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"gorm.io/gorm"
)

// RecordActivity persists one ledger entry and its outbox row in the given
// transaction. The outbox row carries the serialized event so the processor
// never has to re-read the activity table, and both rows commit or roll
// back together.
func RecordActivity(tx *gorm.DB, activity *models.Activity, correlationId string) error {
	// Persisted copies get DB-assigned IDs; any session-synthetic ID is
	// discarded here.
	activity.ID = 0
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	if err := tx.Create(activity).Error; err != nil {
		return err
	}

	event := config.ActivityEventMessage{
		ID:            activity.ID,
		TenantId:      activity.TenantId,
		EntityType:    string(activity.EntityType),
		EntityId:      activity.EntityId,
		ActivityType:  string(activity.Type),
		Description:   activity.Description,
		OldStatus:     activity.OldStatus,
		NewStatus:     activity.NewStatus,
		CreatedBy:     activity.CreatedBy,
		CreatedByName: activity.CreatedByName,
		OccurredAt:    activity.CreatedAt,
		CorrelationId: correlationId,
	}
	payload, err := utils.MarshalToJSON(event)
	if err != nil {
		return err
	}

	outbox := models.ActivityOutboxRecord{
		TenantId:   activity.TenantId,
		ActivityId: activity.ID,
		Payload:    payload,
	}
	return tx.Create(&outbox).Error
}
