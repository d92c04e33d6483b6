package api

import (
	"context"
	"net/http"
	"strconv"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/gin-gonic/gin"
)

// validateEntityExists checks the DB row behind a ledger target so comments
// and meetings cannot be attached to an ID that was never persisted.
func validateEntityExists(ctx context.Context, tenantId string, entityType models.EntityType, entityID int) error {
	switch entityType {
	case models.EntityTypeContract:
		return utils.ValidateResourceId[models.Contract](ctx, tenantId, entityID)
	case models.EntityTypeRental:
		return utils.ValidateResourceId[models.Rental](ctx, tenantId, entityID)
	case models.EntityTypeRoyalty:
		return utils.ValidateResourceId[models.Royalty](ctx, tenantId, entityID)
	case models.EntityTypeOnboarding:
		return utils.ValidateResourceId[models.BranchOnboarding](ctx, tenantId, entityID)
	}
	return utils.ErrorRecordNotFound
}

// listActivities returns an entity's timeline, oldest first, hydrating the
// session ledger from the activity table on first touch.
func (a *API) listActivities(c *gin.Context, entityType models.EntityType) {
	entityID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	s, id := a.session(c)
	var entries []models.Activity
	s.Do(func() {
		if err = hydrateLedger(c.Request.Context(), s, id.TenantId, entityType, entityID); err != nil {
			return
		}
		entries = s.Ledger.ListFor(entityType, entityID)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// addActivity appends a manual ledger entry (comment, meeting, note) to the
// entity's timeline and persists it with its outbox row.
func (a *API) addActivity(c *gin.Context, entityType models.EntityType) {
	entityID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var input models.NewActivity
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	if input.Type == models.ActivityTypeStatusChange {
		// Transitions own status_change entries; manual ones would desync
		// the ledger from the entity's status history.
		c.JSON(http.StatusBadRequest, gin.H{"error": "status_change activities are recorded by transitions"})
		return
	}

	s, id := a.session(c)
	if err := validateEntityExists(c.Request.Context(), id.TenantId, entityType, entityID); err != nil {
		respondError(c, err)
		return
	}

	// Seed the timeline from the persisted rows before appending, so the
	// new entry lands after the full history rather than starting a
	// one-entry list that would mask it.
	s.Do(func() {
		err = hydrateLedger(c.Request.Context(), s, id.TenantId, entityType, entityID)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	activity := models.Activity{
		TenantId:      id.TenantId,
		EntityType:    entityType,
		EntityId:      entityID,
		Type:          input.Type,
		Description:   input.Description,
		CreatedBy:     id.UserId,
		CreatedByName: id.UserName,
		Metadata:      input.Metadata,
	}
	if err := persistActivity(c.Request.Context(), &activity); err != nil {
		respondError(c, err)
		return
	}

	var entry models.Activity
	s.Do(func() {
		entry = s.Ledger.Append(entityType, entityID, activity)
	})
	c.JSON(http.StatusCreated, entry)
}
