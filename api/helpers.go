package api

import (
	"context"
	"errors"
	"net/http"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/stores"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"bitbucket.org/fmsdatahub/franchise_backend/workflow"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// requireIdentity rejects requests that reached a protected route without a
// tenant in context (no token header, or an unknown token).
func requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetTenantIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

type identity struct {
	TenantId string
	UserId   int
	UserName string
	Token    string
}

func identityFrom(ctx context.Context) identity {
	tenantId, _ := utils.GetTenantIdFromContext(ctx)
	userId, _ := utils.GetUserIdFromContext(ctx)
	userName, _ := utils.GetUserNameFromContext(ctx)
	token, _ := utils.GetTokenFromContext(ctx)
	return identity{TenantId: tenantId, UserId: userId, UserName: userName, Token: token}
}

// session returns the lifecycle store set bound to this request's token.
func (a *API) session(c *gin.Context) (*stores.Session, identity) {
	id := identityFrom(c.Request.Context())
	return a.Sessions.ForToken(id.Token, id.TenantId), id
}

// respondError maps the lifecycle core's sentinel errors onto HTTP statuses.
// Unknown errors surface as 400 with the message, matching how the rest of
// the handlers report validation failures.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound) || errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, utils.ErrorInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorDependencyIncomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorIllegalStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case workflow.IsDuplicateEntry(err):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate record"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// persistTransition mirrors a transition the in-memory core has already
// accepted into MySQL: the entity's status column plus the activity and its
// outbox row, in one transaction.
func persistTransition[T any](ctx context.Context, tenantId string, entityID int, newStatus string, activity models.Activity) error {
	db := config.GetDB()
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model T
		res := tx.Model(&model).
			Where("tenant_id = ? AND id = ?", tenantId, entityID).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrorRecordNotFound
		}
		return workflow.RecordActivity(tx, &activity, correlationId)
	})
}

// persistActivity writes a manually added ledger entry (comment, meeting,
// file note) and its outbox row.
func persistActivity(ctx context.Context, activity *models.Activity) error {
	db := config.GetDB()
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return workflow.RecordActivity(tx, activity, correlationId)
	})
}

// hydrateLedger seeds the session ledger for one entity from the persisted
// activity rows, oldest first. Idempotent per entity per session. The guard
// is the ledger's hydration flag, not its length: a transition appended
// before the first listing must not mask the persisted history.
func hydrateLedger(ctx context.Context, s *stores.Session, tenantId string, entityType models.EntityType, entityID int) error {
	if s.Ledger.Hydrated(entityType, entityID) {
		return nil
	}
	db := config.GetDB()
	var entries []models.Activity
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantId, entityType, entityID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return err
	}
	s.Ledger.Hydrate(entityType, entityID, entries)
	return nil
}
