package api

import (
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"bitbucket.org/fmsdatahub/franchise_backend/workflow"
	"github.com/gin-gonic/gin"
)

func (a *API) ListBranchApplications(c *gin.Context) {
	_, id := a.session(c)
	rows, err := utils.FetchAllModels[models.BranchApplication](c.Request.Context(), id.TenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *API) CreateBranchApplication(c *gin.Context) {
	var input models.NewBranchApplication
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	_, id := a.session(c)
	if err := input.Validate(c.Request.Context(), id.TenantId, 0); err != nil {
		respondError(c, err)
		return
	}

	app := models.BranchApplication{
		TenantId:         id.TenantId,
		ApplicantName:    input.ApplicantName,
		Email:            input.Email,
		Phone:            input.Phone,
		CompanyName:      input.CompanyName,
		ProposedLocation: input.ProposedLocation,
		City:             input.City,
		Country:          input.Country,
		Latitude:         input.Latitude,
		Longitude:        input.Longitude,
		Status:           models.ApplicationStatusSubmitted,
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&app).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

type decisionRequest struct {
	Decision    string `json:"decision" binding:"required"` // approved / rejected / under_review
	ReviewNotes string `json:"review_notes"`
}

// DecideBranchApplication records a review decision. Approval seeds the
// Branch and its onboarding checklist in the same transaction.
func (a *API) DecideBranchApplication(c *gin.Context) {
	appId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	if !models.ApplicationStatusRules.IsKnown(req.Decision) || req.Decision == string(models.ApplicationStatusSubmitted) {
		respondError(c, utils.ErrorIllegalStatus)
		return
	}

	_, id := a.session(c)
	ctx := c.Request.Context()
	app, err := utils.FetchModel[models.BranchApplication](ctx, id.TenantId, appId)
	if err != nil {
		respondError(c, err)
		return
	}
	if app.Status == models.ApplicationStatusApproved || app.Status == models.ApplicationStatusRejected {
		c.JSON(http.StatusConflict, gin.H{"error": "application already decided"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       req.Decision,
		"review_notes": req.ReviewNotes,
		"decided_by":   id.UserId,
		"decided_at":   &now,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&models.BranchApplication{}).
		Where("tenant_id = ? AND id = ?", id.TenantId, appId).
		Updates(updates).Error; err != nil {
		respondError(c, err)
		return
	}
	app.Status = models.ApplicationStatus(req.Decision)
	app.ReviewNotes = req.ReviewNotes
	app.DecidedBy = id.UserId
	app.DecidedAt = &now

	if app.Status != models.ApplicationStatusApproved {
		c.JSON(http.StatusOK, app)
		return
	}

	onboarding, err := workflow.ApproveApplication(ctx, a.Logger, id.TenantId, app)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"application": app,
		"onboarding":  onboarding,
	})
}

func (a *API) ListBranches(c *gin.Context) {
	_, id := a.session(c)
	rows, err := utils.FetchAllModels[models.Branch](c.Request.Context(), id.TenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *API) CreateBranch(c *gin.Context) {
	var input models.NewBranch
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	_, id := a.session(c)
	if err := input.Validate(c.Request.Context(), id.TenantId, 0); err != nil {
		respondError(c, err)
		return
	}

	branch := models.Branch{
		TenantId:  id.TenantId,
		Name:      input.Name,
		Code:      input.Code,
		Phone:     input.Phone,
		Address:   input.Address,
		City:      input.City,
		Country:   input.Country,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		OpenedAt:  input.OpenedAt,
		IsActive:  utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&branch).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, branch)
}
