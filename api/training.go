package api

import (
	"net/http"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/gin-gonic/gin"
)

func (a *API) ListTrainingContents(c *gin.Context) {
	_, id := a.session(c)
	rows, err := utils.FetchAllModels[models.TrainingContent](c.Request.Context(), id.TenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *API) CreateTrainingContent(c *gin.Context) {
	var input models.NewTrainingContent
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	_, id := a.session(c)
	if err := input.Validate(c.Request.Context(), id.TenantId, 0); err != nil {
		respondError(c, err)
		return
	}

	content := models.TrainingContent{
		TenantId:        id.TenantId,
		Title:           input.Title,
		Category:        input.Category,
		Description:     input.Description,
		ContentURL:      input.ContentURL,
		DurationMinutes: input.DurationMinutes,
		IsPublished:     utils.NewFalse(),
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&content).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, content)
}
