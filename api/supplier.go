package api

import (
	"net/http"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/gin-gonic/gin"
)

func (a *API) ListSuppliers(c *gin.Context) {
	_, id := a.session(c)
	rows, err := utils.FetchAllModels[models.Supplier](c.Request.Context(), id.TenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *API) CreateSupplier(c *gin.Context) {
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	_, id := a.session(c)
	if err := input.Validate(c.Request.Context(), id.TenantId, 0); err != nil {
		respondError(c, err)
		return
	}

	supplier := models.Supplier{
		TenantId:    id.TenantId,
		Name:        input.Name,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Category:    input.Category,
		IsActive:    utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&supplier).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (a *API) ListSupplierContracts(c *gin.Context) {
	_, id := a.session(c)
	rows, err := utils.FetchAllModels[models.SupplierContract](c.Request.Context(), id.TenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *API) CreateSupplierContract(c *gin.Context) {
	var input models.NewSupplierContract
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	_, id := a.session(c)
	if err := input.Validate(c.Request.Context(), id.TenantId, 0); err != nil {
		respondError(c, err)
		return
	}

	contract := models.SupplierContract{
		TenantId:    id.TenantId,
		SupplierId:  input.SupplierId,
		BranchId:    input.BranchId,
		Title:       input.Title,
		Terms:       input.Terms,
		AnnualValue: input.AnnualValue,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&contract).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}
