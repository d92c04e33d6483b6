package api

import (
	"net/http"
	"strconv"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/stores"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/gin-gonic/gin"
)

func (a *API) hydrateContracts(c *gin.Context, s *stores.Session, tenantId string) error {
	if s.Hydrated(models.EntityTypeContract) {
		return nil
	}
	rows, err := utils.FetchAllModels[models.Contract](c.Request.Context(), tenantId)
	if err != nil {
		return err
	}
	s.Contracts.SetAll(rows)
	s.MarkHydrated(models.EntityTypeContract)
	return nil
}

func (a *API) ListContracts(c *gin.Context) {
	s, id := a.session(c)
	var out []*models.Contract
	var err error
	s.Do(func() {
		if err = a.hydrateContracts(c, s, id.TenantId); err != nil {
			return
		}
		out = s.Contracts.List()
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) GetContract(c *gin.Context) {
	contractId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	s, id := a.session(c)
	var contract *models.Contract
	s.Do(func() {
		if err = a.hydrateContracts(c, s, id.TenantId); err != nil {
			return
		}
		if found, ok := s.Contracts.Get(contractId); ok {
			contract = found
		} else {
			err = utils.ErrorRecordNotFound
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (a *API) CreateContract(c *gin.Context) {
	var input models.NewContract
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	s, id := a.session(c)
	if err := input.Validate(c.Request.Context(), id.TenantId, 0); err != nil {
		respondError(c, err)
		return
	}

	contract := models.Contract{
		TenantId:         id.TenantId,
		BranchId:         input.BranchId,
		ContractNumber:   input.ContractNumber,
		FranchiseeName:   input.FranchiseeName,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		RoyaltyRate:      input.RoyaltyRate,
		MarketingFeeRate: input.MarketingFeeRate,
		MinimumFee:       input.MinimumFee,
		Status:           models.ContractStatusDraft,
		Notes:            input.Notes,
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&contract).Error; err != nil {
		respondError(c, err)
		return
	}
	s.Do(func() {
		if s.Hydrated(models.EntityTypeContract) {
			s.Contracts.Add(&contract)
		}
	})
	c.JSON(http.StatusCreated, contract)
}

// TransitionContract runs the in-memory transition first (its semantics are
// authoritative: validation, ledger entry, no-op on miss) and only then
// persists the accepted result.
func (a *API) TransitionContract(c *gin.Context) {
	contractId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}

	s, id := a.session(c)
	var entry models.Activity
	s.Do(func() {
		if err = a.hydrateContracts(c, s, id.TenantId); err != nil {
			return
		}
		if err = hydrateLedger(c.Request.Context(), s, id.TenantId, models.EntityTypeContract, contractId); err != nil {
			return
		}
		entry, err = s.ContractTransitions.Transition(contractId, req.Status, id.UserId, id.UserName)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := persistTransition[models.Contract](c.Request.Context(), id.TenantId, contractId, req.Status, entry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (a *API) ListContractActivities(c *gin.Context) {
	a.listActivities(c, models.EntityTypeContract)
}

func (a *API) AddContractActivity(c *gin.Context) {
	a.addActivity(c, models.EntityTypeContract)
}
