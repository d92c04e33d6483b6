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

func (a *API) hydrateRentals(c *gin.Context, s *stores.Session, tenantId string) error {
	if s.Hydrated(models.EntityTypeRental) {
		return nil
	}
	rows, err := utils.FetchAllModels[models.Rental](c.Request.Context(), tenantId)
	if err != nil {
		return err
	}
	s.Rentals.SetAll(rows)
	s.MarkHydrated(models.EntityTypeRental)
	return nil
}

func (a *API) ListRentals(c *gin.Context) {
	s, id := a.session(c)
	var out []*models.Rental
	var err error
	s.Do(func() {
		if err = a.hydrateRentals(c, s, id.TenantId); err != nil {
			return
		}
		out = s.Rentals.List()
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) GetRental(c *gin.Context) {
	rentalId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	s, id := a.session(c)
	var rental *models.Rental
	s.Do(func() {
		if err = a.hydrateRentals(c, s, id.TenantId); err != nil {
			return
		}
		if found, ok := s.Rentals.Get(rentalId); ok {
			rental = found
		} else {
			err = utils.ErrorRecordNotFound
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rental)
}

func (a *API) CreateRental(c *gin.Context) {
	var input models.NewRental
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	s, id := a.session(c)
	if err := input.Validate(c.Request.Context(), id.TenantId, 0); err != nil {
		respondError(c, err)
		return
	}

	rental := models.Rental{
		TenantId:        id.TenantId,
		BranchId:        input.BranchId,
		ContractId:      input.ContractId,
		PropertyAddress: input.PropertyAddress,
		MonthlyRent:     input.MonthlyRent,
		DepositAmount:   input.DepositAmount,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          models.RentalStatusDraft,
		Notes:           input.Notes,
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&rental).Error; err != nil {
		respondError(c, err)
		return
	}
	s.Do(func() {
		if s.Hydrated(models.EntityTypeRental) {
			s.Rentals.Add(&rental)
		}
	})
	c.JSON(http.StatusCreated, rental)
}

func (a *API) TransitionRental(c *gin.Context) {
	rentalId, err := strconv.Atoi(c.Param("id"))
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
		if err = a.hydrateRentals(c, s, id.TenantId); err != nil {
			return
		}
		if err = hydrateLedger(c.Request.Context(), s, id.TenantId, models.EntityTypeRental, rentalId); err != nil {
			return
		}
		entry, err = s.RentalTransitions.Transition(rentalId, req.Status, id.UserId, id.UserName)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := persistTransition[models.Rental](c.Request.Context(), id.TenantId, rentalId, req.Status, entry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (a *API) ListRentalActivities(c *gin.Context) {
	a.listActivities(c, models.EntityTypeRental)
}

func (a *API) AddRentalActivity(c *gin.Context) {
	a.addActivity(c, models.EntityTypeRental)
}
