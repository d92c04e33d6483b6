package api

import (
	"fmt"
	"net/http"
	"strconv"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/stores"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"bitbucket.org/fmsdatahub/franchise_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func (a *API) hydrateRoyalties(c *gin.Context, s *stores.Session, tenantId string) error {
	if s.Hydrated(models.EntityTypeRoyalty) {
		return nil
	}
	rows, err := utils.FetchAllModels[models.Royalty](c.Request.Context(), tenantId)
	if err != nil {
		return err
	}
	s.Royalties.SetAll(rows)
	s.MarkHydrated(models.EntityTypeRoyalty)
	return nil
}

func (a *API) ListRoyalties(c *gin.Context) {
	s, id := a.session(c)
	var out []*models.Royalty
	var err error
	s.Do(func() {
		if err = a.hydrateRoyalties(c, s, id.TenantId); err != nil {
			return
		}
		out = s.Royalties.List()
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) GetRoyalty(c *gin.Context) {
	royaltyId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	s, id := a.session(c)
	var royalty *models.Royalty
	s.Do(func() {
		if err = a.hydrateRoyalties(c, s, id.TenantId); err != nil {
			return
		}
		if found, ok := s.Royalties.Get(royaltyId); ok {
			royalty = found
		} else {
			err = utils.ErrorRecordNotFound
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, royalty)
}

func (a *API) CreateRoyalty(c *gin.Context) {
	var input models.NewRoyalty
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	s, id := a.session(c)
	if err := input.Validate(c.Request.Context(), id.TenantId, 0); err != nil {
		respondError(c, err)
		return
	}

	royalty := models.Royalty{
		TenantId:           id.TenantId,
		BranchId:           input.BranchId,
		ContractId:         input.ContractId,
		Period:             input.Period,
		ReportedGrossSales: input.ReportedGrossSales,
		DueDate:            input.DueDate,
		Status:             models.RoyaltyStatusPending,
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&royalty).Error; err != nil {
		respondError(c, err)
		return
	}
	s.Do(func() {
		if s.Hydrated(models.EntityTypeRoyalty) {
			s.Royalties.Add(&royalty)
		}
	})
	c.JSON(http.StatusCreated, royalty)
}

type calculateRequest struct {
	ContractId int             `json:"contract_id" binding:"required"`
	GrossSales decimal.Decimal `json:"gross_sales"`
}

// CalculateRoyaltyPreview runs the fee calculation without persisting,
// backing the statement wizard's review step.
func (a *API) CalculateRoyaltyPreview(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	_, id := a.session(c)
	contract, err := utils.FetchModel[models.Contract](c.Request.Context(), id.TenantId, req.ContractId)
	if err != nil {
		respondError(c, err)
		return
	}

	comp := workflow.CalculateRoyalty(contract, req.GrossSales)
	c.JSON(http.StatusOK, gin.H{
		"royalty_rate":    contract.RoyaltyRate,
		"royalty_amount":  comp.RoyaltyAmount,
		"marketing_fee":   comp.MarketingFee,
		"minimum_fee":     contract.MinimumFee,
		"minimum_applied": comp.MinimumApplied,
		"total_due":       comp.TotalDue,
	})
}

// PostRoyalty calculates and posts a pending statement (pending →
// calculated), then refreshes the session copy.
func (a *API) PostRoyalty(c *gin.Context) {
	royaltyId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	s, id := a.session(c)
	posted, err := workflow.PostRoyaltyStatement(c.Request.Context(), a.Logger, id.TenantId, royaltyId, id.UserId, id.UserName)
	if err != nil {
		respondError(c, err)
		return
	}

	s.Do(func() {
		if !s.Hydrated(models.EntityTypeRoyalty) {
			return
		}
		if found := s.Royalties.Patch(royaltyId, func(r *models.Royalty) {
			*r = *posted
		}); !found {
			s.Royalties.Add(posted)
		}
	})
	c.JSON(http.StatusOK, posted)
}

func (a *API) AddRoyaltyPayment(c *gin.Context) {
	royaltyId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var input models.NewRoyaltyPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}

	s, id := a.session(c)
	payment, err := workflow.ApplyRoyaltyPayment(c.Request.Context(), a.Logger, id.TenantId, royaltyId, input, id.UserId, id.UserName)
	if err != nil {
		respondError(c, err)
		return
	}

	s.Do(func() {
		if !s.Hydrated(models.EntityTypeRoyalty) {
			return
		}
		s.Royalties.Patch(royaltyId, func(r *models.Royalty) {
			r.PaidAmount = r.PaidAmount.Add(payment.Amount)
			if r.TotalDue.IsPositive() && r.PaidAmount.GreaterThanOrEqual(r.TotalDue) {
				r.Status = models.RoyaltyStatusPaid
			}
		})
	})
	c.JSON(http.StatusCreated, payment)
}

func (a *API) TransitionRoyalty(c *gin.Context) {
	royaltyId, err := strconv.Atoi(c.Param("id"))
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
		if err = a.hydrateRoyalties(c, s, id.TenantId); err != nil {
			return
		}
		if err = hydrateLedger(c.Request.Context(), s, id.TenantId, models.EntityTypeRoyalty, royaltyId); err != nil {
			return
		}
		entry, err = s.RoyaltyTransitions.Transition(royaltyId, req.Status, id.UserId, id.UserName)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := persistTransition[models.Royalty](c.Request.Context(), id.TenantId, royaltyId, req.Status, entry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (a *API) ListRoyaltyActivities(c *gin.Context) {
	a.listActivities(c, models.EntityTypeRoyalty)
}

func (a *API) AddRoyaltyActivity(c *gin.Context) {
	a.addActivity(c, models.EntityTypeRoyalty)
}

// ExportRoyalties streams an xlsx statement report, one sheet per branch.
func (a *API) ExportRoyalties(c *gin.Context) {
	_, id := a.session(c)
	ctx, span := a.Tracer.Start(c.Request.Context(), "ExportRoyalties")
	defer span.End()

	royalties, err := utils.FetchAllModels[models.Royalty](ctx, id.TenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	branches, err := utils.FetchAllModels[models.Branch](ctx, id.TenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	branchNames := make(map[int]string, len(branches))
	for _, b := range branches {
		branchNames[b.ID] = b.Name
	}

	byBranch := make(map[int][]*models.Royalty)
	for _, r := range royalties {
		byBranch[r.BranchId] = append(byBranch[r.BranchId], r)
	}

	f := excelize.NewFile()
	defer f.Close()

	header := []string{"Period", "Gross Sales", "Royalty Rate %", "Royalty", "Marketing Fee", "Total Due", "Paid", "Status"}
	first := true
	for branchId, rows := range byBranch {
		sheet := branchNames[branchId]
		if sheet == "" {
			sheet = fmt.Sprintf("Branch %d", branchId)
		}
		if first {
			f.SetSheetName("Sheet1", sheet)
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				respondError(c, err)
				return
			}
		}
		for col, title := range header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cell, title)
		}
		for i, r := range rows {
			values := []interface{}{
				r.Period,
				r.ReportedGrossSales.StringFixed(2),
				r.RoyaltyRate.StringFixed(2),
				r.RoyaltyAmount.StringFixed(2),
				r.MarketingFee.StringFixed(2),
				r.TotalDue.StringFixed(2),
				r.PaidAmount.StringFixed(2),
				string(r.Status),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
				f.SetCellValue(sheet, cell, v)
			}
		}
	}

	c.Header("Content-Disposition", `attachment; filename="royalty_statements.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		config.LogError(a.Logger, "royalty.go", "ExportRoyalties", "excelize.Write", id.TenantId, err)
	}
}
