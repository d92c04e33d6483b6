package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/shopspring/decimal"
)

// Royalty is one royalty statement for a branch and period. Amounts are
// produced by workflow.CalculateRoyalty; the statement moves through
// pending → calculated → invoiced → paid/overdue.
type Royalty struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	TenantId           string          `gorm:"index;not null" json:"tenant_id"`
	BranchId           int             `gorm:"index;not null" json:"branch_id" binding:"required"`
	ContractId         int             `gorm:"index;not null" json:"contract_id" binding:"required"`
	Period             string          `gorm:"size:7;not null" json:"period" binding:"required"` // YYYY-MM
	ReportedGrossSales decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reported_gross_sales"`
	RoyaltyRate        decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"royalty_rate"`
	RoyaltyAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"royalty_amount"`
	MarketingFee       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"marketing_fee"`
	MinimumFee         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"minimum_fee"`
	TotalDue           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_due"`
	PaidAmount         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	DueDate            *time.Time      `gorm:"default:null" json:"due_date"`
	Status             RoyaltyStatus   `gorm:"type:enum('pending','calculated','invoiced','paid','overdue');default:pending" json:"status"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRoyalty struct {
	BranchId           int             `json:"branch_id" binding:"required"`
	ContractId         int             `json:"contract_id" binding:"required"`
	Period             string          `json:"period" binding:"required"`
	ReportedGrossSales decimal.Decimal `json:"reported_gross_sales"`
	DueDate            *time.Time      `json:"due_date"`
}

func (input *NewRoyalty) Validate(ctx context.Context, tenantId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Royalty](ctx, tenantId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Branch](ctx, tenantId, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	if err := utils.ValidateResourceId[Contract](ctx, tenantId, input.ContractId); err != nil {
		return errors.New("contract not found")
	}
	// One statement per branch per period.
	count, err := utils.ResourceCountWhere[Royalty](ctx, tenantId, "branch_id = ? AND period = ? AND NOT id = ?", input.BranchId, input.Period, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("royalty statement already exists for this branch and period")
	}
	return nil
}

func (r *Royalty) GetID() int { return r.ID }
func (r *Royalty) GetStatus() string { return string(r.Status) }
func (r *Royalty) SetStatus(s string) { r.Status = RoyaltyStatus(s) }

// RoyaltyPayment records one payment against a statement. Appending a
// payment also appends a `payment` activity to the statement's ledger.
type RoyaltyPayment struct {
	ID          int             `gorm:"primary_key" json:"id"`
	TenantId    string          `gorm:"index;not null" json:"tenant_id"`
	RoyaltyId   int             `gorm:"index;not null" json:"royalty_id" binding:"required"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount" binding:"required"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date" binding:"required"`
	Method      string          `gorm:"size:50" json:"method"`
	Reference   string          `gorm:"size:100" json:"reference"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewRoyaltyPayment struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate time.Time       `json:"payment_date" binding:"required"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference"`
}
