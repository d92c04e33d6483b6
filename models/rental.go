package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/shopspring/decimal"
)

type Rental struct {
	ID              int             `gorm:"primary_key" json:"id"`
	TenantId        string          `gorm:"index;not null" json:"tenant_id"`
	BranchId        int             `gorm:"index;not null" json:"branch_id" binding:"required"`
	ContractId      int             `gorm:"index;default:null" json:"contract_id"`
	PropertyAddress string          `gorm:"type:text;not null" json:"property_address" binding:"required"`
	MonthlyRent     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monthly_rent"`
	DepositAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"deposit_amount"`
	StartDate       time.Time       `gorm:"not null" json:"start_date" binding:"required"`
	EndDate         *time.Time      `gorm:"default:null" json:"end_date"`
	Status          RentalStatus    `gorm:"type:enum('draft','active','overdue','terminated','expired');default:draft" json:"status"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRental struct {
	BranchId        int             `json:"branch_id" binding:"required"`
	ContractId      int             `json:"contract_id"`
	PropertyAddress string          `json:"property_address" binding:"required"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent"`
	DepositAmount   decimal.Decimal `json:"deposit_amount"`
	StartDate       time.Time       `json:"start_date" binding:"required"`
	EndDate         *time.Time      `json:"end_date"`
	Notes           string          `json:"notes"`
}

func (input *NewRental) Validate(ctx context.Context, tenantId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Rental](ctx, tenantId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Branch](ctx, tenantId, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	if input.ContractId > 0 {
		if err := utils.ValidateResourceId[Contract](ctx, tenantId, input.ContractId); err != nil {
			return errors.New("contract not found")
		}
	}
	return nil
}

func (r *Rental) GetID() int { return r.ID }
func (r *Rental) GetStatus() string { return string(r.Status) }
func (r *Rental) SetStatus(s string) { r.Status = RentalStatus(s) }
