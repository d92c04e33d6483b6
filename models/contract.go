package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/shopspring/decimal"
)

type Contract struct {
	ID               int             `gorm:"primary_key" json:"id"`
	TenantId         string          `gorm:"index;not null" json:"tenant_id"`
	BranchId         int             `gorm:"index;not null" json:"branch_id" binding:"required"`
	ContractNumber   string          `gorm:"size:100;not null" json:"contract_number" binding:"required"`
	FranchiseeName   string          `gorm:"size:100;not null" json:"franchisee_name" binding:"required"`
	StartDate        time.Time       `gorm:"not null" json:"start_date" binding:"required"`
	EndDate          *time.Time      `gorm:"default:null" json:"end_date"`
	RoyaltyRate      decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"royalty_rate"`
	MarketingFeeRate decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"marketing_fee_rate"`
	MinimumFee       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"minimum_fee"`
	Status           ContractStatus  `gorm:"type:enum('draft','pending_approval','approved','active','terminated','expired');default:draft" json:"status"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewContract struct {
	BranchId         int             `json:"branch_id" binding:"required"`
	ContractNumber   string          `json:"contract_number" binding:"required"`
	FranchiseeName   string          `json:"franchisee_name" binding:"required"`
	StartDate        time.Time       `json:"start_date" binding:"required"`
	EndDate          *time.Time      `json:"end_date"`
	RoyaltyRate      decimal.Decimal `json:"royalty_rate"`
	MarketingFeeRate decimal.Decimal `json:"marketing_fee_rate"`
	MinimumFee       decimal.Decimal `json:"minimum_fee"`
	Notes            string          `json:"notes"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewContract) Validate(ctx context.Context, tenantId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Contract](ctx, tenantId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Contract](ctx, tenantId, "contract_number", input.ContractNumber, id); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Branch](ctx, tenantId, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return errors.New("end_date before start_date")
	}
	return nil
}

func (c *Contract) GetID() int { return c.ID }
func (c *Contract) GetStatus() string { return string(c.Status) }
func (c *Contract) SetStatus(s string) { c.Status = ContractStatus(s) }
