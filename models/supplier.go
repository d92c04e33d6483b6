package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/shopspring/decimal"
)

type Supplier struct {
	ID          int       `gorm:"primary_key" json:"id"`
	TenantId    string    `gorm:"index;not null" json:"tenant_id"`
	Name        string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ContactName string    `gorm:"size:100" json:"contact_name"`
	Email       string    `gorm:"size:255" json:"email"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Category    string    `gorm:"size:100" json:"category"`
	IsActive    *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Category    string `json:"category"`
}

func (input *NewSupplier) Validate(ctx context.Context, tenantId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Supplier](ctx, tenantId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Supplier](ctx, tenantId, "name", input.Name, id); err != nil {
		return err
	}
	if len(strings.TrimSpace(input.Email)) > 0 && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	return nil
}

// SupplierContract covers network-wide supply agreements (BranchId = 0) and
// branch-specific ones.
type SupplierContract struct {
	ID          int             `gorm:"primary_key" json:"id"`
	TenantId    string          `gorm:"index;not null" json:"tenant_id"`
	SupplierId  int             `gorm:"index;not null" json:"supplier_id" binding:"required"`
	BranchId    int             `gorm:"index;default:null" json:"branch_id"`
	Title       string          `gorm:"size:255;not null" json:"title" binding:"required"`
	Terms       string          `gorm:"type:text" json:"terms"`
	AnnualValue decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"annual_value"`
	StartDate   time.Time       `gorm:"not null" json:"start_date" binding:"required"`
	EndDate     *time.Time      `gorm:"default:null" json:"end_date"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplierContract struct {
	SupplierId  int             `json:"supplier_id" binding:"required"`
	BranchId    int             `json:"branch_id"`
	Title       string          `json:"title" binding:"required"`
	Terms       string          `json:"terms"`
	AnnualValue decimal.Decimal `json:"annual_value"`
	StartDate   time.Time       `json:"start_date" binding:"required"`
	EndDate     *time.Time      `json:"end_date"`
}

func (input *NewSupplierContract) Validate(ctx context.Context, tenantId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[SupplierContract](ctx, tenantId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Supplier](ctx, tenantId, input.SupplierId); err != nil {
		return errors.New("supplier not found")
	}
	if input.BranchId > 0 {
		if err := utils.ValidateResourceId[Branch](ctx, tenantId, input.BranchId); err != nil {
			return errors.New("branch not found")
		}
	}
	return nil
}
