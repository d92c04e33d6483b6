package models

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/utils"
)

type Branch struct {
	ID        int       `gorm:"primary_key" json:"id"`
	TenantId  string    `gorm:"index;not null" json:"tenant_id"`
	Name      string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Code      string    `gorm:"size:20" json:"code"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	Country   string    `gorm:"size:100" json:"country"`
	Latitude  float64   `gorm:"type:decimal(10,7);default:0" json:"latitude"`
	Longitude float64   `gorm:"type:decimal(10,7);default:0" json:"longitude"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	OpenedAt  *time.Time `gorm:"default:null" json:"opened_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranch struct {
	Name      string     `json:"name" binding:"required"`
	Code      string     `json:"code"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	Country   string     `json:"country"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	OpenedAt  *time.Time `json:"opened_at"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewBranch) Validate(ctx context.Context, tenantId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Branch](ctx, tenantId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Branch](ctx, tenantId, "name", input.Name, id); err != nil {
		return err
	}
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	return nil
}
