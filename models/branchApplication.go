package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/utils"
)

// BranchApplication is a prospective franchisee's application. An approved
// application seeds a Branch plus a BranchOnboarding record.
type BranchApplication struct {
	ID               int               `gorm:"primary_key" json:"id"`
	TenantId         string            `gorm:"index;not null" json:"tenant_id"`
	ApplicantName    string            `gorm:"size:100;not null" json:"applicant_name" binding:"required"`
	Email            string            `gorm:"size:255;not null" json:"email" binding:"required"`
	Phone            string            `gorm:"size:20" json:"phone"`
	CompanyName      string            `gorm:"size:100" json:"company_name"`
	ProposedLocation string            `gorm:"type:text" json:"proposed_location"`
	City             string            `gorm:"size:100" json:"city"`
	Country          string            `gorm:"size:100" json:"country"`
	Latitude         float64           `gorm:"type:decimal(10,7);default:0" json:"latitude"`
	Longitude        float64           `gorm:"type:decimal(10,7);default:0" json:"longitude"`
	Status           ApplicationStatus `gorm:"type:enum('submitted','under_review','approved','rejected');default:submitted" json:"status"`
	ReviewNotes      string            `gorm:"type:text" json:"review_notes"`
	DecidedBy        int               `gorm:"default:null" json:"decided_by,omitempty"`
	DecidedAt        *time.Time        `gorm:"default:null" json:"decided_at,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranchApplication struct {
	ApplicantName    string  `json:"applicant_name" binding:"required"`
	Email            string  `json:"email" binding:"required"`
	Phone            string  `json:"phone"`
	CompanyName      string  `json:"company_name"`
	ProposedLocation string  `json:"proposed_location"`
	City             string  `json:"city"`
	Country          string  `json:"country"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

func (input *NewBranchApplication) Validate(ctx context.Context, tenantId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[BranchApplication](ctx, tenantId, id); err != nil {
			return err
		}
	}
	if !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	return nil
}
