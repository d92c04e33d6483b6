package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/utils"
)

// BranchOnboarding tracks a new branch through its launch checklist.
// Progress is the rounded percentage of completed tasks; the entity is
// promoted to completed when progress reaches 100 and is never demoted
// automatically after that.
type BranchOnboarding struct {
	ID            int              `gorm:"primary_key" json:"id"`
	TenantId      string           `gorm:"index;not null" json:"tenant_id"`
	BranchId      int              `gorm:"index;not null" json:"branch_id" binding:"required"`
	ApplicationId int              `gorm:"index;default:null" json:"application_id"`
	OwnerName     string           `gorm:"size:100" json:"owner_name"`
	Progress      int              `gorm:"default:0" json:"progress"`
	Status        OnboardingStatus `gorm:"type:enum('pending','in_progress','completed','on_hold');default:pending" json:"status"`
	TargetDate    *time.Time       `gorm:"default:null" json:"target_date"`
	LastUpdated   time.Time        `json:"last_updated"`
	Tasks         []OnboardingTask `gorm:"foreignKey:OnboardingId" json:"tasks,omitempty"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranchOnboarding struct {
	BranchId      int        `json:"branch_id" binding:"required"`
	ApplicationId int        `json:"application_id"`
	OwnerName     string     `json:"owner_name"`
	TargetDate    *time.Time `json:"target_date"`
}

func (input *NewBranchOnboarding) Validate(ctx context.Context, tenantId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[BranchOnboarding](ctx, tenantId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Branch](ctx, tenantId, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	return nil
}

func (o *BranchOnboarding) GetID() int { return o.ID }
func (o *BranchOnboarding) GetStatus() string { return string(o.Status) }
func (o *BranchOnboarding) SetStatus(s string) { o.Status = OnboardingStatus(s) }

// OnboardingTask belongs to exactly one BranchOnboarding. Its status is
// independent of the parent's. Dependencies holds a JSON array of task IDs;
// by default it is pure metadata, enforced only when the
// ONBOARDING_ENFORCE_TASK_DEPENDENCIES flag is on.
type OnboardingTask struct {
	ID              int        `gorm:"primary_key" json:"id"`
	TenantId        string     `gorm:"index;not null" json:"tenant_id"`
	OnboardingId    int        `gorm:"index;not null" json:"onboarding_id" binding:"required"`
	Title           string     `gorm:"size:255;not null" json:"title" binding:"required"`
	Description     string     `gorm:"type:text" json:"description"`
	Status          TaskStatus `gorm:"type:enum('pending','in_progress','completed');default:pending" json:"status"`
	Dependencies    string     `gorm:"type:text" json:"dependencies,omitempty"` // JSON array of task IDs
	SortOrder       int        `gorm:"default:0" json:"sort_order"`
	CompletedAt     *time.Time `gorm:"default:null" json:"completed_at,omitempty"`
	CompletedBy     int        `gorm:"default:null" json:"completed_by,omitempty"`
	CompletedByName string     `gorm:"size:100" json:"completed_by_name,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOnboardingTask struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Dependencies []int  `json:"dependencies"`
	SortOrder    int    `json:"sort_order"`
}

// DependencyIDs decodes the Dependencies column. A missing or malformed
// value reads as no dependencies.
func (t *OnboardingTask) DependencyIDs() []int {
	if t.Dependencies == "" {
		return nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(t.Dependencies), &ids); err != nil {
		return nil
	}
	return ids
}

func EncodeDependencyIDs(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return ""
	}
	return string(b)
}
