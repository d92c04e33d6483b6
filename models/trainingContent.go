package models

import (
	"context"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/utils"
)

type TrainingContent struct {
	ID              int        `gorm:"primary_key" json:"id"`
	TenantId        string     `gorm:"index;not null" json:"tenant_id"`
	Title           string     `gorm:"size:255;not null" json:"title" binding:"required"`
	Category        string     `gorm:"size:100" json:"category"`
	Description     string     `gorm:"type:text" json:"description"`
	ContentURL      string     `gorm:"size:500" json:"content_url"`
	ThumbnailURL    string     `gorm:"size:500" json:"thumbnail_url"`
	DurationMinutes int        `gorm:"default:0" json:"duration_minutes"`
	IsPublished     *bool      `gorm:"not null;default:false" json:"is_published"`
	PublishedAt     *time.Time `gorm:"default:null" json:"published_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTrainingContent struct {
	Title           string `json:"title" binding:"required"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	ContentURL      string `json:"content_url"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (input *NewTrainingContent) Validate(ctx context.Context, tenantId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[TrainingContent](ctx, tenantId, id); err != nil {
			return err
		}
	}
	return utils.ValidateUnique[TrainingContent](ctx, tenantId, "title", input.Title, id)
}
