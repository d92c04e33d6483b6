package workflow

import (
	"context"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PersistTaskStatusChange writes a task status change and the recomputed
// parent fields in one transaction. The in-memory aggregator has already
// validated the change and produced the new progress value; this mirrors
// its result into MySQL so other sessions hydrate consistent state.
func PersistTaskStatusChange(ctx context.Context, logger *logrus.Logger, tenantId string, task *models.OnboardingTask, parent *models.BranchOnboarding) error {
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskUpdates := map[string]interface{}{
			"status":            task.Status,
			"completed_at":      task.CompletedAt,
			"completed_by":      task.CompletedBy,
			"completed_by_name": task.CompletedByName,
		}
		res := tx.Model(&models.OnboardingTask{}).
			Where("tenant_id = ? AND id = ?", tenantId, task.ID).
			Updates(taskUpdates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrorRecordNotFound
		}

		parentUpdates := map[string]interface{}{
			"progress":     parent.Progress,
			"status":       parent.Status,
			"last_updated": parent.LastUpdated,
		}
		return tx.Model(&models.BranchOnboarding{}).
			Where("tenant_id = ? AND id = ?", tenantId, parent.ID).
			Updates(parentUpdates).Error
	})
	if err != nil {
		config.LogError(logger, "onboardingWorkflow.go", "PersistTaskStatusChange", "Transaction", map[string]any{
			"task_id":       task.ID,
			"onboarding_id": parent.ID,
		}, err)
	}
	return err
}

// ApproveApplication promotes an approved branch application into a Branch
// plus its BranchOnboarding record with the standard launch checklist.
func ApproveApplication(ctx context.Context, logger *logrus.Logger, tenantId string, app *models.BranchApplication) (*models.BranchOnboarding, error) {
	db := config.GetDB()
	var onboarding *models.BranchOnboarding
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		branch := models.Branch{
			TenantId:  tenantId,
			Name:      app.CompanyName,
			Address:   app.ProposedLocation,
			City:      app.City,
			Country:   app.Country,
			Latitude:  app.Latitude,
			Longitude: app.Longitude,
			IsActive:  utils.NewFalse(),
		}
		if branch.Name == "" {
			branch.Name = app.ApplicantName
		}
		if err := tx.Create(&branch).Error; err != nil {
			return err
		}

		o := models.BranchOnboarding{
			TenantId:      tenantId,
			BranchId:      branch.ID,
			ApplicationId: app.ID,
			OwnerName:     app.ApplicantName,
			Status:        models.OnboardingStatusPending,
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}

		tasks := defaultOnboardingTasks(tenantId, o.ID)
		if err := tx.Create(&tasks).Error; err != nil {
			return err
		}

		onboarding = &o
		return nil
	})
	if err != nil {
		config.LogError(logger, "onboardingWorkflow.go", "ApproveApplication", "Transaction", app.ID, err)
		return nil, err
	}
	return onboarding, nil
}

// defaultOnboardingTasks is the standard launch checklist.
func defaultOnboardingTasks(tenantId string, onboardingId int) []models.OnboardingTask {
	titles := []string{
		"Sign franchise agreement",
		"Secure premises lease",
		"Complete fit-out and branding",
		"Hire and train staff",
		"Stock initial inventory",
		"Soft launch",
	}
	tasks := make([]models.OnboardingTask, 0, len(titles))
	for i, title := range titles {
		tasks = append(tasks, models.OnboardingTask{
			TenantId:     tenantId,
			OnboardingId: onboardingId,
			Title:        title,
			Status:       models.TaskStatusPending,
			SortOrder:    i + 1,
		})
	}
	return tasks
}
