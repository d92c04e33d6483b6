package api

import (
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/stores"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"bitbucket.org/fmsdatahub/franchise_backend/workflow"
	"github.com/gin-gonic/gin"
)

func (a *API) hydrateOnboardings(c *gin.Context, s *stores.Session, tenantId string) error {
	if s.Hydrated(models.EntityTypeOnboarding) {
		return nil
	}
	rows, err := utils.FetchAllModels[models.BranchOnboarding](c.Request.Context(), tenantId)
	if err != nil {
		return err
	}
	s.Onboardings.SetAll(rows)
	s.MarkHydrated(models.EntityTypeOnboarding)
	return nil
}

func (a *API) hydrateTasks(c *gin.Context, s *stores.Session, tenantId string, onboardingId int) error {
	if s.Tasks.Hydrated(onboardingId) {
		return nil
	}
	rows, err := utils.FetchModelsWhere[models.OnboardingTask](c.Request.Context(), tenantId, "onboarding_id = ?", onboardingId)
	if err != nil {
		return err
	}
	s.Tasks.SetAll(onboardingId, rows)
	return nil
}

func (a *API) ListOnboardings(c *gin.Context) {
	s, id := a.session(c)
	var out []*models.BranchOnboarding
	var err error
	s.Do(func() {
		if err = a.hydrateOnboardings(c, s, id.TenantId); err != nil {
			return
		}
		out = s.Onboardings.List()
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) GetOnboarding(c *gin.Context) {
	onboardingId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	s, id := a.session(c)
	var onboarding *models.BranchOnboarding
	s.Do(func() {
		if err = a.hydrateOnboardings(c, s, id.TenantId); err != nil {
			return
		}
		if err = a.hydrateTasks(c, s, id.TenantId, onboardingId); err != nil {
			return
		}
		found, ok := s.Onboardings.Get(onboardingId)
		if !ok {
			err = utils.ErrorRecordNotFound
			return
		}
		// Shallow copy so attaching tasks never mutates the store's entity.
		o := *found
		for _, t := range s.Tasks.ListFor(onboardingId) {
			o.Tasks = append(o.Tasks, *t)
		}
		onboarding = &o
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, onboarding)
}

func (a *API) CreateOnboarding(c *gin.Context) {
	var input models.NewBranchOnboarding
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	s, id := a.session(c)
	if err := input.Validate(c.Request.Context(), id.TenantId, 0); err != nil {
		respondError(c, err)
		return
	}

	onboarding := models.BranchOnboarding{
		TenantId:      id.TenantId,
		BranchId:      input.BranchId,
		ApplicationId: input.ApplicationId,
		OwnerName:     input.OwnerName,
		TargetDate:    input.TargetDate,
		Status:        models.OnboardingStatusPending,
		LastUpdated:   time.Now(),
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&onboarding).Error; err != nil {
		respondError(c, err)
		return
	}
	s.Do(func() {
		if s.Hydrated(models.EntityTypeOnboarding) {
			s.Onboardings.Add(&onboarding)
		}
	})
	c.JSON(http.StatusCreated, onboarding)
}

func (a *API) TransitionOnboarding(c *gin.Context) {
	onboardingId, err := strconv.Atoi(c.Param("id"))
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
		if err = a.hydrateOnboardings(c, s, id.TenantId); err != nil {
			return
		}
		if err = hydrateLedger(c.Request.Context(), s, id.TenantId, models.EntityTypeOnboarding, onboardingId); err != nil {
			return
		}
		entry, err = s.OnboardingTransitions.Transition(onboardingId, req.Status, id.UserId, id.UserName)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := persistTransition[models.BranchOnboarding](c.Request.Context(), id.TenantId, onboardingId, req.Status, entry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (a *API) ListOnboardingActivities(c *gin.Context) {
	a.listActivities(c, models.EntityTypeOnboarding)
}

func (a *API) AddOnboardingActivity(c *gin.Context) {
	a.addActivity(c, models.EntityTypeOnboarding)
}

func (a *API) ListOnboardingTasks(c *gin.Context) {
	onboardingId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	s, id := a.session(c)
	if err := utils.ValidateResourceId[models.BranchOnboarding](c.Request.Context(), id.TenantId, onboardingId); err != nil {
		respondError(c, err)
		return
	}
	var out []*models.OnboardingTask
	s.Do(func() {
		if err = a.hydrateTasks(c, s, id.TenantId, onboardingId); err != nil {
			return
		}
		out = s.Tasks.ListFor(onboardingId)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) AddOnboardingTask(c *gin.Context) {
	onboardingId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var input models.NewOnboardingTask
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}
	s, id := a.session(c)
	if err := utils.ValidateResourceId[models.BranchOnboarding](c.Request.Context(), id.TenantId, onboardingId); err != nil {
		respondError(c, err)
		return
	}

	task := models.OnboardingTask{
		TenantId:     id.TenantId,
		OnboardingId: onboardingId,
		Title:        input.Title,
		Description:  input.Description,
		Status:       models.TaskStatusPending,
		Dependencies: models.EncodeDependencyIDs(input.Dependencies),
		SortOrder:    input.SortOrder,
	}
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&task).Error; err != nil {
		respondError(c, err)
		return
	}
	s.Do(func() {
		if s.Tasks.Hydrated(onboardingId) {
			s.Tasks.Add(onboardingId, &task)
		}
	})
	c.JSON(http.StatusCreated, task)
}

type taskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeTaskStatus runs the in-memory progress aggregation (task patch,
// progress recompute, parent promotion) and then persists the task row plus
// the recomputed parent fields together.
func (a *API) ChangeTaskStatus(c *gin.Context) {
	onboardingId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	taskId, err := strconv.Atoi(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	var req taskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
		return
	}

	s, id := a.session(c)
	var (
		progress int
		task     *models.OnboardingTask
		parent   *models.BranchOnboarding
	)
	s.Do(func() {
		if err = a.hydrateOnboardings(c, s, id.TenantId); err != nil {
			return
		}
		if err = a.hydrateTasks(c, s, id.TenantId, onboardingId); err != nil {
			return
		}
		progress, err = s.Progress.OnTaskStatusChanged(onboardingId, taskId, models.TaskStatus(req.Status), id.UserId, id.UserName)
		if err != nil {
			return
		}
		task, _ = s.Tasks.Get(onboardingId, taskId)
		parent, _ = s.Onboardings.Get(onboardingId)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if task == nil || parent == nil {
		respondError(c, utils.ErrorRecordNotFound)
		return
	}

	if err := workflow.PersistTaskStatusChange(c.Request.Context(), a.Logger, id.TenantId, task, parent); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task":     task,
		"progress": progress,
		"status":   parent.Status,
	})
}
