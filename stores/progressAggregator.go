package stores

import (
	"math"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/sirupsen/logrus"
)

// TaskSet holds each onboarding's task list, keyed by onboarding ID.
type TaskSet struct {
	byOnboarding map[int][]*models.OnboardingTask
}

func NewTaskSet() *TaskSet {
	return &TaskSet{byOnboarding: make(map[int][]*models.OnboardingTask)}
}

func (ts *TaskSet) SetAll(onboardingID int, tasks []*models.OnboardingTask) {
	ts.byOnboarding[onboardingID] = append([]*models.OnboardingTask(nil), tasks...)
}

func (ts *TaskSet) Add(onboardingID int, task *models.OnboardingTask) {
	ts.byOnboarding[onboardingID] = append(ts.byOnboarding[onboardingID], task)
}

func (ts *TaskSet) ListFor(onboardingID int) []*models.OnboardingTask {
	return ts.byOnboarding[onboardingID]
}

func (ts *TaskSet) Get(onboardingID, taskID int) (*models.OnboardingTask, bool) {
	for _, t := range ts.byOnboarding[onboardingID] {
		if t.ID == taskID {
			return t, true
		}
	}
	return nil, false
}

func (ts *TaskSet) Hydrated(onboardingID int) bool {
	_, ok := ts.byOnboarding[onboardingID]
	return ok
}

// ProgressAggregator keeps a BranchOnboarding's progress percentage and
// status consistent with its child tasks. Task completion is silent at the
// parent ledger level: no activity entry is appended here.
type ProgressAggregator struct {
	onboardings *Store[*models.BranchOnboarding]
	tasks       *TaskSet
	enforceDeps bool
	logger      *logrus.Logger
}

func NewProgressAggregator(onboardings *Store[*models.BranchOnboarding], tasks *TaskSet, enforceDeps bool, logger *logrus.Logger) *ProgressAggregator {
	return &ProgressAggregator{
		onboardings: onboardings,
		tasks:       tasks,
		enforceDeps: enforceDeps,
		logger:      logger,
	}
}

// OnTaskStatusChanged patches the task's status, recomputes the parent's
// progress over the full current task list, and promotes the parent: a
// pending parent moves to in_progress on the first task activity, and any
// parent moves to completed at 100%. The parent is never demoted when
// progress later drops below 100 (reopened tasks); that asymmetry is
// deliberate.
func (p *ProgressAggregator) OnTaskStatusChanged(onboardingID, taskID int, newStatus models.TaskStatus, actorID int, actorName string) (int, error) {
	// Resolve the parent first; a missing parent must not leave a
	// half-updated task behind.
	if _, ok := p.onboardings.Get(onboardingID); !ok {
		if p.logger != nil {
			config.LogWarn(p.logger, "stores", "OnTaskStatusChanged", "onboarding not found", map[string]any{
				"onboarding_id": onboardingID,
			})
		}
		return 0, utils.ErrorRecordNotFound
	}
	task, ok := p.tasks.Get(onboardingID, taskID)
	if !ok {
		if p.logger != nil {
			config.LogWarn(p.logger, "stores", "OnTaskStatusChanged", "task not found", map[string]any{
				"onboarding_id": onboardingID,
				"task_id":       taskID,
			})
		}
		return 0, utils.ErrorRecordNotFound
	}

	if !models.TaskStatusRules.IsKnown(string(newStatus)) {
		return 0, utils.ErrorIllegalStatus
	}

	if p.enforceDeps && newStatus == models.TaskStatusCompleted {
		for _, depID := range task.DependencyIDs() {
			dep, found := p.tasks.Get(onboardingID, depID)
			if !found || dep.Status != models.TaskStatusCompleted {
				return 0, utils.ErrorDependencyIncomplete
			}
		}
	}

	now := time.Now()
	task.Status = newStatus
	if newStatus == models.TaskStatusCompleted {
		// Keep the first completion stamp when a completed task is
		// re-completed.
		if task.CompletedAt == nil {
			task.CompletedAt = &now
			task.CompletedBy = actorID
			task.CompletedByName = actorName
		}
	} else {
		task.CompletedAt = nil
		task.CompletedBy = 0
		task.CompletedByName = ""
	}

	progress := p.computeProgress(onboardingID)

	p.onboardings.Patch(onboardingID, func(o *models.BranchOnboarding) {
		o.Progress = progress
		o.LastUpdated = now
		if o.Status == models.OnboardingStatusPending && newStatus != models.TaskStatusPending {
			o.Status = models.OnboardingStatusInProgress
		}
		if progress == 100 {
			o.Status = models.OnboardingStatusCompleted
		}
	})

	return progress, nil
}

// computeProgress returns round(100 * completed / total); zero tasks means
// zero progress, never a division by zero.
func (p *ProgressAggregator) computeProgress(onboardingID int) int {
	tasks := p.tasks.ListFor(onboardingID)
	total := len(tasks)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
