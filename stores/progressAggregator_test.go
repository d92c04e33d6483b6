package stores

import (
	"testing"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
)

func newOnboardingFixture(enforceDeps bool, taskCount int) (*Store[*models.BranchOnboarding], *TaskSet, *ProgressAggregator) {
	onboardings := NewStore[*models.BranchOnboarding]()
	onboardings.Add(&models.BranchOnboarding{ID: 1, Status: models.OnboardingStatusInProgress})

	tasks := NewTaskSet()
	list := make([]*models.OnboardingTask, 0, taskCount)
	for i := 1; i <= taskCount; i++ {
		list = append(list, &models.OnboardingTask{ID: i, OnboardingId: 1, Status: models.TaskStatusPending})
	}
	tasks.SetAll(1, list)

	agg := NewProgressAggregator(onboardings, tasks, enforceDeps, nil)
	return onboardings, tasks, agg
}

func TestProgress_QuarterSteps(t *testing.T) {
	onboardings, _, agg := newOnboardingFixture(false, 4)

	progress, err := agg.OnTaskStatusChanged(1, 1, models.TaskStatusCompleted, 7, "Ada")
	if err != nil {
		t.Fatalf("task completion failed: %v", err)
	}
	if progress != 25 {
		t.Fatalf("expected progress 25, got %d", progress)
	}
	o, _ := onboardings.Get(1)
	if o.Progress != 25 {
		t.Fatalf("parent progress not patched: %d", o.Progress)
	}
	if o.Status != models.OnboardingStatusInProgress {
		t.Fatalf("parent status changed prematurely: %v", o.Status)
	}
}

func TestProgress_Idempotent(t *testing.T) {
	_, _, agg := newOnboardingFixture(false, 4)

	first, err := agg.OnTaskStatusChanged(1, 1, models.TaskStatusCompleted, 7, "Ada")
	if err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	second, err := agg.OnTaskStatusChanged(1, 1, models.TaskStatusCompleted, 7, "Ada")
	if err != nil {
		t.Fatalf("second completion failed: %v", err)
	}
	if first != 25 || second != 25 {
		t.Fatalf("expected 25/25, got %d/%d", first, second)
	}
}

func TestProgress_ZeroTasksIsZeroNotPanic(t *testing.T) {
	onboardings := NewStore[*models.BranchOnboarding]()
	onboardings.Add(&models.BranchOnboarding{ID: 1, Status: models.OnboardingStatusPending})
	tasks := NewTaskSet()
	tasks.SetAll(1, nil)
	agg := NewProgressAggregator(onboardings, tasks, false, nil)

	if got := agg.computeProgress(1); got != 0 {
		t.Fatalf("expected 0 progress for zero tasks, got %d", got)
	}
}

func TestProgress_CompletionPromotesParent(t *testing.T) {
	onboardings, _, agg := newOnboardingFixture(false, 4)

	for i := 1; i <= 3; i++ {
		if _, err := agg.OnTaskStatusChanged(1, i, models.TaskStatusCompleted, 7, "Ada"); err != nil {
			t.Fatalf("task %d completion failed: %v", i, err)
		}
	}
	o, _ := onboardings.Get(1)
	if o.Progress != 75 || o.Status != models.OnboardingStatusInProgress {
		t.Fatalf("expected 75/in_progress before final task, got %d/%v", o.Progress, o.Status)
	}

	progress, err := agg.OnTaskStatusChanged(1, 4, models.TaskStatusCompleted, 7, "Ada")
	if err != nil {
		t.Fatalf("final task completion failed: %v", err)
	}
	if progress != 100 {
		t.Fatalf("expected progress 100, got %d", progress)
	}
	o, _ = onboardings.Get(1)
	if o.Status != models.OnboardingStatusCompleted {
		t.Fatalf("parent not promoted to completed: %v", o.Status)
	}
}

func TestProgress_NoDemotionAfterReopen(t *testing.T) {
	onboardings, _, agg := newOnboardingFixture(false, 2)

	agg.OnTaskStatusChanged(1, 1, models.TaskStatusCompleted, 7, "Ada")
	agg.OnTaskStatusChanged(1, 2, models.TaskStatusCompleted, 7, "Ada")

	// Reopen one task: progress drops, the parent stays completed.
	progress, err := agg.OnTaskStatusChanged(1, 2, models.TaskStatusInProgress, 7, "Ada")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if progress != 50 {
		t.Fatalf("expected progress 50 after reopen, got %d", progress)
	}
	o, _ := onboardings.Get(1)
	if o.Status != models.OnboardingStatusCompleted {
		t.Fatalf("parent demoted on reopen: %v", o.Status)
	}
}

func TestProgress_FirstTaskActivityPromotesPendingParent(t *testing.T) {
	onboardings := NewStore[*models.BranchOnboarding]()
	onboardings.Add(&models.BranchOnboarding{ID: 1, Status: models.OnboardingStatusPending})
	tasks := NewTaskSet()
	tasks.SetAll(1, []*models.OnboardingTask{
		{ID: 1, OnboardingId: 1, Status: models.TaskStatusPending},
		{ID: 2, OnboardingId: 1, Status: models.TaskStatusPending},
	})
	agg := NewProgressAggregator(onboardings, tasks, false, nil)

	if _, err := agg.OnTaskStatusChanged(1, 1, models.TaskStatusInProgress, 7, "Ada"); err != nil {
		t.Fatalf("task start failed: %v", err)
	}
	o, _ := onboardings.Get(1)
	if o.Status != models.OnboardingStatusInProgress {
		t.Fatalf("pending parent not promoted on first task activity: %v", o.Status)
	}
	if o.Progress != 0 {
		t.Fatalf("expected progress 0 with no completed tasks, got %d", o.Progress)
	}
}

func TestProgress_MissingParentLeavesTaskUntouched(t *testing.T) {
	onboardings := NewStore[*models.BranchOnboarding]()
	tasks := NewTaskSet()
	tasks.SetAll(1, []*models.OnboardingTask{
		{ID: 1, OnboardingId: 1, Status: models.TaskStatusPending},
	})
	agg := NewProgressAggregator(onboardings, tasks, false, nil)

	if _, err := agg.OnTaskStatusChanged(1, 1, models.TaskStatusCompleted, 7, "Ada"); err != utils.ErrorRecordNotFound {
		t.Fatalf("expected ErrorRecordNotFound, got %v", err)
	}
	task, _ := tasks.Get(1, 1)
	if task.Status != models.TaskStatusPending || task.CompletedAt != nil {
		t.Fatalf("task mutated despite missing parent: %+v", task)
	}
}

func TestProgress_MissingTaskIsNoOp(t *testing.T) {
	onboardings, _, agg := newOnboardingFixture(false, 2)

	if _, err := agg.OnTaskStatusChanged(1, 99, models.TaskStatusCompleted, 7, "Ada"); err != utils.ErrorRecordNotFound {
		t.Fatalf("expected ErrorRecordNotFound, got %v", err)
	}
	o, _ := onboardings.Get(1)
	if o.Progress != 0 {
		t.Fatalf("parent progress changed on missing task: %d", o.Progress)
	}
}

func TestProgress_CompletionStampSetAndCleared(t *testing.T) {
	_, tasks, agg := newOnboardingFixture(false, 2)

	agg.OnTaskStatusChanged(1, 1, models.TaskStatusCompleted, 7, "Ada")
	task, _ := tasks.Get(1, 1)
	if task.CompletedAt == nil || task.CompletedBy != 7 || task.CompletedByName != "Ada" {
		t.Fatalf("completion stamp missing: %+v", task)
	}
	firstStamp := *task.CompletedAt

	// Re-completing keeps the original stamp.
	agg.OnTaskStatusChanged(1, 1, models.TaskStatusCompleted, 9, "Bob")
	task, _ = tasks.Get(1, 1)
	if task.CompletedBy != 7 || !task.CompletedAt.Equal(firstStamp) {
		t.Fatalf("completion stamp overwritten on re-complete: %+v", task)
	}

	// Reopening clears it.
	agg.OnTaskStatusChanged(1, 1, models.TaskStatusPending, 7, "Ada")
	task, _ = tasks.Get(1, 1)
	if task.CompletedAt != nil || task.CompletedBy != 0 {
		t.Fatalf("completion stamp not cleared on reopen: %+v", task)
	}
}

func TestProgress_DependencyEnforcement(t *testing.T) {
	onboardings := NewStore[*models.BranchOnboarding]()
	onboardings.Add(&models.BranchOnboarding{ID: 1, Status: models.OnboardingStatusInProgress})
	tasks := NewTaskSet()
	tasks.SetAll(1, []*models.OnboardingTask{
		{ID: 1, OnboardingId: 1, Status: models.TaskStatusPending},
		{ID: 2, OnboardingId: 1, Status: models.TaskStatusPending, Dependencies: models.EncodeDependencyIDs([]int{1})},
	})
	agg := NewProgressAggregator(onboardings, tasks, true, nil)

	if _, err := agg.OnTaskStatusChanged(1, 2, models.TaskStatusCompleted, 7, "Ada"); err != utils.ErrorDependencyIncomplete {
		t.Fatalf("expected ErrorDependencyIncomplete, got %v", err)
	}

	if _, err := agg.OnTaskStatusChanged(1, 1, models.TaskStatusCompleted, 7, "Ada"); err != nil {
		t.Fatalf("dependency completion failed: %v", err)
	}
	progress, err := agg.OnTaskStatusChanged(1, 2, models.TaskStatusCompleted, 7, "Ada")
	if err != nil {
		t.Fatalf("dependent completion failed after dependency done: %v", err)
	}
	if progress != 100 {
		t.Fatalf("expected 100, got %d", progress)
	}
}

func TestProgress_DependenciesAreMetadataByDefault(t *testing.T) {
	onboardings := NewStore[*models.BranchOnboarding]()
	onboardings.Add(&models.BranchOnboarding{ID: 1, Status: models.OnboardingStatusInProgress})
	tasks := NewTaskSet()
	tasks.SetAll(1, []*models.OnboardingTask{
		{ID: 1, OnboardingId: 1, Status: models.TaskStatusPending},
		{ID: 2, OnboardingId: 1, Status: models.TaskStatusPending, Dependencies: models.EncodeDependencyIDs([]int{1})},
	})
	agg := NewProgressAggregator(onboardings, tasks, false, nil)

	// Declared dependencies do not block completion when enforcement is off.
	if _, err := agg.OnTaskStatusChanged(1, 2, models.TaskStatusCompleted, 7, "Ada"); err != nil {
		t.Fatalf("expected unenforced completion to succeed, got %v", err)
	}
}
