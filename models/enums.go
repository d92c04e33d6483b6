package models

// Status enumerations for the four lifecycle modules. Every entity always
// carries one of its module's declared values; the adjacency maps below are
// only consulted when config.StrictStatusTransitions() is on.

type ContractStatus string

const (
	ContractStatusDraft           ContractStatus = "draft"
	ContractStatusPendingApproval ContractStatus = "pending_approval"
	ContractStatusApproved        ContractStatus = "approved"
	ContractStatusActive          ContractStatus = "active"
	ContractStatusTerminated      ContractStatus = "terminated"
	ContractStatusExpired         ContractStatus = "expired"
)

type RentalStatus string

const (
	RentalStatusDraft      RentalStatus = "draft"
	RentalStatusActive     RentalStatus = "active"
	RentalStatusOverdue    RentalStatus = "overdue"
	RentalStatusTerminated RentalStatus = "terminated"
	RentalStatusExpired    RentalStatus = "expired"
)

type RoyaltyStatus string

const (
	RoyaltyStatusPending    RoyaltyStatus = "pending"
	RoyaltyStatusCalculated RoyaltyStatus = "calculated"
	RoyaltyStatusInvoiced   RoyaltyStatus = "invoiced"
	RoyaltyStatusPaid       RoyaltyStatus = "paid"
	RoyaltyStatusOverdue    RoyaltyStatus = "overdue"
)

type OnboardingStatus string

const (
	OnboardingStatusPending    OnboardingStatus = "pending"
	OnboardingStatusInProgress OnboardingStatus = "in_progress"
	OnboardingStatusCompleted  OnboardingStatus = "completed"
	OnboardingStatusOnHold     OnboardingStatus = "on_hold"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type ApplicationStatus string

const (
	ApplicationStatusSubmitted    ApplicationStatus = "submitted"
	ApplicationStatusUnderReview  ApplicationStatus = "under_review"
	ApplicationStatusApproved     ApplicationStatus = "approved"
	ApplicationStatusRejected     ApplicationStatus = "rejected"
)

type ActivityType string

const (
	ActivityTypeStatusChange ActivityType = "status_change"
	ActivityTypeComment      ActivityType = "comment"
	ActivityTypeFileUpload   ActivityType = "file_upload"
	ActivityTypePayment      ActivityType = "payment"
	ActivityTypeMeeting      ActivityType = "meeting"
	ActivityTypeOther        ActivityType = "other"
)

// EntityType names the lifecycle module an activity or outbox row belongs to.
type EntityType string

const (
	EntityTypeContract   EntityType = "CONTRACT"
	EntityTypeRental     EntityType = "RENTAL"
	EntityTypeRoyalty    EntityType = "ROYALTY"
	EntityTypeOnboarding EntityType = "ONBOARDING"
)

// StatusRuleSet declares a module's status universe and its legal-transition
// graph. Known membership is always enforced (an entity never holds a value
// outside its enumeration); Allowed edges only when strict transitions are on.
type StatusRuleSet struct {
	Known   map[string]bool
	Allowed map[string][]string
}

func (r StatusRuleSet) IsKnown(status string) bool {
	return r.Known[status]
}

func (r StatusRuleSet) CanTransition(from, to string) bool {
	for _, next := range r.Allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ruleSet(edges map[string][]string) StatusRuleSet {
	known := make(map[string]bool, len(edges))
	for from, tos := range edges {
		known[from] = true
		for _, to := range tos {
			known[to] = true
		}
	}
	return StatusRuleSet{Known: known, Allowed: edges}
}

var (
	ContractStatusRules = ruleSet(map[string][]string{
		string(ContractStatusDraft):           {string(ContractStatusPendingApproval)},
		string(ContractStatusPendingApproval): {string(ContractStatusApproved), string(ContractStatusDraft)},
		string(ContractStatusApproved):        {string(ContractStatusActive), string(ContractStatusTerminated)},
		string(ContractStatusActive):          {string(ContractStatusTerminated), string(ContractStatusExpired)},
		string(ContractStatusTerminated):      {},
		string(ContractStatusExpired):         {},
	})

	RentalStatusRules = ruleSet(map[string][]string{
		string(RentalStatusDraft):      {string(RentalStatusActive)},
		string(RentalStatusActive):     {string(RentalStatusOverdue), string(RentalStatusTerminated), string(RentalStatusExpired)},
		string(RentalStatusOverdue):    {string(RentalStatusActive), string(RentalStatusTerminated)},
		string(RentalStatusTerminated): {},
		string(RentalStatusExpired):    {},
	})

	RoyaltyStatusRules = ruleSet(map[string][]string{
		string(RoyaltyStatusPending):    {string(RoyaltyStatusCalculated)},
		string(RoyaltyStatusCalculated): {string(RoyaltyStatusInvoiced), string(RoyaltyStatusPending)},
		string(RoyaltyStatusInvoiced):   {string(RoyaltyStatusPaid), string(RoyaltyStatusOverdue)},
		string(RoyaltyStatusOverdue):    {string(RoyaltyStatusPaid)},
		string(RoyaltyStatusPaid):       {},
	})

	OnboardingStatusRules = ruleSet(map[string][]string{
		string(OnboardingStatusPending):    {string(OnboardingStatusInProgress), string(OnboardingStatusOnHold)},
		string(OnboardingStatusInProgress): {string(OnboardingStatusCompleted), string(OnboardingStatusOnHold)},
		string(OnboardingStatusOnHold):     {string(OnboardingStatusPending), string(OnboardingStatusInProgress)},
		string(OnboardingStatusCompleted):  {},
	})

	// Completed tasks may be reopened; the parent entity is never demoted
	// when that happens (see ProgressAggregator).
	TaskStatusRules = ruleSet(map[string][]string{
		string(TaskStatusPending):    {string(TaskStatusInProgress), string(TaskStatusCompleted)},
		string(TaskStatusInProgress): {string(TaskStatusCompleted), string(TaskStatusPending)},
		string(TaskStatusCompleted):  {string(TaskStatusInProgress), string(TaskStatusPending)},
	})

	ApplicationStatusRules = ruleSet(map[string][]string{
		string(ApplicationStatusSubmitted):   {string(ApplicationStatusUnderReview)},
		string(ApplicationStatusUnderReview): {string(ApplicationStatusApproved), string(ApplicationStatusRejected)},
		string(ApplicationStatusApproved):    {},
		string(ApplicationStatusRejected):    {},
	})
)

// StatusRulesFor returns the rule set for a lifecycle module.
func StatusRulesFor(entityType EntityType) (StatusRuleSet, bool) {
	switch entityType {
	case EntityTypeContract:
		return ContractStatusRules, true
	case EntityTypeRental:
		return RentalStatusRules, true
	case EntityTypeRoyalty:
		return RoyaltyStatusRules, true
	case EntityTypeOnboarding:
		return OnboardingStatusRules, true
	}
	return StatusRuleSet{}, false
}
