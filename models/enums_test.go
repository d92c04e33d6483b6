package models

import "testing"

func TestStatusRuleSet_IsKnown(t *testing.T) {
	for _, status := range []string{"draft", "pending_approval", "approved", "active", "terminated", "expired"} {
		if !ContractStatusRules.IsKnown(status) {
			t.Fatalf("expected %q to be a known contract status", status)
		}
	}
	if ContractStatusRules.IsKnown("archived") {
		t.Fatal("archived must not be a known contract status")
	}
	if ContractStatusRules.IsKnown("") {
		t.Fatal("empty string must not be a known status")
	}
}

func TestStatusRuleSet_CanTransition(t *testing.T) {
	cases := []struct {
		rules StatusRuleSet
		from  string
		to    string
		want  bool
	}{
		{ContractStatusRules, "draft", "pending_approval", true},
		{ContractStatusRules, "pending_approval", "draft", true},
		{ContractStatusRules, "draft", "active", false},
		{ContractStatusRules, "terminated", "active", false},
		{RentalStatusRules, "overdue", "active", true},
		{RentalStatusRules, "expired", "active", false},
		{RoyaltyStatusRules, "invoiced", "paid", true},
		{RoyaltyStatusRules, "paid", "pending", false},
		{OnboardingStatusRules, "on_hold", "in_progress", true},
		{OnboardingStatusRules, "completed", "in_progress", false},
	}
	for _, tc := range cases {
		if got := tc.rules.CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTaskStatusRules_CompletedCanReopen(t *testing.T) {
	if !TaskStatusRules.CanTransition("completed", "in_progress") {
		t.Fatal("completed tasks must be reopenable to in_progress")
	}
	if !TaskStatusRules.CanTransition("completed", "pending") {
		t.Fatal("completed tasks must be reopenable to pending")
	}
}

func TestStatusRulesFor(t *testing.T) {
	for _, et := range []EntityType{EntityTypeContract, EntityTypeRental, EntityTypeRoyalty, EntityTypeOnboarding} {
		if _, ok := StatusRulesFor(et); !ok {
			t.Fatalf("expected rule set for %s", et)
		}
	}
	if _, ok := StatusRulesFor(EntityType("BRANCH")); ok {
		t.Fatal("unexpected rule set for untracked entity type")
	}
}
