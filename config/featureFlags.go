package config

import (
	"os"
	"strings"
)

// StrictStatusTransitions gates the legal-transition graph for entity
// statuses. When off (the default) any status value is accepted on a
// transition, matching the permissive dashboard behavior; when on, illegal
// edges are rejected with utils.ErrorInvalidTransition.
//
// Set via env:
// - STRICT_STATUS_TRANSITIONS=true
func StrictStatusTransitions() bool {
	return boolFromEnv("STRICT_STATUS_TRANSITIONS")
}

// EnforceTaskDependencies gates the onboarding task dependency check: a task
// cannot be completed while any declared dependency is incomplete. Off by
// default; dependencies are pure metadata then.
//
// Set via env:
// - ONBOARDING_ENFORCE_TASK_DEPENDENCIES=true
func EnforceTaskDependencies() bool {
	return boolFromEnv("ONBOARDING_ENFORCE_TASK_DEPENDENCIES")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
