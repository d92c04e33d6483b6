package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrorInvalidTransition is returned by the lifecycle core when strict
	// status transitions are enabled and the requested edge is not in the
	// module's legal-transition graph.
	ErrorInvalidTransition = errors.New("invalid status transition")

	// ErrorIllegalStatus is returned when a status value is not part of the
	// module's declared enumeration at all.
	ErrorIllegalStatus = errors.New("illegal status value")

	// ErrorDependencyIncomplete is returned when task dependency enforcement
	// is enabled and a task is completed before its declared dependencies.
	ErrorDependencyIncomplete = errors.New("task has incomplete dependencies")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
