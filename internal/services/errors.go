// Package services defines the business logic for tasks and users. This file
// centralizes the service-level sentinel errors so that they can be returned
// consistently by service methods and checked by callers.
//
// Absence of a record is a normal-path outcome reported through these
// sentinels, not a store fault: handlers map them to 404 directly and never
// run them through the error classifier.
package services

import "errors"

var (
	// ErrTaskNotFound indicates that the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
