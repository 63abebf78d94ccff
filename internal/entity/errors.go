package entity

import "errors"

var (
	// ErrNotFound: the task or job does not exist in the Job Manager.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest marks configuration and contract defects: unknown job type,
	// missing parameter mapping, malformed task parameters, malformed ids.
	ErrBadRequest = errors.New("bad request")
	// ErrIrrelevantStatus: a notification arrived for a task that is neither
	// completed nor failed.
	ErrIrrelevantStatus = errors.New("irrelevant operation status")
	// ErrConflict: the Job Manager refused to create a duplicate task.
	ErrConflict = errors.New("conflict")
)
