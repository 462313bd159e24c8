package task

import "errors"

var (
	ErrTaskNotFound            = errors.New("task not found")
	ErrInvalidPriority         = errors.New("invalid task priority")
	ErrInvalidStatus           = errors.New("invalid task status")
	ErrInvalidStatusTransition = errors.New("invalid task status transition")
	ErrTaskFinished            = errors.New("finished tasks cannot be modified")
)
