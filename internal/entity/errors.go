package entity

import "errors"

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrOwnerNotResolved = errors.New("owner not resolved for task")
)
