package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP statuses; callers test them with
// errors.Is against the kind, not the specific value.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrPersistence  = errors.New("persistence failed")
	ErrRemoteReport = errors.New("report delivery failed")
)

var (
	ErrEmptyTitle       = fmt.Errorf("%w: title must not be empty", ErrValidation)
	ErrUnknownSlot      = fmt.Errorf("%w: unknown slot name", ErrValidation)
	ErrSlotTimeRequired = fmt.Errorf("%w: enabling a slot requires a time", ErrValidation)
	ErrReminderNotFound = fmt.Errorf("%w: unknown reminder", ErrNotFound)
	ErrSlotDisabled     = fmt.Errorf("%w: slot is not enabled", ErrInvalidState)
	ErrTrackerClosed    = fmt.Errorf("%w: session closed", ErrInvalidState)
)
