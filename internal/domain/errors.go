package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidDate      = errors.New("a valid appointment date is required")
	ErrAmountOutOfRange = errors.New("paid amount must be between zero and the outstanding balance")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrAgentDisabled    = errors.New("agent is disabled")
)
