package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAdmin           = errors.New("account is not an admin")
	ErrSessionNotFound    = errors.New("session not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrStatusUpdateFailed = errors.New("status update failed")
	ErrReportNotFound     = errors.New("report not found")
	ErrViewClosed         = errors.New("view closed")
)
