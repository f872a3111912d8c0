package utils

import "time"

// Application Constants
const (
	AppName    = "RideAdmin"
	AppVersion = "1.0.0"

	DefaultCurrency = "RWF"

	// Sessions
	SessionTokenType  = "Bearer"
	DefaultSessionTTL = 12 * time.Hour

	// Live feeds
	DefaultSearchDebounce = 300 * time.Millisecond

	// Ride name lookups in flight at once
	MaxConcurrentLookups = 8

	// Filter value matching every status
	FilterAll = "all"
)

// Context keys set by middleware
const (
	ContextKeySession   = "session"
	ContextKeyRequestID = "request_id"
)

// Error Messages
const (
	ErrInvalidAdminCredentials = "Invalid admin credentials"
	ErrUnauthorized            = "Unauthorized access"
	ErrInternalServer          = "Internal server error"
	ErrValidationFailed        = "Validation failed"
	ErrInvalidRequest          = "Invalid request format"
	ErrStatusUpdateFailed      = "Status update failed and was rolled back"
)

// Success Messages
const (
	MsgLoginSuccess  = "Login successful"
	MsgLogoutSuccess = "Logout successful"
	MsgDataRetrieved = "Data retrieved successfully"
	MsgStatusUpdated = "Status updated successfully"
	MsgShellUpdated  = "Navigation updated"
)

// Response statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
