package handler

import "time"

// Health status values
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// ReadinessTimeout bounds every dependency ping made by /readyz
const ReadinessTimeout = 2 * time.Second

const (
	LogMsgReadinessCheckFailed = "Readiness check failed"
	LogMsgEncodeResponseFailed = "Failed to encode JSON response"
	LogMsgWriteResponseFailed  = "Failed to write response buffer"
)

// MsgDependencyUnavailable is reported for each dependency that failed its ping
const MsgDependencyUnavailable = "dependency unavailable"

const (
	LogMsgOperationFailed    = "Operation failed"
	LogMsgOperationRejected  = "Operation rejected"
	LogMsgDecodeFailed       = "Failed to decode request"
	LogMsgValidationFailed   = "Request validation failed"
	LogMsgCatalogInvalidated = "Catalog cache invalidated"
	LogMsgLevelUp            = "Experience granted with level up"
)

// URL parameters and query keys
const (
	ParamPlayerID = "playerID"
	QueryLimit    = "limit"
)

const (
	// DefaultHistoryLimit applies when /rewards is called without a limit
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps the limit query parameter
	MaxHistoryLimit = 500
)
