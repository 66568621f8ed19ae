package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Category errors
	ErrMsgValidation   = "validation failed"
	ErrMsgNotFound     = "not found"
	ErrMsgBusinessRule = "business rule violation"

	// Catalog errors
	ErrMsgItemNotFound  = "item not found"
	ErrMsgBadgeNotFound = "badge not found"

	// Inventory errors
	ErrMsgStackLimitExceeded   = "stack limit exceeded"
	ErrMsgInsufficientQuantity = "insufficient quantity"
	ErrMsgItemNotConsumable    = "item is not consumable"

	// Decoding errors
	ErrMsgUnknownRequirementType = "unknown requirement type"
	ErrMsgUnknownRewardKind      = "unknown reward kind"

	// Input errors
	ErrMsgNegativeAmount   = "amount must not be negative"
	ErrMsgInvalidQuantity  = "quantity must be positive"
	ErrMsgEmptyPlayerID    = "player id is required"
	ErrMsgInvalidThreshold = "requirement threshold must be positive"

	// Infrastructure errors
	ErrMsgLockTimeout = "timed out waiting for player lock"
)

// Category sentinels. Every specific error below wraps exactly one of these so
// callers can branch on the category with errors.Is.
var (
	ErrValidation   = errors.New(ErrMsgValidation)
	ErrNotFound     = errors.New(ErrMsgNotFound)
	ErrBusinessRule = errors.New(ErrMsgBusinessRule)
)

var (
	// Catalog errors
	ErrItemNotFound  = fmt.Errorf("item %w", ErrNotFound)
	ErrBadgeNotFound = fmt.Errorf("badge %w", ErrNotFound)

	// Business rule violations
	ErrStackLimitExceeded   = fmt.Errorf("%w: %s", ErrBusinessRule, ErrMsgStackLimitExceeded)
	ErrInsufficientQuantity = fmt.Errorf("%w: %s", ErrBusinessRule, ErrMsgInsufficientQuantity)
	ErrItemNotConsumable    = fmt.Errorf("%w: %s", ErrBusinessRule, ErrMsgItemNotConsumable)

	// Validation errors
	ErrUnknownRequirementType = fmt.Errorf("%w: %s", ErrValidation, ErrMsgUnknownRequirementType)
	ErrUnknownRewardKind      = fmt.Errorf("%w: %s", ErrValidation, ErrMsgUnknownRewardKind)
	ErrNegativeAmount         = fmt.Errorf("%w: %s", ErrValidation, ErrMsgNegativeAmount)
	ErrInvalidQuantity        = fmt.Errorf("%w: %s", ErrValidation, ErrMsgInvalidQuantity)
	ErrEmptyPlayerID          = fmt.Errorf("%w: %s", ErrValidation, ErrMsgEmptyPlayerID)
	ErrInvalidThreshold       = fmt.Errorf("%w: %s", ErrValidation, ErrMsgInvalidThreshold)

	// Infrastructure errors
	ErrLockTimeout = errors.New(ErrMsgLockTimeout)
)
