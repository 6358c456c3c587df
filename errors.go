package ezcoin

import (
	"errors"
	"fmt"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/ezai"
	"github.com/xraph/ezcoin/kv"
	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/pricing"
	"github.com/xraph/ezcoin/transaction"
)

// Sentinel errors for common failure scenarios. Those owned by a domain
// package are aliased so errors.Is works from either side.
var (
	// General errors
	ErrNotFound     = errors.New("ezcoin: not found")
	ErrInvalidInput = errors.New("ezcoin: invalid input")
	ErrUnauthorized = errors.New("ezcoin: unauthorized")

	// Wallet errors
	ErrInvalidAmount       = transaction.ErrInvalidAmount
	ErrInsufficientBalance = errors.New("ezcoin: insufficient balance")
	ErrAccountNotFound     = account.ErrNotFound
	ErrVersionConflict     = account.ErrVersionConflict

	// Payment errors
	ErrPaymentFailed        = errors.New("ezcoin: payment failed")
	ErrPaymentDeclined      = payment.ErrDeclined
	ErrUnknownPackage       = pricing.ErrUnknownPackage
	ErrUnknownPaymentMethod = pricing.ErrUnknownPaymentMethod
	ErrUnknownAction        = pricing.ErrUnknownAction

	// Planner errors
	ErrInvalidRecurrenceRule = planner.ErrInvalidRecurrenceRule
	ErrInvalidEvent          = planner.ErrInvalidEvent
	ErrUnknownView           = planner.ErrUnknownView
	ErrUnknownFormat         = planner.ErrUnknownFormat

	// Assistant errors
	ErrUnknownAssistantAction = ezai.ErrUnknownAction
	ErrEmptyContent           = ezai.ErrEmptyContent

	// Store errors
	ErrStorage     = errors.New("ezcoin: storage unavailable")
	ErrStoreClosed = errors.New("ezcoin: store is closed")
	ErrKeyNotFound = kv.ErrNotFound
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("ezcoin: validation failed for %s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrInvalidInput.
func (e ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// InsufficientBalanceError is returned when a spend exceeds the balance.
// Nothing was mutated.
type InsufficientBalanceError struct {
	Required  int64 `json:"required"`
	Available int64 `json:"available"`
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("ezcoin: insufficient balance: required %d, available %d", e.Required, e.Available)
}

func (e *InsufficientBalanceError) Is(target error) bool { return target == ErrInsufficientBalance }

// StorageError is returned when a commit or load could not reach the store.
// The in-memory state is unchanged and the whole operation may be retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ezcoin: storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }

// PaymentError is returned when the processor did not settle a purchase.
// No coins were credited.
type PaymentError struct {
	Method string
	Reason string
	Err    error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("ezcoin: payment via %s failed: %s", e.Method, e.Reason)
}

func (e *PaymentError) Is(target error) bool { return target == ErrPaymentFailed }

func (e *PaymentError) Unwrap() error { return e.Err }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrKeyNotFound)
}

// IsInsufficientBalance reports whether err is a rejected spend.
func IsInsufficientBalance(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorage) ||
		errors.Is(err, ErrVersionConflict)
}

// IsContractViolation reports whether err stems from bad caller input.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidRecurrenceRule) ||
		errors.Is(err, ErrInvalidEvent) ||
		errors.Is(err, ErrUnknownView) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrUnknownPackage) ||
		errors.Is(err, ErrUnknownPaymentMethod) ||
		errors.Is(err, ErrUnknownAction) ||
		errors.Is(err, ErrUnknownAssistantAction) ||
		errors.Is(err, ErrEmptyContent)
}
