package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Typed failures the route layer maps to HTTP status codes.
var (
	ErrDuplicateActiveLease = errors.New("an active lease already exists for this tenant and property")
	ErrDuplicatePayment     = errors.New("a payment is already recorded for this contract and month")
	ErrLeaseNotFound        = errors.New("lease not found")
	ErrContractNotFound     = errors.New("contract not found")
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrNotOwner             = errors.New("resource does not belong to the requesting owner")
)

// InvalidTransitionError is returned when a lifecycle operation is attempted
// from a terminal state.
type InvalidTransitionError struct {
	Resource string
	From     string
	To       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %q to %q", e.Resource, e.From, e.To)
}

// isUniqueViolation reports whether err is a uniqueness-constraint failure.
// Postgres reports "duplicate key value violates unique constraint", sqlite
// reports "UNIQUE constraint failed"; newer GORM drivers also translate to
// gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
