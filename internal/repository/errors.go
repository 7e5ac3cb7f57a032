package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ErrDuplicateEmail is the ErrDuplicate raised by the users email constraint.
var ErrDuplicateEmail = fmt.Errorf("%w: email", ErrDuplicate)

const (
	pqUniqueViolation = "23505"

	userEmailConstraint = "uk_users_email"
	userEmailColumn     = "users.email"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	// the embedded driver only reports constraint violations in the message text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// violatesUserEmail reports whether a unique violation came from the users email constraint.
func violatesUserEmail(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint == userEmailConstraint
	}
	msg := err.Error()
	return strings.Contains(msg, userEmailConstraint) || strings.Contains(msg, userEmailColumn)
}
