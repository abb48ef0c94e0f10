package catalog

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup or filter matches zero rows.
	ErrNotFound = errors.New("not found")
	// ErrConstraint is returned when a write violates a foreign key or
	// uniqueness constraint.
	ErrConstraint = errors.New("constraint violation")
	// ErrForbidden is returned when the caller's role does not permit the
	// operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidWindow is returned for a malformed pagination window.
	ErrInvalidWindow = errors.New("invalid pagination window")
)

// ClassifyWriteError maps store errors onto the package taxonomy. Anything
// it does not recognize passes through unchanged and surfaces as an internal
// error.
func ClassifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && strings.HasPrefix(string(pqErr.Code), "23") {
		return ErrConstraint
	}
	// sqlite reports constraint failures by message only
	if strings.Contains(strings.ToLower(err.Error()), "constraint") {
		return ErrConstraint
	}
	return err
}
