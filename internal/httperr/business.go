package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a business failure. Every error surfaced to a client maps
// to exactly one kind.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindNoBoxAvailable    Kind = "no_box_available"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindBlockedCustomer   Kind = "blocked_customer"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) error {
	return ErrBusiness(KindValidation, code, message)
}

// ValidationFields reports per-field problems.
func ValidationFields(fields map[string]string) error {
	return BusinessError{
		Kind:    KindValidation,
		Code:    "invalid_request",
		Message: "Invalid request data.",
		Fields:  fields,
	}
}

func Conflict(code, message string) error {
	return ErrBusiness(KindConflict, code, message)
}

func NoBoxAvailable() error {
	return ErrBusiness(KindNoBoxAvailable, "no_box_available", "No box is available for the selected time.")
}

func InvalidTransition(code, message string) error {
	return ErrBusiness(KindInvalidTransition, code, message)
}

func NotFoundErr(code, message string) error {
	return ErrBusiness(KindNotFound, code, message)
}

func UnauthorizedErr(code, message string) error {
	return ErrBusiness(KindUnauthorized, code, message)
}

func Forbidden(code, message string) error {
	return ErrBusiness(KindForbidden, code, message)
}

func BlockedCustomer() error {
	return ErrBusiness(KindBlockedCustomer, "customer_blocked", "Your account is blocked. Please contact the service center.")
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of err, or "" for errors outside the taxonomy.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsConflictViolation reports a unique (23505) or exclusion (23P01)
// constraint violation raised by postgres.
func IsConflictViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}
