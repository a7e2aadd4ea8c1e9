package hr

import (
	"errors"
	"strings"
)

// Kind classifies a rule rejection so the HTTP layer can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindForbidden
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// RuleError is a rejection produced by one of the rule engines. Two
// RuleErrors match under errors.Is when their codes are equal, so detailed
// variants (MissingField, InvalidDate) still match their sentinels.
type RuleError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	return ok && t.Code == e.Code
}

func newRuleError(kind Kind, code string, message string) *RuleError {
	return &RuleError{Kind: kind, Code: code, Message: message}
}

var (
	ErrUnauthorized = newRuleError(KindUnauthorized, "unauthorized", "unauthorized")
	ErrForbidden    = newRuleError(KindForbidden, "forbidden", "admin access required")

	ErrAlreadyClockedIn  = newRuleError(KindConflict, "already_clocked_in", "already clocked in today")
	ErrNoClockInFound    = newRuleError(KindValidation, "no_clock_in", "no clock-in record found for today")
	ErrAlreadyClockedOut = newRuleError(KindConflict, "already_clocked_out", "already clocked out today")

	ErrMissingField        = newRuleError(KindValidation, "missing_field", "missing required fields")
	ErrInvalidDate         = newRuleError(KindValidation, "invalid_date", "invalid date")
	ErrInvalidRange        = newRuleError(KindValidation, "invalid_range", "endDate must not be before startDate")
	ErrInvalidStatus       = newRuleError(KindValidation, "invalid_status", "invalid status, must be APPROVED or REJECTED")
	ErrLeaveNotFound       = newRuleError(KindNotFound, "leave_not_found", "leave request not found")
	ErrLeaveAlreadyDecided = newRuleError(KindConflict, "leave_decided", "leave request already decided")

	ErrInvalidPeriod   = newRuleError(KindValidation, "invalid_period", "invalid payroll period")
	ErrUserNotFound    = newRuleError(KindNotFound, "user_not_found", "user not found")
	ErrPayrollExists   = newRuleError(KindConflict, "payroll_exists", "payroll already exists for this period")
	ErrPayrollNotFound = newRuleError(KindNotFound, "payroll_not_found", "payroll not found")
	ErrAlreadyPaid     = newRuleError(KindConflict, "already_paid", "payroll already paid")

	ErrInvalidRole   = newRuleError(KindValidation, "invalid_role", "role must be ADMIN or EMPLOYEE")
	ErrInvalidSalary = newRuleError(KindValidation, "invalid_salary", "baseSalary must not be negative")
)

// MissingField reports the named fields as missing. It matches ErrMissingField.
func MissingField(fields ...string) error {
	return newRuleError(KindValidation, ErrMissingField.Code, "missing required fields: "+strings.Join(fields, ", "))
}

// InvalidDate reports an unparseable date field. It matches ErrInvalidDate.
func InvalidDate(field string) error {
	return newRuleError(KindValidation, ErrInvalidDate.Code, "invalid "+field)
}

// KindOf returns the Kind of a rule error, or KindInternal for anything else.
func KindOf(err error) Kind {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Kind
	}
	return KindInternal
}
