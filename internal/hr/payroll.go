package hr

import (
	"math"
	"strconv"
	"strings"
	"time"

	"hrdesk/internal/models"
)

// ProrationDays is the fixed month length used by ProratedAmount, whatever
// the calendar month actually has.
const ProrationDays = 30

// MonthName returns the English name for a 0-based month index.
func MonthName(monthIndex int) string {
	return time.Month(monthIndex + 1).String()
}

// MonthNames lists the twelve month names in calendar order.
func MonthNames() []string {
	names := make([]string, 12)
	for i := range names {
		names[i] = MonthName(i)
	}
	return names
}

// ValidatePeriod accepts monthIndex 0-11 and a four-digit-or-less positive year.
func ValidatePeriod(monthIndex, year int) error {
	if monthIndex < 0 || monthIndex > 11 {
		return ErrInvalidPeriod
	}
	if year < 1 || year > 9999 {
		return ErrInvalidPeriod
	}
	return nil
}

// ParseMonth resolves a 0-based index (number or numeric string) or an
// English month name to a 0-based index.
func ParseMonth(value any) (int, error) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		for i := 0; i < 12; i++ {
			if strings.EqualFold(trimmed, MonthName(i)) {
				return i, nil
			}
		}
		return parseIndex(trimmed)
	default:
		index, err := ParseYear(value)
		if err != nil {
			return 0, ErrInvalidPeriod
		}
		if index < 0 || index > 11 {
			return 0, ErrInvalidPeriod
		}
		return index, nil
	}
}

func parseIndex(value string) (int, error) {
	index, err := strconv.Atoi(value)
	if err != nil || index < 0 || index > 11 {
		return 0, ErrInvalidPeriod
	}
	return index, nil
}

// ParseYear accepts a JSON number or a numeric string.
func ParseYear(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, ErrInvalidPeriod
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, ErrInvalidPeriod
		}
		return parsed, nil
	default:
		return 0, ErrInvalidPeriod
	}
}

// MonthBounds returns [first day of month, first day of next month) in loc.
func MonthBounds(year, monthIndex int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// ProratedAmount is (baseSalary / 30) * attendanceCount, rounded to cents.
func ProratedAmount(baseSalary float64, attendanceCount int64) float64 {
	return roundCents(baseSalary / ProrationDays * float64(attendanceCount))
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}

// GeneratePayroll is the prorated, upserting path. An existing record for the
// period gets the new amount and goes back to UNPAID, even if it was PAID.
func GeneratePayroll(actor Actor, user *models.User, monthIndex, year int, attendanceCount int64, existing *models.Payroll) (models.Payroll, error) {
	if err := RequireAdmin(actor); err != nil {
		return models.Payroll{}, err
	}
	if err := ValidatePeriod(monthIndex, year); err != nil {
		return models.Payroll{}, err
	}
	if user == nil {
		return models.Payroll{}, ErrUserNotFound
	}

	amount := ProratedAmount(user.BaseSalary, attendanceCount)
	if existing != nil {
		updated := *existing
		updated.Amount = amount
		updated.Status = models.PayrollUnpaid
		updated.PaidAt = nil
		return updated, nil
	}

	return models.Payroll{
		UserID:      user.ID,
		Month:       MonthName(monthIndex),
		MonthNumber: monthIndex + 1,
		Year:        year,
		Amount:      amount,
		Status:      models.PayrollUnpaid,
	}, nil
}

// DirectPayroll is the administrative create-only path: it refuses an
// existing period and books the flat base salary as PENDING.
func DirectPayroll(actor Actor, user *models.User, monthIndex, year int, existing *models.Payroll) (models.Payroll, error) {
	if err := RequireAdmin(actor); err != nil {
		return models.Payroll{}, err
	}
	if err := ValidatePeriod(monthIndex, year); err != nil {
		return models.Payroll{}, err
	}
	if existing != nil {
		return models.Payroll{}, ErrPayrollExists
	}
	if user == nil {
		return models.Payroll{}, ErrUserNotFound
	}

	return models.Payroll{
		UserID:      user.ID,
		Month:       MonthName(monthIndex),
		MonthNumber: monthIndex + 1,
		Year:        year,
		Amount:      user.BaseSalary,
		Status:      models.PayrollPending,
	}, nil
}

// MarkPaid settles a payroll record. PAID is terminal.
func MarkPaid(actor Actor, existing *models.Payroll, now time.Time) (models.Payroll, error) {
	if err := RequireAdmin(actor); err != nil {
		return models.Payroll{}, err
	}
	if existing == nil {
		return models.Payroll{}, ErrPayrollNotFound
	}
	if existing.Status == models.PayrollPaid {
		return models.Payroll{}, ErrAlreadyPaid
	}

	paidAt := now
	updated := *existing
	updated.Status = models.PayrollPaid
	updated.PaidAt = &paidAt
	return updated, nil
}
