package hr

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/models"
)

var adminActor = Actor{UserID: uuid.New(), Role: models.RoleAdmin}

func TestProratedAmount(t *testing.T) {
	assert.Equal(t, 0.0, ProratedAmount(50000, 0))
	assert.Equal(t, 50000.0, ProratedAmount(50000, 30))
	assert.Equal(t, 36666.67, ProratedAmount(50000, 22))
	assert.Equal(t, 4000.0, ProratedAmount(4000, 30))
	assert.Equal(t, 0.0, ProratedAmount(0, 22))

	// linear in the count: one more day adds one 30th of the salary
	for count := int64(0); count < 31; count++ {
		assert.InDelta(t, 200.0, ProratedAmount(6000, count+1)-ProratedAmount(6000, count), 0.011)
	}
}

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, ValidatePeriod(0, 2025))
	assert.NoError(t, ValidatePeriod(11, 2025))
	assert.ErrorIs(t, ValidatePeriod(-1, 2025), ErrInvalidPeriod)
	assert.ErrorIs(t, ValidatePeriod(12, 2025), ErrInvalidPeriod)
	assert.ErrorIs(t, ValidatePeriod(5, 0), ErrInvalidPeriod)
}

func TestParseMonthAndYear(t *testing.T) {
	month, err := ParseMonth("november")
	require.NoError(t, err)
	assert.Equal(t, 10, month)

	month, err = ParseMonth(float64(0))
	require.NoError(t, err)
	assert.Equal(t, 0, month)

	month, err = ParseMonth("3")
	require.NoError(t, err)
	assert.Equal(t, 3, month)

	_, err = ParseMonth(float64(12))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = ParseMonth("Smarch")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	year, err := ParseYear("2025")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)

	_, err = ParseYear("twenty")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = ParseYear(2025.5)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = ParseYear(nil)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2025, 11, time.UTC)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, "December", MonthName(11))
	assert.Len(t, MonthNames(), 12)
}

func TestGeneratePayroll(t *testing.T) {
	user := &models.User{ID: uuid.New(), BaseSalary: 50000}

	t.Run("forbidden for employees", func(t *testing.T) {
		_, err := GeneratePayroll(Actor{Role: models.RoleEmployee}, user, 10, 2025, 22, nil)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := GeneratePayroll(adminActor, user, 12, 2025, 22, nil)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := GeneratePayroll(adminActor, nil, 10, 2025, 22, nil)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("new record", func(t *testing.T) {
		payroll, err := GeneratePayroll(adminActor, user, 10, 2025, 22, nil)
		require.NoError(t, err)
		assert.Equal(t, "November", payroll.Month)
		assert.Equal(t, 11, payroll.MonthNumber)
		assert.Equal(t, 2025, payroll.Year)
		assert.Equal(t, 36666.67, payroll.Amount)
		assert.Equal(t, models.PayrollUnpaid, payroll.Status)
	})

	t.Run("regeneration overwrites amount and resets status", func(t *testing.T) {
		paidAt := time.Now()
		existing := &models.Payroll{ID: uuid.New(), UserID: user.ID, Month: "November", Year: 2025, Amount: 1, Status: models.PayrollPaid, PaidAt: &paidAt}

		first, err := GeneratePayroll(adminActor, user, 10, 2025, 22, existing)
		require.NoError(t, err)
		second, err := GeneratePayroll(adminActor, user, 10, 2025, 22, &first)
		require.NoError(t, err)

		assert.Equal(t, existing.ID, second.ID)
		assert.Equal(t, first.Amount, second.Amount)
		assert.Equal(t, models.PayrollUnpaid, first.Status)
		assert.Nil(t, first.PaidAt)
	})
}

func TestDirectPayroll(t *testing.T) {
	user := &models.User{ID: uuid.New(), BaseSalary: 4000}

	payroll, err := DirectPayroll(adminActor, user, 10, 2025, nil)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, payroll.Amount)
	assert.Equal(t, models.PayrollPending, payroll.Status)

	_, err = DirectPayroll(adminActor, user, 10, 2025, &payroll)
	assert.ErrorIs(t, err, ErrPayrollExists)

	_, err = DirectPayroll(adminActor, nil, 10, 2025, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = DirectPayroll(Actor{Role: models.RoleEmployee}, user, 10, 2025, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMarkPaid(t *testing.T) {
	now := time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC)
	unpaid := &models.Payroll{ID: uuid.New(), Status: models.PayrollUnpaid}

	paid, err := MarkPaid(adminActor, unpaid, now)
	require.NoError(t, err)
	assert.Equal(t, models.PayrollPaid, paid.Status)
	assert.Equal(t, now, *paid.PaidAt)

	_, err = MarkPaid(adminActor, &paid, now)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	_, err = MarkPaid(adminActor, nil, now)
	assert.ErrorIs(t, err, ErrPayrollNotFound)
}

func TestUpdateUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleEmployee, BaseSalary: 4000}
	role := "admin"
	salary := 5200.456

	updated, err := UpdateUser(adminActor, user, &role, &salary)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, 5200.46, updated.BaseSalary)

	negative := -1.0
	_, err = UpdateUser(adminActor, user, nil, &negative)
	assert.ErrorIs(t, err, ErrInvalidSalary)

	bad := "owner"
	_, err = UpdateUser(adminActor, user, &bad, nil)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = UpdateUser(Actor{Role: models.RoleEmployee}, user, &role, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}
