package hr

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.November, 14, hour, minute, 0, 0, time.UTC)
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(at(23, 59))
	assert.Equal(t, time.Date(2025, time.November, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC), end)

	midnightStart, _ := DayBounds(start)
	assert.Equal(t, start, midnightStart)
}

func TestDayBoundsKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	start, end := DayBounds(time.Date(2025, time.March, 1, 1, 30, 0, 0, loc))
	assert.Equal(t, loc, start.Location())
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, 2, end.Day())
}

func TestClockInCreatesRecordForToday(t *testing.T) {
	userID := uuid.New()
	now := at(9, 0)

	record, err := ClockIn(userID, now, nil)
	require.NoError(t, err)
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, time.Date(2025, time.November, 14, 0, 0, 0, 0, time.UTC), record.Date)
	require.NotNil(t, record.ClockIn)
	assert.Equal(t, now, *record.ClockIn)
	assert.Nil(t, record.ClockOut)
}

func TestClockInRejectsSecondClockIn(t *testing.T) {
	clockIn := at(9, 0)
	existing := &models.Attendance{ID: uuid.New(), ClockIn: &clockIn}

	_, err := ClockIn(uuid.New(), at(10, 0), existing)
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestClockInReusesRecordWithoutClockIn(t *testing.T) {
	existing := &models.Attendance{ID: uuid.New(), Date: at(0, 0)}

	record, err := ClockIn(uuid.New(), at(8, 30), existing)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, record.ID)
	require.NotNil(t, record.ClockIn)
}

func TestClockOut(t *testing.T) {
	clockIn := at(9, 0)
	clockedOut := at(17, 0)

	tests := []struct {
		name     string
		existing *models.Attendance
		now      time.Time
		wantErr  error
		wantOut  time.Time
	}{
		{name: "no record", existing: nil, now: at(17, 0), wantErr: ErrNoClockInFound},
		{name: "record without clock-in", existing: &models.Attendance{}, now: at(17, 0), wantErr: ErrNoClockInFound},
		{name: "already out", existing: &models.Attendance{ClockIn: &clockIn, ClockOut: &clockedOut}, now: at(18, 0), wantErr: ErrAlreadyClockedOut},
		{name: "accepted", existing: &models.Attendance{ClockIn: &clockIn}, now: at(17, 0), wantOut: at(17, 0)},
		{name: "clamped to clock-in", existing: &models.Attendance{ClockIn: &clockIn}, now: at(8, 0), wantOut: clockIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := ClockOut(tt.now, tt.existing)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, record.ClockOut)
			assert.Equal(t, tt.wantOut, *record.ClockOut)
			assert.False(t, record.ClockOut.Before(*record.ClockIn))
			assert.Nil(t, tt.existing.ClockOut, "input record must not be mutated")
		})
	}
}

func TestHoursWorked(t *testing.T) {
	clockIn := at(9, 0)
	clockOut := at(17, 0)

	hours, ok := HoursWorked(models.Attendance{ClockIn: &clockIn, ClockOut: &clockOut})
	require.True(t, ok)
	assert.Equal(t, 8.0, hours)

	_, ok = HoursWorked(models.Attendance{ClockIn: &clockIn})
	assert.False(t, ok)
}
