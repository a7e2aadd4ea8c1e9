package hr

import (
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/models"
)

// DayBounds returns [local midnight, next local midnight) for t in t's own
// location. Lookups and new records must both go through it.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// ClockIn decides a clock-in for userID at now given today's record, if any.
// An existing record without a clock-in is reused so the (user, day) key
// stays unique.
func ClockIn(userID uuid.UUID, now time.Time, existing *models.Attendance) (models.Attendance, error) {
	if existing != nil && existing.ClockIn != nil {
		return models.Attendance{}, ErrAlreadyClockedIn
	}

	day, _ := DayBounds(now)
	clockIn := now

	record := models.Attendance{UserID: userID, Date: day}
	if existing != nil {
		record = *existing
	}
	record.ClockIn = &clockIn
	record.ClockOut = nil
	return record, nil
}

// ClockOut decides a clock-out at now against today's record.
func ClockOut(now time.Time, existing *models.Attendance) (models.Attendance, error) {
	if existing == nil || existing.ClockIn == nil {
		return models.Attendance{}, ErrNoClockInFound
	}
	if existing.ClockOut != nil {
		return models.Attendance{}, ErrAlreadyClockedOut
	}

	clockOut := now
	if clockOut.Before(*existing.ClockIn) {
		clockOut = *existing.ClockIn
	}

	record := *existing
	record.ClockOut = &clockOut
	return record, nil
}

// HoursWorked is clockOut-clockIn in hours; ok is false until both are set.
func HoursWorked(record models.Attendance) (float64, bool) {
	if record.ClockIn == nil || record.ClockOut == nil {
		return 0, false
	}
	return record.ClockOut.Sub(*record.ClockIn).Hours(), true
}
