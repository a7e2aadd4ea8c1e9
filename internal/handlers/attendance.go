package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrdesk/internal/hr"
	"hrdesk/internal/lock"
	"hrdesk/internal/models"
)

const recentAttendanceLimit = 10

type AttendanceHandler struct {
	DB    *gorm.DB
	Locks lock.Locker
	Now   func() time.Time
}

type attendanceView struct {
	models.Attendance
	HoursWorked *float64 `json:"hoursWorked"`
}

func NewAttendanceHandler(db *gorm.DB, locks lock.Locker, now func() time.Time) *AttendanceHandler {
	return &AttendanceHandler{DB: db, Locks: locks, Now: now}
}

func attendanceLockKey(userID uuid.UUID, day time.Time) string {
	return lock.Key("attendance", userID, day.Format("2006-01-02"))
}

// findAttendanceForDay returns the user's record for the day containing now,
// or nil when there is none.
func findAttendanceForDay(db *gorm.DB, userID uuid.UUID, now time.Time) (*models.Attendance, error) {
	start, end := hr.DayBounds(now)
	var record models.Attendance
	err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("clock_in desc").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func newAttendanceView(record models.Attendance) attendanceView {
	view := attendanceView{Attendance: record}
	if hours, ok := hr.HoursWorked(record); ok {
		view.HoursWorked = &hours
	}
	return view
}

func (h *AttendanceHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var records []models.Attendance
	if err := h.DB.Where("user_id = ?", actor.UserID).
		Order("date desc").Limit(recentAttendanceLimit).Find(&records).Error; err != nil {
		respondError(c, err, "list attendance")
		return
	}

	views := make([]attendanceView, 0, len(records))
	for _, record := range records {
		views = append(views, newAttendanceView(record))
	}
	c.JSON(http.StatusOK, views)
}

func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	now := h.Now()
	day, _ := hr.DayBounds(now)

	var record models.Attendance
	err := lock.With(c.Request.Context(), h.Locks, attendanceLockKey(actor.UserID, day), func() error {
		existing, err := findAttendanceForDay(h.DB, actor.UserID, now)
		if err != nil {
			return err
		}

		record, err = hr.ClockIn(actor.UserID, now, existing)
		if err != nil {
			return err
		}

		if existing != nil {
			return h.DB.Save(&record).Error
		}
		if err := h.DB.Create(&record).Error; err != nil {
			// the unique (user_id, date) index caught a concurrent clock-in
			if duplicate, findErr := findAttendanceForDay(h.DB, actor.UserID, now); findErr == nil && duplicate != nil {
				return hr.ErrAlreadyClockedIn
			}
			return err
		}
		return nil
	})
	if err != nil {
		respondError(c, err, "clock in")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      record.ID,
		"clockIn": record.ClockIn,
		"date":    record.Date,
	})
}

func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	now := h.Now()
	day, _ := hr.DayBounds(now)

	var record models.Attendance
	err := lock.With(c.Request.Context(), h.Locks, attendanceLockKey(actor.UserID, day), func() error {
		existing, err := findAttendanceForDay(h.DB, actor.UserID, now)
		if err != nil {
			return err
		}

		record, err = hr.ClockOut(now, existing)
		if err != nil {
			return err
		}

		result := h.DB.Model(&models.Attendance{}).
			Where("id = ? AND clock_out IS NULL", record.ID).
			Update("clock_out", *record.ClockOut)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return hr.ErrAlreadyClockedOut
		}
		return nil
	})
	if err != nil {
		respondError(c, err, "clock out")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       record.ID,
		"clockIn":  record.ClockIn,
		"clockOut": record.ClockOut,
		"date":     record.Date,
	})
}
