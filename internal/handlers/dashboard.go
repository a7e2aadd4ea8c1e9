package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hrdesk/internal/hr"
	"hrdesk/internal/models"
)

const (
	dashboardRecentLimit = 10
	overviewPayrollLimit = 12
	overviewPendingLimit = 20
)

type DashboardHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDashboardHandler(db *gorm.DB, now func() time.Time) *DashboardHandler {
	return &DashboardHandler{DB: db, Now: now}
}

// Employee is the caller's own landing view: today's record, whether the
// clock buttons apply, and recent history.
func (h *DashboardHandler) Employee(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", actor.UserID).Error; err != nil {
		respondError(c, hr.ErrUnauthorized, "dashboard")
		return
	}

	today, err := findAttendanceForDay(h.DB, actor.UserID, h.Now())
	if err != nil {
		respondError(c, err, "dashboard")
		return
	}

	var attendance []models.Attendance
	if err := h.DB.Where("user_id = ?", actor.UserID).
		Order("date desc").Limit(dashboardRecentLimit).Find(&attendance).Error; err != nil {
		respondError(c, err, "dashboard")
		return
	}
	attendanceViews := make([]attendanceView, 0, len(attendance))
	for _, record := range attendance {
		attendanceViews = append(attendanceViews, newAttendanceView(record))
	}

	var leaves []models.LeaveRequest
	if err := h.DB.Where("user_id = ?", actor.UserID).
		Order("start_date desc").Limit(dashboardRecentLimit).Find(&leaves).Error; err != nil {
		respondError(c, err, "dashboard")
		return
	}

	var todayView *attendanceView
	if today != nil {
		view := newAttendanceView(*today)
		todayView = &view
	}

	c.JSON(http.StatusOK, gin.H{
		"name":        user.Name,
		"role":        user.Role,
		"baseSalary":  user.BaseSalary,
		"today":       todayView,
		"canClockIn":  today == nil || today.ClockIn == nil,
		"canClockOut": today != nil && today.ClockIn != nil && today.ClockOut == nil,
		"attendance":  attendanceViews,
		"leaves":      newLeaveViews(leaves),
	})
}

// Overview is the admin landing view used to drive the payroll and leave screens.
func (h *DashboardHandler) Overview(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("name asc").Find(&users).Error; err != nil {
		respondError(c, err, "overview")
		return
	}

	var pending []models.LeaveRequest
	if err := h.DB.Preload("User").Where("status = ?", models.LeavePending).
		Order("created_at desc").Limit(overviewPendingLimit).Find(&pending).Error; err != nil {
		respondError(c, err, "overview")
		return
	}

	var payrolls []models.Payroll
	if err := h.DB.Preload("User").
		Order("year desc, month_number desc, created_at desc").
		Limit(overviewPayrollLimit).Find(&payrolls).Error; err != nil {
		respondError(c, err, "overview")
		return
	}

	now := h.Now()
	c.JSON(http.StatusOK, gin.H{
		"users":             users,
		"pendingLeaves":     newLeaveViews(pending),
		"payrolls":          payrolls,
		"currentMonth":      hr.MonthName(int(now.Month()) - 1),
		"currentMonthIndex": int(now.Month()) - 1,
		"currentYear":       now.Year(),
		"months":            hr.MonthNames(),
	})
}
