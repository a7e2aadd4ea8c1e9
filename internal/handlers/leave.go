package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrdesk/internal/email"
	"hrdesk/internal/hr"
	"hrdesk/internal/models"
)

const (
	ownLeaveLimit     = 10
	pendingLeaveLimit = 20
)

type LeaveHandler struct {
	DB       *gorm.DB
	Notifier email.Notifier
	Now      func() time.Time
}

type createLeaveRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

type decideLeaveRequest struct {
	Status string `json:"status"`
}

type leaveView struct {
	models.LeaveRequest
	DurationDays int `json:"durationDays"`
}

func NewLeaveHandler(db *gorm.DB, notifier email.Notifier, now func() time.Time) *LeaveHandler {
	if notifier == nil {
		notifier = email.Noop{}
	}
	return &LeaveHandler{DB: db, Notifier: notifier, Now: now}
}

func newLeaveViews(records []models.LeaveRequest) []leaveView {
	views := make([]leaveView, 0, len(records))
	for _, record := range records {
		views = append(views, leaveView{
			LeaveRequest: record,
			DurationDays: hr.DurationDays(record.StartDate, record.EndDate),
		})
	}
	return views
}

func (h *LeaveHandler) CreateRequest(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req createLeaveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	leave, err := hr.NewLeaveRequest(actor.UserID, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		respondError(c, err, "create leave")
		return
	}

	if err := h.DB.Create(&leave).Error; err != nil {
		respondError(c, err, "create leave")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        leave.ID,
		"startDate": leave.StartDate,
		"endDate":   leave.EndDate,
		"reason":    leave.Reason,
		"status":    leave.Status,
	})
}

// ListRequests returns the caller's own requests, newest start date first.
func (h *LeaveHandler) ListRequests(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var records []models.LeaveRequest
	if err := h.DB.Where("user_id = ?", actor.UserID).
		Order("start_date desc").Limit(ownLeaveLimit).Find(&records).Error; err != nil {
		respondError(c, err, "list leave")
		return
	}

	c.JSON(http.StatusOK, newLeaveViews(records))
}

func (h *LeaveHandler) ListPending(c *gin.Context) {
	var records []models.LeaveRequest
	if err := h.DB.Preload("User").Where("status = ?", models.LeavePending).
		Order("created_at desc").Limit(pendingLeaveLimit).Find(&records).Error; err != nil {
		respondError(c, err, "list pending leave")
		return
	}

	c.JSON(http.StatusOK, newLeaveViews(records))
}

func (h *LeaveHandler) findLeave(rawID string) (*models.LeaveRequest, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, nil
	}
	var record models.LeaveRequest
	err = h.DB.Preload("User").First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (h *LeaveHandler) Decide(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req decideLeaveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	existing, err := h.findLeave(c.Param("id"))
	if err != nil {
		respondError(c, err, "decide leave")
		return
	}

	decided, err := hr.DecideLeave(actor, req.Status, existing, h.Now())
	if err != nil {
		respondError(c, err, "decide leave")
		return
	}

	result := h.DB.Model(&models.LeaveRequest{}).
		Where("id = ? AND status = ?", decided.ID, models.LeavePending).
		Updates(map[string]any{
			"status":     decided.Status,
			"decided_by": *decided.DecidedBy,
			"decided_at": *decided.DecidedAt,
		})
	if result.Error != nil {
		respondError(c, result.Error, "decide leave")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, hr.ErrLeaveAlreadyDecided, "decide leave")
		return
	}

	var user models.User
	if decided.User != nil {
		user = *decided.User
		if err := h.Notifier.LeaveDecided(user, decided); err != nil {
			log.Printf("leave decision email to %s: %v", user.Email, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        decided.ID,
		"status":    decided.Status,
		"user":      user.Ref(),
		"startDate": decided.StartDate,
		"endDate":   decided.EndDate,
	})
}
