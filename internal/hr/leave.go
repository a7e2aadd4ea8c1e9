package hr

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/models"
)

const dateLayout = "2006-01-02"

// ParseDate accepts a calendar date (2006-01-02) or a full RFC 3339 timestamp.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

// NewLeaveRequest validates a submission and returns the PENDING request to
// persist. Status is never taken from the caller.
func NewLeaveRequest(userID uuid.UUID, startDate, endDate, reason string) (models.LeaveRequest, error) {
	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)
	reason = strings.TrimSpace(reason)

	var missing []string
	if startDate == "" {
		missing = append(missing, "startDate")
	}
	if endDate == "" {
		missing = append(missing, "endDate")
	}
	if reason == "" {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return models.LeaveRequest{}, MissingField(missing...)
	}

	start, ok := ParseDate(startDate)
	if !ok {
		return models.LeaveRequest{}, InvalidDate("startDate")
	}
	end, ok := ParseDate(endDate)
	if !ok {
		return models.LeaveRequest{}, InvalidDate("endDate")
	}
	if end.Before(start) {
		return models.LeaveRequest{}, ErrInvalidRange
	}

	return models.LeaveRequest{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		Status:    models.LeavePending,
	}, nil
}

// DecideLeave moves a PENDING request to APPROVED or REJECTED. Checks run in
// order: actor role, requested status, existence, terminal state.
func DecideLeave(actor Actor, requestedStatus string, existing *models.LeaveRequest, now time.Time) (models.LeaveRequest, error) {
	if err := RequireAdmin(actor); err != nil {
		return models.LeaveRequest{}, err
	}
	if requestedStatus != models.LeaveApproved && requestedStatus != models.LeaveRejected {
		return models.LeaveRequest{}, ErrInvalidStatus
	}
	if existing == nil {
		return models.LeaveRequest{}, ErrLeaveNotFound
	}
	if existing.Terminal() {
		return models.LeaveRequest{}, ErrLeaveAlreadyDecided
	}

	decidedBy := actor.UserID
	decidedAt := now

	updated := *existing
	updated.Status = requestedStatus
	updated.DecidedBy = &decidedBy
	updated.DecidedAt = &decidedAt
	return updated, nil
}

// DurationDays is ceil((end-start)/1 day), never below 1 for a valid range.
// It returns 0 when end is before start.
func DurationDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
