package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeavePending  = "PENDING"
	LeaveApproved = "APPROVED"
	LeaveRejected = "REJECTED"
)

type LeaveRequest struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:char(36);index;not null" json:"userId"`
	StartDate time.Time  `gorm:"index;not null" json:"startDate"`
	EndDate   time.Time  `gorm:"not null" json:"endDate"`
	Reason    string     `gorm:"size:500;not null" json:"reason"`
	Status    string     `gorm:"size:20;index;not null;default:PENDING" json:"status"`
	DecidedBy *uuid.UUID `gorm:"type:char(36)" json:"decidedBy,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (r *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the request has already been decided.
func (r LeaveRequest) Terminal() bool {
	return r.Status == LeaveApproved || r.Status == LeaveRejected
}
