package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance is one workday for one user. Date holds local midnight of that
// day, so (user_id, date) is unique.
type Attendance struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:char(36);not null;uniqueIndex:idx_attendance_user_date,priority:1" json:"userId"`
	Date      time.Time  `gorm:"not null;index;uniqueIndex:idx_attendance_user_date,priority:2" json:"date"`
	ClockIn   *time.Time `json:"clockIn"`
	ClockOut  *time.Time `json:"clockOut"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
