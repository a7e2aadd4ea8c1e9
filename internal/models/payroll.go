package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PayrollUnpaid     = "UNPAID"
	PayrollPaid       = "PAID"
	PayrollProcessing = "PROCESSING"
	PayrollPending    = "PENDING"
)

// Payroll is unique per (user_id, month, year). Month is the English month
// name; MonthNumber (1-12) exists for ordering.
type Payroll struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:char(36);not null;uniqueIndex:idx_payroll_period,priority:1" json:"userId"`
	Month       string     `gorm:"size:20;not null;uniqueIndex:idx_payroll_period,priority:2" json:"month"`
	MonthNumber int        `gorm:"not null" json:"-"`
	Year        int        `gorm:"not null;index;uniqueIndex:idx_payroll_period,priority:3" json:"year"`
	Amount      float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status      string     `gorm:"size:20;index;not null;default:UNPAID" json:"status"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (p *Payroll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
