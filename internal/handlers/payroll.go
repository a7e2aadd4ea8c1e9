package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hrdesk/internal/hr"
	"hrdesk/internal/lock"
	"hrdesk/internal/models"
)

const payrollListLimit = 20

type PayrollHandler struct {
	DB    *gorm.DB
	Locks lock.Locker
	Now   func() time.Time
}

type payrollRequest struct {
	UserID string `json:"userId"`
	Month  any    `json:"month"`
	Year   any    `json:"year"`
}

func NewPayrollHandler(db *gorm.DB, locks lock.Locker, now func() time.Time) *PayrollHandler {
	return &PayrollHandler{DB: db, Locks: locks, Now: now}
}

func blank(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func (r payrollRequest) missing() []string {
	var fields []string
	if strings.TrimSpace(r.UserID) == "" {
		fields = append(fields, "userId")
	}
	if blank(r.Month) {
		fields = append(fields, "month")
	}
	if blank(r.Year) {
		fields = append(fields, "year")
	}
	return fields
}

// period resolves month and year, reporting ErrInvalidPeriod for anything
// unparseable or out of range.
func (r payrollRequest) period() (int, int, error) {
	monthIndex, err := hr.ParseMonth(r.Month)
	if err != nil {
		return 0, 0, hr.ErrInvalidPeriod
	}
	year, err := hr.ParseYear(r.Year)
	if err != nil {
		return 0, 0, hr.ErrInvalidPeriod
	}
	if err := hr.ValidatePeriod(monthIndex, year); err != nil {
		return 0, 0, err
	}
	return monthIndex, year, nil
}

func payrollLockKey(userID string, monthIndex, year int) string {
	return lock.Key("payroll", strings.ToLower(strings.TrimSpace(userID)), year, monthIndex+1)
}

func findUser(db *gorm.DB, rawID string) (*models.User, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, nil
	}
	var user models.User
	err = db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func findPayroll(db *gorm.DB, rawUserID string, monthIndex, year int) (*models.Payroll, error) {
	userID, err := uuid.Parse(strings.TrimSpace(rawUserID))
	if err != nil {
		return nil, nil
	}
	var record models.Payroll
	err = db.Where("user_id = ? AND month = ? AND year = ?", userID, hr.MonthName(monthIndex), year).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func payrollResponse(record models.Payroll, user *models.User) gin.H {
	body := gin.H{
		"id":     record.ID,
		"userId": record.UserID,
		"month":  record.Month,
		"year":   record.Year,
		"amount": record.Amount,
		"status": record.Status,
		"paidAt": record.PaidAt,
	}
	if user != nil {
		body["user"] = user.Ref()
	}
	return body
}

func (h *PayrollHandler) List(c *gin.Context) {
	var records []models.Payroll
	if err := h.DB.Preload("User").
		Order("year desc, month_number desc, created_at desc").
		Limit(payrollListLimit).Find(&records).Error; err != nil {
		respondError(c, err, "list payroll")
		return
	}

	c.JSON(http.StatusOK, records)
}

// Create books the flat base salary for a period that has no record yet.
func (h *PayrollHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := hr.RequireAdmin(actor); err != nil {
		respondError(c, err, "create payroll")
		return
	}

	var req payrollRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if missing := req.missing(); len(missing) > 0 {
		respondError(c, hr.MissingField(missing...), "create payroll")
		return
	}
	monthIndex, year, err := req.period()
	if err != nil {
		respondError(c, err, "create payroll")
		return
	}

	var record models.Payroll
	var user *models.User
	err = lock.With(c.Request.Context(), h.Locks, payrollLockKey(req.UserID, monthIndex, year), func() error {
		return h.DB.Transaction(func(tx *gorm.DB) error {
			existing, err := findPayroll(tx, req.UserID, monthIndex, year)
			if err != nil {
				return err
			}
			user, err = findUser(tx, req.UserID)
			if err != nil {
				return err
			}

			record, err = hr.DirectPayroll(actor, user, monthIndex, year, existing)
			if err != nil {
				return err
			}
			if err := tx.Create(&record).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return hr.ErrPayrollExists
				}
				return err
			}
			return nil
		})
	})
	if err != nil {
		respondError(c, err, "create payroll")
		return
	}

	c.JSON(http.StatusCreated, payrollResponse(record, user))
}

// Generate computes the prorated amount from the month's attendance and
// upserts the period, resetting it to UNPAID.
func (h *PayrollHandler) Generate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := hr.RequireAdmin(actor); err != nil {
		respondError(c, err, "generate payroll")
		return
	}

	var req payrollRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		respondError(c, hr.ErrUserNotFound, "generate payroll")
		return
	}
	if blank(req.Month) || blank(req.Year) {
		respondError(c, hr.ErrInvalidPeriod, "generate payroll")
		return
	}
	monthIndex, year, err := req.period()
	if err != nil {
		respondError(c, err, "generate payroll")
		return
	}

	var record models.Payroll
	var user *models.User
	var attendanceCount int64
	err = lock.With(c.Request.Context(), h.Locks, payrollLockKey(req.UserID, monthIndex, year), func() error {
		return h.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			user, err = findUser(tx, req.UserID)
			if err != nil {
				return err
			}
			if user == nil {
				return hr.ErrUserNotFound
			}

			start, end := hr.MonthBounds(year, monthIndex, h.Now().Location())
			if err := tx.Model(&models.Attendance{}).
				Where("user_id = ? AND date >= ? AND date < ?", user.ID, start, end).
				Count(&attendanceCount).Error; err != nil {
				return err
			}

			existing, err := findPayroll(tx, req.UserID, monthIndex, year)
			if err != nil {
				return err
			}

			record, err = hr.GeneratePayroll(actor, user, monthIndex, year, attendanceCount, existing)
			if err != nil {
				return err
			}
			if existing != nil {
				return tx.Save(&record).Error
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
				DoUpdates: clause.AssignmentColumns([]string{"amount", "status", "paid_at", "updated_at"}),
			}).Create(&record).Error; err != nil {
				return err
			}
			return tx.Where("user_id = ? AND month = ? AND year = ?", record.UserID, record.Month, record.Year).
				First(&record).Error
		})
	})
	if err != nil {
		respondError(c, err, "generate payroll")
		return
	}

	body := payrollResponse(record, user)
	body["attendanceCount"] = attendanceCount
	c.JSON(http.StatusOK, body)
}

func (h *PayrollHandler) MarkPaid(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var existing *models.Payroll
	if id, err := uuid.Parse(c.Param("id")); err == nil {
		var record models.Payroll
		err := h.DB.Preload("User").First(&record, "id = ?", id).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, err, "mark payroll paid")
			return
		}
		if err == nil {
			existing = &record
		}
	}

	paid, err := hr.MarkPaid(actor, existing, h.Now())
	if err != nil {
		respondError(c, err, "mark payroll paid")
		return
	}

	result := h.DB.Model(&models.Payroll{}).
		Where("id = ? AND status <> ?", paid.ID, models.PayrollPaid).
		Updates(map[string]any{"status": paid.Status, "paid_at": *paid.PaidAt})
	if result.Error != nil {
		respondError(c, result.Error, "mark payroll paid")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, hr.ErrAlreadyPaid, "mark payroll paid")
		return
	}

	c.JSON(http.StatusOK, payrollResponse(paid, paid.User))
}
