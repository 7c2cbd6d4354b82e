package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medical-scheduler/internal/audit"
	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

// AvailabilityHandler manages the logged-in doctor's weekly rules and
// date exceptions.
type AvailabilityHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAvailabilityHandler(db *gorm.DB, audit *audit.Dispatcher) *AvailabilityHandler {
	return &AvailabilityHandler{db: db, audit: audit}
}

type RuleConfig struct {
	Weekday             int    `json:"weekday" binding:"min=0,max=6"`
	StartTime           string `json:"start_time" binding:"required"`
	EndTime             string `json:"end_time" binding:"required"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" binding:"required,min=1"`
	Active              *bool  `json:"active"`
}

type RulesUpdateRequest struct {
	Rules []RuleConfig `json:"rules" binding:"dive"`
}

type ExceptionRequest struct {
	Date        string `json:"date" binding:"required"`
	IsAvailable bool   `json:"is_available"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Reason      string `json:"reason" binding:"max=255"`
}

// ======================================================
// RULES
// ======================================================

func (h *AvailabilityHandler) ListRules(c *gin.Context) {
	doctorID := callerFrom(c).DoctorID

	var rules []models.DoctorAvailabilityRule
	if err := h.db.
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC, start_time ASC").
		Find(&rules).Error; err != nil {

		httperr.Internal(c, "failed_to_get_rules", "Could not load availability rules.")
		return
	}

	httpresp.List(c, rules)
}

// ReplaceRules swaps the whole weekly template in one transaction.
func (h *AvailabilityHandler) ReplaceRules(c *gin.Context) {
	doctorID := callerFrom(c).DoctorID

	var req RulesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	toCreate := make([]models.DoctorAvailabilityRule, 0, len(req.Rules))
	for _, r := range req.Rules {
		active := true
		if r.Active != nil {
			active = *r.Active
		}

		rule := models.DoctorAvailabilityRule{
			DoctorID:            doctorID,
			Weekday:             r.Weekday,
			StartTime:           r.StartTime,
			EndTime:             r.EndTime,
			SlotDurationMinutes: r.SlotDurationMinutes,
			Active:              active,
		}
		if err := domain.ValidateRule(rule); err != nil {
			httperr.FromError(c, err, "invalid_rule")
			return
		}
		toCreate = append(toCreate, rule)
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.DoctorAvailabilityRule{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_rules", "Could not save availability rules.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:   auditActor(c),
		ActorRole: models.RoleDoctor,
		Action:    "availability_rules_replaced",
		Entity:    "doctor",
		EntityID:  &doctorID,
		Metadata:  map[string]any{"rules": len(toCreate)},
	})

	httpresp.List(c, toCreate)
}

// ======================================================
// EXCEPTIONS
// ======================================================

func (h *AvailabilityHandler) ListExceptions(c *gin.Context) {
	doctorID := callerFrom(c).DoctorID

	from, to := c.Query("from"), c.Query("to")
	if (from != "" && !isDate(from)) || (to != "" && !isDate(to)) {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}

	q := h.db.Where("doctor_id = ? AND active = ?", doctorID, true)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var exceptions []models.AvailabilityException
	if err := q.Order("date ASC").Find(&exceptions).Error; err != nil {
		httperr.Internal(c, "failed_to_get_exceptions", "Could not load exceptions.")
		return
	}

	httpresp.List(c, exceptions)
}

func (h *AvailabilityHandler) CreateException(c *gin.Context) {
	doctorID := callerFrom(c).DoctorID

	var req ExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	exc := models.AvailabilityException{
		DoctorID:    doctorID,
		Date:        req.Date,
		IsAvailable: req.IsAvailable,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Reason:      req.Reason,
		Active:      true,
	}
	if err := domain.ValidateException(exc); err != nil {
		httperr.FromError(c, err, "invalid_exception")
		return
	}

	if err := h.db.Create(&exc).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Write(c, http.StatusConflict, "exception_exists", "An exception already exists for this date.")
			return
		}
		httperr.Internal(c, "failed_to_create_exception", "Could not save exception.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:   auditActor(c),
		ActorRole: models.RoleDoctor,
		Action:    "availability_exception_created",
		Entity:    "availability_exception",
		EntityID:  &exc.ID,
		Metadata:  map[string]any{"date": exc.Date, "is_available": exc.IsAvailable},
	})

	httpresp.Created(c, exc)
}

// DeleteException deactivates the row; history is kept.
func (h *AvailabilityHandler) DeleteException(c *gin.Context) {
	doctorID := callerFrom(c).DoctorID

	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid exception id.")
		return
	}

	var exc models.AvailabilityException
	if err := h.db.
		Where("id = ? AND doctor_id = ? AND active = ?", id, doctorID, true).
		First(&exc).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "exception_not_found", "Exception not found.")
			return
		}
		httperr.Internal(c, "failed_to_load_exception", "Could not load exception.")
		return
	}

	if err := h.db.Model(&exc).Update("active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_exception", "Could not remove exception.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:   auditActor(c),
		ActorRole: models.RoleDoctor,
		Action:    "availability_exception_removed",
		Entity:    "availability_exception",
		EntityID:  &exc.ID,
		Metadata:  map[string]any{"date": exc.Date},
	})

	c.Status(http.StatusNoContent)
}

// ======================================================
// HELPERS
// ======================================================

func isDate(s string) bool {
	_, err := calendar.ParseDate(s)
	return err == nil
}
