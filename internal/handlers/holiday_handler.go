package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/medical-scheduler/internal/audit"
	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

// HolidayStore is the persistence the holiday endpoints need.
type HolidayStore interface {
	List(ctx context.Context) ([]models.Holiday, error)
	Upsert(ctx context.Context, h *models.Holiday) error
	Delete(ctx context.Context, date string) (bool, error)
}

// HolidayHandler keeps the stored holidays and the in-memory calendar in
// step. Changes apply to future business-day checks only.
type HolidayHandler struct {
	store    HolidayStore
	calendar *calendar.Calendar
	audit    *audit.Dispatcher
}

func NewHolidayHandler(store HolidayStore, cal *calendar.Calendar, audit *audit.Dispatcher) *HolidayHandler {
	return &HolidayHandler{store: store, calendar: cal, audit: audit}
}

type HolidayRequest struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name" binding:"max=100"`
}

func (h *HolidayHandler) List(c *gin.Context) {
	holidays, err := h.store.List(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_holidays", "Could not list holidays.")
		return
	}

	httpresp.List(c, holidays)
}

func (h *HolidayHandler) Add(c *gin.Context) {
	var req HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}

	holiday := models.Holiday{Date: date.Format(calendar.DateLayout), Name: req.Name}
	if err := h.store.Upsert(c.Request.Context(), &holiday); err != nil {
		httperr.Internal(c, "failed_to_save_holiday", "Could not save holiday.")
		return
	}

	h.calendar.AddHoliday(date)

	h.audit.Dispatch(audit.Event{
		ActorID:   auditActor(c),
		ActorRole: models.RoleAdmin,
		Action:    "holiday_added",
		Entity:    "holiday",
		Metadata:  map[string]any{"date": holiday.Date, "name": holiday.Name},
	})

	httpresp.Created(c, holiday)
}

func (h *HolidayHandler) Remove(c *gin.Context) {
	date, err := calendar.ParseDate(c.Param("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}

	found, err := h.store.Delete(c.Request.Context(), date.Format(calendar.DateLayout))
	if err != nil {
		httperr.Internal(c, "failed_to_delete_holiday", "Could not remove holiday.")
		return
	}

	// config-seeded holidays live only in the calendar
	live := h.calendar.IsHoliday(date)
	if !found && !live {
		httperr.NotFound(c, "holiday_not_found", "Holiday not found.")
		return
	}

	h.calendar.RemoveHoliday(date)

	h.audit.Dispatch(audit.Event{
		ActorID:   auditActor(c),
		ActorRole: models.RoleAdmin,
		Action:    "holiday_removed",
		Entity:    "holiday",
		Metadata:  map[string]any{"date": date.Format(calendar.DateLayout), "stored": found},
	})

	c.Status(http.StatusNoContent)
}
