package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/medical-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/medical-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC     *ucAppointment.CreateAppointment
	getUC        *ucAppointment.GetAppointment
	transitionUC *ucAppointment.TransitionAppointment
	rescheduleUC *ucAppointment.RescheduleAppointment
	listByDateUC *ucAppointment.ListAppointmentsByDate
	listByMonth  *ucAppointment.ListAppointmentsByMonth
	conflictUC   *ucAppointment.CheckConflict
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	getUC *ucAppointment.GetAppointment,
	transitionUC *ucAppointment.TransitionAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
	conflictUC *ucAppointment.CheckConflict,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:     createUC,
		getUC:        getUC,
		transitionUC: transitionUC,
		rescheduleUC: rescheduleUC,
		listByDateUC: listByDateUC,
		listByMonth:  listByMonth,
		conflictUC:   conflictUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID  uint   `json:"doctor_id"`
	PatientID uint   `json:"patient_id"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Reason    string `json:"reason" binding:"max=255"`
	Notes     string `json:"notes"`
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Caller:    callerFrom(c),
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// DETAIL
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	out, err := h.getUC.Execute(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_load_appointment")
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// STATUS CHANGES
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, domain.StatusConfirmed)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, domain.StatusCancelled)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, domain.StatusCompleted)
}

func (h *AppointmentHandler) transition(c *gin.Context, to domain.Status) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.transitionUC.Execute(c.Request.Context(), ucAppointment.TransitionInput{
		Caller:        callerFrom(c),
		AppointmentID: id,
		To:            to,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		Caller:        callerFrom(c),
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_reschedule_appointment")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// AGENDA (doctor)
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	doctorID := agendaDoctor(c)

	date := time.Now()
	if s := c.Query("date"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
			return
		}
		date = d
	}

	out, err := h.listByDateUC.Execute(c.Request.Context(), doctorID, date)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	doctorID := agendaDoctor(c)

	now := timezone.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), doctorID, year, month)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, out)
}

// agendaDoctor is the caller's own doctor profile; admins pick one with
// ?doctor_id.
func agendaDoctor(c *gin.Context) uint {
	caller := callerFrom(c)
	if caller.Actor == domain.ActorAdmin {
		id, _ := uintQuery(c, "doctor_id")
		return id
	}
	return caller.DoctorID
}

// Conflict answers whether the doctor already holds an active appointment
// at the given local date and time.
func (h *AppointmentHandler) Conflict(c *gin.Context) {
	doctorID, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid doctor id.")
		return
	}

	busy, err := h.conflictUC.ExecuteLocal(
		c.Request.Context(),
		doctorID,
		c.Query("date"),
		c.Query("time"),
	)
	if err != nil {
		httperr.FromError(c, err, "failed_to_check_conflict")
		return
	}

	httpresp.OK(c, gin.H{"conflict": busy})
}
