package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/dto"
	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/medical-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the doctor directory and bookable slots without
// authentication.
type PublicHandler struct {
	db             *gorm.DB
	availabilityUC *ucAppointment.GetAvailability
}

func NewPublicHandler(db *gorm.DB, availabilityUC *ucAppointment.GetAvailability) *PublicHandler {
	return &PublicHandler{
		db:             db,
		availabilityUC: availabilityUC,
	}
}

type DoctorSummary struct {
	ID                 uint   `json:"id"`
	Name               string `json:"name"`
	Specialty          string `json:"specialty"`
	DefaultSlotMinutes int    `json:"default_slot_minutes"`
	Timezone           string `json:"timezone"`
}

////////////////////////////////////////////////////////
// DOCTORS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListDoctors(c *gin.Context) {
	specialty := strings.TrimSpace(strings.ToLower(c.Query("specialty")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Model(&models.Doctor{}).
		Joins("User")

	if specialty != "" {
		q = q.Where("LOWER(doctors.specialty) = ?", specialty)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(`LOWER("User".name) LIKE ?`, like)
	}

	var doctors []models.Doctor
	if err := q.Order("doctors.id ASC").Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Could not list doctors.")
		return
	}

	out := make([]DoctorSummary, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, DoctorSummary{
			ID:                 d.ID,
			Name:               d.User.Name,
			Specialty:          d.Specialty,
			DefaultSlotMinutes: d.DefaultSlotMinutes,
			Timezone:           d.Timezone,
		})
	}

	httpresp.List(c, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability returns free slots per date. from defaults to today and to
// defaults to from + 6 days.
func (h *PublicHandler) Availability(c *gin.Context) {
	doctorID, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid doctor id.")
		return
	}

	from := calendar.DateOf(time.Now())
	if s := c.Query("from"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
			return
		}
		from = d
	}

	to := from.AddDate(0, 0, 6)
	if s := c.Query("to"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
			return
		}
		to = d
	}

	days, err := h.availabilityUC.Execute(c.Request.Context(), domain.AvailabilityInput{
		DoctorID: doctorID,
		From:     from,
		To:       to,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_resolve_availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor_id": doctorID,
		"days":      toDaySlotsDTO(days),
	})
}

func toDaySlotsDTO(days []domain.DaySlots) []dto.DaySlotsDTO {
	out := make([]dto.DaySlotsDTO, 0, len(days))
	for _, d := range days {
		slots := make([]string, 0, len(d.Slots))
		for _, s := range d.Slots {
			slots = append(slots, s.Format("15:04"))
		}
		out = append(out, dto.DaySlotsDTO{Date: d.Date, Slots: slots})
	}
	return out
}
