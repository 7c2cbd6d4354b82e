package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{db: db}
}

type PatientSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
}

// ======================================================
// LIST PATIENTS (DOCTOR)
// ======================================================

// List returns the patients who have booked with the logged-in doctor.
func (h *PatientHandler) List(c *gin.Context) {
	doctorID := callerFrom(c).DoctorID

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Patient{}).
		Joins("User").
		Where("patients.id IN (?)",
			h.db.Model(&models.Appointment{}).
				Select("patient_id").
				Where("doctor_id = ?", doctorID),
		)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			`LOWER("User".name) LIKE ? OR "User".phone LIKE ? OR LOWER("User".email) LIKE ?`,
			like, like, like,
		)
	}

	var patients []models.Patient
	if err := q.
		Order(`"User".name ASC`).
		Find(&patients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_patients", "Could not list patients.")
		return
	}

	out := make([]PatientSummary, 0, len(patients))
	for _, p := range patients {
		out = append(out, PatientSummary{
			ID:       p.ID,
			Name:     p.User.Name,
			Email:    p.User.Email,
			Phone:    p.User.Phone,
			Document: p.Document,
		})
	}

	c.JSON(http.StatusOK, out)
}
