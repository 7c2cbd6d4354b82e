package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
	"github.com/BruksfildServices01/medical-scheduler/internal/timezone"
)

type DoctorProfileHandler struct {
	db *gorm.DB
}

func NewDoctorProfileHandler(db *gorm.DB) *DoctorProfileHandler {
	return &DoctorProfileHandler{db: db}
}

type UpdateDoctorProfileRequest struct {
	Specialty          *string `json:"specialty"`
	DefaultSlotMinutes *int    `json:"default_slot_minutes"`
	Timezone           *string `json:"timezone"`
}

func (h *DoctorProfileHandler) load(c *gin.Context) (*models.Doctor, bool) {
	doctorID := callerFrom(c).DoctorID

	var doctor models.Doctor
	if err := h.db.Preload("User").First(&doctor, doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_doctor", "Could not load doctor profile.")
		return nil, false
	}
	return &doctor, true
}

func (h *DoctorProfileHandler) Get(c *gin.Context) {
	doctor, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, doctor)
}

func (h *DoctorProfileHandler) Update(c *gin.Context) {
	doctor, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Specialty != nil {
		doctor.Specialty = strings.TrimSpace(*req.Specialty)
	}

	if req.DefaultSlotMinutes != nil {
		if *req.DefaultSlotMinutes <= 0 {
			httperr.BadRequest(c, "invalid_slot_minutes", "Default slot length must be positive (minutes).")
			return
		}
		doctor.DefaultSlotMinutes = *req.DefaultSlotMinutes
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		doctor.Timezone = *req.Timezone
	}

	if err := h.db.Omit("User", "Rules", "Exceptions").Save(doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_update_doctor", "Could not save doctor profile.")
		return
	}

	c.JSON(http.StatusOK, doctor)
}
