package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medical-scheduler/internal/middleware"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	userID, ok := userIDVal.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_user_id_type"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{"user": userPayload(&user)}

	switch user.Role {
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := h.db.Where("user_id = ?", user.ID).First(&doctor).Error; err == nil {
			resp["doctor"] = gin.H{
				"id":                   doctor.ID,
				"specialty":            doctor.Specialty,
				"default_slot_minutes": doctor.DefaultSlotMinutes,
				"timezone":             doctor.Timezone,
			}
		}

	case models.RolePatient:
		var patient models.Patient
		if err := h.db.Where("user_id = ?", user.ID).First(&patient).Error; err == nil {
			resp["patient"] = gin.H{
				"id":         patient.ID,
				"document":   patient.Document,
				"birth_date": patient.BirthDate,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
