package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medical-scheduler/internal/config"
	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
	"github.com/BruksfildServices01/medical-scheduler/internal/timezone"
	"github.com/BruksfildServices01/medical-scheduler/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	// emailDomainOK is swapped in tests to avoid DNS lookups.
	emailDomainOK func(email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:            db,
		config:        cfg,
		emailDomainOK: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required,oneof=patient doctor"`

	// doctor profile
	Specialty          string `json:"specialty"`
	DefaultSlotMinutes int    `json:"default_slot_minutes"`
	Timezone           string `json:"timezone"`

	// patient profile
	Document  string `json:"document"`
	BirthDate string `json:"birth_date"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emailDomainOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The e-mail domain does not look valid.")
		return
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		d, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_birth_date", "Use YYYY-MM-DD.")
			return
		}
		birthDate = &d
	}

	if req.Timezone != "" && !timezone.IsValid(req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_registered", "E-mail already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not register.")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         req.Role,
	}

	var profile tokenProfile

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		switch req.Role {
		case models.RoleDoctor:
			tz := req.Timezone
			if tz == "" {
				tz = h.config.ClinicTimezone
			}
			doctor := models.Doctor{
				UserID:             user.ID,
				Specialty:          req.Specialty,
				DefaultSlotMinutes: req.DefaultSlotMinutes,
				Timezone:           tz,
			}
			if doctor.DefaultSlotMinutes <= 0 {
				doctor.DefaultSlotMinutes = 30
			}
			if err := tx.Create(&doctor).Error; err != nil {
				return err
			}
			profile.doctorID = doctor.ID

		case models.RolePatient:
			patient := models.Patient{
				UserID:    user.ID,
				Document:  req.Document,
				BirthDate: birthDate,
			}
			if err := tx.Create(&patient).Error; err != nil {
				return err
			}
			profile.patientID = patient.ID
		}
		return nil
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.BadRequest(c, "email_already_registered", "E-mail already registered.")
			return
		}
		httperr.Internal(c, "failed_to_create_user", "Could not register.")
		return
	}

	token, err := h.generateToken(&user, profile)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":       userPayload(&user),
		"doctor_id":  profile.doctorID,
		"patient_id": profile.patientID,
		"token":      token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid e-mail or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not log in.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid e-mail or password.")
		return
	}

	profile, err := h.loadProfile(&user)
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not log in.")
		return
	}

	token, err := h.generateToken(&user, profile)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       userPayload(&user),
		"doctor_id":  profile.doctorID,
		"patient_id": profile.patientID,
		"token":      token,
	})
}

// --------- Profiles ---------

type tokenProfile struct {
	doctorID  uint
	patientID uint
}

func (h *AuthHandler) loadProfile(user *models.User) (tokenProfile, error) {
	var p tokenProfile

	switch user.Role {
	case models.RoleDoctor:
		var d models.Doctor
		if err := h.db.Select("id").Where("user_id = ?", user.ID).First(&d).Error; err != nil {
			return p, err
		}
		p.doctorID = d.ID

	case models.RolePatient:
		var pt models.Patient
		if err := h.db.Select("id").Where("user_id = ?", user.ID).First(&pt).Error; err != nil {
			return p, err
		}
		p.patientID = pt.ID
	}

	return p, nil
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"phone": user.Phone,
		"role":  user.Role,
	}
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User, p tokenProfile) (string, error) {
	ttl := h.config.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	if p.doctorID != 0 {
		claims["doctorId"] = p.doctorID
	}
	if p.patientID != 0 {
		claims["patientId"] = p.patientID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
