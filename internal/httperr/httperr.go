package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

var businessStatus = map[string]int{
	"conflicting_slot":            http.StatusConflict,
	"agenda_busy":                 http.StatusConflict,
	"invalid_transition":          http.StatusUnprocessableEntity,
	"modification_window_expired": http.StatusUnprocessableEntity,
	"no_availability":             http.StatusUnprocessableEntity,
	"appointment_not_found":       http.StatusNotFound,
	"doctor_not_found":            http.StatusNotFound,
	"patient_not_found":           http.StatusNotFound,
	"forbidden":                   http.StatusForbidden,
}

var businessMessage = map[string]string{
	"conflicting_slot":            "Time slot already booked.",
	"invalid_transition":          "Status change not allowed.",
	"modification_window_expired": "Too close to the appointment to change it.",
	"no_availability":             "Doctor has no availability at the requested time.",
	"appointment_not_found":       "Appointment not found.",
	"doctor_not_found":            "Doctor not found.",
	"patient_not_found":           "Patient not found.",
	"forbidden":                   "Not allowed.",
	"agenda_busy":                 "Doctor's agenda is being updated, try again.",
	"in_the_past":                 "Appointment time must be in the future.",
	"invalid_range":               "Invalid date range.",
	"invalid_date_or_time":        "Invalid date or time.",
	"invalid_rule":                "Invalid availability rule.",
	"invalid_exception":           "Invalid availability exception.",
}

// FromError writes err as a JSON error. Business errors keep their code,
// anything else becomes a 500 with fallbackCode.
func FromError(c *gin.Context, err error, fallbackCode string) {
	code := CodeOf(err)
	if code == "" {
		Internal(c, fallbackCode, "Unexpected error.")
		return
	}

	status, ok := businessStatus[code]
	if !ok {
		status = http.StatusBadRequest
	}

	msg, ok := businessMessage[code]
	if !ok {
		msg = "Invalid request."
	}

	Write(c, status, code, msg)
}
