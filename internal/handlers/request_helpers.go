package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/medical-scheduler/internal/usecase/appointment"
)

// callerFrom reads the identity set by AuthMiddleware.
func callerFrom(c *gin.Context) ucAppointment.Caller {
	return ucAppointment.Caller{
		UserID:    c.GetUint(middleware.ContextUserID),
		Actor:     domain.Actor(c.GetString(middleware.ContextUserRole)),
		DoctorID:  c.GetUint(middleware.ContextDoctorID),
		PatientID: c.GetUint(middleware.ContextPatientID),
	}
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func uintQuery(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func auditActor(c *gin.Context) *uint {
	id := c.GetUint(middleware.ContextUserID)
	if id == 0 {
		return nil
	}
	return &id
}
