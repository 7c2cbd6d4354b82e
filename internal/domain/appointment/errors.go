package appointment

import "github.com/BruksfildServices01/medical-scheduler/internal/httperr"

var (
	ErrInvalidTransition         = httperr.ErrBusiness("invalid_transition")
	ErrModificationWindowExpired = httperr.ErrBusiness("modification_window_expired")
	ErrConflictingSlot           = httperr.ErrBusiness("conflicting_slot")
	ErrNoAvailability            = httperr.ErrBusiness("no_availability")

	ErrInvalidRule      = httperr.ErrBusiness("invalid_rule")
	ErrInvalidException = httperr.ErrBusiness("invalid_exception")

	ErrAppointmentNotFound = httperr.ErrBusiness("appointment_not_found")
	ErrDoctorNotFound      = httperr.ErrBusiness("doctor_not_found")
	ErrPatientNotFound     = httperr.ErrBusiness("patient_not_found")
	ErrForbidden           = httperr.ErrBusiness("forbidden")
)
