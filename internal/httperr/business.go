package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// statusByCode maps the recoverable error codes of the scheduling core to
// HTTP statuses. Codes not listed fall back to 400.
var statusByCode = map[string]int{
	"not_found":                http.StatusNotFound,
	"appointment_not_found":    http.StatusNotFound,
	"slot_not_found":           http.StatusNotFound,
	"schedule_not_found":       http.StatusNotFound,
	"patient_not_found":        http.StatusNotFound,
	"doctor_not_found":         http.StatusNotFound,
	"user_not_found":           http.StatusNotFound,
	"medication_not_found":     http.StatusNotFound,
	"medical_record_not_found": http.StatusNotFound,
	"prescription_not_found":   http.StatusNotFound,
	"unauthorized":             http.StatusForbidden,
	"duplicate_booking":        http.StatusConflict,
	"slot_unavailable":         http.StatusConflict,
	"insufficient_stock":       http.StatusConflict,
	"already_dispensed":        http.StatusConflict,
}

// WriteBusiness renders a BusinessError and reports whether err was one.
// Non-business errors (storage I/O and the like) are left to the caller.
func WriteBusiness(c *gin.Context, err error) bool {
	code, ok := BusinessCode(err)
	if !ok {
		return false
	}

	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusBadRequest
	}

	Write(c, status, code, messageFor(code))
	return true
}

func messageFor(code string) string {
	switch code {
	case "appointment_not_found":
		return "Appointment not found."
	case "slot_not_found":
		return "The requested time slot does not exist in the schedule."
	case "schedule_not_found":
		return "The doctor has no schedule yet."
	case "slot_unavailable":
		return "The requested time slot is no longer available."
	case "duplicate_booking":
		return "You already have an appointment at that time."
	case "invalid_transition":
		return "The appointment cannot change to that status."
	case "invalid_state":
		return "The appointment is not in a state that allows this operation."
	case "unauthorized":
		return "You are not allowed to operate on this appointment."
	case "insufficient_stock":
		return "Not enough stock to dispense this prescription."
	case "already_dispensed":
		return "This prescription has already been dispensed."
	default:
		return "The request could not be processed."
	}
}
