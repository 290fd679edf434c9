package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/booking"
)

type PatientHandler struct {
	availability *booking.GetAvailability
	book         *booking.BookAppointment
	reschedule   *booking.RescheduleAppointment
	cancel       *booking.CancelAppointment
	appointments *store.AppointmentStore
	records      *repository.MedicalRecordGormRepository
}

func NewPatientHandler(
	availability *booking.GetAvailability,
	book *booking.BookAppointment,
	reschedule *booking.RescheduleAppointment,
	cancel *booking.CancelAppointment,
	appointments *store.AppointmentStore,
	records *repository.MedicalRecordGormRepository,
) *PatientHandler {
	return &PatientHandler{
		availability: availability,
		book:         book,
		reschedule:   reschedule,
		cancel:       cancel,
		appointments: appointments,
		records:      records,
	}
}

// --------- Availability ---------

func (h *PatientHandler) ListAvailability(c *gin.Context) {
	out, err := h.availability.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not load availability.")
		return
	}
	httpresp.List(c, out)
}

func (h *PatientHandler) DoctorAvailability(c *gin.Context) {
	doctorID := c.Param("doctorId")

	out, err := h.availability.ExecuteForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not load availability.")
		return
	}
	httpresp.OK(c, out)
}

// --------- Booking ---------

type BookRequest struct {
	DoctorID  string `json:"doctor_id" binding:"required"`
	Timestamp string `json:"timestamp" binding:"required"`
}

func (h *PatientHandler) Book(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), booking.BookAppointmentInput{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not book the appointment.")
		return
	}
	httpresp.Created(c, ap)
}

type RescheduleRequest struct {
	NewDoctorID  string `json:"new_doctor_id"`
	NewTimestamp string `json:"new_timestamp" binding:"required"`
}

func (h *PatientHandler) Reschedule(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)
	appointmentID := c.Param("id")

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), patientID, booking.RescheduleAppointmentInput{
		AppointmentID: appointmentID,
		NewDoctorID:   req.NewDoctorID,
		NewTimestamp:  req.NewTimestamp,
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not reschedule the appointment.")
		return
	}
	httpresp.OK(c, ap)
}

func (h *PatientHandler) Cancel(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)
	appointmentID := c.Param("id")

	ap, err := h.cancel.Execute(c.Request.Context(), patientID, appointmentID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not cancel the appointment.")
		return
	}
	httpresp.OK(c, ap)
}

// --------- Views ---------

// MyAppointments lists the patient's active appointments. Canceled ones are
// kept in the store but filtered out of this view.
func (h *PatientHandler) MyAppointments(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)

	list, err := h.appointments.ByPatient(c.Request.Context(), patientID, "")
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not list appointments.")
		return
	}

	active := make([]appointment.Appointment, 0, len(list))
	for _, ap := range list {
		if appointment.IsActive(ap.Status) && ap.Status != appointment.StatusCompleted {
			active = append(active, ap)
		}
	}
	httpresp.List(c, active)
}

// MyMedicalRecord shows the patient their own record as maintained by
// their doctors.
func (h *PatientHandler) MyMedicalRecord(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)

	rec, err := h.records.ByPatient(c.Request.Context(), patientID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not load the medical record.")
		return
	}
	httpresp.OK(c, rec)
}

// PastOutcomes lists the patient's completed visits with their recorded
// outcomes.
func (h *PatientHandler) PastOutcomes(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)

	list, err := h.appointments.ByPatient(c.Request.Context(), patientID, appointment.StatusCompleted)
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not list outcomes.")
		return
	}
	httpresp.List(c, list)
}
