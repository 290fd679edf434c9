package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/booking"
)

type DoctorHandler struct {
	manageSchedule *booking.ManageSchedule
	confirm        *booking.ConfirmAppointment
	decline        *booking.DeclineAppointment
	recordOutcome  *booking.RecordOutcome
	appointments   *store.AppointmentStore
	records        *repository.MedicalRecordGormRepository
}

func NewDoctorHandler(
	manageSchedule *booking.ManageSchedule,
	confirm *booking.ConfirmAppointment,
	decline *booking.DeclineAppointment,
	recordOutcome *booking.RecordOutcome,
	appointments *store.AppointmentStore,
	records *repository.MedicalRecordGormRepository,
) *DoctorHandler {
	return &DoctorHandler{
		manageSchedule: manageSchedule,
		confirm:        confirm,
		decline:        decline,
		recordOutcome:  recordOutcome,
		appointments:   appointments,
		records:        records,
	}
}

// --------- Schedule ---------

func (h *DoctorHandler) ViewSchedule(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	cal, err := h.manageSchedule.View(c.Request.Context(), doctorID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not load the schedule.")
		return
	}
	httpresp.OK(c, cal)
}

func (h *DoctorHandler) InitializeSchedule(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	cal, err := h.manageSchedule.Initialize(c.Request.Context(), doctorID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not initialize the schedule.")
		return
	}
	httpresp.Created(c, cal)
}

func (h *DoctorHandler) ExtendSchedule(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 || days > 90 {
		httperr.BadRequest(c, "invalid_days", "days must be between 1 and 90.")
		return
	}

	cal, err := h.manageSchedule.Extend(c.Request.Context(), doctorID, days)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not extend the schedule.")
		return
	}
	httpresp.OK(c, cal)
}

type SlotRequest struct {
	Timestamp string `json:"timestamp" binding:"required"`
}

func (h *DoctorHandler) BlockSlot(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	cal, err := h.manageSchedule.BlockSlot(c.Request.Context(), doctorID, req.Timestamp)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not block the slot.")
		return
	}
	httpresp.OK(c, cal)
}

func (h *DoctorHandler) UnblockSlot(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	cal, err := h.manageSchedule.UnblockSlot(c.Request.Context(), doctorID, req.Timestamp)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not unblock the slot.")
		return
	}
	httpresp.OK(c, cal)
}

// --------- Appointments ---------

func (h *DoctorHandler) ListAppointments(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)
	status := appointment.Status(c.Query("status"))

	list, err := h.appointments.ByDoctor(c.Request.Context(), doctorID, status)
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not list appointments.")
		return
	}
	httpresp.List(c, list)
}

func (h *DoctorHandler) PendingRequests(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	list, err := h.appointments.ByDoctor(c.Request.Context(), doctorID, appointment.StatusPending)
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not list requests.")
		return
	}
	httpresp.List(c, list)
}

func (h *DoctorHandler) Confirm(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)
	appointmentID := c.Param("id")

	ap, err := h.confirm.Execute(c.Request.Context(), doctorID, appointmentID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not confirm the appointment.")
		return
	}
	httpresp.OK(c, ap)
}

func (h *DoctorHandler) Decline(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)
	appointmentID := c.Param("id")

	ap, err := h.decline.Execute(c.Request.Context(), doctorID, appointmentID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not decline the appointment.")
		return
	}
	httpresp.OK(c, ap)
}

// --------- Outcome ---------

type RecordOutcomeRequest struct {
	ServiceType       string                      `json:"service_type" binding:"required"`
	ConsultationNotes string                      `json:"consultation_notes"`
	Prescriptions     []booking.PrescriptionInput `json:"prescriptions"`
}

func (h *DoctorHandler) RecordOutcome(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)
	appointmentID := c.Param("id")

	var req RecordOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.recordOutcome.Execute(c.Request.Context(), doctorID, booking.RecordOutcomeInput{
		AppointmentID:     appointmentID,
		ServiceType:       req.ServiceType,
		ConsultationNotes: req.ConsultationNotes,
		Prescriptions:     req.Prescriptions,
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not record the outcome.")
		return
	}
	httpresp.OK(c, ap)
}

// --------- Medical records ---------

func (h *DoctorHandler) ViewMedicalRecord(c *gin.Context) {
	patientID := c.Param("patientId")

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

type UpdateMedicalRecordRequest struct {
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	BloodType   string `json:"blood_type"`
	Diagnoses   string `json:"diagnoses"`
	Treatments  string `json:"treatments"`
}

func (h *DoctorHandler) UpdateMedicalRecord(c *gin.Context) {
	patientID := c.Param("patientId")

	var req UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	rec := models.MedicalRecord{
		PatientID:   patientID,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		BloodType:   req.BloodType,
		Diagnoses:   req.Diagnoses,
		Treatments:  req.Treatments,
	}

	if err := h.records.Upsert(c.Request.Context(), &rec); err != nil {
		httperr.Internal(c, "internal_error", "Could not save the medical record.")
		return
	}
	httpresp.OK(c, rec)
}
