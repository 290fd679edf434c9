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
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/pharmacy"
)

type PharmacistHandler struct {
	dispense     *pharmacy.DispensePrescription
	replenish    *pharmacy.RequestReplenishment
	appointments *store.AppointmentStore
	inventory    *repository.InventoryGormRepository
}

func NewPharmacistHandler(
	dispense *pharmacy.DispensePrescription,
	replenish *pharmacy.RequestReplenishment,
	appointments *store.AppointmentStore,
	inventory *repository.InventoryGormRepository,
) *PharmacistHandler {
	return &PharmacistHandler{
		dispense:     dispense,
		replenish:    replenish,
		appointments: appointments,
		inventory:    inventory,
	}
}

// ListOutcomes shows completed visits whose prescriptions still need
// attention.
func (h *PharmacistHandler) ListOutcomes(c *gin.Context) {
	list, err := h.appointments.ByStatus(c.Request.Context(), appointment.StatusCompleted)
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not list outcomes.")
		return
	}
	httpresp.List(c, list)
}

type DispenseRequest struct {
	MedicationName string `json:"medication_name" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required,min=1"`
}

func (h *PharmacistHandler) Dispense(c *gin.Context) {
	pharmacistID := c.MustGet(middleware.ContextUserID).(string)
	appointmentID := c.Param("id")

	var req DispenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.dispense.Execute(c.Request.Context(), pharmacistID, pharmacy.DispensePrescriptionInput{
		AppointmentID:  appointmentID,
		MedicationName: req.MedicationName,
		Quantity:       req.Quantity,
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not dispense the prescription.")
		return
	}
	httpresp.OK(c, ap)
}

func (h *PharmacistHandler) ListInventory(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not list the inventory.")
		return
	}
	httpresp.List(c, inventoryViews(items))
}

type ReplenishRequest struct {
	Amount int `json:"amount" binding:"required,min=1"`
}

func (h *PharmacistHandler) RequestReplenishment(c *gin.Context) {
	pharmacistID := c.MustGet(middleware.ContextUserID).(string)
	name := c.Param("name")

	var req ReplenishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	item, err := h.replenish.Execute(c.Request.Context(), pharmacistID, name, req.Amount)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not file the request.")
		return
	}
	httpresp.OK(c, item)
}
