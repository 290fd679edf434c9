package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/pharmacy"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

// AdminHandler covers staff management and the medication inventory.
type AdminHandler struct {
	users     *repository.UserGormRepository
	inventory *repository.InventoryGormRepository
	approve   *pharmacy.ApproveReplenishment
	audit     *audit.Dispatcher
}

func NewAdminHandler(
	users *repository.UserGormRepository,
	inventory *repository.InventoryGormRepository,
	approve *pharmacy.ApproveReplenishment,
	audit *audit.Dispatcher,
) *AdminHandler {
	return &AdminHandler{
		users:     users,
		inventory: inventory,
		approve:   approve,
		audit:     audit,
	}
}

// --------- Staff ---------

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

type UpdateStaffRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

var staffRoles = map[string]bool{
	models.RoleAdmin:      true,
	models.RoleDoctor:     true,
	models.RolePharmacist: true,
}

func (h *AdminHandler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if !staffRoles[req.Role] {
		httperr.BadRequest(c, "invalid_role", "Role must be admin, doctor or pharmacist.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The e-mail domain does not look valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not hash the password.")
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         req.Role,
		// staff accounts start with a default password set by the admin
		MustChangePassword: true,
		Active:             true,
	}

	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		httperr.Internal(c, "failed_to_create_user", "Could not create the account.")
		return
	}

	adminID := c.MustGet(middleware.ContextUserID).(string)
	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "staff_created",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.Created(c, user)
}

func (h *AdminHandler) ListStaff(c *gin.Context) {
	role := c.Query("role")

	var out []models.User
	if role != "" {
		users, err := h.users.UsersByRole(c.Request.Context(), role)
		if err != nil {
			httperr.Internal(c, "failed_to_list_users", "Could not list accounts.")
			return
		}
		out = users
	} else {
		for r := range staffRoles {
			users, err := h.users.UsersByRole(c.Request.Context(), r)
			if err != nil {
				httperr.Internal(c, "failed_to_list_users", "Could not list accounts.")
				return
			}
			out = append(out, users...)
		}
	}

	httpresp.List(c, out)
}

func (h *AdminHandler) UpdateStaff(c *gin.Context) {
	id := c.Param("id")

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	user, err := h.users.UserByID(c.Request.Context(), id)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not load the account.")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		if !staffRoles[req.Role] {
			httperr.BadRequest(c, "invalid_role", "Role must be admin, doctor or pharmacist.")
			return
		}
		user.Role = req.Role
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not update the account.")
		return
	}

	adminID := c.MustGet(middleware.ContextUserID).(string)
	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "staff_updated",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.OK(c, user)
}

func (h *AdminHandler) RemoveStaff(c *gin.Context) {
	id := c.Param("id")

	if err := h.users.Deactivate(c.Request.Context(), id); err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_remove_user", "Could not remove the account.")
		return
	}

	adminID := c.MustGet(middleware.ContextUserID).(string)
	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "staff_removed",
		Entity:   "user",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

// --------- Inventory ---------

type CreateInventoryItemRequest struct {
	MedicationName     string `json:"medication_name" binding:"required"`
	StockLevel         int    `json:"stock_level" binding:"min=0"`
	LowStockAlertLevel int    `json:"low_stock_alert_level" binding:"min=0"`
}

type UpdateInventoryItemRequest struct {
	StockLevel         *int `json:"stock_level"`
	LowStockAlertLevel *int `json:"low_stock_alert_level"`
}

// InventoryItemView decorates an item with its computed low-stock flag for
// the listing surfaces.
type InventoryItemView struct {
	models.InventoryItem
	LowStock bool `json:"low_stock"`
}

func inventoryViews(items []models.InventoryItem) []InventoryItemView {
	out := make([]InventoryItemView, 0, len(items))
	for _, item := range items {
		out = append(out, InventoryItemView{
			InventoryItem: item,
			LowStock:      item.LowStock(),
		})
	}
	return out
}

func (h *AdminHandler) CreateInventoryItem(c *gin.Context) {
	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	item := models.InventoryItem{
		MedicationName:     req.MedicationName,
		StockLevel:         req.StockLevel,
		LowStockAlertLevel: req.LowStockAlertLevel,
	}

	if err := h.inventory.Create(c.Request.Context(), &item); err != nil {
		httperr.Internal(c, "failed_to_create_item", "Could not create the medication.")
		return
	}

	httpresp.Created(c, item)
}

func (h *AdminHandler) ListInventory(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_inventory", "Could not list the inventory.")
		return
	}
	httpresp.List(c, inventoryViews(items))
}

func (h *AdminHandler) UpdateInventoryItem(c *gin.Context) {
	name := c.Param("name")

	var req UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	item, err := h.inventory.ItemByName(c.Request.Context(), name)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not load the medication.")
		return
	}

	if req.StockLevel != nil {
		item.StockLevel = *req.StockLevel
	}
	if req.LowStockAlertLevel != nil {
		item.LowStockAlertLevel = *req.LowStockAlertLevel
	}

	if err := h.inventory.Update(c.Request.Context(), item); err != nil {
		httperr.Internal(c, "failed_to_update_item", "Could not update the medication.")
		return
	}

	httpresp.OK(c, item)
}

func (h *AdminHandler) RemoveInventoryItem(c *gin.Context) {
	name := c.Param("name")

	if err := h.inventory.Delete(c.Request.Context(), name); err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_remove_item", "Could not remove the medication.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ApproveReplenishment(c *gin.Context) {
	name := c.Param("name")
	adminID := c.MustGet(middleware.ContextUserID).(string)

	item, err := h.approve.Execute(c.Request.Context(), adminID, name)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Could not approve the replenishment.")
		return
	}

	httpresp.OK(c, item)
}
