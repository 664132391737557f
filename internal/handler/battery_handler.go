package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/common/auth"
	"github.com/rise-rentals/service-booking/internal/common/middleware"
	"github.com/rise-rentals/service-booking/internal/common/response"
)

// BatteryHandler handles admin HTTP requests for batteries.
type BatteryHandler struct {
	service *application.InventoryService
}

func NewBatteryHandler(service *application.InventoryService) *BatteryHandler {
	return &BatteryHandler{service: service}
}

// RegisterRoutes registers battery routes.
func (h *BatteryHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin/batteries")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("", h.ListBatteries)
		admin.POST("", h.CreateBattery)
		admin.PATCH("/:id/status", h.UpdateStatus)
		admin.DELETE("/:id", h.DeleteBattery)
	}
}

func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	result, err := h.service.ListBatteries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (h *BatteryHandler) CreateBattery(c *gin.Context) {
	var req application.CreateBatteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBattery(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func (h *BatteryHandler) UpdateStatus(c *gin.Context) {
	batteryID, ok := parseID(c, "id", "battery")
	if !ok {
		return
	}

	var req application.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBatteryStatus(c.Request.Context(), batteryID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (h *BatteryHandler) DeleteBattery(c *gin.Context) {
	batteryID, ok := parseID(c, "id", "battery")
	if !ok {
		return
	}

	if err := h.service.DeleteBattery(c.Request.Context(), batteryID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
