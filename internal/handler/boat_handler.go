package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/common/auth"
	"github.com/rise-rentals/service-booking/internal/common/middleware"
	"github.com/rise-rentals/service-booking/internal/common/response"
)

// BoatHandler handles HTTP requests for the boat fleet.
type BoatHandler struct {
	service *application.InventoryService
}

func NewBoatHandler(service *application.InventoryService) *BoatHandler {
	return &BoatHandler{service: service}
}

// RegisterRoutes registers boat routes.
func (h *BoatHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	boats := r.Group("/api/v1/boats")
	boats.Use(authMW)
	{
		boats.GET("", h.ListBoats)
		boats.GET("/available/count", h.AvailableCount)
	}

	admin := r.Group("/api/v1/admin/boats")
	admin.Use(authMW, middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("", h.CreateBoat)
		admin.PATCH("/:id/status", h.UpdateStatus)
		admin.DELETE("/:id", h.DeleteBoat)
	}
}

// ListBoats handles GET /api/v1/boats.
func (h *BoatHandler) ListBoats(c *gin.Context) {
	result, err := h.service.ListBoats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AvailableCount handles GET /api/v1/boats/available/count.
func (h *BoatHandler) AvailableCount(c *gin.Context) {
	count, err := h.service.AvailableBoatCount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"available": count})
}

// CreateBoat handles POST /api/v1/admin/boats.
func (h *BoatHandler) CreateBoat(c *gin.Context) {
	var req application.CreateBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBoat(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateStatus handles PATCH /api/v1/admin/boats/:id/status.
func (h *BoatHandler) UpdateStatus(c *gin.Context) {
	boatID, ok := parseID(c, "id", "boat")
	if !ok {
		return
	}

	var req application.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBoatStatus(c.Request.Context(), boatID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBoat handles DELETE /api/v1/admin/boats/:id.
func (h *BoatHandler) DeleteBoat(c *gin.Context) {
	boatID, ok := parseID(c, "id", "boat")
	if !ok {
		return
	}

	if err := h.service.DeleteBoat(c.Request.Context(), boatID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
