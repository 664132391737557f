package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/common/auth"
	"github.com/rise-rentals/service-booking/internal/common/domain"
	"github.com/rise-rentals/service-booking/internal/common/middleware"
	"github.com/rise-rentals/service-booking/internal/common/response"
	bookingDomain "github.com/rise-rentals/service-booking/internal/domain/booking"
)

// defaultSlotWindow is how far ahead ListTimeSlots looks when no range is given.
const defaultSlotWindow = 30 * 24 * time.Hour

// TimeSlotHandler handles HTTP requests for blocked timeslots.
type TimeSlotHandler struct {
	service *application.TimeSlotService
}

func NewTimeSlotHandler(service *application.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{service: service}
}

// RegisterRoutes registers timeslot routes.
func (h *TimeSlotHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	r.GET("/api/v1/timeslots", authMW, h.ListTimeSlots)

	admin := r.Group("/api/v1/admin/timeslots")
	admin.Use(authMW, middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("", h.BlockTimeSlot)
		admin.DELETE("", h.UnblockTimeSlot)
	}
}

// ListTimeSlots handles GET /api/v1/timeslots?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *TimeSlotHandler) ListTimeSlots(c *gin.Context) {
	now := time.Now().UTC()
	from := c.DefaultQuery("from", bookingDomain.DayKey(now))
	to := c.DefaultQuery("to", bookingDomain.DayKey(now.Add(defaultSlotWindow)))

	result, err := h.service.ListTimeSlots(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BlockTimeSlot handles POST /api/v1/admin/timeslots.
func (h *TimeSlotHandler) BlockTimeSlot(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.BlockTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.BlockTimeSlot(c.Request.Context(), req, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !result.Blocked {
		response.Success(c, result)
		return
	}
	response.Created(c, result)
}

// UnblockTimeSlot handles DELETE /api/v1/admin/timeslots?day=YYYY-MM-DD&slot=morning.
func (h *TimeSlotHandler) UnblockTimeSlot(c *gin.Context) {
	day := c.Query("day")
	slot := c.Query("slot")

	removed, err := h.service.UnblockTimeSlot(c.Request.Context(), day, slot)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, domain.NewNotFoundError("timeslot", day+"/"+slot))
		return
	}

	response.NoContent(c)
}
