package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/common/auth"
	"github.com/rise-rentals/service-booking/internal/common/middleware"
	"github.com/rise-rentals/service-booking/internal/common/response"
)

// PriceHandler handles HTTP requests for rental tariffs.
type PriceHandler struct {
	service *application.PriceService
}

func NewPriceHandler(service *application.PriceService) *PriceHandler {
	return &PriceHandler{service: service}
}

// RegisterRoutes registers price routes.
func (h *PriceHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	r.GET("/api/v1/prices/current", authMW, h.CurrentPrice)

	admin := r.Group("/api/v1/admin/prices")
	admin.Use(authMW, middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("", h.ListPrices)
		admin.POST("", h.CreatePrice)
		admin.DELETE("/:id", h.DeletePrice)
	}
}

// CurrentPrice handles GET /api/v1/prices/current.
func (h *PriceHandler) CurrentPrice(c *gin.Context) {
	result, err := h.service.CurrentPrice(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (h *PriceHandler) ListPrices(c *gin.Context) {
	result, err := h.service.ListPrices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (h *PriceHandler) CreatePrice(c *gin.Context) {
	var req application.CreatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePrice(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func (h *PriceHandler) DeletePrice(c *gin.Context) {
	priceID, ok := parseID(c, "id", "price")
	if !ok {
		return
	}

	if err := h.service.DeletePrice(c.Request.Context(), priceID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
