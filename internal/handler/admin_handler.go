package handler

import (
	"github.com/CleanNest/service-cleaning/internal/application"
	"github.com/CleanNest/service-cleaning/internal/auth"
	"github.com/CleanNest/service-cleaning/internal/domain/user"
	"github.com/CleanNest/service-cleaning/internal/middleware"
	"github.com/CleanNest/service-cleaning/internal/response"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles the admin dashboard routes.
type AdminHandler struct {
	bookings *application.BookingService
	users    *application.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, users *application.UserService) *AdminHandler {
	return &AdminHandler{bookings: bookings, users: users}
}

// RegisterRoutes registers the admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(user.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/users", h.ListUsers)
		admin.GET("/stats", h.GetStats)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.users.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// GetStats handles GET /api/v1/admin/stats.
func (h *AdminHandler) GetStats(c *gin.Context) {
	result, err := h.bookings.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
