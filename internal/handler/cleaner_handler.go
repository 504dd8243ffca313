package handler

import (
	"net/http"

	"github.com/CleanNest/service-cleaning/internal/application"
	"github.com/CleanNest/service-cleaning/internal/auth"
	"github.com/CleanNest/service-cleaning/internal/domain/user"
	"github.com/CleanNest/service-cleaning/internal/middleware"
	"github.com/CleanNest/service-cleaning/internal/response"
	"github.com/gin-gonic/gin"
)

// CleanerHandler handles the cleaner-facing routes: the work queue and the
// cleaner's own profile.
type CleanerHandler struct {
	bookings *application.BookingService
	users    *application.UserService
}

// NewCleanerHandler creates a new CleanerHandler.
func NewCleanerHandler(bookings *application.BookingService, users *application.UserService) *CleanerHandler {
	return &CleanerHandler{bookings: bookings, users: users}
}

// RegisterRoutes registers the cleaner routes on the given router group.
func (h *CleanerHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	cleaner := r.Group("/api/v1/cleaner")
	cleaner.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(user.RoleCleaner))
	{
		cleaner.GET("/bookings", h.ListAssignedBookings)
		cleaner.GET("/profile", h.GetProfile)
		cleaner.PUT("/profile", h.UpdateProfile)
	}
}

// ListAssignedBookings handles GET /api/v1/cleaner/bookings.
func (h *CleanerHandler) ListAssignedBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	result, err := h.bookings.GetCleanerBookings(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetProfile handles GET /api/v1/cleaner/profile.
func (h *CleanerHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.users.GetCleanerProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateProfile handles PUT /api/v1/cleaner/profile.
func (h *CleanerHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateCleanerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.UpdateCleanerProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
