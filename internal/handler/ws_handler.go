package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/CleanNest/service-cleaning/internal/auth"
	"github.com/CleanNest/service-cleaning/internal/hub"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler upgrades connections for live booking status updates.
type WSHandler struct {
	hub        *hub.Hub
	jwtManager *auth.JWTManager
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(h *hub.Hub, jwtManager *auth.JWTManager, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:        h,
		jwtManager: jwtManager,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the websocket endpoint on the given router group.
func (h *WSHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws", h.Serve)
}

// Serve handles GET /ws. Browsers cannot set headers on websocket dials, so
// the token is also accepted as a query parameter.
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		token, _ = strings.CutPrefix(header, "Bearer ")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := h.jwtManager.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	connectionID := fmt.Sprintf("%s/%s", claims.UserID, uuid.NewString())
	h.logger.Debug("websocket connected",
		zap.String("connection_id", connectionID),
	)

	client := hub.NewClient(h.hub, conn, connectionID, h.logger)
	go client.Run()
}
