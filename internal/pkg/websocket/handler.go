package websocket

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/pkg/apperrors"
	"github.com/startconnect/api/internal/pkg/auth"
)

// UserDirectory is the subset of user storage the handler needs
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Handler authenticates and upgrades WebSocket connections
type Handler struct {
	hub        *Hub
	router     *Router
	jwtService *auth.JWTService
	users      UserDirectory
	redis      *redis.Client
	logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(
	hub *Hub,
	router *Router,
	jwtService *auth.JWTService,
	users UserDirectory,
	redisClient *redis.Client,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		hub:        hub,
		router:     router,
		jwtService: jwtService,
		users:      users,
		redis:      redisClient,
		logger:     logger,
	}
}

// HandleConnection godoc
// @Summary Establish a WebSocket connection for real-time team chat
// @Description Upgrades HTTP connection to a WebSocket connection. The bearer credential is validated before the upgrade; room access is negotiated afterwards via join_team events.
// @Tags chat, websocket
// @Produce json
// @Security BearerAuth
// @Param token query string false "JWT access token (alternative to Authorization header)"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} gin.H "Unauthorized: credential missing, invalid or expired"
// @Router /chat/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	// Authorization header preferred, token query parameter as fallback
	token := ""
	if header := c.GetHeader("Authorization"); header != "" {
		extracted, err := auth.ExtractBearerToken(header)
		if err == nil {
			token = extracted
		}
	}
	if token == "" {
		token = c.Query("token")
	}

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	// Tokens invalidated by logout are rejected even before expiry
	if h.redis != nil {
		blacklisted, err := h.redis.Exists(c.Request.Context(), "blacklist:"+token).Result()
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to check token blacklist")
		} else if blacklisted > 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		}
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		} else {
			h.logger.Error().
				Err(err).
				Int64("userID", claims.UserID).
				Msg("Failed to load user during handshake")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to authenticate"})
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("userID", user.ID).
			Msg("Failed to upgrade connection")
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		userID:   user.ID,
		userName: user.Name,
		logger:   h.logger,
	}

	h.hub.register <- client

	go client.writePump()
	go client.readPump(h.router)
}
