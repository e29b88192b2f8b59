package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/siagacall/relay/internal/auth"
	"github.com/siagacall/relay/internal/websocket"
)

// InitRoutes initializes all API routes. authenticator may be nil, in which
// case the /ws endpoint is open.
func InitRoutes(e *echo.Echo, hub *websocket.Hub, authenticator *auth.Authenticator, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "siagacall-relay",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	// Active call listing for the dashboard; in-memory snapshot only
	v1.GET("/calls", func(c echo.Context) error {
		return c.JSON(http.StatusOK, CallListResponse{Calls: hub.ActiveCalls()})
	})

	// Human takeover toggle; while set, the AI pipeline is suppressed for
	// that call
	v1.POST("/calls/:id/takeover", func(c echo.Context) error {
		return setTakeover(c, hub, logger)
	})

	// WebSocket endpoint for peers
	e.GET("/ws", func(c echo.Context) error {
		return serveWebSocket(c, hub, authenticator, logger)
	})
}

func setTakeover(c echo.Context, hub *websocket.Hub, logger *zap.Logger) error {
	var req TakeoverRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind takeover request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	connectionID := c.Param("id")
	if !hub.SetTakeover(connectionID, req.Takeover) {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "connection_not_found",
			Message: "No open connection with that id",
		})
	}

	return c.JSON(http.StatusOK, TakeoverResponse{
		ConnectionID: connectionID,
		Takeover:     req.Takeover,
	})
}

// serveWebSocket validates the peer token when auth is enabled, then hands
// the request to the hub. The token is taken from the Authorization header
// or, for browser clients that cannot set headers on WebSocket dials, the
// token query parameter.
func serveWebSocket(c echo.Context, hub *websocket.Hub, authenticator *auth.Authenticator, logger *zap.Logger) error {
	if authenticator == nil {
		return hub.HandleWebSocket(c)
	}

	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if token == "" {
		token = c.QueryParam("token")
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "A peer token is required",
		})
	}

	claims, err := authenticator.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired token",
		})
	}

	if claims.Role != auth.RolePeer && claims.Role != auth.RoleOperator {
		logger.Warn("WebSocket connection rejected: invalid role",
			zap.String("role", claims.Role))
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only peer and operator tokens may open call connections",
		})
	}

	return hub.HandleWebSocket(c)
}
