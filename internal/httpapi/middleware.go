package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	headerSessionID     = "X-Session-ID"
	headerFacilitatorID = "X-Facilitator-ID"

	actorKey = "waypoint.actor"
)

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if userID := c.Param("userID"); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		if sessionID := c.GetHeader(headerSessionID); sessionID != "" {
			fields = append(fields, "session_id", sessionID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// RequireFacilitator resolves the facilitator actor from the request
// header. Identity is trusted as given; authentication lives upstream.
func RequireFacilitator() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerFacilitatorID))
		if id == "" {
			RespondError(c, http.StatusUnauthorized, "FACILITATOR_REQUIRED", errors.New(headerFacilitatorID+" header is required"))
			c.Abort()
			return
		}
		c.Set(actorKey, domain.FacilitatorActor(id))
		c.Next()
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(domain.Actor); ok {
			return a
		}
	}
	return domain.Actor{}
}
