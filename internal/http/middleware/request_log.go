package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/facefit-backend/internal/http/response"
	"github.com/yungbote/facefit-backend/internal/pkg/ctxutil"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

// probeRoutes are polled by the orchestrator and logged at debug only.
var probeRoutes = map[string]bool{
	"/healthcheck": true,
	"/readyz":      true,
}

// RequestLogger writes one line per request. Scan uploads also carry the upload size and,
// when the capture was rejected, the reason the user was asked to retake it.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("middleware", "RequestLogger")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
			fields = append(fields, "user_id", rd.UserID)
		}
		if c.GetBool(KeyEntitled) {
			fields = append(fields, "entitled", true)
		}
		if c.Request.ContentLength > 0 {
			fields = append(fields, "upload_bytes", c.Request.ContentLength)
		}
		if code := c.GetString(response.KeyErrorCode); code != "" {
			fields = append(fields, "error_code", code)
		}
		if reason := c.GetString(response.KeyRejectReason); reason != "" {
			fields = append(fields, "scan_reason", reason)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case probeRoutes[route] && status < 400:
			log.Debug("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
