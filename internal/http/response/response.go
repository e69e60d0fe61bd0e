package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facefit-backend/internal/platform/apierr"
)

// Gin context keys the request logger reads back.
const (
	KeyErrorCode    = "response.error_code"
	KeyRejectReason = "response.reject_reason"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.Set(KeyErrorCode, code)
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError writes err with the status its sentinel maps to. Internal errors
// are not echoed to the client.
func RespondServiceError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", nil)
	}
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.Set(KeyErrorCode, ae.Code)
		c.JSON(ae.Status, ErrorEnvelope{Error: APIError{Message: "internal error", Code: ae.Code}})
		return
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

// RespondRejected reports a capture the user should retake.
func RespondRejected(c *gin.Context, reason, message string, payload any) {
	c.Set(KeyErrorCode, "scan_rejected")
	c.Set(KeyRejectReason, reason)
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error": APIError{Message: message, Code: "scan_rejected", Reason: reason},
		"scan":  payload,
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
