package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/facefit-backend/internal/pkg/ctxutil"
	"github.com/yungbote/facefit-backend/internal/services"
)

// KeyEntitled is set on premium routes once the subscription check passes.
const KeyEntitled = "middleware.entitled"

var errSubscriptionRequired = errors.New("an active subscription is required")

// RequireEntitlement gates premium routes. It must run after RequireAuth.
func RequireEntitlement(entitlements services.EntitlementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == uuid.Nil {
			abort(c, http.StatusUnauthorized, "unauthorized", errMissingToken)
			return
		}
		if entitlements == nil || !entitlements.IsEntitled(c.Request.Context(), rd.UserID) {
			abort(c, http.StatusPaymentRequired, "PAYMENT_REQUIRED", errSubscriptionRequired)
			return
		}
		c.Set(KeyEntitled, true)
		c.Next()
	}
}
