package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/facefit-backend/internal/pkg/ctxutil"
)

// requestUserID is the authenticated caller, or uuid.Nil outside RequireAuth.
func requestUserID(c *gin.Context) uuid.UUID {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		return uuid.Nil
	}
	return rd.UserID
}
