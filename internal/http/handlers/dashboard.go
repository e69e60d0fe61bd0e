package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/facefit-backend/internal/http/response"
	"github.com/yungbote/facefit-backend/internal/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	d, err := h.dashboard.Get(c.Request.Context(), requestUserID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, d)
}
