package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/facefit-backend/internal/http/response"
	"github.com/yungbote/facefit-backend/internal/services"
)

type WorkoutHandler struct {
	plans       services.PlanService
	progression services.ProgressionService
	catalog     services.CatalogService
}

func NewWorkoutHandler(plans services.PlanService, progression services.ProgressionService, catalog services.CatalogService) *WorkoutHandler {
	return &WorkoutHandler{plans: plans, progression: progression, catalog: catalog}
}

// GET /api/plan
func (h *WorkoutHandler) GetPlan(c *gin.Context) {
	plan, err := h.plans.GetActivePlan(c.Request.Context(), requestUserID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan})
}

// POST /api/sessions
func (h *WorkoutHandler) CompleteSession(c *gin.Context) {
	out, err := h.progression.RecordSessionCompletion(c.Request.Context(), requestUserID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": out})
}

// GET /api/exercises
func (h *WorkoutHandler) ListExercises(c *gin.Context) {
	rows, err := h.catalog.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"exercises": rows})
}
