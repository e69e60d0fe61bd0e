package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facefit-backend/internal/http/response"
	"github.com/yungbote/facefit-backend/internal/modules/training"
	pkgerrors "github.com/yungbote/facefit-backend/internal/pkg/errors"
	"github.com/yungbote/facefit-backend/internal/services"
)

type GoalHandler struct {
	goals        services.GoalService
	plans        services.PlanService
	entitlements services.EntitlementService
}

func NewGoalHandler(goals services.GoalService, plans services.PlanService, entitlements services.EntitlementService) *GoalHandler {
	return &GoalHandler{goals: goals, plans: plans, entitlements: entitlements}
}

// GET /api/goals
func (h *GoalHandler) GetGoal(c *gin.Context) {
	goal, err := h.goals.GetGoal(c.Request.Context(), requestUserID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goal": goal})
}

type preferencesRequest struct {
	SharperJawline  *bool `json:"sharper_jawline"`
	ReducePuffiness *bool `json:"reduce_puffiness"`
	ImproveSymmetry *bool `json:"improve_symmetry"`
}

// prefs treats an omitted wish as wanted.
func (r preferencesRequest) prefs() training.Preferences {
	p := training.DefaultPreferences()
	if r.SharperJawline != nil {
		p.SharperJawline = *r.SharperJawline
	}
	if r.ReducePuffiness != nil {
		p.ReducePuffiness = *r.ReducePuffiness
	}
	if r.ImproveSymmetry != nil {
		p.ImproveSymmetry = *r.ImproveSymmetry
	}
	return p
}

// POST /api/goals
func (h *GoalHandler) SetPreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID := requestUserID(c)
	plan, err := h.plans.BuildPlan(c.Request.Context(), userID, req.prefs())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	premium := h.entitlements != nil && h.entitlements.IsEntitled(c.Request.Context(), userID)
	response.RespondOK(c, gin.H{
		"plan_id":    plan.ID,
		"is_premium": premium,
	})
}

// POST /api/goals/derive
func (h *GoalHandler) DeriveGoals(c *gin.Context) {
	goal, err := h.goals.DeriveGoals(c.Request.Context(), requestUserID(c))
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "no_completed_scan", err)
			return
		}
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goal": goal})
}
