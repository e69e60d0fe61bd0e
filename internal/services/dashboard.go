package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/facefit-backend/internal/data/repos"
	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

// jawlineHitMargin is how far above the target jawline angle still counts as reached.
const jawlineHitMargin = 2.0

type GraphPoint struct {
	ScanID         uuid.UUID `json:"scan_id"`
	CapturedAt     time.Time `json:"captured_at"`
	JawlineAngle   float64   `json:"jawline_angle"`
	SymmetryScore  float64   `json:"symmetry_score"`
	PuffinessIndex float64   `json:"puffiness_index"`
}

type ProgressSummary struct {
	OverallProgress int      `json:"overall_progress"`
	JawlineStatus   string   `json:"jawline_status"`
	GoalsHit        []string `json:"goals_hit"`
}

type Dashboard struct {
	StreakDays      int             `json:"streak_days"`
	TotalSessions   int             `json:"total_sessions"`
	Score           int             `json:"score"`
	GraphData       []GraphPoint    `json:"graph_data"`
	ProgressSummary ProgressSummary `json:"progress_summary"`
	Badges          []string        `json:"badges"`
}

type DashboardService interface {
	Get(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

type dashboardService struct {
	log      *logger.Logger
	scans    repos.ScanRepo
	goals    repos.GoalRepo
	sessions repos.WorkoutSessionRepo
	now      func() time.Time
}

func NewDashboardService(log *logger.Logger, scans repos.ScanRepo, goals repos.GoalRepo, sessions repos.WorkoutSessionRepo) DashboardService {
	return &dashboardService{
		log:      log.With("service", "DashboardService"),
		scans:    scans,
		goals:    goals,
		sessions: sessions,
		now:      time.Now,
	}
}

func (s *dashboardService) Get(ctx context.Context, userID uuid.UUID) (out *Dashboard, err error) {
	ctx, span := startSpan(ctx, "DashboardService.Get", userID)
	defer func() { endSpan(span, err) }()

	dbc := dbctx.New(ctx)
	sessions, err := s.sessions.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	scans, err := s.scans.ListByUser(dbc, userID, types.ScanStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	goal, err := s.goals.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}

	days := make([]time.Time, 0, len(sessions))
	for _, ws := range sessions {
		days = append(days, ws.CompletedAt)
	}
	out = &Dashboard{
		StreakDays:    Streak(days, s.now()),
		TotalSessions: len(sessions),
		GraphData:     make([]GraphPoint, 0, len(scans)),
		Badges:        []string{},
	}

	var latest *types.Scan
	for _, sc := range scans {
		if !sc.HasMetrics() {
			continue
		}
		latest = sc
		out.GraphData = append(out.GraphData, GraphPoint{
			ScanID:         sc.ID,
			CapturedAt:     sc.CapturedAt,
			JawlineAngle:   *sc.JawlineAngle,
			SymmetryScore:  *sc.SymmetryScore,
			PuffinessIndex: *sc.PuffinessIndex,
		})
	}

	out.ProgressSummary = progressSummary(latest, goal)
	if out.StreakDays > 0 {
		out.Badges = append(out.Badges, fmt.Sprintf("Day %d Complete", out.StreakDays))
	}
	out.Score = out.StreakDays * 10
	if latest != nil {
		out.Score += int(*latest.SymmetryScore)
	}
	return out, nil
}

func progressSummary(latest *types.Scan, goal *types.UserGoal) ProgressSummary {
	ps := ProgressSummary{JawlineStatus: "Pending", GoalsHit: []string{}}
	if latest == nil || goal == nil || goal.TargetJawlineAngle == nil {
		return ps
	}
	jaw, target := *latest.JawlineAngle, *goal.TargetJawlineAngle
	if jaw-target <= jawlineHitMargin {
		ps.JawlineStatus = "100% complete"
		ps.OverallProgress = 95
		ps.GoalsHit = append(ps.GoalsHit, "Sharper Jawline")
		return ps
	}
	ps.JawlineStatus = fmt.Sprintf("%d° (Goal %d°)", int(math.Trunc(jaw)), int(math.Trunc(target)))
	ps.OverallProgress = 50
	return ps
}

// Streak counts consecutive UTC days with at least one session, ending today or yesterday.
func Streak(completed []time.Time, now time.Time) int {
	if len(completed) == 0 {
		return 0
	}
	seen := make(map[time.Time]bool, len(completed))
	for _, t := range completed {
		seen[utcDay(t)] = true
	}
	day := utcDay(now)
	if !seen[day] {
		day = day.AddDate(0, 0, -1)
		if !seen[day] {
			return 0
		}
	}
	n := 0
	for seen[day] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
