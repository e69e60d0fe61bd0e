package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/facefit-backend/internal/data/aggregates"
	"github.com/yungbote/facefit-backend/internal/data/repos"
	"github.com/yungbote/facefit-backend/internal/data/repos/testutil"
	"github.com/yungbote/facefit-backend/internal/modules/facemetrics"
	"github.com/yungbote/facefit-backend/internal/modules/training"
	"github.com/yungbote/facefit-backend/internal/pkg/keylock"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type fakeDetector struct {
	mu    sync.Mutex
	ls    facemetrics.LandmarkSet
	err   error
	calls int
}

func (f *fakeDetector) Detect(_ context.Context, _ []byte, width, height int) (facemetrics.LandmarkSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return facemetrics.LandmarkSet{}, f.err
	}
	ls := f.ls
	ls.Width, ls.Height = width, height
	return ls, nil
}

func (f *fakeDetector) set(ls facemetrics.LandmarkSet, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ls, f.err = ls, err
}

type harness struct {
	db       *gorm.DB
	log      *logger.Logger
	detector *fakeDetector

	scanRepo    repos.ScanRepo
	goalRepo    repos.GoalRepo
	exRepo      repos.ExerciseRepo
	planRepo    repos.WorkoutPlanRepo
	itemRepo    repos.PlanExerciseRepo
	sessionRepo repos.WorkoutSessionRepo
	subRepo     repos.SubscriptionRepo

	catalog     CatalogService
	plans       PlanService
	goals       GoalService
	scans       ScanService
	progression ProgressionService
	dashboard   DashboardService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	tx := aggregates.NewGormTxRunner(db, keylock.NewMemory(), log)

	h := &harness{
		db:          db,
		log:         log,
		detector:    &fakeDetector{ls: frontalFace()},
		scanRepo:    repos.NewScanRepo(db, log),
		goalRepo:    repos.NewGoalRepo(db, log),
		exRepo:      repos.NewExerciseRepo(db, log),
		planRepo:    repos.NewWorkoutPlanRepo(db, log),
		itemRepo:    repos.NewPlanExerciseRepo(db, log),
		sessionRepo: repos.NewWorkoutSessionRepo(db, log),
		subRepo:     repos.NewSubscriptionRepo(db, log),
	}
	h.catalog = NewCatalogService(log, tx, h.exRepo, nil, training.DefaultRules(), "")
	h.plans = NewPlanService(log, tx, h.planRepo, h.goalRepo, h.exRepo, PlanOptions{})
	h.goals = NewGoalService(log, tx, h.scanRepo, h.goalRepo)
	h.scans = NewScanService(ScanServiceDeps{
		Log:      log,
		Tx:       tx,
		Scans:    h.scanRepo,
		Goals:    h.goalRepo,
		Detector: h.detector,
		Plans:    h.plans,
	})
	h.progression = NewProgressionService(log, tx, h.planRepo, h.itemRepo, h.sessionRepo, h.exRepo, training.DefaultRules())
	h.dashboard = NewDashboardService(log, h.scanRepo, h.goalRepo, h.sessionRepo)

	_, err := h.catalog.Seed(context.Background())
	require.NoError(t, err)
	return h
}

// frontalFace is a level, centered, symmetric face in normalized coordinates.
func frontalFace() facemetrics.LandmarkSet {
	ls := facemetrics.NewSparseLandmarkSet(1000, 1000)
	set := func(i int, x, y float64) { ls.Points[i] = facemetrics.Point{X: x, Y: y} }
	set(facemetrics.Midline, 0.50, 0.45)
	set(facemetrics.NoseTip, 0.50, 0.50)
	set(facemetrics.LeftCheekOuter, 0.30, 0.50)
	set(facemetrics.RightCheekOuter, 0.70, 0.50)
	set(facemetrics.LeftEyeOuter, 0.38, 0.40)
	set(facemetrics.RightEyeOuter, 0.62, 0.40)
	set(facemetrics.LeftEyeInner, 0.45, 0.40)
	set(facemetrics.RightEyeInner, 0.55, 0.40)
	set(facemetrics.LeftMouth, 0.42, 0.65)
	set(facemetrics.RightMouth, 0.58, 0.65)
	set(facemetrics.LeftJaw, 0.34, 0.70)
	set(facemetrics.RightJaw, 0.66, 0.70)
	set(facemetrics.LeftCheekbone, 0.32, 0.55)
	set(facemetrics.RightCheekbone, 0.68, 0.55)
	set(facemetrics.Chin, 0.50, 0.85)
	return ls
}

// checkerPNG is bright and sharp enough to pass the capture checks.
func checkerPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(100)
			if (x+y)%2 == 0 {
				v = 200
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return encodePNG(t, img)
}

func darkPNG(t *testing.T) []byte {
	t.Helper()
	return encodePNG(t, image.NewGray(image.Rect(0, 0, 64, 64)))
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newUser() uuid.UUID { return uuid.New() }
