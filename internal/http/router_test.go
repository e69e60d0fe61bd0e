package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/facefit-backend/internal/data/aggregates"
	"github.com/yungbote/facefit-backend/internal/data/repos"
	"github.com/yungbote/facefit-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/facefit-backend/internal/http/handlers"
	httpMW "github.com/yungbote/facefit-backend/internal/http/middleware"
	"github.com/yungbote/facefit-backend/internal/modules/facemetrics"
	"github.com/yungbote/facefit-backend/internal/modules/training"
	"github.com/yungbote/facefit-backend/internal/pkg/keylock"
	"github.com/yungbote/facefit-backend/internal/services"
)

const testSecret = "router-test-secret"

type staticDetector struct{ ls facemetrics.LandmarkSet }

func (d staticDetector) Detect(_ context.Context, _ []byte, w, h int) (facemetrics.LandmarkSet, error) {
	ls := d.ls
	ls.Width, ls.Height = w, h
	return ls, nil
}

type switchEntitlements struct{ active bool }

func (s *switchEntitlements) IsEntitled(context.Context, uuid.UUID) bool { return s.active }

func frontal() facemetrics.LandmarkSet {
	ls := facemetrics.NewSparseLandmarkSet(1000, 1000)
	for i, p := range map[int][2]float64{
		facemetrics.Midline:         {0.50, 0.45},
		facemetrics.NoseTip:         {0.50, 0.50},
		facemetrics.LeftCheekOuter:  {0.30, 0.50},
		facemetrics.RightCheekOuter: {0.70, 0.50},
		facemetrics.LeftEyeOuter:    {0.38, 0.40},
		facemetrics.RightEyeOuter:   {0.62, 0.40},
		facemetrics.LeftEyeInner:    {0.45, 0.40},
		facemetrics.RightEyeInner:   {0.55, 0.40},
		facemetrics.LeftMouth:       {0.42, 0.65},
		facemetrics.RightMouth:      {0.58, 0.65},
		facemetrics.LeftJaw:         {0.34, 0.70},
		facemetrics.RightJaw:        {0.66, 0.70},
		facemetrics.LeftCheekbone:   {0.32, 0.55},
		facemetrics.RightCheekbone:  {0.68, 0.55},
		facemetrics.Chin:            {0.50, 0.85},
	} {
		ls.Points[i] = facemetrics.Point{X: p[0], Y: p[1]}
	}
	return ls
}

func testPNG(t *testing.T, lit bool) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	if lit {
		for y := 0; y < 64; y++ {
			for x := 0; x < 64; x++ {
				v := uint8(100)
				if (x+y)%2 == 0 {
					v = 200
				}
				img.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type testServer struct {
	engine *gin.Engine
	ent    *switchEntitlements
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	tx := aggregates.NewGormTxRunner(db, keylock.NewMemory(), log)

	scanRepo := repos.NewScanRepo(db, log)
	goalRepo := repos.NewGoalRepo(db, log)
	exRepo := repos.NewExerciseRepo(db, log)
	planRepo := repos.NewWorkoutPlanRepo(db, log)
	sessionRepo := repos.NewWorkoutSessionRepo(db, log)

	catalog := services.NewCatalogService(log, tx, exRepo, nil, training.DefaultRules(), "")
	_, err := catalog.Seed(context.Background())
	require.NoError(t, err)

	plans := services.NewPlanService(log, tx, planRepo, goalRepo, exRepo, services.PlanOptions{})
	goals := services.NewGoalService(log, tx, scanRepo, goalRepo)
	scans := services.NewScanService(services.ScanServiceDeps{
		Log:      log,
		Tx:       tx,
		Scans:    scanRepo,
		Goals:    goalRepo,
		Detector: staticDetector{ls: frontal()},
		Plans:    plans,
	})
	progression := services.NewProgressionService(log, tx, planRepo, repos.NewPlanExerciseRepo(db, log), sessionRepo, exRepo, training.DefaultRules())
	dashboard := services.NewDashboardService(log, scanRepo, goalRepo, sessionRepo)
	ent := &switchEntitlements{}

	engine := NewRouter(RouterConfig{
		Log:              log,
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, services.NewAuthService(log, testSecret)),
		Entitlements:     ent,
		HealthHandler:    httpH.NewHealthHandler(nil),
		ScanHandler:      httpH.NewScanHandler(log, scans, 0),
		GoalHandler:      httpH.NewGoalHandler(goals, plans, ent),
		WorkoutHandler:   httpH.NewWorkoutHandler(plans, progression, catalog),
		DashboardHandler: httpH.NewDashboardHandler(dashboard),
	})
	return &testServer{engine: engine, ent: ent}
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *testServer) do(t *testing.T, req *nethttp.Request, userID uuid.UUID) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	if userID != uuid.Nil {
		req.Header.Set("Authorization", bearer(t, userID))
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	var body map[string]any
	if rec.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func uploadRequest(t *testing.T, data []byte) *nethttp.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "face.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(nethttp.MethodPost, "/api/scans", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.do(t, httptest.NewRequest(nethttp.MethodGet, "/healthcheck", nil), uuid.Nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestScanUploadFlow(t *testing.T) {
	s := newTestServer(t)
	userID := uuid.New()

	rec, _ := s.do(t, uploadRequest(t, testPNG(t, true)), uuid.Nil)
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec, body := s.do(t, uploadRequest(t, testPNG(t, true)), userID)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, body["metrics"])
	require.NotEmpty(t, body["plan_id"])
	scanID := body["scan"].(map[string]any)["id"].(string)

	rec, body = s.do(t, uploadRequest(t, testPNG(t, false)), userID)
	require.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
	errBody := body["error"].(map[string]any)
	require.Equal(t, "too_dark", errBody["reason"])
	require.Equal(t, "scan_rejected", errBody["code"])

	rec, body = s.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/scans", nil), userID)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Len(t, body["scans"], 2)

	rec, _ = s.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/scans/"+scanID, nil), userID)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec, _ = s.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/scans/"+scanID, nil), uuid.New())
	require.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec, _ = s.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/scans/nope", nil), userID)
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, body = s.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/goals", nil), userID)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.NotNil(t, body["goal"].(map[string]any)["target_jawline_angle"])
}

func TestMissingImageIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(nethttp.MethodPost, "/api/scans", nil)
	rec, _ := s.do(t, req, uuid.New())
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestPremiumRoutesRequireEntitlement(t *testing.T) {
	s := newTestServer(t)
	userID := uuid.New()

	rec, body := s.do(t, httptest.NewRequest(nethttp.MethodPost, "/api/goals", bytes.NewBufferString(`{"reduce_puffiness":false}`)), userID)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, body["plan_id"])
	require.Equal(t, false, body["is_premium"])

	for _, path := range []string{"/api/plan", "/api/dashboard"} {
		rec, body = s.do(t, httptest.NewRequest(nethttp.MethodGet, path, nil), userID)
		require.Equal(t, nethttp.StatusPaymentRequired, rec.Code, path)
		require.Equal(t, "PAYMENT_REQUIRED", body["error"].(map[string]any)["code"])
	}
	rec, _ = s.do(t, httptest.NewRequest(nethttp.MethodPost, "/api/sessions", nil), userID)
	require.Equal(t, nethttp.StatusPaymentRequired, rec.Code)

	s.ent.active = true

	rec, body = s.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/plan", nil), userID)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Len(t, body["plan"].(map[string]any)["exercises"], training.DefaultPlanTotal+1)

	rec, body = s.do(t, httptest.NewRequest(nethttp.MethodPost, "/api/sessions", nil), userID)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.EqualValues(t, 1, body["session"].(map[string]any)["sessions_completed"])

	rec, body = s.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/dashboard", nil), userID)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.EqualValues(t, 1, body["streak_days"])
	require.EqualValues(t, 1, body["total_sessions"])
}

func TestExercisesAndDeriveGoals(t *testing.T) {
	s := newTestServer(t)
	userID := uuid.New()

	rec, body := s.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/exercises", nil), userID)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Len(t, body["exercises"], 16)

	rec, body = s.do(t, httptest.NewRequest(nethttp.MethodPost, "/api/goals/derive", nil), userID)
	require.Equal(t, nethttp.StatusNotFound, rec.Code)
	require.Equal(t, "no_completed_scan", body["error"].(map[string]any)["code"])

	rec, _ = s.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/plan", nil), userID)
	require.Equal(t, nethttp.StatusPaymentRequired, rec.Code)
}
