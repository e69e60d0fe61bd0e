package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/facefit-backend/internal/observability"
	"github.com/yungbote/facefit-backend/internal/pkg/ctxutil"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
	"github.com/yungbote/facefit-backend/internal/services"
)

const testSecret = "test-secret"

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func signToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	claims := services.JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)
	am := NewAuthMiddleware(log, services.NewAuthService(log, testSecret))
	userID := uuid.New()

	cases := []struct {
		name   string
		header string
		want   int
		code   string
	}{
		{"valid", "Bearer " + signToken(t, testSecret, userID.String(), time.Hour), http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, "unauthorized"},
		{"wrong secret", "Bearer " + signToken(t, "other", userID.String(), time.Hour), http.StatusUnauthorized, "unauthorized"},
		{"expired", "Bearer " + signToken(t, testSecret, userID.String(), -time.Minute), http.StatusUnauthorized, "token_expired"},
		{"bad subject", "Bearer " + signToken(t, testSecret, "not-a-uuid", time.Hour), http.StatusUnauthorized, "unauthorized"},
		{"nil subject", "Bearer " + signToken(t, testSecret, uuid.Nil.String(), time.Hour), http.StatusForbidden, "forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			var seen uuid.UUID
			r.GET("/api/me", am.RequireAuth(), func(c *gin.Context) {
				seen = ctxutil.GetRequestData(c.Request.Context()).UserID
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusOK && seen != userID {
				t.Fatalf("user id = %s, want %s", seen, userID)
			}
			if tc.code != "" && !strings.Contains(rec.Body.String(), `"code":"`+tc.code+`"`) {
				t.Fatalf("body = %s, want code %s", rec.Body.String(), tc.code)
			}
		})
	}
}

type stubEntitlements struct{ active bool }

func (s stubEntitlements) IsEntitled(context.Context, uuid.UUID) bool { return s.active }

func TestRequireEntitlement(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		active bool
		want   int
	}{{true, http.StatusOK}, {false, http.StatusPaymentRequired}} {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: uuid.New()})
			c.Request = c.Request.WithContext(ctx)
		})
		r.GET("/api/plan", RequireEntitlement(stubEntitlements{active: tc.active}), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/plan", nil))
		if rec.Code != tc.want {
			t.Fatalf("active=%v: status = %d, want %d", tc.active, rec.Code, tc.want)
		}
		if !tc.active && !strings.Contains(rec.Body.String(), "PAYMENT_REQUIRED") {
			t.Fatalf("body = %s", rec.Body.String())
		}
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var td *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		td = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-123")
	req.Header.Set(headerTraceID, "bad id with spaces")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if td == nil || td.RequestID != "req-123" {
		t.Fatalf("trace data = %+v", td)
	}
	if td.TraceID == "" || td.TraceID == "bad id with spaces" {
		t.Fatalf("trace id = %q", td.TraceID)
	}
	if got := rec.Header().Get(headerRequestID); got != "req-123" {
		t.Fatalf("X-Request-Id = %q", got)
	}
	if got := rec.Header().Get(headerTraceID); got != td.TraceID {
		t.Fatalf("X-Trace-Id = %q, want %q", got, td.TraceID)
	}
}

func TestMetricsSkipsProbesAndUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/scans/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/healthcheck", "/api/scans/abc", "/api/scans/def", "/wp-admin"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var buf strings.Builder
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `facefit_api_requests_total{method="GET",route="/api/scans/:id",status="404"} 2`) {
		t.Fatalf("missing templated route series:\n%s", out)
	}
	for _, unwanted := range []string{"/healthcheck", "/wp-admin"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("unexpected series for %s:\n%s", unwanted, out)
		}
	}
}
