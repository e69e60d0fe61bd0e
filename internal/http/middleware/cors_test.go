package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		origins []string
		origin  string
		allowed bool
	}{
		{"expo dev default", nil, "http://localhost:19006", true},
		{"loopback default", nil, "http://127.0.0.1:8081", true},
		{"configured", []string{"https://app.facefit.io"}, "https://app.facefit.io", true},
		{"not configured", []string{"https://app.facefit.io"}, "http://localhost:3000", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			r.Use(CORS(tc.origins))
			r.OPTIONS("/api/scans", func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodOptions, "/api/scans", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tc.allowed {
				if rec.Code != http.StatusNoContent {
					t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
				}
				if got != tc.origin {
					t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, tc.origin)
				}
				return
			}
			if got != "" {
				t.Fatalf("origin %q should not be allowed, got header %q", tc.origin, got)
			}
		})
	}
}
