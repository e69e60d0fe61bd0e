package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/facefit-backend/internal/modules/facemetrics"
	"github.com/yungbote/facefit-backend/internal/modules/training"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "JWT_SECRET_KEY", "REDIS_ADDR", "PROGRESSION_CADENCE", "QUALITY_MIN_BRIGHTNESS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(nil)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, 5*time.Minute, cfg.EntitlementCacheTTL)
	require.Equal(t, facemetrics.DefaultQualityThresholds(), cfg.Quality)
	require.Equal(t, training.DefaultRules(), cfg.Rules)
	require.Equal(t, training.DefaultPlanTotal, cfg.PlanTotal)
	require.Equal(t, []string{"premium"}, cfg.RevenueCat.EntitlementIDs)
	require.Nil(t, cfg.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENTITLEMENT_CACHE_TTL", "30s")
	t.Setenv("PROGRESSION_CADENCE", "3")
	t.Setenv("QUALITY_MIN_BRIGHTNESS", "45.5")
	t.Setenv("REVENUECAT_ENTITLEMENT_IDS", "pro, premium ,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := LoadConfig(nil)

	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, 30*time.Second, cfg.EntitlementCacheTTL)
	require.Equal(t, 3, cfg.Rules.Cadence)
	require.Equal(t, training.DefaultRules().RepsCeiling, cfg.Rules.RepsCeiling)
	require.InDelta(t, 45.5, cfg.Quality.MinBrightness, 1e-9)
	require.Equal(t, []string{"pro", "premium"}, cfg.RevenueCat.EntitlementIDs)
	require.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	require.Equal(t, map[string]string{"x-api-key": "abc"}, cfg.Otel.Headers)
	require.False(t, cfg.MetricsEnabled)
}

func TestLoadConfigReplacesDegenerateTuning(t *testing.T) {
	t.Setenv("PROGRESSION_REPS_CEILING", "0")
	t.Setenv("PROGRESSION_DURATION_STEP", "-5")
	t.Setenv("QUALITY_MAX_FACING_RATIO", "0")

	cfg := LoadConfig(nil)

	require.Equal(t, training.DefaultRules().RepsCeiling, cfg.Rules.RepsCeiling)
	require.Equal(t, training.DefaultRules().DurationStep, cfg.Rules.DurationStep)
	require.InDelta(t, facemetrics.DefaultQualityThresholds().MaxFacingRatio, cfg.Quality.MaxFacingRatio, 1e-9)
}
