package app

import (
	"time"

	"github.com/yungbote/facefit-backend/internal/clients/revenuecat"
	"github.com/yungbote/facefit-backend/internal/modules/facemetrics"
	"github.com/yungbote/facefit-backend/internal/modules/training"
	"github.com/yungbote/facefit-backend/internal/observability"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
	"github.com/yungbote/facefit-backend/internal/utils"
)

type Config struct {
	Port         string
	JWTSecretKey string

	DBDriver   string
	SQLitePath string

	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	LockTTL             time.Duration
	EntitlementCacheTTL time.Duration

	RevenueCat revenuecat.Config

	ScanBucketName string
	CatalogFile    string
	MaxUploadBytes int64
	MaxImageSide   int
	Quality        facemetrics.QualityThresholds

	PlanTotal    int
	FinisherName string
	Rules        training.Rules

	AllowedOrigins []string
	MetricsEnabled bool
	MetricsAddr    string
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	q := facemetrics.DefaultQualityThresholds()
	rules := training.DefaultRules()

	return Config{
		Port:         utils.GetEnv("PORT", "8080", log),
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "", log),

		DBDriver:   utils.GetEnv("DB_DRIVER", "postgres", log),
		SQLitePath: utils.GetEnv("SQLITE_PATH", "", log),

		RedisAddr:           utils.GetEnv("REDIS_ADDR", "", log),
		RedisPassword:       utils.GetEnv("REDIS_PASSWORD", "", log),
		RedisDB:             utils.GetEnvAsInt("REDIS_DB", 0, log),
		LockTTL:             utils.GetEnvAsDuration("USER_LOCK_TTL", 30*time.Second, log),
		EntitlementCacheTTL: utils.GetEnvAsDuration("ENTITLEMENT_CACHE_TTL", 5*time.Minute, log),

		RevenueCat: revenuecat.Config{
			BaseURL:        utils.GetEnv("REVENUECAT_BASE_URL", revenuecat.DefaultBaseURL, log),
			APIKey:         utils.GetEnv("REVENUECAT_API_KEY", "", log),
			EntitlementIDs: utils.GetEnvAsList("REVENUECAT_ENTITLEMENT_IDS", []string{"premium"}, log),
			Timeout:        utils.GetEnvAsDuration("REVENUECAT_TIMEOUT", 10*time.Second, log),
			MaxRetries:     utils.GetEnvAsInt("REVENUECAT_MAX_RETRIES", 2, log),
		},

		ScanBucketName: utils.GetEnv("SCAN_GCS_BUCKET_NAME", "", log),
		CatalogFile:    utils.GetEnv("CATALOG_FILE", "", log),
		MaxUploadBytes: int64(utils.GetEnvAsInt("SCAN_MAX_UPLOAD_BYTES", 15<<20, log)),
		MaxImageSide:   utils.GetEnvAsInt("IMAGE_MAX_SIDE", facemetrics.DefaultMaxImageSide, log),
		Quality: facemetrics.QualityThresholds{
			MinBrightness:  utils.GetEnvAsFloat("QUALITY_MIN_BRIGHTNESS", q.MinBrightness, log),
			MinSharpness:   utils.GetEnvAsFloat("QUALITY_MIN_SHARPNESS", q.MinSharpness, log),
			MaxFacingRatio: utils.GetEnvAsFloat("QUALITY_MAX_FACING_RATIO", q.MaxFacingRatio, log),
			MaxEyeTilt:     utils.GetEnvAsFloat("QUALITY_MAX_EYE_TILT", q.MaxEyeTilt, log),
			EdgeMargin:     utils.GetEnvAsFloat("QUALITY_EDGE_MARGIN", q.EdgeMargin, log),
			MinFaceWidth:   utils.GetEnvAsFloat("QUALITY_MIN_FACE_WIDTH", q.MinFaceWidth, log),
			MaxFaceWidth:   utils.GetEnvAsFloat("QUALITY_MAX_FACE_WIDTH", q.MaxFaceWidth, log),
		}.Normalized(),

		PlanTotal:    utils.GetEnvAsInt("PLAN_TOTAL_EXERCISES", training.DefaultPlanTotal, log),
		FinisherName: utils.GetEnv("PLAN_FINISHER_NAME", training.DefaultFinisherName, log),
		Rules: training.Rules{
			Cadence:         utils.GetEnvAsInt("PROGRESSION_CADENCE", rules.Cadence, log),
			DurationStep:    utils.GetEnvAsInt("PROGRESSION_DURATION_STEP", rules.DurationStep, log),
			RepsStep:        utils.GetEnvAsInt("PROGRESSION_REPS_STEP", rules.RepsStep, log),
			DurationCeiling: utils.GetEnvAsInt("PROGRESSION_DURATION_CEILING", rules.DurationCeiling, log),
			RepsCeiling:     utils.GetEnvAsInt("PROGRESSION_REPS_CEILING", rules.RepsCeiling, log),
		}.Normalized(),

		AllowedOrigins: utils.GetEnvAsList("CORS_ALLOWED_ORIGINS", nil, log),
		MetricsEnabled: utils.GetEnvAsBool("METRICS_ENABLED", true, log),
		MetricsAddr:    utils.GetEnv("METRICS_ADDR", ":9090", log),
		Otel: observability.OtelConfig{
			Enabled:     utils.GetEnvAsBool("OTEL_ENABLED", false, log),
			ServiceName: utils.GetEnv("OTEL_SERVICE_NAME", "facefit-api", log),
			Environment: utils.GetEnv("OTEL_ENVIRONMENT", utils.GetEnv("LOG_MODE", "development", log), log),
			Version:     utils.GetEnv("OTEL_SERVICE_VERSION", "", log),
			Endpoint:    utils.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(utils.GetEnv("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    utils.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: utils.GetEnvAsFloat("OTEL_SAMPLE_RATIO", 1, log),
		},
	}
}
