package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/facefit-backend/internal/clients/gcp"
	"github.com/yungbote/facefit-backend/internal/clients/redis"
	"github.com/yungbote/facefit-backend/internal/clients/revenuecat"
	"github.com/yungbote/facefit-backend/internal/pkg/keylock"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
	"github.com/yungbote/facefit-backend/internal/services"
)

type Clients struct {
	Redis            *goredis.Client
	Locks            keylock.Locker
	EntitlementCache services.EntitlementCache
	Billing          revenuecat.Client
	FaceDetector     *gcp.FaceDetector
	ScanImages       gcp.ScanImageStore
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if cfg.RedisAddr != "" {
		rdb, err := redis.NewClient(log, redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.Locks = redis.NewLocker(rdb, log, cfg.LockTTL)
		out.EntitlementCache = redis.NewEntitlementCache(rdb, cfg.EntitlementCacheTTL)
	} else {
		log.Warn("REDIS_ADDR not set; per-user locks are process local and entitlements are not cached")
		out.Locks = keylock.NewMemory()
	}

	// RevenueCat
	if cfg.RevenueCat.APIKey != "" {
		billing, err := revenuecat.NewClient(log, cfg.RevenueCat)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init revenuecat client: %w", err)
		}
		out.Billing = billing
	} else {
		log.Warn("REVENUECAT_API_KEY not set; entitlements come from stored subscription rows")
	}

	// Gcp
	detector, err := gcp.NewFaceDetector(log)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init face detector: %w", err)
	}
	out.FaceDetector = detector

	if cfg.ScanBucketName != "" {
		store, err := gcp.NewScanImageStore(log, cfg.ScanBucketName)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init scan image store: %w", err)
		}
		out.ScanImages = store
	} else {
		out.ScanImages = gcp.NopScanImageStore{}
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.FaceDetector != nil {
		_ = c.FaceDetector.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
