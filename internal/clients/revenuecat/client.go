package revenuecat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/facefit-backend/internal/pkg/ctxutil"
	"github.com/yungbote/facefit-backend/internal/pkg/httpx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

const DefaultBaseURL = "https://api.revenuecat.com"

// Status is the entitlement answer for one subscriber.
type Status struct {
	Active      bool
	Entitlement string
	// Expiry is nil for lifetime entitlements and for inactive subscribers.
	Expiry *time.Time
}

type Client interface {
	SubscriberStatus(ctx context.Context, appUserID string) (Status, error)
}

type Config struct {
	BaseURL        string
	APIKey         string
	EntitlementIDs []string
	Timeout        time.Duration
	MaxRetries     int
}

type client struct {
	log            *logger.Logger
	baseURL        string
	apiKey         string
	entitlementIDs []string
	httpClient     *http.Client
	maxRetries     int
	now            func() time.Time
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing REVENUECAT_API_KEY")
	}
	ids := make([]string, 0, len(cfg.EntitlementIDs))
	for _, id := range cfg.EntitlementIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one entitlement id required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &client{
		log:            log.With("service", "RevenueCatClient"),
		baseURL:        baseURL,
		apiKey:         apiKey,
		entitlementIDs: ids,
		httpClient:     &http.Client{Timeout: timeout},
		maxRetries:     maxRetries,
		now:            time.Now,
	}, nil
}

type subscriberResponse struct {
	Subscriber struct {
		Entitlements map[string]struct {
			ExpiresDate       *string `json:"expires_date"`
			ProductIdentifier string  `json:"product_identifier"`
		} `json:"entitlements"`
	} `json:"subscriber"`
}

// SubscriberStatus reports whether any configured entitlement is active. A definitive non-2xx
// answer means inactive; transport failures and exhausted retries come back as errors.
func (c *client) SubscriberStatus(ctx context.Context, appUserID string) (Status, error) {
	ctx = ctxutil.Default(ctx)
	appUserID = strings.TrimSpace(appUserID)
	if appUserID == "" {
		return Status{}, fmt.Errorf("app user id required")
	}

	raw, err := c.get(ctx, "/v1/subscribers/"+url.PathEscape(appUserID))
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && !httpx.IsRetryableHTTPStatus(se.Code) {
			c.log.Info("Subscriber lookup returned non-success status", "status", se.Code)
			return Status{}, nil
		}
		return Status{}, err
	}

	var body subscriberResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return Status{}, fmt.Errorf("revenuecat decode: %w", err)
	}

	now := c.now()
	var best Status
	for _, id := range c.entitlementIDs {
		ent, ok := body.Subscriber.Entitlements[id]
		if !ok {
			continue
		}
		if ent.ExpiresDate == nil || strings.TrimSpace(*ent.ExpiresDate) == "" {
			return Status{Active: true, Entitlement: id}, nil
		}
		exp, err := time.Parse(time.RFC3339, strings.TrimSpace(*ent.ExpiresDate))
		if err != nil {
			c.log.Warn("Unparseable entitlement expiry", "entitlement", id, "expires_date", *ent.ExpiresDate)
			continue
		}
		exp = exp.UTC()
		if !exp.After(now) {
			continue
		}
		if !best.Active || exp.After(*best.Expiry) {
			best = Status{Active: true, Entitlement: id, Expiry: &exp}
		}
	}
	return best, nil
}

func (c *client) doOnce(ctx context.Context, path string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{Code: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) get(ctx context.Context, path string) ([]byte, error) {
	backoff := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, raw, err := c.doOnce(ctx, path)
		if err == nil {
			return raw, nil
		}
		if !httpx.IsRetryableError(err) || attempt >= c.maxRetries {
			return nil, err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 5*time.Second))
		c.log.Warn("RevenueCat request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}
