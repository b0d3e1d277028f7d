package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/vortex-fintech/crmclean/foundation/timeutil"
)

// Config for the deliverability client. Zero values get sane defaults except
// APIKey, which is always required.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Pace is the minimum spacing between requests. The free tiers of
	// verification APIs allow roughly one request per second.
	Pace            time.Duration
	MinQualityScore float64
}

const DefaultBaseURL = "https://emailvalidation.abstractapi.com/v1/"

const (
	defaultTimeout         = 10 * time.Second
	defaultPace            = time.Second
	defaultMinQualityScore = 0.7

	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 5 * time.Second
	retryMaxElapsed      = 15 * time.Second
)

var (
	errAPIKeyRequired = errors.New("verify: api key is required")

	// ErrQuotaExhausted means the API refused further checks for this key.
	// The client latches it and stops touching the network for the rest of
	// the run.
	ErrQuotaExhausted = errors.New("verify: api quota exhausted")

	errRateLimited = errors.New("verify: rate limited")
)

// Client checks deliverability of already syntax-valid addresses. One Client
// paces its own requests; it is not safe for concurrent use, matching the
// single-pass pipeline that owns it.
type Client struct {
	cfg   Config
	http  *http.Client
	clock timeutil.Clock

	last           time.Time
	quotaExhausted bool
}

func New(cfg Config, clock timeutil.Clock) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errAPIKeyRequired
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Pace <= 0 {
		cfg.Pace = defaultPace
	}
	if cfg.MinQualityScore <= 0 {
		cfg.MinQualityScore = defaultMinQualityScore
	}
	if clock == nil {
		clock = timeutil.DefaultClock()
	}

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		clock: clock,
	}, nil
}

// QuotaExhausted reports whether the API stopped accepting checks this run.
func (c *Client) QuotaExhausted() bool { return c.quotaExhausted }

// Verify reports whether the address is deliverable. Rate-limit responses are
// retried with exponential backoff; once the quota is exhausted every further
// call returns ErrQuotaExhausted without a request.
func (c *Client) Verify(ctx context.Context, email string) (bool, error) {
	if c.quotaExhausted {
		return false, ErrQuotaExhausted
	}
	if err := c.pace(ctx); err != nil {
		return false, err
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = retryInitialInterval
	exp.MaxInterval = retryMaxInterval

	ok, err := backoff.Retry(ctx, func() (bool, error) {
		ok, err := c.check(ctx, email)
		if err != nil {
			if errors.Is(err, errRateLimited) {
				return false, err // retryable
			}
			return false, backoff.Permanent(err)
		}
		return ok, nil
	}, backoff.WithBackOff(exp), backoff.WithMaxElapsedTime(retryMaxElapsed))

	if errors.Is(err, ErrQuotaExhausted) {
		c.quotaExhausted = true
	}
	return ok, err
}

type apiResponse struct {
	Deliverability string      `json:"deliverability"`
	QualityScore   json.Number `json:"quality_score"`
	IsValidFormat  struct {
		Value bool `json:"value"`
	} `json:"is_valid_format"`
}

func (c *Client) check(ctx context.Context, email string) (bool, error) {
	q := url.Values{}
	q.Set("api_key", c.cfg.APIKey)
	q.Set("email", email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return false, errRateLimited
	case http.StatusUnprocessableEntity:
		return false, ErrQuotaExhausted
	default:
		return false, fmt.Errorf("verify: unexpected status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("verify: decode response: %w", err)
	}

	score, _ := body.QualityScore.Float64()
	return body.Deliverability == "DELIVERABLE" &&
		score > c.cfg.MinQualityScore &&
		body.IsValidFormat.Value, nil
}

// pace enforces cfg.Pace between request starts, measured on the Client's
// clock so tests can run frozen.
func (c *Client) pace(ctx context.Context) error {
	if !c.last.IsZero() {
		if wait := c.cfg.Pace - c.clock.Since(c.last); wait > 0 {
			if err := c.clock.Sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	c.last = c.clock.Now()
	return nil
}
