package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
	authmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/auth"
)

const defaultRetryAfter = 60 * time.Second

// SleepFunc suspends the calling request between attempts. Injectable so
// tests can observe backoff without waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RateLimitCallback observes every 429 the executor receives.
type RateLimitCallback func(info api.RateLimitInfo)

// ErrorCallback observes every terminal error the executor reports.
type ErrorCallback func(apiErr *api.APIError)

// AuthExpiredCallback observes a terminal 401: the held credentials have
// been dropped and callers should treat the session as gone.
type AuthExpiredCallback func()

// Request describes one outbound call. Path is relative to the versioned
// API root, e.g. "/auth/login".
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    any
}

// Response is the success half of the executor envelope.
type Response struct {
	Data       json.RawMessage
	Meta       api.Meta
	StatusCode int
}

// Client performs outbound HTTP calls with timeout, exponential backoff on
// transport failures, rate-limit honoring and a single auth refresh on 401.
type Client struct {
	rest      *resty.Client
	cfg       config.ClientConfig
	sleep     SleepFunc
	onLimit   RateLimitCallback
	onError   ErrorCallback
	onExpired AuthExpiredCallback

	mu     sync.RWMutex
	tokens authmodel.Tokens
}

// New builds an executor from configuration.
func New(cfg config.ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	return &Client{
		rest:  resty.New(),
		cfg:   cfg,
		sleep: defaultSleep,
	}
}

// SetSleepFunc replaces the inter-attempt sleep. Used by tests.
func (c *Client) SetSleepFunc(sleep SleepFunc) {
	if sleep != nil {
		c.sleep = sleep
	}
}

// OnRateLimit registers the rate-limit observer.
func (c *Client) OnRateLimit(cb RateLimitCallback) { c.onLimit = cb }

// OnError registers the terminal-error observer.
func (c *Client) OnError(cb ErrorCallback) { c.onError = cb }

// OnAuthExpired registers the observer notified when a 401 is terminal.
func (c *Client) OnAuthExpired(cb AuthExpiredCallback) { c.onExpired = cb }

// SetTokens installs the bearer material attached to subsequent requests.
func (c *Client) SetTokens(tokens authmodel.Tokens) {
	c.mu.Lock()
	c.tokens = tokens
	c.mu.Unlock()
}

// ClearTokens drops the held bearer material.
func (c *Client) ClearTokens() {
	c.mu.Lock()
	c.tokens = authmodel.Tokens{}
	c.mu.Unlock()
}

// AccessToken returns the currently held access token, if any.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens.AccessToken
}

func (c *Client) refreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens.RefreshToken
}

// Do executes the request under the retry policy. Exactly one of the return
// values is non-nil.
func (c *Client) Do(ctx context.Context, req Request) (*Response, *api.APIError) {
	fullURL := c.buildURL(req.Path)
	refreshed := false
	limited := 0

	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, req, fullURL)
		if err != nil {
			// Network failure, timeout or malformed response: retriable.
			if attempt < c.cfg.Retries {
				delay := time.Duration(1<<uint(attempt)) * time.Second
				logrus.WithFields(logrus.Fields{
					"url":     fullURL,
					"attempt": attempt + 1,
					"delay":   delay,
				}).WithError(err).Warn("request failed, backing off")
				if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
					return nil, c.terminal(api.NewError(api.CodeRequestFailed, sleepErr.Error()), req, fullURL)
				}
				continue
			}
			return nil, c.terminal(api.NewError(api.CodeRequestFailed, err.Error()), req, fullURL)
		}

		status := resp.StatusCode()

		if status == http.StatusTooManyRequests {
			info := rateLimitFromHeaders(resp)
			if c.onLimit != nil {
				c.onLimit(info)
			}
			if limited < c.cfg.Retries {
				limited++
				wait := defaultRetryAfter
				if info.RetryAfter > 0 {
					wait = time.Duration(info.RetryAfter) * time.Second
				}
				if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
					return nil, c.terminal(api.NewError(api.CodeRequestFailed, sleepErr.Error()), req, fullURL)
				}
				// The server-paced wait replaces this attempt; it does
				// not consume a backoff slot.
				attempt--
				continue
			}
			return nil, c.terminal(api.NewError(api.CodeRateLimited, "rate limit exceeded"), req, fullURL)
		}

		if status == http.StatusUnauthorized {
			if !refreshed && c.refreshToken() != "" {
				refreshed = true
				if c.refresh(ctx) {
					// A refreshed token gets an immediate replay that does
					// not consume a retry slot.
					attempt--
					continue
				}
			}
			// No refresh left: the credentials this request carried are
			// dead. Drop the held pair and tell the session layer before
			// reporting the error. Anonymous 401s, e.g. a rejected login,
			// expire nothing.
			if c.AccessToken() != "" || c.refreshToken() != "" || req.Headers["Authorization"] != "" {
				c.ClearTokens()
				if c.onExpired != nil {
					c.onExpired()
				}
			}
		}

		if status < 200 || status > 299 {
			return nil, c.terminal(errorFromBody(resp, status), req, fullURL)
		}

		return c.success(resp)
	}
}

func (c *Client) send(ctx context.Context, req Request, fullURL string) (*resty.Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	builder := c.rest.R().
		SetContext(attemptCtx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if token := c.AccessToken(); token != "" {
		builder.SetHeader("Authorization", "Bearer "+token)
	}
	for key, value := range req.Headers {
		builder.SetHeader(key, value)
	}
	if len(req.Query) > 0 {
		builder.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil && req.Method != http.MethodGet {
		builder.SetBody(req.Body)
	}

	switch strings.ToUpper(req.Method) {
	case http.MethodGet:
		return builder.Get(fullURL)
	case http.MethodPost:
		return builder.Post(fullURL)
	case http.MethodPut:
		return builder.Put(fullURL)
	case http.MethodDelete:
		return builder.Delete(fullURL)
	case http.MethodPatch:
		return builder.Patch(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", req.Method)
	}
}

// refresh exchanges the held refresh token for new bearer material. Returns
// true on success.
func (c *Client) refresh(ctx context.Context) bool {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.rest.R().
		SetContext(attemptCtx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"refreshToken": c.refreshToken()}).
		Post(c.buildURL("/auth/refresh"))
	if err != nil || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		logrus.WithError(err).Warn("token refresh failed")
		return false
	}

	var envelope struct {
		Data authmodel.LoginResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil || envelope.Data.Token == "" {
		logrus.Warn("token refresh returned an unusable payload")
		return false
	}

	c.SetTokens(authmodel.Tokens{
		AccessToken:  envelope.Data.Token,
		RefreshToken: envelope.Data.RefreshToken,
		ExpiresIn:    envelope.Data.ExpiresIn,
		TokenType:    "Bearer",
	})
	return true
}

func (c *Client) success(resp *resty.Response) (*Response, *api.APIError) {
	body := resp.Body()

	result := &Response{
		StatusCode: resp.StatusCode(),
		Meta:       api.Meta{},
	}
	if info := rateLimitFromHeaders(resp); info.Limit > 0 || info.Remaining > 0 || info.Reset > 0 {
		result.Meta.RateLimit = &info
	}

	if len(body) == 0 {
		return result, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *api.Meta       `json:"meta"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		result.Data = envelope.Data
		if envelope.Meta != nil && envelope.Meta.RequestID != "" {
			result.Meta.RequestID = envelope.Meta.RequestID
		}
		return result, nil
	}

	// No data field: the whole body is the payload.
	result.Data = json.RawMessage(body)
	return result, nil
}

func (c *Client) terminal(apiErr *api.APIError, req Request, fullURL string) *api.APIError {
	annotated := apiErr.At(req.Method, fullURL)
	if c.onError != nil {
		c.onError(annotated)
	}
	return annotated
}

func (c *Client) buildURL(path string) string {
	base := strings.TrimSuffix(c.cfg.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if c.cfg.APIVersion == "" {
		return base + "/api" + path
	}
	return base + "/api/" + c.cfg.APIVersion + path
}

func errorFromBody(resp *resty.Response, status int) *api.APIError {
	var envelope api.Envelope
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil && envelope.Err != nil {
		return envelope.Err
	}
	return api.NewErrorWithDetails(
		api.CodeHTTPError,
		fmt.Sprintf("request failed with status %d", status),
		map[string]any{"status": status},
	)
}

func rateLimitFromHeaders(resp *resty.Response) api.RateLimitInfo {
	info := api.RateLimitInfo{
		Limit:     headerInt(resp, "X-RateLimit-Limit"),
		Remaining: headerInt(resp, "X-RateLimit-Remaining"),
		Reset:     int64(headerInt(resp, "X-RateLimit-Reset")),
	}
	if retryAfter := headerInt(resp, "Retry-After"); retryAfter > 0 {
		info.RetryAfter = retryAfter
	}
	return info
}

func headerInt(resp *resty.Response, name string) int {
	raw := resp.Header().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
