package xapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://api.twitter.com"
	DefaultTimeout = 10 * time.Second

	maxResponseBytes int64 = 4 << 20
)

// HTTPDoer is satisfied by *http.Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Observer receives one call per upstream round trip; status is 0 when no response arrived
type Observer interface {
	UpstreamCall(ctx context.Context, operation string, status int, elapsed time.Duration)
}

/* Client is the X API v2 implementation of webhook.Provider
 * Every call re-reads the bearer token, is bounded by Timeout and is never retried
 */
type Client struct {
	BaseURL     string
	HTTP        HTTPDoer
	Credentials webhook.Credentials
	Timeout     time.Duration
	Logger      zerolog.Logger
	Observer    Observer
}

// NewClient creates a new X API client
func NewClient(baseURL string, creds webhook.Credentials, timeout time.Duration, logger zerolog.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTP:        &http.Client{},
		Credentials: creds,
		Timeout:     timeout,
		Logger:      logger,
	}
}

type webhookConfig struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Valid     bool      `json:"valid"`
	CreatedAt time.Time `json:"created_at"`
}

func (w webhookConfig) toWebhook() webhook.Webhook {
	return webhook.Webhook{
		ID:        w.ID,
		URL:       w.URL,
		Status:    webhook.StatusFromValid(w.Valid),
		CreatedAt: w.CreatedAt,
	}
}

// ListWebhooks returns every webhook registered for the app
func (c *Client) ListWebhooks(ctx context.Context) ([]webhook.Webhook, error) {
	var res struct {
		Data []webhookConfig `json:"data"`
	}
	if err := c.call(ctx, "list_webhooks", http.MethodGet, "/2/webhooks", nil, nil, &res); err != nil {
		return nil, err
	}
	webhooks := make([]webhook.Webhook, 0, len(res.Data))
	for _, w := range res.Data {
		webhooks = append(webhooks, w.toWebhook())
	}
	return webhooks, nil
}

// CreateWebhook registers a callback URL; the provider runs a CRC check against it
func (c *Client) CreateWebhook(ctx context.Context, callbackURL string) (webhook.Webhook, error) {
	var res struct {
		Data *webhookConfig `json:"data"`
	}
	body := map[string]string{"url": callbackURL}
	if err := c.call(ctx, "create_webhook", http.MethodPost, "/2/webhooks", nil, body, &res); err != nil {
		return webhook.Webhook{}, err
	}
	if res.Data == nil {
		return webhook.Webhook{}, webhook.UpstreamUnavailable(fmt.Errorf("create webhook response has no data"))
	}
	return res.Data.toWebhook(), nil
}

// ValidateWebhook triggers a provider-side CRC challenge
func (c *Client) ValidateWebhook(ctx context.Context, id string) error {
	return c.call(ctx, "validate_webhook", http.MethodPut, "/2/webhooks/"+url.PathEscape(id), nil, nil, nil)
}

// DeleteWebhook removes a webhook and all of its subscriptions on the provider
func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	return c.call(ctx, "delete_webhook", http.MethodDelete, "/2/webhooks/"+url.PathEscape(id), nil, nil, nil)
}

// GetUser looks up a user profile
func (c *Client) GetUser(ctx context.Context, id string) (webhook.User, error) {
	query := url.Values{"user.fields": {"profile_image_url,verified"}}
	var res struct {
		Data *webhook.User `json:"data"`
	}
	raw, err := c.do(ctx, "get_user", http.MethodGet, "/2/users/"+url.PathEscape(id), query, nil)
	if err != nil {
		return webhook.User{}, err
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return webhook.User{}, webhook.UpstreamUnavailable(fmt.Errorf("decoding user: %w", err))
	}
	// the provider reports unknown users as 200 with an errors array
	if res.Data == nil {
		return webhook.User{}, webhook.UpstreamError(http.StatusNotFound, ExtractDetail(http.StatusNotFound, raw))
	}
	return *res.Data, nil
}

/* ListSubscriptions unwraps data.subscriptions[].user_id into a flat list
 * An unexpected response shape degrades to an empty list with a warning
 */
func (c *Client) ListSubscriptions(ctx context.Context, webhookID string) ([]webhook.SubscriberRef, error) {
	path := "/2/account_activity/webhooks/" + url.PathEscape(webhookID) + "/subscriptions/all/list"
	raw, err := c.do(ctx, "list_subscriptions", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Data *struct {
			Subscriptions []struct {
				UserID string `json:"user_id"`
			} `json:"subscriptions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &res); err != nil || res.Data == nil || res.Data.Subscriptions == nil {
		c.Logger.Warn().
			Str("webhook_id", webhookID).
			AnErr("decode_error", err).
			Msg("unexpected subscription list shape, returning empty list")
		return []webhook.SubscriberRef{}, nil
	}

	refs := make([]webhook.SubscriberRef, 0, len(res.Data.Subscriptions))
	for _, s := range res.Data.Subscriptions {
		if s.UserID == "" {
			continue
		}
		refs = append(refs, webhook.SubscriberRef{ID: s.UserID})
	}
	return refs, nil
}

// CreateSubscription subscribes a user's account activity to the webhook
func (c *Client) CreateSubscription(ctx context.Context, webhookID, userID string) (webhook.Subscription, error) {
	path := "/2/account_activity/webhooks/" + url.PathEscape(webhookID) + "/subscriptions/all"
	body := map[string]string{"user_id": userID}
	if err := c.call(ctx, "create_subscription", http.MethodPost, path, nil, body, nil); err != nil {
		return webhook.Subscription{}, err
	}
	return webhook.Subscription{
		ID:        webhookID + ":" + userID,
		UserID:    userID,
		WebhookID: webhookID,
		CreatedAt: time.Now().UTC(),
		Status:    webhook.Active,
	}, nil
}

// DeleteSubscription unsubscribes a user from the webhook
func (c *Client) DeleteSubscription(ctx context.Context, webhookID, userID string) error {
	path := "/2/account_activity/webhooks/" + url.PathEscape(webhookID) + "/subscriptions/" + url.PathEscape(userID) + "/all"
	return c.call(ctx, "delete_subscription", http.MethodDelete, path, nil, nil, nil)
}

// RequestReplay asks the provider to redeliver events between two compact UTC timestamps
func (c *Client) RequestReplay(ctx context.Context, webhookID, fromUTC, toUTC string) (webhook.ReplayJob, error) {
	path := "/2/account_activity/replay/webhooks/" + url.PathEscape(webhookID) + "/subscriptions/all"
	query := url.Values{"from_date": {fromUTC}, "to_date": {toUTC}}
	var res struct {
		Data *webhook.ReplayJob `json:"data"`
	}
	if err := c.call(ctx, "request_replay", http.MethodPost, path, query, nil, &res); err != nil {
		return webhook.ReplayJob{}, err
	}
	if res.Data == nil || res.Data.JobID == "" {
		return webhook.ReplayJob{}, webhook.UpstreamUnavailable(fmt.Errorf("replay response has no job id"))
	}
	return *res.Data, nil
}

// call performs the request and decodes a 2xx body into out when out is not nil
func (c *Client) call(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	raw, err := c.do(ctx, operation, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return webhook.UpstreamUnavailable(fmt.Errorf("decoding %s response: %w", operation, err))
	}
	return nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body any) ([]byte, error) {
	token := strings.TrimSpace(c.Credentials.BearerToken())
	if token == "" {
		return nil, webhook.ConfigurationError("X_BEARER_TOKEN is not configured")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s request: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, webhook.UpstreamUnavailable(fmt.Errorf("creating %s request: %w", operation, err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		c.observe(ctx, operation, 0, start)
		c.Logger.Error().Err(err).Str("operation", operation).Msg("upstream call failed")
		return nil, webhook.UpstreamUnavailable(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	c.observe(ctx, operation, res.StatusCode, start)
	if err != nil {
		c.Logger.Error().Err(err).Str("operation", operation).Msg("reading upstream response")
		return nil, webhook.UpstreamUnavailable(err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail := ExtractDetail(res.StatusCode, data)
		c.Logger.Warn().
			Str("operation", operation).
			Int("status", res.StatusCode).
			Str("detail", detail).
			Msg("upstream returned an error")
		return nil, webhook.UpstreamError(res.StatusCode, detail)
	}

	return data, nil
}

func (c *Client) observe(ctx context.Context, operation string, status int, start time.Time) {
	if c.Observer == nil {
		return
	}
	c.Observer.UpstreamCall(ctx, operation, status, time.Since(start))
}
