package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-relay/webhook/payload"
	"github.com/marcelsud/webhook-relay/webhook/signature"
	"github.com/marcelsud/webhook-relay/webhook/timecodec"
	"github.com/rs/zerolog"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the operations the router dispatches to
type UseCase interface {
	ListWebhooks(ctx context.Context) ([]Webhook, error)
	CreateWebhook(ctx context.Context, url string) (Webhook, error)
	ValidateWebhook(ctx context.Context, id string) error
	DeleteWebhook(ctx context.Context, id string) error
	ListSubscriptions(ctx context.Context, webhookID string) ([]SubscriberRef, error)
	CreateSubscription(ctx context.Context, webhookID, userID string) (Subscription, error)
	DeleteSubscription(ctx context.Context, webhookID, userID string) error
	GetUser(ctx context.Context, id string) (User, error)
	RequestReplay(ctx context.Context, webhookID, fromLocal, toLocal string) (ReplayJob, error)
	Challenge(ctx context.Context, nonce string) (string, error)
	Receive(ctx context.Context, body []byte, signatureHeader string) (Event, error)
}

type Service struct {
	Provider    Provider
	Sink        EventSink
	Credentials Credentials
	// Location is the zone replay timestamps are written in; nil means time.Local
	Location *time.Location
	Logger   zerolog.Logger
	Now      func() time.Time
}

// NewService creates a new relay service with dependency injection
func NewService(provider Provider, sink EventSink, creds Credentials, loc *time.Location, logger zerolog.Logger) *Service {
	if sink == nil {
		sink = NewNoopSink(logger)
	}
	return &Service{
		Provider:    provider,
		Sink:        sink,
		Credentials: creds,
		Location:    loc,
		Logger:      logger,
		Now:         time.Now,
	}
}

func (s *Service) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	return s.Provider.ListWebhooks(ctx)
}

// CreateWebhook registers an absolute http(s) callback URL with the provider
func (s *Service) CreateWebhook(ctx context.Context, rawURL string) (Webhook, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Webhook{}, InvalidArgument("Webhook URL is required")
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Webhook{}, InvalidArgument(fmt.Sprintf("invalid webhook URL: %s", rawURL))
	}
	return s.Provider.CreateWebhook(ctx, rawURL)
}

func (s *Service) ValidateWebhook(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return InvalidArgument("webhook id is required")
	}
	return s.Provider.ValidateWebhook(ctx, id)
}

func (s *Service) DeleteWebhook(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return InvalidArgument("webhook id is required")
	}
	return s.Provider.DeleteWebhook(ctx, id)
}

func (s *Service) ListSubscriptions(ctx context.Context, webhookID string) ([]SubscriberRef, error) {
	return s.Provider.ListSubscriptions(ctx, webhookID)
}

func (s *Service) CreateSubscription(ctx context.Context, webhookID, userID string) (Subscription, error) {
	if strings.TrimSpace(userID) == "" {
		return Subscription{}, InvalidArgument("user id is required")
	}
	return s.Provider.CreateSubscription(ctx, webhookID, userID)
}

func (s *Service) DeleteSubscription(ctx context.Context, webhookID, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return InvalidArgument("user id is required")
	}
	return s.Provider.DeleteSubscription(ctx, webhookID, userID)
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, InvalidArgument("user id is required")
	}
	return s.Provider.GetUser(ctx, id)
}

/* RequestReplay validates both bounds before anything leaves the process,
 * converts them from local time to the provider's UTC form and forwards the request
 */
func (s *Service) RequestReplay(ctx context.Context, webhookID, fromLocal, toLocal string) (ReplayJob, error) {
	if strings.TrimSpace(webhookID) == "" {
		return ReplayJob{}, InvalidArgument("webhook id is required")
	}
	if err := timecodec.Validate(fromLocal); err != nil {
		return ReplayJob{}, InvalidArgument("from_date: " + err.Error())
	}
	if err := timecodec.Validate(toLocal); err != nil {
		return ReplayJob{}, InvalidArgument("to_date: " + err.Error())
	}

	fromUTC, err := timecodec.ToProviderUTC(fromLocal, s.Location)
	if err != nil {
		return ReplayJob{}, InvalidArgument("from_date: " + err.Error())
	}
	toUTC, err := timecodec.ToProviderUTC(toLocal, s.Location)
	if err != nil {
		return ReplayJob{}, InvalidArgument("to_date: " + err.Error())
	}
	// same layout, so lexical order is chronological order
	if toUTC < fromUTC {
		return ReplayJob{}, InvalidArgument("to_date must not be before from_date")
	}

	s.Logger.Info().
		Str("webhook_id", webhookID).
		Str("from_utc", fromUTC).
		Str("to_utc", toUTC).
		Msg("requesting replay")

	return s.Provider.RequestReplay(ctx, webhookID, fromUTC, toUTC)
}

// Challenge answers the provider's CRC check for nonce
func (s *Service) Challenge(ctx context.Context, nonce string) (string, error) {
	if nonce == "" {
		return "", InvalidArgument("crc_token is required")
	}
	token, err := signature.ChallengeResponse(nonce, s.Credentials.SigningSecret())
	if errors.Is(err, signature.ErrMissingSecret) {
		return "", ConfigurationError("signing secret is not configured")
	}
	if err != nil {
		return "", fmt.Errorf("computing challenge response: %w", err)
	}
	return token, nil
}

/* Receive accepts an event delivery
 * Signature problems only downgrade trust; publish failures are logged and swallowed
 */
func (s *Service) Receive(ctx context.Context, body []byte, signatureHeader string) (Event, error) {
	parsed, err := payload.Parse(body)
	if err != nil {
		return Event{}, InvalidArgument(err.Error())
	}

	result := signature.Verify(body, signatureHeader, s.Credentials.SigningSecret())

	event := Event{
		ID:               uuid.New().String(),
		ForUserID:        parsed.ForUserID,
		Kinds:            parsed.Kinds,
		Payload:          parsed.Raw,
		Verified:         result.Valid,
		SignaturePresent: result.Present,
		ReceivedAt:       s.now().UTC(),
	}

	if !result.Valid {
		s.Logger.Warn().
			Str("event_id", event.ID).
			Bool("signature_present", result.Present).
			Str("reason", result.Reason).
			Msg("event accepted without a valid signature")
	}

	if err := s.Sink.Publish(ctx, event); err != nil {
		s.Logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Msg("publishing event")
	}

	return event, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
