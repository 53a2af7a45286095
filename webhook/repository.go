package webhook

import "context"

/* Small, focused interfaces following "The Go Way"
 * The provider owns webhook and subscription state; the relay only proxies it
 */

// WebhookReader provides read operations for provider webhooks
type WebhookReader interface {
	ListWebhooks(ctx context.Context) ([]Webhook, error)
}

// WebhookWriter provides the webhook lifecycle operations
type WebhookWriter interface {
	CreateWebhook(ctx context.Context, url string) (Webhook, error)
	/* ValidateWebhook asks the provider to run a CRC challenge against the webhook
	 * The provider answers 204 on success
	 */
	ValidateWebhook(ctx context.Context, id string) error
	DeleteWebhook(ctx context.Context, id string) error
}

// SubscriptionReader lists the users subscribed to a webhook
type SubscriptionReader interface {
	ListSubscriptions(ctx context.Context, webhookID string) ([]SubscriberRef, error)
}

// SubscriptionWriter subscribes and unsubscribes users
type SubscriptionWriter interface {
	CreateSubscription(ctx context.Context, webhookID, userID string) (Subscription, error)
	/* DeleteSubscription removes every subscription of userID under webhookID
	 * Subscriptions under other webhooks are untouched
	 */
	DeleteSubscription(ctx context.Context, webhookID, userID string) error
}

// UserReader looks up provider user profiles
type UserReader interface {
	GetUser(ctx context.Context, id string) (User, error)
}

// Replayer requests redelivery of historical events.
// fromUTC and toUTC are already converted compact UTC timestamps.
type Replayer interface {
	RequestReplay(ctx context.Context, webhookID, fromUTC, toUTC string) (ReplayJob, error)
}

/* Interface composition - combining small interfaces into larger ones
 * Implemented by the X API client and by the in-memory provider
 */
type Provider interface {
	WebhookReader
	WebhookWriter
	SubscriptionReader
	SubscriptionWriter
	UserReader
	Replayer
}

/* Credentials are read at call time, never cached
 * so a rotated token or secret takes effect on the next request
 */
type Credentials interface {
	BearerToken() string
	SigningSecret() string
}
