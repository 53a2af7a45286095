package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-relay/webhook"
)

/* Provider is an in-memory webhook.Provider used for local development and tests
 * State lives for the process lifetime only
 */
type Provider struct {
	mu            sync.RWMutex
	webhooks      map[string]webhook.Webhook
	order         []string
	subscriptions map[string][]webhook.Subscription
	users         map[string]webhook.User
	now           func() time.Time
}

// NewProvider creates a provider seeded with the given fixtures; nil means empty
func NewProvider(f *Fixtures) *Provider {
	p := &Provider{
		webhooks:      make(map[string]webhook.Webhook),
		subscriptions: make(map[string][]webhook.Subscription),
		users:         make(map[string]webhook.User),
		now:           time.Now,
	}
	if f == nil {
		return p
	}

	// fixtures are validated on load, so time parsing cannot fail here
	for _, wf := range f.Webhooks {
		created, _ := parseTime(wf.CreatedAt)
		w := webhook.Webhook{
			ID:        wf.ID,
			URL:       wf.URL,
			Status:    statusOf(wf.Status),
			CreatedAt: created,
		}
		if wf.LastTriggered != "" {
			last, _ := parseTime(wf.LastTriggered)
			w.LastTriggered = &last
		}
		p.webhooks[w.ID] = w
		p.order = append(p.order, w.ID)
	}
	for _, sf := range f.Subscriptions {
		created, _ := parseTime(sf.CreatedAt)
		p.subscriptions[sf.WebhookID] = append(p.subscriptions[sf.WebhookID], webhook.Subscription{
			ID:        sf.ID,
			UserID:    sf.UserID,
			WebhookID: sf.WebhookID,
			CreatedAt: created,
			Status:    statusOf(sf.Status),
		})
	}
	for _, uf := range f.Users {
		p.users[uf.ID] = webhook.User{
			ID:              uf.ID,
			Name:            uf.Name,
			Username:        uf.Username,
			ProfileImageURL: uf.ProfileImageURL,
			Verified:        uf.Verified,
		}
	}
	return p
}

// ListWebhooks returns webhooks in insertion order
func (p *Provider) ListWebhooks(ctx context.Context) ([]webhook.Webhook, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	webhooks := make([]webhook.Webhook, 0, len(p.order))
	for _, id := range p.order {
		webhooks = append(webhooks, p.webhooks[id])
	}
	return webhooks, nil
}

func (p *Provider) CreateWebhook(ctx context.Context, callbackURL string) (webhook.Webhook, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w := webhook.Webhook{
		ID:        uuid.New().String(),
		URL:       callbackURL,
		Status:    webhook.Active,
		CreatedAt: p.now().UTC(),
	}
	p.webhooks[w.ID] = w
	p.order = append(p.order, w.ID)
	return w, nil
}

// ValidateWebhook marks the webhook active, as a successful CRC would
func (p *Provider) ValidateWebhook(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, ok := p.webhooks[id]
	if !ok {
		return webhook.NotFound(fmt.Sprintf("webhook %s not found", id))
	}
	w.Status = webhook.Active
	p.webhooks[id] = w
	return nil
}

// DeleteWebhook removes the webhook together with its subscriptions
func (p *Provider) DeleteWebhook(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.webhooks[id]; !ok {
		return webhook.NotFound(fmt.Sprintf("webhook %s not found", id))
	}
	delete(p.webhooks, id)
	delete(p.subscriptions, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

func (p *Provider) GetUser(ctx context.Context, id string) (webhook.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.users[id]
	if !ok {
		return webhook.User{}, webhook.NotFound(fmt.Sprintf("user %s not found", id))
	}
	return u, nil
}

// ListSubscriptions returns one ref per subscribed user; an unknown webhook has none
func (p *Provider) ListSubscriptions(ctx context.Context, webhookID string) ([]webhook.SubscriberRef, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	subs := p.subscriptions[webhookID]
	refs := make([]webhook.SubscriberRef, 0, len(subs))
	for _, s := range subs {
		refs = append(refs, webhook.SubscriberRef{ID: s.UserID})
	}
	return refs, nil
}

// CreateSubscription appends one active subscription, duplicates included
func (p *Provider) CreateSubscription(ctx context.Context, webhookID, userID string) (webhook.Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := webhook.Subscription{
		ID:        "sub_" + uuid.New().String(),
		UserID:    userID,
		WebhookID: webhookID,
		CreatedAt: p.now().UTC(),
		Status:    webhook.Active,
	}
	p.subscriptions[webhookID] = append(p.subscriptions[webhookID], sub)
	return sub, nil
}

// DeleteSubscription removes every subscription of userID under webhookID and nothing else
func (p *Provider) DeleteSubscription(ctx context.Context, webhookID, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs := p.subscriptions[webhookID]
	kept := subs[:0]
	for _, s := range subs {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	p.subscriptions[webhookID] = kept
	return nil
}

// RequestReplay accepts any window for a known webhook
func (p *Provider) RequestReplay(ctx context.Context, webhookID, fromUTC, toUTC string) (webhook.ReplayJob, error) {
	p.mu.RLock()
	_, ok := p.webhooks[webhookID]
	p.mu.RUnlock()
	if !ok {
		return webhook.ReplayJob{}, webhook.NotFound(fmt.Sprintf("webhook %s not found", webhookID))
	}
	return webhook.ReplayJob{
		JobID:     uuid.New().String(),
		CreatedAt: p.now().UTC().Format(time.RFC3339),
	}, nil
}

// Subscriptions returns the full subscription records of a webhook, sorted by creation time
func (p *Provider) Subscriptions(webhookID string) []webhook.Subscription {
	p.mu.RLock()
	defer p.mu.RUnlock()

	subs := append([]webhook.Subscription(nil), p.subscriptions[webhookID]...)
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	return subs
}
