package memory_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/marcelsud/webhook-relay/webhook/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ webhook.Provider = (*memory.Provider)(nil)

func newSeeded(t *testing.T) *memory.Provider {
	t.Helper()
	f, err := memory.DefaultFixtures()
	require.NoError(t, err)
	return memory.NewProvider(f)
}

func TestProvider_ListWebhooks(t *testing.T) {
	p := newSeeded(t)

	webhooks, err := p.ListWebhooks(context.Background())
	require.NoError(t, err)
	require.Len(t, webhooks, 2)
	assert.Equal(t, "1", webhooks[0].ID)
	assert.NotNil(t, webhooks[0].LastTriggered)
	assert.Nil(t, webhooks[1].LastTriggered)
}

func TestProvider_CreateValidateDelete(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider(nil)

	created, err := p.CreateWebhook(ctx, "https://example.com/hook")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, webhook.Active, created.Status)

	require.NoError(t, p.ValidateWebhook(ctx, created.ID))
	require.NoError(t, p.DeleteWebhook(ctx, created.ID))

	webhooks, err := p.ListWebhooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, webhooks)

	err = p.DeleteWebhook(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, webhook.StatusOf(err))

	err = p.ValidateWebhook(ctx, "missing")
	assert.Equal(t, webhook.CodeNotFound, webhook.KindOf(err))
}

func TestProvider_DeleteSubscriptionScopedToWebhook(t *testing.T) {
	ctx := context.Background()
	p := newSeeded(t)

	// user 123 is subscribed to both webhooks
	_, err := p.CreateSubscription(ctx, "1", "123")
	require.NoError(t, err)

	require.NoError(t, p.DeleteSubscription(ctx, "1", "123"))

	refs, err := p.ListSubscriptions(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []webhook.SubscriberRef{{ID: "456"}}, refs)

	refs, err = p.ListSubscriptions(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []webhook.SubscriberRef{{ID: "123"}}, refs)
}

func TestProvider_CreateSubscription(t *testing.T) {
	ctx := context.Background()
	p := newSeeded(t)

	sub, err := p.CreateSubscription(ctx, "2", "789")
	require.NoError(t, err)
	assert.Equal(t, "789", sub.UserID)
	assert.Equal(t, webhook.Active, sub.Status)

	subs := p.Subscriptions("2")
	require.Len(t, subs, 2)
	assert.Equal(t, "789", subs[1].UserID)
}

func TestProvider_ListSubscriptionsUnknownWebhook(t *testing.T) {
	refs, err := newSeeded(t).ListSubscriptions(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}

func TestProvider_GetUser(t *testing.T) {
	p := newSeeded(t)

	user, err := p.GetUser(context.Background(), "456")
	require.NoError(t, err)
	assert.Equal(t, "another_user", user.Username)
	assert.True(t, user.Verified)

	_, err = p.GetUser(context.Background(), "999")
	assert.Equal(t, webhook.CodeNotFound, webhook.KindOf(err))
}

func TestProvider_RequestReplay(t *testing.T) {
	p := newSeeded(t)

	job, err := p.RequestReplay(context.Background(), "1", "202401151200", "202401151300")
	require.NoError(t, err)
	assert.NotEmpty(t, job.JobID)
	assert.NotEmpty(t, job.CreatedAt)

	_, err = p.RequestReplay(context.Background(), "missing", "202401151200", "202401151300")
	assert.Equal(t, webhook.CodeNotFound, webhook.KindOf(err))
}
