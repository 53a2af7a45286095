package xapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/marcelsud/webhook-relay/webhook/mocks"
	"github.com/marcelsud/webhook-relay/webhook/xapi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

type upstream struct {
	mu       sync.Mutex
	requests []recorded
}

func (u *upstream) last(t *testing.T) recorded {
	t.Helper()
	u.mu.Lock()
	defer u.mu.Unlock()
	require.NotEmpty(t, u.requests)
	return u.requests[len(u.requests)-1]
}

func (u *upstream) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func newUpstream(t *testing.T, status int, body string) (*upstream, *httptest.Server) {
	t.Helper()
	u := &upstream{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.requests = append(u.requests, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(raw),
		})
		u.mu.Unlock()
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return u, srv
}

func newClient(t *testing.T, baseURL, token string) *xapi.Client {
	t.Helper()
	creds := mocks.NewCredentials(t)
	creds.On("BearerToken").Return(token).Maybe()
	return xapi.NewClient(baseURL, creds, time.Second, zerolog.Nop())
}

func TestListWebhooks(t *testing.T) {
	u, srv := newUpstream(t, http.StatusOK, `{"data":[
		{"id":"1","url":"https://example.com/a","valid":true,"created_at":"2024-01-15T10:30:00.000Z"},
		{"id":"2","url":"https://example.com/b","valid":false,"created_at":"2024-01-16T08:00:00.000Z"}
	]}`)
	client := newClient(t, srv.URL, "tok")

	webhooks, err := client.ListWebhooks(context.Background())
	require.NoError(t, err)
	require.Len(t, webhooks, 2)
	assert.Equal(t, "1", webhooks[0].ID)
	assert.Equal(t, webhook.Active, webhooks[0].Status)
	assert.Equal(t, webhook.Inactive, webhooks[1].Status)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), webhooks[0].CreatedAt.UTC())

	req := u.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/2/webhooks", req.Path)
	assert.Equal(t, "Bearer tok", req.Auth)
}

func TestMissingTokenSkipsNetwork(t *testing.T) {
	u, srv := newUpstream(t, http.StatusOK, `{"data":[]}`)
	client := newClient(t, srv.URL, "  ")

	_, err := client.ListWebhooks(context.Background())
	require.Error(t, err)
	assert.Equal(t, webhook.CodeConfiguration, webhook.KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, webhook.StatusOf(err))
	assert.Zero(t, u.count())
}

func TestTokenIsReadPerCall(t *testing.T) {
	u, srv := newUpstream(t, http.StatusNoContent, "")
	creds := mocks.NewCredentials(t)
	creds.On("BearerToken").Return("first").Once()
	creds.On("BearerToken").Return("second").Once()
	client := xapi.NewClient(srv.URL, creds, time.Second, zerolog.Nop())

	require.NoError(t, client.ValidateWebhook(context.Background(), "1"))
	assert.Equal(t, "Bearer first", u.last(t).Auth)

	require.NoError(t, client.ValidateWebhook(context.Background(), "1"))
	assert.Equal(t, "Bearer second", u.last(t).Auth)
}

func TestCreateWebhook(t *testing.T) {
	u, srv := newUpstream(t, http.StatusOK, `{"data":{"id":"99","url":"https://example.com/hook","valid":true,"created_at":"2024-01-15T10:30:00.000Z"}}`)
	client := newClient(t, srv.URL, "tok")

	created, err := client.CreateWebhook(context.Background(), "https://example.com/hook")
	require.NoError(t, err)
	assert.Equal(t, "99", created.ID)
	assert.Equal(t, webhook.Active, created.Status)

	req := u.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(req.Body), &sent))
	assert.Equal(t, "https://example.com/hook", sent["url"])
}

func TestValidateAndDeleteAcceptAny2xx(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent} {
		u, srv := newUpstream(t, status, "")
		client := newClient(t, srv.URL, "tok")

		require.NoError(t, client.ValidateWebhook(context.Background(), "7"))
		assert.Equal(t, http.MethodPut, u.last(t).Method)
		assert.Equal(t, "/2/webhooks/7", u.last(t).Path)

		require.NoError(t, client.DeleteWebhook(context.Background(), "7"))
		assert.Equal(t, http.MethodDelete, u.last(t).Method)
	}
}

func TestUpstreamErrorForwardsStatusAndDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"rate limited title", http.StatusTooManyRequests, `{"title":"Rate limited"}`, "Rate limited"},
		{"detail wins over title", http.StatusForbidden, `{"title":"Forbidden","detail":"Missing scope"}`, "Missing scope"},
		{"errors array", http.StatusBadRequest, `{"errors":[{"message":"Bad url"}]}`, "Bad url"},
		{"raw text", http.StatusBadGateway, `gateway exploded`, "gateway exploded"},
		{"empty body", http.StatusServiceUnavailable, ``, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newUpstream(t, tt.status, tt.body)
			client := newClient(t, srv.URL, "tok")

			_, err := client.ListWebhooks(context.Background())
			require.Error(t, err)
			assert.Equal(t, webhook.CodeUpstream, webhook.KindOf(err))
			assert.Equal(t, tt.status, webhook.StatusOf(err))
			assert.Equal(t, tt.detail, webhook.DetailOf(err))
		})
	}
}

func TestUnreachableUpstream(t *testing.T) {
	_, srv := newUpstream(t, http.StatusOK, "")
	srv.Close()
	client := newClient(t, srv.URL, "tok")

	_, err := client.ListWebhooks(context.Background())
	require.Error(t, err)
	assert.Equal(t, webhook.CodeUpstreamUnavailable, webhook.KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, webhook.StatusOf(err))
}

func TestMalformedSuccessBody(t *testing.T) {
	_, srv := newUpstream(t, http.StatusOK, `{"data":`)
	client := newClient(t, srv.URL, "tok")

	_, err := client.ListWebhooks(context.Background())
	require.Error(t, err)
	assert.Equal(t, webhook.CodeUpstreamUnavailable, webhook.KindOf(err))
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	creds := mocks.NewCredentials(t)
	creds.On("BearerToken").Return("tok")
	client := xapi.NewClient(srv.URL, creds, 50*time.Millisecond, zerolog.Nop())

	err := client.ValidateWebhook(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, webhook.CodeUpstreamUnavailable, webhook.KindOf(err))
}

func TestCallerCancellationAbortsCall(t *testing.T) {
	arrived := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	creds := mocks.NewCredentials(t)
	creds.On("BearerToken").Return("tok")
	client := xapi.NewClient(srv.URL, creds, 10*time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-arrived
		cancel()
	}()

	start := time.Now()
	_, err := client.ListWebhooks(ctx)
	require.Error(t, err)
	assert.Equal(t, webhook.CodeUpstreamUnavailable, webhook.KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, webhook.StatusOf(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestListSubscriptions(t *testing.T) {
	u, srv := newUpstream(t, http.StatusOK, `{"data":{"webhook_id":"1","subscriptions":[{"user_id":"123"},{"user_id":"456"}]}}`)
	client := newClient(t, srv.URL, "tok")

	subs, err := client.ListSubscriptions(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []webhook.SubscriberRef{{ID: "123"}, {ID: "456"}}, subs)
	assert.Equal(t, "/2/account_activity/webhooks/1/subscriptions/all/list", u.last(t).Path)
}

func TestListSubscriptionsUnexpectedShape(t *testing.T) {
	_, srv := newUpstream(t, http.StatusOK, `{"data":[1,2,3]}`)
	client := newClient(t, srv.URL, "tok")

	subs, err := client.ListSubscriptions(context.Background(), "1")
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestCreateAndDeleteSubscription(t *testing.T) {
	u, srv := newUpstream(t, http.StatusOK, `{"data":{"subscribed":true}}`)
	client := newClient(t, srv.URL, "tok")

	sub, err := client.CreateSubscription(context.Background(), "1", "123")
	require.NoError(t, err)
	assert.Equal(t, "123", sub.UserID)
	assert.Equal(t, "1", sub.WebhookID)
	assert.Equal(t, webhook.Active, sub.Status)

	req := u.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/2/account_activity/webhooks/1/subscriptions/all", req.Path)
	assert.JSONEq(t, `{"user_id":"123"}`, req.Body)

	require.NoError(t, client.DeleteSubscription(context.Background(), "1", "123"))
	req = u.last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/2/account_activity/webhooks/1/subscriptions/123/all", req.Path)
}

func TestRequestReplay(t *testing.T) {
	u, srv := newUpstream(t, http.StatusOK, `{"data":{"job_id":"job-1","created_at":"2024-01-15T12:00:00.000Z"}}`)
	client := newClient(t, srv.URL, "tok")

	job, err := client.RequestReplay(context.Background(), "1", "202401151200", "202401151300")
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.JobID)

	req := u.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/2/account_activity/replay/webhooks/1/subscriptions/all", req.Path)
	assert.Equal(t, "from_date=202401151200&to_date=202401151300", req.Query)
	assert.Empty(t, req.Body)
}

func TestGetUser(t *testing.T) {
	u, srv := newUpstream(t, http.StatusOK, `{"data":{"id":"12","name":"Jack","username":"jack","profile_image_url":"https://pbs.twimg.com/a.jpg","verified":true}}`)
	client := newClient(t, srv.URL, "tok")

	user, err := client.GetUser(context.Background(), "12")
	require.NoError(t, err)
	assert.Equal(t, "jack", user.Username)
	assert.True(t, user.Verified)
	assert.Equal(t, "user.fields=profile_image_url%2Cverified", u.last(t).Query)
}

func TestGetUserNotFoundInErrorsArray(t *testing.T) {
	_, srv := newUpstream(t, http.StatusOK, `{"errors":[{"title":"Not Found Error","detail":"Could not find user with id: [1]."}]}`)
	client := newClient(t, srv.URL, "tok")

	_, err := client.GetUser(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, webhook.StatusOf(err))
	assert.Equal(t, "Could not find user with id: [1].", webhook.DetailOf(err))
}

type observed struct {
	operation string
	status    int
}

type fakeObserver struct {
	mu    sync.Mutex
	calls []observed
}

func (f *fakeObserver) UpstreamCall(_ context.Context, operation string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, observed{operation, status})
}

func TestObserverReceivesCalls(t *testing.T) {
	_, srv := newUpstream(t, http.StatusTooManyRequests, `{"title":"Rate limited"}`)
	client := newClient(t, srv.URL, "tok")
	obs := &fakeObserver{}
	client.Observer = obs

	_, _ = client.ListWebhooks(context.Background())
	assert.Equal(t, []observed{{"list_webhooks", http.StatusTooManyRequests}}, obs.calls)
}
