package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/marcelsud/webhook-relay/webhook/signature"
	"github.com/rs/zerolog"
)

/* Router maps (method, path, query, headers, body) onto relay operations
 * It is stateless per request and never depends on a host transport type
 */

// DefaultCallbackPath is where the provider sends CRC challenges and events
const DefaultCallbackPath = "/webhooks/twitter"

// Request is the host-neutral form of an inbound HTTP request
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response is the host-neutral form of the answer; Body is nil for 204
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Recorder observes every dispatched request by route label and status
type Recorder interface {
	RecordRequest(ctx context.Context, route string, status int)
}

type Router struct {
	Service  webhook.UseCase
	Logger   zerolog.Logger
	Recorder Recorder
	Now      func() time.Time

	callback []string
}

// New creates a router; an empty callbackPath means DefaultCallbackPath
func New(service webhook.UseCase, callbackPath string, logger zerolog.Logger) *Router {
	callback := segments(callbackPath)
	if len(callback) == 0 {
		callback = segments(DefaultCallbackPath)
	}
	return &Router{
		Service:  service,
		Logger:   logger,
		Now:      time.Now,
		callback: callback,
	}
}

// Dispatch answers exactly one Response per Request, converting panics into a 500
func (rt *Router) Dispatch(ctx context.Context, req Request) (res Response) {
	route := "unmatched"
	defer func() {
		if p := recover(); p != nil {
			rt.Logger.Error().
				Str("method", req.Method).
				Str("path", req.Path).
				Interface("panic", p).
				Bytes("stack", debug.Stack()).
				Msg("recovered from panic while dispatching")
			res = rt.fail(fmt.Errorf("%v", p))
		}
		if rt.Recorder != nil {
			rt.Recorder.RecordRequest(ctx, route, res.Status)
		}
	}()

	res = rt.dispatch(ctx, req, &route)
	return res
}

// Reject answers err for a request the host could not convert
func (rt *Router) Reject(ctx context.Context, err error) Response {
	res := rt.fail(err)
	if rt.Recorder != nil {
		rt.Recorder.RecordRequest(ctx, "rejected", res.Status)
	}
	return res
}

func (rt *Router) dispatch(ctx context.Context, req Request, route *string) Response {
	segs := segments(req.Path)
	query := req.Query
	if query == nil {
		query = url.Values{}
	}

	switch {
	// /webhooks/{id}/subscriptions[/{userId}]
	case len(segs) >= 3 && len(segs) <= 4 && segs[0] == "webhooks" && segs[2] == "subscriptions":
		*route = "subscriptions"
		userID := ""
		if len(segs) == 4 {
			userID = segs[3]
		}
		return rt.subscriptions(ctx, req, segs[1], userID)

	// /webhooks/{id}/replay
	case len(segs) == 3 && segs[0] == "webhooks" && segs[2] == "replay":
		*route = "replay"
		if req.Method != http.MethodPost {
			return rt.fail(webhook.MethodNotAllowed(req.Method, req.Path))
		}
		return rt.replay(ctx, segs[1], query)

	case req.Method == http.MethodGet && query.Has("crc_token") && (rt.isCallback(segs) || isCollection(segs)):
		*route = "crc"
		return rt.challenge(ctx, query.Get("crc_token"))

	case req.Method == http.MethodPost && rt.isCallback(segs):
		*route = "event"
		return rt.receive(ctx, req)

	case isCollection(segs):
		*route = "webhooks"
		switch req.Method {
		case http.MethodGet:
			return rt.listWebhooks(ctx)
		case http.MethodPost:
			return rt.createWebhook(ctx, req.Body)
		default:
			return rt.fail(webhook.MethodNotAllowed(req.Method, req.Path))
		}

	case len(segs) == 2 && segs[0] == "webhooks":
		*route = "webhook"
		switch req.Method {
		case http.MethodPut:
			return rt.noContent(rt.Service.ValidateWebhook(ctx, segs[1]))
		case http.MethodDelete:
			return rt.noContent(rt.Service.DeleteWebhook(ctx, segs[1]))
		default:
			return rt.fail(webhook.MethodNotAllowed(req.Method, req.Path))
		}

	case len(segs) == 2 && segs[0] == "users":
		*route = "users"
		if req.Method != http.MethodGet {
			return rt.fail(webhook.MethodNotAllowed(req.Method, req.Path))
		}
		user, err := rt.Service.GetUser(ctx, segs[1])
		if err != nil {
			return rt.fail(err)
		}
		return rt.ok(user, "User retrieved successfully")
	}

	*route = "not_found"
	return rt.fail(webhook.NotFound("no route for " + req.Method + " " + req.Path))
}

func (rt *Router) subscriptions(ctx context.Context, req Request, webhookID, userID string) Response {
	switch {
	case req.Method == http.MethodGet && userID == "":
		subs, err := rt.Service.ListSubscriptions(ctx, webhookID)
		if err != nil {
			return rt.fail(err)
		}
		if subs == nil {
			subs = []webhook.SubscriberRef{}
		}
		return rt.ok(subs, "Subscriptions retrieved for webhook "+webhookID)

	case req.Method == http.MethodPost && userID != "":
		sub, err := rt.Service.CreateSubscription(ctx, webhookID, userID)
		if err != nil {
			return rt.fail(err)
		}
		return rt.ok(sub, "Subscription created successfully")

	case req.Method == http.MethodDelete && userID != "":
		if err := rt.Service.DeleteSubscription(ctx, webhookID, userID); err != nil {
			return rt.fail(err)
		}
		return rt.ok(nil, "Subscription deleted successfully")
	}
	return rt.fail(webhook.MethodNotAllowed(req.Method, req.Path))
}

func (rt *Router) replay(ctx context.Context, webhookID string, query url.Values) Response {
	from, to := query.Get("from_date"), query.Get("to_date")
	if from == "" || to == "" {
		return rt.fail(webhook.InvalidArgument("from_date and to_date query parameters are required"))
	}
	job, err := rt.Service.RequestReplay(ctx, webhookID, from, to)
	if err != nil {
		return rt.fail(err)
	}
	return rt.ok(job, "Replay requested successfully")
}

func (rt *Router) challenge(ctx context.Context, nonce string) Response {
	token, err := rt.Service.Challenge(ctx, nonce)
	if err != nil {
		return rt.fail(err)
	}
	return rt.json(http.StatusOK, crcResponse{ResponseToken: token})
}

func (rt *Router) receive(ctx context.Context, req Request) Response {
	event, err := rt.Service.Receive(ctx, req.Body, req.Header.Get(signature.Header))
	if err != nil {
		return rt.fail(err)
	}
	return rt.json(http.StatusOK, eventResponse{
		Message:   "Webhook event received",
		EventID:   event.ID,
		Verified:  event.Verified,
		Timestamp: rt.timestamp(),
	})
}

func (rt *Router) listWebhooks(ctx context.Context) Response {
	webhooks, err := rt.Service.ListWebhooks(ctx)
	if err != nil {
		return rt.fail(err)
	}
	if webhooks == nil {
		webhooks = []webhook.Webhook{}
	}
	return rt.ok(webhooks, "Webhooks retrieved successfully")
}

func (rt *Router) createWebhook(ctx context.Context, body []byte) Response {
	var in createWebhookRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &in); err != nil {
			return rt.fail(webhook.InvalidArgument("invalid JSON body: " + err.Error()))
		}
	}
	created, err := rt.Service.CreateWebhook(ctx, in.URL)
	if err != nil {
		return rt.fail(err)
	}
	return rt.ok(created, "Webhook created successfully")
}

func (rt *Router) noContent(err error) Response {
	if err != nil {
		return rt.fail(err)
	}
	return Response{Status: http.StatusNoContent, Header: http.Header{}}
}

func (rt *Router) ok(data any, message string) Response {
	return rt.json(http.StatusOK, envelope{
		Data:      data,
		Message:   message,
		Timestamp: rt.timestamp(),
	})
}

// fail renders err with the status its taxonomy code carries
func (rt *Router) fail(err error) Response {
	status := webhook.StatusOf(err)
	code := webhook.KindOf(err)
	if status >= http.StatusInternalServerError {
		rt.Logger.Error().Err(err).Str("code", code).Int("status", status).Msg("request failed")
	}
	return rt.json(status, errorResponse{
		Error:  webhook.Summary(code),
		Code:   code,
		Detail: webhook.DetailOf(err),
	})
}

func (rt *Router) json(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		rt.Logger.Error().Err(err).Msg("encoding response")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error","code":"INTERNAL_ERROR","detail":"encoding response"}`)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return Response{Status: status, Header: header, Body: body}
}

func (rt *Router) timestamp() string {
	now := time.Now
	if rt.Now != nil {
		now = rt.Now
	}
	return now().UTC().Format(time.RFC3339)
}

func (rt *Router) isCallback(segs []string) bool {
	if len(segs) != len(rt.callback) {
		return false
	}
	for i := range segs {
		if segs[i] != rt.callback[i] {
			return false
		}
	}
	return true
}

func isCollection(segs []string) bool {
	return len(segs) == 1 && segs[0] == "webhooks"
}

// segments splits a path into non-empty parts, dropping a leading "api"
func segments(path string) []string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) > 0 && segs[0] == "api" {
		segs = segs[1:]
	}
	return segs
}
