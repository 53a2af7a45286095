package chi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-relay/router"
	"github.com/marcelsud/webhook-relay/webhook"
)

/* Host adapter between net/http and the transport-neutral router
 * One conversion each way; the router never sees an *http.Request
 */

// MaxBodyBytes bounds inbound request bodies
const MaxBodyBytes = 1 << 20

// ToRequest converts an *http.Request into a router.Request, reading at most MaxBodyBytes
func ToRequest(r *http.Request) (router.Request, error) {
	var body []byte
	if r.Body != nil {
		defer r.Body.Close()
		data, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
		if err != nil {
			return router.Request{}, fmt.Errorf("reading request body: %w", err)
		}
		if len(data) > MaxBodyBytes {
			return router.Request{}, errBodyTooLarge
		}
		body = data
	}

	return router.Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	}, nil
}

// WriteResponse writes a router.Response to w
func WriteResponse(w http.ResponseWriter, res router.Response) error {
	for key, values := range res.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(res.Status)
	if res.Status == http.StatusNoContent || len(res.Body) == 0 {
		return nil
	}
	_, err := w.Write(res.Body)
	return err
}

var errBodyTooLarge = errors.New("request body exceeds 1MiB")

// relay handles every path the router owns
func relay(rt *router.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oplog := httplog.LogEntry(r.Context())

		req, err := ToRequest(r)
		var res router.Response
		if err != nil {
			res = rt.Reject(r.Context(), webhook.InvalidArgument(err.Error()))
		} else {
			res = rt.Dispatch(r.Context(), req)
		}

		// the client may be gone already; nothing is left to answer
		if r.Context().Err() != nil {
			oplog.Warn().Err(r.Context().Err()).Int("status", res.Status).Msg("client went away before the response was written")
			return
		}
		if err := WriteResponse(w, res); err != nil {
			oplog.Warn().Err(err).Msg("writing response")
		}
	})
}
