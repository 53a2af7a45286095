package router

/* Wire shapes written by the router
 * Separate from domain entities to avoid leaking internal structure
 */

// envelope wraps every successful JSON answer
type envelope struct {
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

type crcResponse struct {
	ResponseToken string `json:"response_token"`
}

type eventResponse struct {
	Message   string `json:"message"`
	EventID   string `json:"event_id"`
	Verified  bool   `json:"verified"`
	Timestamp string `json:"timestamp"`
}

type createWebhookRequest struct {
	URL string `json:"url"`
}
