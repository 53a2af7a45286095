package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"time"
)

/* Webhook represents a provider-side webhook registration
 * Uses value semantics as it represents data, not behavior
 */
type Webhook struct {
	ID            string     `json:"id"`
	URL           string     `json:"url"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	LastTriggered *time.Time `json:"last_triggered"`
}

// Subscription binds a user's account activity to a webhook
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	WebhookID string    `json:"webhook_id"`
	CreatedAt time.Time `json:"created_at"`
	Status    Status    `json:"status"`
}

// SubscriberRef is the flat projection of a subscription listing: {id: user_id}
type SubscriberRef struct {
	ID string `json:"id"`
}

// ReplayJob is returned by the provider when a replay request is accepted.
// The relay does not track job completion.
type ReplayJob struct {
	JobID     string `json:"job_id"`
	CreatedAt string `json:"created_at"`
}

// User is the subset of a provider user profile the relay exposes
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Verified        bool   `json:"verified"`
}

/* Event is an inbound account activity delivery
 * Verified is false when the signature header was missing or did not match
 */
type Event struct {
	ID               string    `json:"event_id"`
	ForUserID        string    `json:"for_user_id,omitempty"`
	Kinds            []string  `json:"kinds,omitempty"`
	Payload          []byte    `json:"payload"`
	Verified         bool      `json:"verified"`
	SignaturePresent bool      `json:"signature_present"`
	ReceivedAt       time.Time `json:"received_at"`
}

// UnknownSubject names the stream of events that carry no for_user_id
const UnknownSubject = "unknown"

// subjectToken is the shape of an id that may be used verbatim in stream keys and NATS subjects
var subjectToken = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Subject is the fan-out key of the event, see SubjectOf
func (e Event) Subject() string {
	return SubjectOf(e.ForUserID)
}

/* SubjectOf maps a for_user_id onto a key safe for Redis and NATS
 * Ids outside [A-Za-z0-9_-]{1,64} are replaced by "x-" and a hex digest, an empty id is UnknownSubject
 */
func SubjectOf(forUserID string) string {
	if forUserID == "" {
		return UnknownSubject
	}
	if subjectToken.MatchString(forUserID) {
		return forUserID
	}
	sum := sha256.Sum256([]byte(forUserID))
	return "x-" + hex.EncodeToString(sum[:12])
}
