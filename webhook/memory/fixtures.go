package memory

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"gopkg.in/yaml.v3"
)

/* Fixtures seed the in-memory provider from YAML
 * Timestamps are RFC 3339 strings so a bad value fails validation with a clear message
 */

//go:embed seed.yaml
var defaultSeed []byte

// Fixtures represents the structure of a fixtures file
type Fixtures struct {
	Webhooks      []WebhookFixture      `yaml:"webhooks"`
	Subscriptions []SubscriptionFixture `yaml:"subscriptions"`
	Users         []UserFixture         `yaml:"users"`
}

// WebhookFixture represents a single webhook in the YAML file
type WebhookFixture struct {
	ID            string `yaml:"id"`
	URL           string `yaml:"url"`
	Status        string `yaml:"status"`
	CreatedAt     string `yaml:"created_at"`
	LastTriggered string `yaml:"last_triggered"` // Optional
}

// SubscriptionFixture represents a single subscription in the YAML file
type SubscriptionFixture struct {
	ID        string `yaml:"id"`
	UserID    string `yaml:"user_id"`
	WebhookID string `yaml:"webhook_id"`
	CreatedAt string `yaml:"created_at"`
	Status    string `yaml:"status"`
}

// UserFixture represents a single user profile in the YAML file
type UserFixture struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	ProfileImageURL string `yaml:"profile_image_url"`
	Verified        bool   `yaml:"verified"`
}

// DefaultFixtures returns the built-in sample data
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultSeed)
}

// LoadFixtures reads and parses a fixtures file
func LoadFixtures(filePath string) (*Fixtures, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures file: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes and validates fixture YAML
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixtures YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("validating fixtures: %w", err)
	}
	return &f, nil
}

// Validate checks ids, URLs, statuses and timestamps of every entry
func (f *Fixtures) Validate() error {
	webhookIDs := make(map[string]bool, len(f.Webhooks))
	for _, w := range f.Webhooks {
		if w.ID == "" {
			return fmt.Errorf("webhook id cannot be empty")
		}
		if webhookIDs[w.ID] {
			return fmt.Errorf("duplicate webhook id %s", w.ID)
		}
		webhookIDs[w.ID] = true

		u, err := url.ParseRequestURI(w.URL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("url must be an absolute http(s) URL for webhook %s", w.ID)
		}
		if err := validateStatus(w.Status); err != nil {
			return fmt.Errorf("invalid status for webhook %s: %w", w.ID, err)
		}
		if _, err := parseTime(w.CreatedAt); err != nil {
			return fmt.Errorf("invalid created_at for webhook %s: %w", w.ID, err)
		}
		if w.LastTriggered != "" {
			if _, err := parseTime(w.LastTriggered); err != nil {
				return fmt.Errorf("invalid last_triggered for webhook %s: %w", w.ID, err)
			}
		}
	}

	for _, s := range f.Subscriptions {
		if s.ID == "" {
			return fmt.Errorf("subscription id cannot be empty")
		}
		if s.UserID == "" {
			return fmt.Errorf("user_id cannot be empty for subscription %s", s.ID)
		}
		if !webhookIDs[s.WebhookID] {
			return fmt.Errorf("subscription %s references unknown webhook %q", s.ID, s.WebhookID)
		}
		if err := validateStatus(s.Status); err != nil {
			return fmt.Errorf("invalid status for subscription %s: %w", s.ID, err)
		}
		if _, err := parseTime(s.CreatedAt); err != nil {
			return fmt.Errorf("invalid created_at for subscription %s: %w", s.ID, err)
		}
	}

	for _, u := range f.Users {
		if u.ID == "" {
			return fmt.Errorf("user id cannot be empty")
		}
		if u.Username == "" {
			return fmt.Errorf("username cannot be empty for user %s", u.ID)
		}
	}
	return nil
}

func validateStatus(s string) error {
	// empty means active
	if s == "" || s == webhook.Active.String() || s == webhook.Inactive.String() {
		return nil
	}
	return fmt.Errorf("unknown status %q", s)
}

func statusOf(s string) webhook.Status {
	if s == "" {
		return webhook.Active
	}
	return webhook.NewStatus(s)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
