package webhook

import (
	"encoding/json"
	"fmt"
)

/* Status represents whether a webhook or subscription is live on the provider
 * A webhook becomes Active once the provider's CRC validation succeeds
 */
type Status int

const (
	Active Status = iota + 1
	Inactive
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from a string
func NewStatus(str string) Status {
	switch str {
	case "active":
		return Active
	case "inactive":
		return Inactive
	default:
		return Inactive
	}
}

// StatusFromValid maps the provider's boolean "valid" flag to a Status
func StatusFromValid(valid bool) Status {
	if valid {
		return Active
	}
	return Inactive
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s < Active || s > Inactive {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// MarshalJSON encodes the status as its string form
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its string form
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("unmarshaling status: %w", err)
	}
	*s = NewStatus(str)
	return nil
}
