package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

// kindPattern matches account activity keys such as "tweet_create_events"
var kindPattern = regexp.MustCompile(`^[a-z0-9_]+_events$`)

// ActivityPayload is an inbound account activity delivery.
// Bodies that are not JSON objects are kept as raw bytes with no user or kinds.
type ActivityPayload struct {
	// ForUserID is the subscribed user the activity belongs to
	ForUserID string

	// Kinds lists the "*_events" keys present, sorted
	Kinds []string

	// Raw is the body exactly as received
	Raw []byte
}

// Parse inspects an event body. Only an empty body is rejected.
func Parse(data []byte) (ActivityPayload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return ActivityPayload{}, fmt.Errorf("event body is empty")
	}

	p := ActivityPayload{Raw: data}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return p, nil
	}

	if raw, ok := fields["for_user_id"]; ok {
		p.ForUserID = decodeID(raw)
	}

	for key, value := range fields {
		if !kindPattern.MatchString(key) {
			continue
		}
		if !bytes.HasPrefix(bytes.TrimSpace(value), []byte("[")) {
			continue
		}
		p.Kinds = append(p.Kinds, key)
	}
	sort.Strings(p.Kinds)

	return p, nil
}

// decodeID accepts the id as a JSON string or number
func decodeID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
