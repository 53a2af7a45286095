package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActivityTTL is how long a subject counts as active after its last event
const ActivityTTL = time.Hour

const activityPrefix = "events:activity"

// SubjectActivity records the last event seen for a subject
type SubjectActivity struct {
	Subject     string    `json:"subject"`
	LastEventID string    `json:"last_event_id"`
	LastSeen    time.Time `json:"last_seen"`
}

// ActiveSubjects returns the subjects that received an event within ActivityTTL
func (s *Sink) ActiveSubjects(ctx context.Context) ([]SubjectActivity, error) {
	pattern := activityPrefix + ":*"
	var subjects []SubjectActivity

	var cursor uint64
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning activity keys: %w", err)
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err == redis.Nil {
				// Key expired between scan and get
				continue
			}
			if isWrongType(err) {
				s.logger.Warn().Str("key", key).Msg("skipping activity key holding another type")
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("getting subject activity: %w", err)
			}

			var activity SubjectActivity
			if err := json.Unmarshal([]byte(data), &activity); err != nil {
				continue
			}

			subjects = append(subjects, activity)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return subjects, nil
}

func activityKey(subject string) string {
	return fmt.Sprintf("%s:%s", activityPrefix, subject)
}

func isWrongType(err error) bool {
	return redis.HasErrorPrefix(err, "WRONGTYPE")
}
