package webhook

import "fmt"

/* SinkKind selects where accepted events are published
 * Noop only logs, Redis appends to streams, NATS publishes on subjects
 */
type SinkKind int

const (
	NoopSinkKind SinkKind = iota + 1
	RedisSinkKind
	NATSSinkKind
)

// String returns the string representation of the sink kind
func (k SinkKind) String() string {
	switch k {
	case NoopSinkKind:
		return "noop"
	case RedisSinkKind:
		return "redis"
	case NATSSinkKind:
		return "nats"
	default:
		return "unknown"
	}
}

// NewSinkKind creates a SinkKind from a string
func NewSinkKind(s string) SinkKind {
	switch s {
	case "noop", "":
		return NoopSinkKind
	case "redis":
		return RedisSinkKind
	case "nats":
		return NATSSinkKind
	default:
		return 0
	}
}

// Validate checks if the sink kind is valid
func (k SinkKind) Validate() error {
	if k < NoopSinkKind || k > NATSSinkKind {
		return fmt.Errorf("invalid event sink: %d", k)
	}
	return nil
}
