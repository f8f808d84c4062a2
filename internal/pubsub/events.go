// Package pubsub is a small generic fan-out broker with a Bubble Tea adapter.
//
// Publishers never block: a subscriber that falls behind loses events instead
// of stalling the publisher. That makes it safe to publish from the logger,
// which runs inside Update.
package pubsub

import "time"

// EventType labels what happened.
type EventType string

const (
	// Logged is published for every written log line.
	Logged EventType = "logged"
)

// Event wraps a payload with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
