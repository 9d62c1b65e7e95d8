package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// registration is one subscriber or one function handler. Function
// handlers are bound to a single event type; subscribers filter with
// InterestedIn.
type registration struct {
	id        string
	eventType string
	sub       Subscriber
	fn        EventHandler
}

func (r registration) wants(eventType string) bool {
	if r.sub != nil {
		return r.sub.InterestedIn(eventType)
	}
	return r.eventType == eventType
}

// EventBus delivers session events synchronously in subscription order.
// Handlers run outside the bus lock, so they may subscribe or publish.
type EventBus struct {
	mu      sync.RWMutex
	entries []registration
	nextID  uint64
	logger  zerolog.Logger
}

var _ Bus = (*EventBus)(nil)

// NewEventBus creates a new event bus instance
func NewEventBus() *EventBus {
	return &EventBus{
		logger: log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a subscriber. A subscriber with the same ID is replaced
// in place.
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	reg := registration{id: subscriber.ID(), sub: subscriber}
	for i, existing := range eb.entries {
		if existing.sub != nil && existing.id == reg.id {
			eb.entries[i] = reg
			return
		}
	}
	eb.entries = append(eb.entries, reg)
	eb.logger.Debug().Str("subscriber_id", reg.id).Msg("Subscriber added to event bus")
}

// Unsubscribe removes a subscriber, or a function handler by the ID
// SubscribeFunc returned
func (eb *EventBus) Unsubscribe(id string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	kept := eb.entries[:0]
	for _, reg := range eb.entries {
		if reg.id != id {
			kept = append(kept, reg)
		}
	}
	for i := len(kept); i < len(eb.entries); i++ {
		eb.entries[i] = registration{}
	}
	eb.entries = kept
	eb.logger.Debug().Str("subscriber_id", id).Msg("Subscriber removed from event bus")
}

// SubscribeFunc adds a function handler for one event type and returns
// an ID usable with Unsubscribe
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	id := fmt.Sprintf("func-%d-%s", eb.nextID, eventType)
	eb.entries = append(eb.entries, registration{id: id, eventType: eventType, fn: handler})
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", id).
		Msg("Function handler added to event bus")
	return id
}

// Publish sends an event to every interested registration. A panicking
// handler is logged and skipped.
func (eb *EventBus) Publish(event Event) {
	eventType := event.Type()

	eb.mu.RLock()
	targets := make([]registration, 0, len(eb.entries))
	for _, reg := range eb.entries {
		if reg.wants(eventType) {
			targets = append(targets, reg)
		}
	}
	eb.mu.RUnlock()

	eb.logger.Debug().
		Str("event_type", eventType).
		Str("session_id", event.SessionID()).
		Int("handlers", len(targets)).
		Msg("Publishing event")

	for _, reg := range targets {
		eb.deliver(reg, event)
	}
}

func (eb *EventBus) deliver(reg registration, event Event) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("handler_id", reg.id).
				Str("event_type", event.Type()).
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()
	if reg.sub != nil {
		reg.sub.HandleEvent(event)
		return
	}
	reg.fn(event)
}

// GetSubscriberCount returns the number of subscribers, not counting
// function handlers
func (eb *EventBus) GetSubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	n := 0
	for _, reg := range eb.entries {
		if reg.sub != nil {
			n++
		}
	}
	return n
}

// GetFuncHandlerCount returns the number of function handlers for an event type
func (eb *EventBus) GetFuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	n := 0
	for _, reg := range eb.entries {
		if reg.fn != nil && reg.eventType == eventType {
			n++
		}
	}
	return n
}
