package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/luckydraw/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"`
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Event types
const (
	SpinCompleted Type = Type(domain.EventTypeSpinCompleted)
	SpinFinalized Type = "spin.finalized"
	EventsExpired Type = "events.expired"
)

// SpinFinalizedPayloadV1 is published when a winning spin is marked as claimed
type SpinFinalizedPayloadV1 struct {
	SpinID      int64     `json:"spin_id"`
	FinalizedAt time.Time `json:"finalized_at"`
}

// EventsExpiredPayloadV1 is published by the expiry worker after a sweep
type EventsExpiredPayloadV1 struct {
	SweptAt     time.Time `json:"swept_at"`
	Deactivated int64     `json:"deactivated"`
}

// NewSpinCompletedEvent wraps a recorded spin into a bus event
func NewSpinCompletedEvent(history domain.SpinHistory) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinCompleted,
		Payload: domain.SpinCompletedPayload{
			SpinID:        history.ID,
			EventID:       history.EventID,
			LocationID:    history.LocationID,
			ParticipantID: history.ParticipantID,
			RewardID:      history.RewardID,
			Won:           history.Won,
			Multiplier:    history.Multiplier,
			GoldenHour:    history.GoldenHour,
			Timestamp:     history.SpinTime.Unix(),
		},
		Metadata: Metadata{"source": "spin"},
	}
}

// NewSpinFinalizedEvent creates a spin.finalized event
func NewSpinFinalizedEvent(spinID int64, at time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinFinalized,
		Payload: SpinFinalizedPayloadV1{SpinID: spinID, FinalizedAt: at},
	}
}

// NewEventsExpiredEvent creates an events.expired event
func NewEventsExpiredEvent(at time.Time, deactivated int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    EventsExpired,
		Payload: EventsExpiredPayloadV1{SweptAt: at, Deactivated: deactivated},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
