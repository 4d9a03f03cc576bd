package metrics

import (
	"context"
	"strconv"

	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/event"
	"github.com/osse101/luckydraw/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.SpinCompleted,
		event.SpinFinalized,
		event.EventsExpired,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.SpinCompleted:
		payload, err := event.DecodePayload[domain.SpinCompletedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		if payload.Won && payload.RewardID != nil {
			RewardsAwarded.WithLabelValues(strconv.FormatInt(*payload.RewardID, 10)).Inc()
			if payload.GoldenHour {
				GoldenHourSpins.Inc()
			}
		}

	case event.SpinFinalized:
		SpinsFinalized.Inc()

	case event.EventsExpired:
		payload, err := event.DecodePayload[event.EventsExpiredPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		EventsDeactivated.Add(float64(payload.Deactivated))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
