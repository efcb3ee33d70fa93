package kafka

import (
	"context"
	"time"

	"freight-admin/apperrors"
	shipmentTypes "freight-admin/types/shipment"

	"github.com/google/uuid"
)

const EventStatusChanged = "shipment.status_changed"

// StatusChangedEvent is the payload published for every persisted change.
type StatusChangedEvent struct {
	EventID        string    `json:"event_id"`
	Type           string    `json:"type"`
	ShipmentID     uint      `json:"shipment_id"`
	TrackingCode   string    `json:"tracking_code"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	OccurredAt     time.Time `json:"occurred_at"`
	Actor          string    `json:"actor,omitempty"`
}

// StatusPublisher forwards status changes to Kafka.
type StatusPublisher struct {
	producer *Producer
}

func NewStatusPublisher(p *Producer) *StatusPublisher {
	return &StatusPublisher{producer: p}
}

func (s *StatusPublisher) OnStatusChanged(ctx context.Context, change shipmentTypes.StatusChange) error {
	sh := change.Shipment
	ev := StatusChangedEvent{
		EventID:        uuid.NewString(),
		Type:           EventStatusChanged,
		ShipmentID:     sh.ID,
		TrackingCode:   sh.TrackingCode,
		PreviousStatus: change.Previous.String(),
		NewStatus:      sh.Status.String(),
		OccurredAt:     sh.UpdatedAt.UTC(),
		Actor:          change.Actor,
	}
	if change.Event != nil {
		ev.OccurredAt = change.Event.OccurredAt.UTC()
	}

	if err := s.producer.Publish(ctx, sh.TrackingCode, ev); err != nil {
		return apperrors.Upstream("kafka", err)
	}
	return nil
}
