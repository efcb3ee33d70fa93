package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"freight-admin/apperrors"
	shipmentModel "freight-admin/models/shipment"
	shipmentTypes "freight-admin/types/shipment"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records written messages.
type fakeWriter struct {
	msgs []skafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...skafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewProducerWithWriter(fw, "shipments")

	require.NoError(t, p.Publish(context.Background(), "key1", map[string]string{"a": "b"}))
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "key1", string(fw.msgs[0].Key))
	assert.JSONEq(t, `{"a":"b"}`, string(fw.msgs[0].Value))
}

func TestStatusPublisher(t *testing.T) {
	fw := &fakeWriter{}
	pub := NewStatusPublisher(NewProducerWithWriter(fw, "shipments"))
	at := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

	err := pub.OnStatusChanged(context.Background(), shipmentTypes.StatusChange{
		Shipment: &shipmentModel.Shipment{ID: 9, TrackingCode: "AB12CD34EF56", Status: shipmentModel.StatusInTransit},
		Event:    &shipmentModel.TrackingEvent{ShipmentID: 9, NewStatus: shipmentModel.StatusInTransit, OccurredAt: at},
		Previous: shipmentModel.StatusPickedUp,
		Actor:    "op-2",
	})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "AB12CD34EF56", string(fw.msgs[0].Key))

	var ev StatusChangedEvent
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &ev))
	assert.Equal(t, EventStatusChanged, ev.Type)
	assert.Equal(t, "picked_up", ev.PreviousStatus)
	assert.Equal(t, "in_transit", ev.NewStatus)
	assert.True(t, at.Equal(ev.OccurredAt))
	assert.NotEmpty(t, ev.EventID)
}

func TestStatusPublisherFailure(t *testing.T) {
	pub := NewStatusPublisher(NewProducerWithWriter(&fakeWriter{err: errors.New("leader not available")}, "shipments"))

	err := pub.OnStatusChanged(context.Background(), shipmentTypes.StatusChange{
		Shipment: &shipmentModel.Shipment{ID: 1, TrackingCode: "AB12CD34EF56", Status: shipmentModel.StatusCancelled},
	})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
