package notification

import (
	"context"
	"errors"
	"testing"

	"freight-admin/apperrors"
	"freight-admin/models/shipment"
	shipmentTypes "freight-admin/types/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	sent []Message
	err  error
}

func (c *recordingChannel) Send(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return c.err
}

func testShipment(status shipment.ShipmentStatus) *shipment.Shipment {
	email := "cliente@example.com"
	driver := uint(7)
	return &shipment.Shipment{
		ID:                 1,
		TrackingCode:       "AB12CD34EF56",
		Status:             status,
		RecipientEmail:     &email,
		DriverID:           &driver,
		Description:        "Caixa <frágil>",
		Origin:             "São Paulo",
		DestinationAddress: "Rua A, 100",
	}
}

func change(s shipment.ShipmentStatus, notify bool) shipmentTypes.StatusChange {
	return shipmentTypes.StatusChange{Shipment: testShipment(s), Notify: notify}
}

func TestNoMessageWhenChangeDoesNotNotify(t *testing.T) {
	ch := &recordingChannel{}
	d := NewDispatcher(ch, "https://portal.example.com")

	require.NoError(t, d.OnStatusChanged(context.Background(), change(shipment.StatusDelivered, false)))
	assert.Empty(t, ch.sent)
}

func TestNotificationPolicy(t *testing.T) {
	for _, s := range shipment.GetAllShipmentStatuses() {
		ch := &recordingChannel{}
		d := NewDispatcher(ch, "https://portal.example.com/")

		want := s == shipment.StatusAwaitingPickup || s == shipment.StatusInTransit || s == shipment.StatusDelivered
		require.NoError(t, d.OnStatusChanged(context.Background(), change(s, true)))

		assert.Equal(t, want, ShouldNotify(s), s.String())
		if want {
			assert.Len(t, ch.sent, 1, s.String())
		} else {
			assert.Empty(t, ch.sent, s.String())
		}
	}
}

func TestBuildMessage(t *testing.T) {
	d := NewDispatcher(&recordingChannel{}, "https://portal.example.com/")

	msg, ok, err := d.Build(testShipment(shipment.StatusInTransit))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "cliente@example.com", msg.To)
	assert.Equal(t, "Seu pedido está a caminho! Código: AB12CD34EF56", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "https://portal.example.com/rastreio/AB12CD34EF56")
	assert.Contains(t, msg.HTMLBody, "#7")
	assert.Contains(t, msg.HTMLBody, "Não definido")
	assert.Contains(t, msg.HTMLBody, "Caixa &lt;frágil&gt;")
}

func TestMissingRecipient(t *testing.T) {
	ch := &recordingChannel{}
	d := NewDispatcher(ch, "https://portal.example.com")
	sh := testShipment(shipment.StatusDelivered)
	sh.RecipientEmail = nil

	err := d.OnStatusChanged(context.Background(), shipmentTypes.StatusChange{Shipment: sh, Notify: true})
	assert.ErrorIs(t, err, ErrMissingRecipient)
	assert.Empty(t, ch.sent)
}

func TestChannelFailureIsUpstream(t *testing.T) {
	ch := &recordingChannel{err: errors.New("smtp down")}
	d := NewDispatcher(ch, "https://portal.example.com")

	err := d.OnStatusChanged(context.Background(), change(shipment.StatusAwaitingPickup, true))
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Len(t, ch.sent, 1)
}
