package status

import (
	"errors"
	"testing"
	"time"

	"freight-admin/apperrors"
	"freight-admin/models/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return &Validator{Now: func() time.Time { return fixedNow }}
}

func TestValidateTransitionGrid(t *testing.T) {
	legal := map[[2]shipment.ShipmentStatus]bool{
		{shipment.StatusCreated, shipment.StatusAwaitingPickup}:   true,
		{shipment.StatusAwaitingPickup, shipment.StatusPickedUp}:  true,
		{shipment.StatusPickedUp, shipment.StatusInTransit}:       true,
		{shipment.StatusInTransit, shipment.StatusDelivered}:      true,
		{shipment.StatusCreated, shipment.StatusCancelled}:        true,
		{shipment.StatusAwaitingPickup, shipment.StatusCancelled}: true,
		{shipment.StatusPickedUp, shipment.StatusCancelled}:       true,
		{shipment.StatusInTransit, shipment.StatusCancelled}:      true,
	}

	v := newTestValidator()
	all := shipment.GetAllShipmentStatuses()
	for _, from := range all {
		for _, to := range all {
			if from == to {
				continue
			}
			name := from.String() + "->" + to.String()
			d, err := v.Validate(from, Request{Target: to, ProofURL: "https://cdn/proof.jpg"})

			if legal[[2]shipment.ShipmentStatus{from, to}] {
				require.NoError(t, err, name)
				assert.Equal(t, to, d.Status, name)
				assert.True(t, d.AppendEvent, name)
				continue
			}

			var te *apperrors.TransitionError
			require.True(t, errors.As(err, &te), name)
			assert.Equal(t, from.String(), te.From, name)
			assert.Equal(t, to.String(), te.To, name)
		}
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	v := newTestValidator()
	for _, from := range []shipment.ShipmentStatus{shipment.StatusDelivered, shipment.StatusCancelled} {
		assert.Empty(t, NextStatuses(from))
		for _, to := range shipment.GetAllShipmentStatuses() {
			if to == from {
				continue
			}
			_, err := v.Validate(from, Request{Target: to, ProofURL: "x"})
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		}
	}
}

func TestDeliveredRequiresProof(t *testing.T) {
	v := newTestValidator()

	_, err := v.Validate(shipment.StatusInTransit, Request{Target: shipment.StatusDelivered})
	var pe *apperrors.PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "in_transit", pe.From)
	assert.Equal(t, "delivered", pe.To)

	_, err = v.Validate(shipment.StatusInTransit, Request{Target: shipment.StatusDelivered, ProofURL: "   "})
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
}

func TestDeliveredTimestamp(t *testing.T) {
	v := newTestValidator()

	d, err := v.Validate(shipment.StatusInTransit, Request{Target: shipment.StatusDelivered, ProofURL: "https://cdn/p.png"})
	require.NoError(t, err)
	require.NotNil(t, d.DeliveredAt)
	assert.Equal(t, fixedNow, *d.DeliveredAt)
	assert.Equal(t, "https://cdn/p.png", *d.ProofURL)
	assert.True(t, d.Notify)

	supplied := time.Date(2024, 3, 9, 8, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	d, err = v.Validate(shipment.StatusInTransit, Request{Target: shipment.StatusDelivered, ProofURL: "p", DeliveredAt: &supplied})
	require.NoError(t, err)
	assert.True(t, supplied.Equal(*d.DeliveredAt))
	assert.Equal(t, time.UTC, d.DeliveredAt.Location())
}

func TestNoOpTransition(t *testing.T) {
	v := newTestValidator()
	for _, s := range shipment.GetAllShipmentStatuses() {
		d, err := v.Validate(s, Request{Target: s})
		require.NoError(t, err, s.String())
		assert.Equal(t, s, d.Status)
		assert.False(t, d.AppendEvent)
		assert.False(t, d.Notify)
		assert.Nil(t, d.DeliveredAt)
	}
}

func TestUnknownTarget(t *testing.T) {
	_, err := newTestValidator().Validate(shipment.StatusCreated, Request{Target: "lost"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "status", apperrors.Field(err))
}

func TestNotifyPolicy(t *testing.T) {
	v := newTestValidator()

	d, err := v.Validate(shipment.StatusCreated, Request{Target: shipment.StatusAwaitingPickup})
	require.NoError(t, err)
	assert.True(t, d.Notify)

	d, err = v.Validate(shipment.StatusAwaitingPickup, Request{Target: shipment.StatusPickedUp})
	require.NoError(t, err)
	assert.False(t, d.Notify)

	d, err = v.Validate(shipment.StatusPickedUp, Request{Target: shipment.StatusCancelled})
	require.NoError(t, err)
	assert.False(t, d.Notify)
}
