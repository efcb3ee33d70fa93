// Package status decides whether a shipment may move to a new status and
// which side effects the move implies. It performs no I/O.
package status

import (
	"strings"
	"time"

	"freight-admin/apperrors"
	"freight-admin/models/shipment"
	"freight-admin/services/notification"
)

// forward edges of the lifecycle; cancellation is handled separately
var transitions = map[shipment.ShipmentStatus][]shipment.ShipmentStatus{
	shipment.StatusCreated:        {shipment.StatusAwaitingPickup},
	shipment.StatusAwaitingPickup: {shipment.StatusPickedUp},
	shipment.StatusPickedUp:       {shipment.StatusInTransit},
	shipment.StatusInTransit:      {shipment.StatusDelivered},
}

// Request carries the target status and the inputs some targets require.
type Request struct {
	Target      shipment.ShipmentStatus
	ProofURL    string
	DeliveredAt *time.Time
}

// Decision is the outcome of a legal request.
type Decision struct {
	Status      shipment.ShipmentStatus
	AppendEvent bool
	Notify      bool
	DeliveredAt *time.Time
	ProofURL    *string
}

// Validator holds the clock used for deliveredAt when none is supplied.
type Validator struct {
	Now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{Now: time.Now}
}

// Validate checks req against the current status.
func (v *Validator) Validate(current shipment.ShipmentStatus, req Request) (Decision, error) {
	if !req.Target.IsValid() {
		return Decision{}, apperrors.NewValidation("status", "unknown status "+string(req.Target))
	}

	if req.Target == current {
		return Decision{Status: current}, nil
	}

	if !CanTransition(current, req.Target) {
		return Decision{}, &apperrors.TransitionError{From: current.String(), To: req.Target.String()}
	}

	d := Decision{
		Status:      req.Target,
		AppendEvent: true,
		Notify:      NotifiesOn(req.Target),
	}

	if req.Target == shipment.StatusDelivered {
		proof := strings.TrimSpace(req.ProofURL)
		if proof == "" {
			return Decision{}, &apperrors.PreconditionError{
				From:   current.String(),
				To:     req.Target.String(),
				Reason: "proof of delivery is required",
			}
		}
		at := v.now()
		if req.DeliveredAt != nil {
			at = *req.DeliveredAt
		}
		at = at.UTC()
		d.DeliveredAt = &at
		d.ProofURL = &proof
	}

	return d, nil
}

func (v *Validator) now() time.Time {
	if v == nil || v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

// CanTransition reports whether to is a direct edge from from.
func CanTransition(from, to shipment.ShipmentStatus) bool {
	if !from.CanBeUpdated() {
		return false
	}
	if to == shipment.StatusCancelled {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable in one step.
func NextStatuses(from shipment.ShipmentStatus) []shipment.ShipmentStatus {
	if !from.CanBeUpdated() {
		return nil
	}
	next := append([]shipment.ShipmentStatus{}, transitions[from]...)
	return append(next, shipment.StatusCancelled)
}

// NotifiesOn reports whether entering s sends a customer notification.
func NotifiesOn(s shipment.ShipmentStatus) bool {
	return notification.ShouldNotify(s)
}
