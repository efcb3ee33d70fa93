package shipment

import "strings"

type ShipmentStatus string

const (
	StatusCreated        ShipmentStatus = "created"
	StatusAwaitingPickup ShipmentStatus = "awaiting_pickup"
	StatusPickedUp       ShipmentStatus = "picked_up"
	StatusInTransit      ShipmentStatus = "in_transit"
	StatusDelivered      ShipmentStatus = "delivered"
	StatusCancelled      ShipmentStatus = "cancelled"
)

// labels used by the operator portal before statuses were normalized
var legacyLabels = map[string]ShipmentStatus{
	"pedido criado":     StatusCreated,
	"aguardando coleta": StatusAwaitingPickup,
	"coletado":          StatusPickedUp,
	"em transito":       StatusInTransit,
	"em trânsito":       StatusInTransit,
	"entregue":          StatusDelivered,
	"cancelado":         StatusCancelled,
}

func (s ShipmentStatus) String() string {
	return string(s)
}

func (s ShipmentStatus) IsValid() bool {
	switch s {
	case StatusCreated, StatusAwaitingPickup, StatusPickedUp, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true when no further transition is allowed.
func (s ShipmentStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanBeUpdated returns true if the shipment still accepts status changes
func (s ShipmentStatus) CanBeUpdated() bool {
	return s.IsValid() && !s.IsTerminal()
}

// ParseShipmentStatus accepts canonical values and legacy labels.
func ParseShipmentStatus(raw string) (ShipmentStatus, bool) {
	v := strings.TrimSpace(raw)
	if s := ShipmentStatus(strings.ToLower(v)); s.IsValid() {
		return s, true
	}
	if s, ok := legacyLabels[strings.ToLower(v)]; ok {
		return s, true
	}
	return "", false
}

func GetAllShipmentStatuses() []ShipmentStatus {
	return []ShipmentStatus{
		StatusCreated,
		StatusAwaitingPickup,
		StatusPickedUp,
		StatusInTransit,
		StatusDelivered,
		StatusCancelled,
	}
}
