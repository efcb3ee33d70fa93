package shipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseShipmentStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ShipmentStatus
		ok   bool
	}{
		{"in_transit", StatusInTransit, true},
		{" DELIVERED ", StatusDelivered, true},
		{"Aguardando Coleta", StatusAwaitingPickup, true},
		{"Em Transito", StatusInTransit, true},
		{"Entregue", StatusDelivered, true},
		{"Cancelado", StatusCancelled, true},
		{"lost", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseShipmentStatus(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range GetAllShipmentStatuses() {
		terminal := s == StatusDelivered || s == StatusCancelled
		assert.Equal(t, terminal, s.IsTerminal(), s.String())
		assert.Equal(t, !terminal, s.CanBeUpdated(), s.String())
	}
}
