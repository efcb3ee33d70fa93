package shipment

import (
	"net/mail"
	"strings"
	"time"

	"freight-admin/apperrors"
	shipmentModel "freight-admin/models/shipment"
)

// CreateShipmentRequest is the intake payload.
type CreateShipmentRequest struct {
	ClientID           uint    `json:"client_id"`
	DriverID           *uint   `json:"driver_id"`
	VehicleID          *uint   `json:"vehicle_id"`
	RecipientEmail     *string `json:"recipient_email"`
	Description        string  `json:"description"`
	Origin             string  `json:"origin"`
	DestinationAddress string  `json:"destination_address"`
}

func (r *CreateShipmentRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	r.Origin = strings.TrimSpace(r.Origin)
	r.DestinationAddress = strings.TrimSpace(r.DestinationAddress)

	if r.ClientID == 0 {
		return apperrors.NewValidation("client_id", "is required")
	}
	if r.DestinationAddress == "" {
		return apperrors.NewValidation("destination_address", "is required")
	}
	if r.RecipientEmail != nil {
		email := strings.TrimSpace(*r.RecipientEmail)
		if email == "" {
			r.RecipientEmail = nil
		} else if _, err := mail.ParseAddress(email); err != nil {
			return apperrors.NewValidation("recipient_email", "is not a valid email address")
		} else {
			r.RecipientEmail = &email
		}
	}
	return nil
}

// UpdateStatusRequest asks for a status change.
type UpdateStatusRequest struct {
	Status             string     `json:"status"`
	ProofOfDeliveryURL string     `json:"proof_of_delivery_url"`
	DeliveredAt        *time.Time `json:"delivered_at"`
	Note               string     `json:"note"`
}

// Target parses the requested status.
func (r UpdateStatusRequest) Target() (shipmentModel.ShipmentStatus, error) {
	if strings.TrimSpace(r.Status) == "" {
		return "", apperrors.NewValidation("status", "is required")
	}
	s, ok := shipmentModel.ParseShipmentStatus(r.Status)
	if !ok {
		return "", apperrors.NewValidation("status", "unknown status "+r.Status)
	}
	return s, nil
}

// StatusChange is handed to listeners after a status was persisted.
type StatusChange struct {
	Shipment *shipmentModel.Shipment
	Event    *shipmentModel.TrackingEvent
	Previous shipmentModel.ShipmentStatus
	Notify   bool
	Actor    string
}

// ShipmentDetail is a shipment with the statuses it may move to next.
type ShipmentDetail struct {
	*shipmentModel.Shipment
	AllowedNext []shipmentModel.ShipmentStatus `json:"allowed_next"`
}

// TrackingResponse is the public view of a shipment and its history.
type TrackingResponse struct {
	Shipment *shipmentModel.Shipment       `json:"shipment"`
	History  []shipmentModel.TrackingEvent `json:"history"`
}
