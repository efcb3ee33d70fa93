package shipment

import (
	"time"
)

// Shipment is a parcel moving through the freight lifecycle.
type Shipment struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TrackingCode string         `gorm:"type:varchar(12);not null;unique" json:"tracking_code"`
	Status       ShipmentStatus `gorm:"type:varchar(20);not null;default:created" json:"status"`

	ClientID       uint    `gorm:"not null;index" json:"client_id"`
	DriverID       *uint   `gorm:"index" json:"driver_id,omitempty"`
	VehicleID      *uint   `json:"vehicle_id,omitempty"`
	RecipientEmail *string `gorm:"type:varchar(255)" json:"recipient_email,omitempty"`

	Description        string `gorm:"type:text" json:"description"`
	Origin             string `gorm:"type:text" json:"origin"`
	DestinationAddress string `gorm:"type:text" json:"destination_address"`

	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	ProofOfDeliveryURL *string    `gorm:"type:text" json:"proof_of_delivery_url,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	PostedAt  time.Time `gorm:"autoCreateTime" json:"posted_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Shipment) TableName() string {
	return "shipments"
}
