package shipment

import "time"

// TrackingEvent is an append-only record of a status change.
type TrackingEvent struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ShipmentID uint           `gorm:"not null;index" json:"shipment_id"`
	NewStatus  ShipmentStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	OccurredAt time.Time      `gorm:"not null" json:"occurred_at"`
	Note       *string        `gorm:"type:text" json:"note,omitempty"`
	CreatedBy  string         `gorm:"type:varchar(255)" json:"created_by,omitempty"`

	Shipment *Shipment `gorm:"foreignKey:ShipmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (TrackingEvent) TableName() string {
	return "tracking_events"
}
