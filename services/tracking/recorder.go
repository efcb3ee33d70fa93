package tracking

import (
	"context"
	"fmt"
	"time"

	"freight-admin/apperrors"
	"freight-admin/models/shipment"

	"gorm.io/gorm"
)

// Recorder appends and reads the tracking history of shipments.
// Rows are never updated or deleted through it.
type Recorder struct {
	DB *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{DB: db}
}

// AppendInput describes one status change to record.
type AppendInput struct {
	ShipmentID uint
	Status     shipment.ShipmentStatus
	OccurredAt time.Time
	Note       string
	CreatedBy  string
}

// Append inserts exactly one event.
func (r *Recorder) Append(ctx context.Context, in AppendInput) (*shipment.TrackingEvent, error) {
	ev := shipment.TrackingEvent{
		ShipmentID: in.ShipmentID,
		NewStatus:  in.Status,
		OccurredAt: in.OccurredAt.UTC(),
		CreatedBy:  in.CreatedBy,
	}
	if in.Note != "" {
		note := in.Note
		ev.Note = &note
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	if err := r.DB.WithContext(ctx).Create(&ev).Error; err != nil {
		return nil, apperrors.Upstream("tracking history", fmt.Errorf("append event for shipment %d: %w", in.ShipmentID, err))
	}
	return &ev, nil
}

// History returns the events of a shipment, oldest first.
func (r *Recorder) History(ctx context.Context, shipmentID uint) ([]shipment.TrackingEvent, error) {
	var events []shipment.TrackingEvent
	err := r.DB.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("occurred_at ASC").
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, apperrors.Upstream("tracking history", fmt.Errorf("read history for shipment %d: %w", shipmentID, err))
	}
	return events, nil
}
